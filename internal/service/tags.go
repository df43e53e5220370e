package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/activity-ledger/internal/domain"
)

// Tags returns tags in display order. Hidden tags are included only when asked.
func (l *Ledger) Tags(includeHidden bool) []domain.Tag {
	l.mu.Lock()
	defer l.mu.Unlock()
	all := l.engine.Tags()
	if includeHidden {
		return all
	}
	out := make([]domain.Tag, 0, len(all))
	for _, t := range all {
		if !t.Hidden {
			out = append(out, t)
		}
	}
	return out
}

// CreateTag adds a tag, or unhides a hidden tag with the same name.
func (l *Ledger) CreateTag(name string) (domain.Tag, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := l.engine.CreateTag(name)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.Ledger.CreateTag: %w", err)
	}
	return t, nil
}

// UpdateTag applies an optional rename and an optional hidden flag change.
func (l *Ledger) UpdateTag(id uuid.UUID, name *string, hidden *bool) (domain.Tag, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.engine.Tag(id)
	if !ok {
		return domain.Tag{}, fmt.Errorf("service.Ledger.UpdateTag: %w", domain.ErrNotFound)
	}
	var err error
	if name != nil && *name != t.Name {
		if t, err = l.engine.RenameTag(id, *name); err != nil {
			return domain.Tag{}, fmt.Errorf("service.Ledger.UpdateTag: %w", err)
		}
	}
	if hidden != nil && *hidden != t.Hidden {
		if t, err = l.engine.SetTagHidden(id, *hidden); err != nil {
			return domain.Tag{}, fmt.Errorf("service.Ledger.UpdateTag: %w", err)
		}
	}
	return t, nil
}

// DeleteTag removes an unreferenced, non-system tag.
func (l *Ledger) DeleteTag(id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.engine.DeleteTag(id); err != nil {
		return fmt.Errorf("service.Ledger.DeleteTag: %w", err)
	}
	return nil
}
