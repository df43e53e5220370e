package ledger

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/activity-ledger/internal/domain"
)

// Tags returns all tags, hidden ones included, ordered by display order.
func (e *Engine) Tags() []domain.Tag {
	out := slices.Clone(e.tags)
	slices.SortStableFunc(out, func(a, b domain.Tag) int { return cmp.Compare(a.Order, b.Order) })
	return out
}

// Tag returns the tag with the given id.
func (e *Engine) Tag(id uuid.UUID) (domain.Tag, bool) {
	return e.tagByID(id)
}

// IdleTag returns the system tag, creating it if it is missing.
func (e *Engine) IdleTag() domain.Tag {
	t, created := e.ensureIdleTag()
	if created {
		e.commit()
	}
	return t
}

// TagForName resolves a tag by case-insensitive name, creating it when no tag
// matches. Blank names resolve to domain.FallbackTagName.
func (e *Engine) TagForName(name string) domain.Tag {
	t, created := e.tagForName(name)
	if created {
		e.commit()
	}
	return t
}

// CreateTag adds a visible tag. Creating a name that matches a hidden tag
// unhides that tag instead.
func (e *Engine) CreateTag(name string) (domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Tag{}, fmt.Errorf("%w: tag name is required", domain.ErrValidation)
	}
	if e.nameTakenByVisible(name, uuid.Nil) {
		return domain.Tag{}, fmt.Errorf("%w: tag %q already exists", domain.ErrValidation, name)
	}
	if i := e.tagIndexByName(name); i >= 0 {
		e.tags[i].Hidden = false
		e.pending.PutTag(e.tags[i])
		e.commit()
		return e.tags[i], nil
	}
	t := e.addTag(name, false)
	e.commit()
	return t, nil
}

// RenameTag changes a tag's display name. The idle tag cannot be renamed.
func (e *Engine) RenameTag(id uuid.UUID, name string) (domain.Tag, error) {
	i, err := e.editableTag(id)
	if err != nil {
		return domain.Tag{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Tag{}, fmt.Errorf("%w: tag name is required", domain.ErrValidation)
	}
	if e.nameTakenByVisible(name, id) {
		return domain.Tag{}, fmt.Errorf("%w: tag %q already exists", domain.ErrValidation, name)
	}

	e.tags[i].Name = name
	e.pending.PutTag(e.tags[i])
	for j := range e.segments {
		if e.segments[j].TagID == id {
			e.touch(j)
		}
	}
	e.commit()
	return e.tags[i], nil
}

// SetTagHidden hides or unhides a tag. The idle tag cannot be hidden.
func (e *Engine) SetTagHidden(id uuid.UUID, hidden bool) (domain.Tag, error) {
	i, err := e.editableTag(id)
	if err != nil {
		return domain.Tag{}, err
	}
	if e.tags[i].Hidden == hidden {
		return e.tags[i], nil
	}
	if !hidden && e.nameTakenByVisible(e.tags[i].Name, id) {
		return domain.Tag{}, fmt.Errorf("%w: tag %q already exists", domain.ErrValidation, e.tags[i].Name)
	}
	e.tags[i].Hidden = hidden
	e.pending.PutTag(e.tags[i])
	e.commit()
	return e.tags[i], nil
}

// DeleteTag removes a tag that no segment references. Referenced tags can
// only be hidden.
func (e *Engine) DeleteTag(id uuid.UUID) error {
	i, err := e.editableTag(id)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(e.segments, func(s domain.Segment) bool { return s.TagID == id }) {
		return fmt.Errorf("%w: tag %q is in use; hide it instead", domain.ErrValidation, e.tags[i].Name)
	}
	e.tags = slices.Delete(e.tags, i, i+1)
	e.pending.DeleteTag(id)
	e.commit()
	return nil
}

// ---- internal --------------------------------------------------------------

func (e *Engine) tagByID(id uuid.UUID) (domain.Tag, bool) {
	for _, t := range e.tags {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Tag{}, false
}

// tagIndexByName prefers a visible tag; hidden tags may share a visible name.
func (e *Engine) tagIndexByName(name string) int {
	if i := slices.IndexFunc(e.tags, func(t domain.Tag) bool {
		return !t.Hidden && strings.EqualFold(t.Name, name)
	}); i >= 0 {
		return i
	}
	return slices.IndexFunc(e.tags, func(t domain.Tag) bool { return strings.EqualFold(t.Name, name) })
}

func (e *Engine) nameTakenByVisible(name string, except uuid.UUID) bool {
	return slices.ContainsFunc(e.tags, func(t domain.Tag) bool {
		return t.ID != except && !t.Hidden && strings.EqualFold(t.Name, name)
	})
}

// editableTag returns the index of a non-system tag.
func (e *Engine) editableTag(id uuid.UUID) (int, error) {
	i := slices.IndexFunc(e.tags, func(t domain.Tag) bool { return t.ID == id })
	if i < 0 {
		return -1, fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
	}
	if e.tags[i].System {
		return -1, fmt.Errorf("%w: the %s tag cannot be changed", domain.ErrValidation, e.tags[i].Name)
	}
	return i, nil
}

func (e *Engine) nextOrder() int {
	next := 0
	for _, t := range e.tags {
		next = max(next, t.Order+1)
	}
	return next
}

func (e *Engine) addTag(name string, system bool) domain.Tag {
	t := domain.Tag{ID: e.newID(), Name: name, Order: e.nextOrder(), System: system}
	e.tags = append(e.tags, t)
	e.pending.PutTag(t)
	return t
}

func (e *Engine) hasSystemTag() bool {
	return slices.ContainsFunc(e.tags, func(t domain.Tag) bool { return t.System })
}

// ensureIdleTag returns the system tag, lazily creating it.
func (e *Engine) ensureIdleTag() (domain.Tag, bool) {
	for _, t := range e.tags {
		if t.System {
			return t, false
		}
	}
	if i := e.tagIndexByName(domain.IdleTagName); i >= 0 {
		// A user tag already took the reserved name; promote it.
		e.tags[i].System = true
		e.tags[i].Hidden = false
		e.pending.PutTag(e.tags[i])
		return e.tags[i], true
	}
	return e.addTag(domain.IdleTagName, true), true
}

func (e *Engine) tagForName(name string) (domain.Tag, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.FallbackTagName
	}
	if i := e.tagIndexByName(name); i >= 0 {
		return e.tags[i], false
	}
	system := strings.EqualFold(name, domain.IdleTagName) && !e.hasSystemTag()
	return e.addTag(name, system), true
}

func (e *Engine) seedDefaults() {
	e.addTag(domain.IdleTagName, true)
	for _, name := range domain.DefaultTagNames {
		e.addTag(name, false)
	}
}
