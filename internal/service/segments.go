package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/activity-ledger/internal/domain"
	"github.com/pkordes/activity-ledger/internal/ledger"
)

// SwitchResult is the outcome of a tag switch.
type SwitchResult struct {
	Active  domain.Segment `json:"active"`
	CanUndo bool           `json:"can_undo"`
}

// Switch makes tagID the running tag. A switch that closes a previous segment
// fills the undo slot; any other mutation invalidates it.
func (l *Ledger) Switch(tagID uuid.UUID) (SwitchResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tok, err := l.engine.SwitchTag(tagID, l.clock.Now())
	if err != nil {
		return SwitchResult{}, fmt.Errorf("service.Ledger.Switch: %w", err)
	}
	if tok != nil {
		l.undo = tok
	}
	active, _ := l.engine.ActiveSegment()
	return SwitchResult{Active: active, CanUndo: l.canUndo()}, nil
}

// Undo reverts the most recent switch. It fails with domain.ErrUndoExpired
// when there is nothing to undo or the ledger changed since.
func (l *Ledger) Undo() (domain.Segment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.undo == nil {
		return domain.Segment{}, fmt.Errorf("service.Ledger.Undo: %w", domain.ErrUndoExpired)
	}
	tok := *l.undo
	l.undo = nil
	if err := l.engine.UndoLastSwitch(tok); err != nil {
		return domain.Segment{}, fmt.Errorf("service.Ledger.Undo: %w", err)
	}
	restored, _ := l.engine.Segment(tok.RestoredSegmentID)
	return restored, nil
}

// CanUndo reports whether Undo would succeed.
func (l *Ledger) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.canUndo()
}

func (l *Ledger) canUndo() bool {
	return l.undo != nil && l.undo.Version == l.engine.Version()
}

// Active returns the running segment, if any.
func (l *Ledger) Active() (domain.Segment, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.ActiveSegment()
}

// Segment returns one segment by id.
func (l *Ledger) Segment(id uuid.UUID) (domain.Segment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.engine.Segment(id)
	if !ok {
		return domain.Segment{}, fmt.Errorf("service.Ledger.Segment: %w", domain.ErrNotFound)
	}
	return s, nil
}

// SegmentsForDay returns the segments starting on day, ordered by start.
func (l *Ledger) SegmentsForDay(day time.Time) []domain.Segment {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.SegmentsForDay(day)
}

// History returns segments newest first, one page at a time.
func (l *Ledger) History(p domain.PaginationParams) domain.Page[domain.Segment] {
	l.mu.Lock()
	segs := l.engine.Segments()
	l.mu.Unlock()

	n := len(segs)
	lo, hi := p.Window(n)
	items := make([]domain.Segment, 0, hi-lo)
	for i := lo; i < hi; i++ {
		items = append(items, segs[n-1-i])
	}
	return domain.Page[domain.Segment]{Items: items, Total: n}
}

// ValidateEdit checks edit without applying it.
func (l *Ledger) ValidateEdit(edit domain.SegmentEdit) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.engine.ValidateEdit(edit, l.clock.Now()); err != nil {
		return fmt.Errorf("service.Ledger.ValidateEdit: %w", err)
	}
	return nil
}

// UpdateSegment validates and applies edit.
func (l *Ledger) UpdateSegment(edit domain.SegmentEdit) (domain.Segment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, err := l.engine.UpdateSegment(edit, l.clock.Now())
	if err != nil {
		return domain.Segment{}, fmt.Errorf("service.Ledger.UpdateSegment: %w", err)
	}
	return s, nil
}

// DeleteSegment removes a segment. Deleting the running segment starts idle.
func (l *Ledger) DeleteSegment(id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.engine.DeleteSegment(id, l.clock.Now()); err != nil {
		return fmt.Errorf("service.Ledger.DeleteSegment: %w", err)
	}
	return nil
}

// SplitSegment cuts a segment in two at the given instant.
func (l *Ledger) SplitSegment(id uuid.UUID, at time.Time, beforeTagID, afterTagID uuid.UUID) ([2]domain.Segment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	halves, err := l.engine.SplitSegment(id, at, beforeTagID, afterTagID, l.clock.Now())
	if err != nil {
		return [2]domain.Segment{}, fmt.Errorf("service.Ledger.SplitSegment: %w", err)
	}
	return halves, nil
}

// MergeDay coalesces same-tag neighbours and noise on day.
func (l *Ledger) MergeDay(day time.Time) []domain.Segment {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.MergeAdjacent(day, l.clock.Now())
}

// Repair runs the invariant repairs on demand and reports what changed.
func (l *Ledger) Repair() LaunchReport {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()
	return LaunchReport{
		RunningRepaired: l.engine.EnsureSingleRunningSegment(now),
		RolledOver:      l.engine.CheckDayRollover(l.opts.RolloverContinueTag, now),
		Normalized:      l.engine.NormalizeSegmentsAcrossMidnight(),
	}
}

// Today returns the start of the current calendar day.
func (l *Ledger) Today() time.Time {
	return ledger.StartOfDay(l.clock.Now(), l.opts.Location)
}
