package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/activity-ledger/internal/domain"
)

// ValidateEdit runs the checks of UpdateSegment without mutating anything.
// A nil result means the edit would be accepted; otherwise err.Error() is a
// description suitable for live editor feedback.
func (e *Engine) ValidateEdit(edit domain.SegmentEdit, now time.Time) error {
	self := e.indexOf(edit.ID)
	if self < 0 {
		return fmt.Errorf("segment %s: %w", edit.ID, domain.ErrNotFound)
	}
	if _, ok := e.tagByID(edit.TagID); !ok {
		return fmt.Errorf("tag %s: %w", edit.TagID, domain.ErrNotFound)
	}
	if edit.End != nil && !edit.Start.Before(*edit.End) {
		return fmt.Errorf("%w: start must be before end", domain.ErrInvalidRange)
	}
	if edit.End == nil && edit.Start.After(now) {
		return fmt.Errorf("%w: an active segment cannot start in the future", domain.ErrInvalidRange)
	}

	end := edit.End
	if end == nil {
		end = &now
	}
	for i, other := range e.segments {
		if i == self {
			continue
		}
		otherEnd := other.EffectiveEnd(now)
		if edit.End == nil && other.Active() {
			// The other active segment will be closed at edit.Start.
			if !other.Start.Before(edit.Start) {
				return overlapError(other)
			}
			otherEnd = edit.Start
		}
		if overlaps(edit.Start, *end, other.Start, otherEnd) {
			return overlapError(other)
		}
	}
	return nil
}

// UpdateSegment replaces a segment's tag, start, end and note after
// validation. Making the segment active closes any other active segment at
// the edited segment's start.
func (e *Engine) UpdateSegment(edit domain.SegmentEdit, now time.Time) (domain.Segment, error) {
	if err := e.ValidateEdit(edit, now); err != nil {
		return domain.Segment{}, err
	}

	self := e.indexOf(edit.ID)
	if edit.End == nil {
		for i := range e.segments {
			if i != self && e.segments[i].Active() {
				e.segments[i].End = domain.TimePtr(edit.Start)
				e.touch(i)
			}
		}
	}

	s := &e.segments[self]
	s.TagID = edit.TagID
	s.Start = edit.Start
	s.End = nil
	if edit.End != nil {
		s.End = domain.TimePtr(*edit.End)
	}
	s.Note = edit.Note
	e.touch(self)
	e.commit()
	return cloneSegment(e.segments[self]), nil
}

// DeleteSegment removes a segment. Deleting the active segment opens a new
// active idle segment at now so the ledger always has one running.
func (e *Engine) DeleteSegment(id uuid.UUID, now time.Time) error {
	i := e.indexOf(id)
	if i < 0 {
		return fmt.Errorf("segment %s: %w", id, domain.ErrNotFound)
	}
	removed := e.removeAt(i)
	if removed.Active() {
		idle, _ := e.ensureIdleTag()
		e.insert(e.newSegment(idle.ID, now, nil, ""))
	}
	e.commit()
	return nil
}

// SplitSegment replaces a segment with [start, at) tagged beforeTagID and
// [at, end) tagged afterTagID. The second half stays active if the original
// was. Both halves keep the original note.
//
// at must fall strictly inside the segment at minute resolution, using now as
// the end of an active segment; otherwise domain.ErrInvalidSplit.
func (e *Engine) SplitSegment(id uuid.UUID, at time.Time, beforeTagID, afterTagID uuid.UUID, now time.Time) ([2]domain.Segment, error) {
	var halves [2]domain.Segment

	i := e.indexOf(id)
	if i < 0 {
		return halves, fmt.Errorf("segment %s: %w", id, domain.ErrNotFound)
	}
	for _, tagID := range []uuid.UUID{beforeTagID, afterTagID} {
		if _, ok := e.tagByID(tagID); !ok {
			return halves, fmt.Errorf("tag %s: %w", tagID, domain.ErrNotFound)
		}
	}

	s := e.segments[i]
	qa := quantize(at)
	if !quantize(s.Start).Before(qa) || !qa.Before(quantize(s.EffectiveEnd(now))) {
		return halves, fmt.Errorf("%w: %s is not inside the segment", domain.ErrInvalidSplit, at.Format(time.RFC3339))
	}

	e.removeAt(i)
	halves[0] = e.insert(e.newSegment(beforeTagID, s.Start, &at, s.Note))
	halves[1] = e.insert(e.newSegment(afterTagID, at, s.End, s.Note))
	e.commit()
	return halves, nil
}

func overlapError(other domain.Segment) error {
	return fmt.Errorf("%w: conflicts with segment %s starting %s",
		domain.ErrOverlap, other.ID, other.Start.Format(time.RFC3339))
}
