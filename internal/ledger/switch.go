package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/activity-ledger/internal/domain"
)

// SwitchTag closes the active segment at now and opens a new active segment
// for tagID. Switching to the tag that is already active is a no-op.
//
// The returned token reverses the switch via UndoLastSwitch. It is nil when
// nothing was closed (no active segment existed, or the call was a no-op).
func (e *Engine) SwitchTag(tagID uuid.UUID, now time.Time) (*domain.UndoToken, error) {
	tag, ok := e.tagByID(tagID)
	if !ok {
		return nil, fmt.Errorf("tag %s: %w", tagID, domain.ErrNotFound)
	}

	i := e.activeIndex()
	if i < 0 {
		e.insert(e.newSegment(tag.ID, now, nil, ""))
		e.commit()
		return nil, nil
	}

	active := e.segments[i]
	if active.TagID == tag.ID {
		return nil, nil
	}
	if !active.Start.Before(now) {
		return nil, fmt.Errorf("%w: switch at %s is not after the active segment's start", domain.ErrInvalidRange, now.Format(time.RFC3339))
	}

	previousEnd := active.End
	e.segments[i].End = domain.TimePtr(now)
	e.touch(i)
	created := e.insert(e.newSegment(tag.ID, now, nil, ""))
	e.commit()

	return &domain.UndoToken{
		RemovedSegmentID:    created.ID,
		RestoredSegmentID:   active.ID,
		RestoredPreviousEnd: previousEnd,
		Version:             e.version,
	}, nil
}

// UndoLastSwitch reverses the switch that produced token. It fails with
// domain.ErrUndoExpired if any mutation has happened since that switch.
func (e *Engine) UndoLastSwitch(token domain.UndoToken) error {
	if token.Version != e.version {
		return domain.ErrUndoExpired
	}
	removed := e.indexOf(token.RemovedSegmentID)
	if removed < 0 || e.indexOf(token.RestoredSegmentID) < 0 {
		return domain.ErrUndoExpired
	}

	e.removeAt(removed)
	restored := e.indexOf(token.RestoredSegmentID)
	e.segments[restored].End = nil
	if token.RestoredPreviousEnd != nil {
		e.segments[restored].End = domain.TimePtr(*token.RestoredPreviousEnd)
	}
	e.touch(restored)
	e.commit()
	return nil
}
