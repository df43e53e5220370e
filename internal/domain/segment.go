// Package domain contains the core data types for the activity ledger.
// This package depends only on uuid and decimal and is imported by every other internal
// package (ledger, aggregate, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Segment is one recorded interval of time assigned to a single tag.
// End is nil while the segment is active (still running).
//
// TagName is a denormalized copy of the tag's name kept for legacy rows.
// TagID is authoritative whenever it is set.
type Segment struct {
	ID      uuid.UUID  `json:"id"`
	TagID   uuid.UUID  `json:"tag_id"`
	TagName string     `json:"tag_name,omitempty"`
	Start   time.Time  `json:"start"`
	End     *time.Time `json:"end,omitempty"` // nil when the segment is active
	Note    string     `json:"note,omitempty"`
}

// Active reports whether the segment is open-ended.
func (s Segment) Active() bool {
	return s.End == nil
}

// EffectiveEnd returns the stored end, or now when the segment is active.
func (s Segment) EffectiveEnd(now time.Time) time.Time {
	if s.End == nil {
		return now
	}
	return *s.End
}

// Duration returns the length of the segment, measuring an active segment up to now.
// A segment whose effective end precedes its start has zero duration.
func (s Segment) Duration(now time.Time) time.Duration {
	d := s.EffectiveEnd(now).Sub(s.Start)
	if d < 0 {
		return 0
	}
	return d
}

// SegmentEdit carries the full replacement state for an existing segment.
// A nil End makes the segment active.
type SegmentEdit struct {
	ID    uuid.UUID
	TagID uuid.UUID
	Start time.Time
	End   *time.Time
	Note  string
}

// UndoToken is the minimal information needed to reverse one switch.
// Version is the ledger version right after the switch; any later mutation
// makes the token stale.
type UndoToken struct {
	RemovedSegmentID    uuid.UUID  `json:"removed_segment_id"`
	RestoredSegmentID   uuid.UUID  `json:"restored_segment_id"`
	RestoredPreviousEnd *time.Time `json:"restored_previous_end,omitempty"`
	Version             uint64     `json:"version"`
}

// LegacyRecord is one entry produced by the one-time legacy import.
type LegacyRecord struct {
	ID      string
	TagName string
	Start   time.Time
	End     *time.Time
	Note    string
}

// TimePtr returns a pointer to a copy of t.
func TimePtr(t time.Time) *time.Time {
	return &t
}
