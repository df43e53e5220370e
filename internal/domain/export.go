package domain

import "time"

// ExportRow is a single row in a segment export.
// It is a flat, denormalized view: one row per stored segment with the tag
// name resolved from the tag id. Active segments have a nil End and are
// measured up to the export instant.
type ExportRow struct {
	Day       string     `json:"day"` // "2006-01-02" of Start in the ledger's location
	SegmentID string     `json:"segment_id"`
	TagName   string     `json:"tag"`
	Start     time.Time  `json:"start"`
	End       *time.Time `json:"end,omitempty"`
	Seconds   int64      `json:"seconds"`
	Note      string     `json:"note,omitempty"`
}
