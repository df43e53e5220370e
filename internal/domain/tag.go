package domain

import (
	"github.com/google/uuid"
)

// IdleTagName is the reserved name of the system tag that represents
// idle or untracked time.
const IdleTagName = "Idle"

// FallbackTagName is used when a tag is resolved from a blank name.
const FallbackTagName = "Untitled"

// Tag is a named activity category that segments are assigned to.
// Names are unique under case-insensitive comparison among visible tags.
//
// Hidden tags are kept for history but left out of quick-switch lists.
// Exactly one tag has System set: the idle tag, which cannot be renamed,
// hidden, or deleted.
type Tag struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Order  int       `json:"order"`
	Hidden bool      `json:"hidden"`
	System bool      `json:"system"`
}

// DefaultTagNames are seeded, after the idle tag, into an empty ledger.
var DefaultTagNames = []string{"Work", "Study", "Exercise", "Food", "Chores", "Break"}
