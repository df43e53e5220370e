package domain

import "errors"

// ErrNotFound is returned when the requested segment or tag does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a business rule that is not
// one of the interval errors below (e.g. blank tag name, renaming the idle tag).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidRange is returned when a segment's start is not before its end.
var ErrInvalidRange = errors.New("invalid range")

// ErrOverlap is returned when a candidate interval conflicts with another
// segment at minute resolution.
var ErrOverlap = errors.New("overlap")

// ErrInvalidSplit is returned when a split point is not strictly inside the segment.
var ErrInvalidSplit = errors.New("invalid split")

// ErrUndoExpired is returned when there is no pending undo, or the ledger has
// changed since the switch it would reverse.
// Handlers should map this to HTTP 409 Conflict.
var ErrUndoExpired = errors.New("undo expired")
