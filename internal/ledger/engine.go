// Package ledger owns the authoritative collection of segments and tags.
// It enforces the ledger invariants (at most one active segment, no
// minute-level overlaps, closed segments bounded by midnight) and performs
// every mutation: switch, edit, split, delete, merge, rollover, undo and the
// launch-time repairs.
//
// An Engine is not safe for concurrent use. Callers serialize access through a
// single owner (see service.Ledger). Every operation takes the current instant
// as an argument; the engine never reads the wall clock itself.
package ledger

import (
	"cmp"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/activity-ledger/internal/domain"
)

// Engine is the in-memory ledger. Storage order of segments is insertion
// order; every read returns segments sorted by start.
type Engine struct {
	loc      *time.Location
	log      *slog.Logger
	newID    func() uuid.UUID
	tags     []domain.Tag
	segments []domain.Segment
	settings map[string]string

	version uint64
	pending domain.ChangeSet
	subs    []func(version uint64)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for repair operations.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithIDGenerator overrides uuid.New, mainly for tests.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(e *Engine) { e.newID = fn }
}

// New returns an empty engine whose calendar days are computed in loc.
func New(loc *time.Location, opts ...Option) *Engine {
	e := &Engine{
		loc:      loc,
		log:      slog.Default(),
		newID:    uuid.New,
		settings: map[string]string{},
		pending:  domain.NewChangeSet(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load replaces the engine's state with records read from storage.
// An empty tag set is seeded with the idle tag and domain.DefaultTagNames.
// Load counts as one mutation.
func (e *Engine) Load(tags []domain.Tag, segments []domain.Segment, settings map[string]string) {
	e.tags = slices.Clone(tags)
	e.segments = slices.Clone(segments)
	e.settings = make(map[string]string, len(settings))
	for k, v := range settings {
		e.settings[k] = v
	}
	e.pending = domain.NewChangeSet()

	if len(e.tags) == 0 {
		e.seedDefaults()
	}
	e.ensureIdleTag()
	e.commit()
}

// Location returns the time zone used for calendar-day computations.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Version increments exactly once per completed mutating call.
func (e *Engine) Version() uint64 {
	return e.version
}

// Subscribe registers fn to be called after every completed mutation with
// the new version.
func (e *Engine) Subscribe(fn func(version uint64)) {
	e.subs = append(e.subs, fn)
}

// DrainChanges returns every change made since the previous drain and resets
// the pending set.
func (e *Engine) DrainChanges() domain.ChangeSet {
	cs := e.pending
	e.pending = domain.NewChangeSet()
	return cs
}

// Segments returns a copy of all segments ordered by start, with each
// segment's cached tag name refreshed from its tag.
func (e *Engine) Segments() []domain.Segment {
	out := make([]domain.Segment, len(e.segments))
	for i, s := range e.segments {
		out[i] = e.withTagName(cloneSegment(s))
	}
	sortByStart(out)
	return out
}

// SegmentsForDay returns the segments that start on day's calendar date.
func (e *Engine) SegmentsForDay(day time.Time) []domain.Segment {
	from := StartOfDay(day, e.loc)
	to := AddDays(from, 1)
	var out []domain.Segment
	for _, s := range e.Segments() {
		if !s.Start.Before(from) && s.Start.Before(to) {
			out = append(out, s)
		}
	}
	return out
}

// Segment returns the segment with the given id.
func (e *Engine) Segment(id uuid.UUID) (domain.Segment, bool) {
	i := e.indexOf(id)
	if i < 0 {
		return domain.Segment{}, false
	}
	return e.withTagName(cloneSegment(e.segments[i])), true
}

// ActiveSegment returns the open-ended segment. If more than one exists
// (before the launch repair runs) the one with the latest start wins.
func (e *Engine) ActiveSegment() (domain.Segment, bool) {
	i := e.activeIndex()
	if i < 0 {
		return domain.Segment{}, false
	}
	return e.withTagName(cloneSegment(e.segments[i])), true
}

// Setting returns a persisted setting value, or "" if unset.
func (e *Engine) Setting(key string) string {
	return e.settings[key]
}

// SetSetting stores a setting value. It is a mutation.
func (e *Engine) SetSetting(key, value string) {
	e.putSetting(key, value)
	e.commit()
}

// ---- internal helpers ------------------------------------------------------

// commit finishes a mutating call: bump the version and notify subscribers.
func (e *Engine) commit() {
	e.version++
	for _, fn := range e.subs {
		fn(e.version)
	}
}

func (e *Engine) putSetting(key, value string) {
	e.settings[key] = value
	e.pending.PutSetting(key, value)
}

func (e *Engine) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(e.segments, func(s domain.Segment) bool { return s.ID == id })
}

func (e *Engine) activeIndex() int {
	best := -1
	for i, s := range e.segments {
		if s.End != nil {
			continue
		}
		if best < 0 || s.Start.After(e.segments[best].Start) {
			best = i
		}
	}
	return best
}

// insert appends s and records it for persistence.
func (e *Engine) insert(s domain.Segment) domain.Segment {
	s = e.withTagName(s)
	e.segments = append(e.segments, s)
	e.pending.PutSegment(cloneSegment(s))
	return s
}

// touch records the segment at i for persistence after an in-place change.
func (e *Engine) touch(i int) {
	e.segments[i] = e.withTagName(e.segments[i])
	e.pending.PutSegment(cloneSegment(e.segments[i]))
}

func (e *Engine) removeAt(i int) domain.Segment {
	s := e.segments[i]
	e.segments = slices.Delete(e.segments, i, i+1)
	e.pending.DeleteSegment(s.ID)
	return s
}

func (e *Engine) newSegment(tagID uuid.UUID, start time.Time, end *time.Time, note string) domain.Segment {
	s := domain.Segment{ID: e.newID(), TagID: tagID, Start: start, Note: note}
	if end != nil {
		s.End = domain.TimePtr(*end)
	}
	return s
}

// withTagName refreshes the denormalized name from the tag id.
func (e *Engine) withTagName(s domain.Segment) domain.Segment {
	if t, ok := e.tagByID(s.TagID); ok {
		s.TagName = t.Name
	}
	return s
}

func cloneSegment(s domain.Segment) domain.Segment {
	if s.End != nil {
		s.End = domain.TimePtr(*s.End)
	}
	return s
}

func sortByStart(segs []domain.Segment) {
	slices.SortStableFunc(segs, func(a, b domain.Segment) int {
		return cmp.Compare(a.Start.UnixNano(), b.Start.UnixNano())
	})
}
