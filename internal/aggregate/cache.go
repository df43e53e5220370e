// Package aggregate derives per-day and trailing-window totals from the
// ledger. Results are memoized per calendar day and dropped whenever the
// ledger's version changes. Entries that include the running segment are
// also dropped on every tick, since their value depends on now.
//
// A Cache is not safe for concurrent use; it shares the ledger's owner.
package aggregate

import (
	"maps"
	"time"

	"github.com/pkordes/activity-ledger/internal/domain"
	"github.com/pkordes/activity-ledger/internal/ledger"
)

// Source is the read-only view of the ledger the cache derives from.
// *ledger.Engine satisfies it.
type Source interface {
	Version() uint64
	Segments() []domain.Segment
	Tags() []domain.Tag
	Location() *time.Location
}

type dayEntry struct {
	totals domain.DayTotals
	at     time.Time // now used for the computation
	live   bool      // the running segment can reach this day
}

// Cache memoizes totals per calendar day.
type Cache struct {
	src     Source
	cats    Categories
	version uint64
	days    map[string]dayEntry
}

// New returns a cache over src using cats for the focused and maintenance windows.
func New(src Source, cats Categories) *Cache {
	return &Cache{
		src:     src,
		cats:    cats,
		version: src.Version(),
		days:    map[string]dayEntry{},
	}
}

// Tick drops every entry whose value depends on the running segment and
// was computed at an instant other than now.
func (c *Cache) Tick(now time.Time) {
	for key, e := range c.days {
		if e.live && !e.at.Equal(now) {
			delete(c.days, key)
		}
	}
}

// Len reports the number of memoized days.
func (c *Cache) Len() int {
	c.sync()
	return len(c.days)
}

// TotalsByTag returns the tracked duration per tag on day's calendar date,
// computed over the cleaned projection of the segments touching that day.
// Each segment is clamped to the day, and an active segment is measured up to now.
func (c *Cache) TotalsByTag(day, now time.Time) domain.DayTotals {
	c.sync()
	key := ledger.DayKey(day, c.src.Location())
	if e, ok := c.days[key]; ok && (!e.live || e.at.Equal(now)) {
		return maps.Clone(e.totals)
	}
	totals, live := c.compute(day, now)
	c.days[key] = dayEntry{totals: totals, at: now, live: live}
	return maps.Clone(totals)
}

// TotalTracked returns the sum of TotalsByTag.
func (c *Cache) TotalTracked(day, now time.Time) time.Duration {
	return c.TotalsByTag(day, now).Sum()
}

// IdleTime returns the time recorded under the idle tag on day.
func (c *Cache) IdleTime(day, now time.Time) time.Duration {
	totals := c.TotalsByTag(day, now)
	var d time.Duration
	for _, t := range c.src.Tags() {
		if t.System {
			d += totals[t.ID]
		}
	}
	return d
}

// ActiveTime returns tracked time excluding idle time on day.
func (c *Cache) ActiveTime(day, now time.Time) time.Duration {
	return c.TotalTracked(day, now) - c.IdleTime(day, now)
}

// FocusedTime returns the time spent on focused tags on day.
func (c *Cache) FocusedTime(day, now time.Time) time.Duration {
	return c.categoryTime(day, now, c.cats.Focused)
}

// MaintenanceTime returns the time spent on maintenance tags on day.
func (c *Cache) MaintenanceTime(day, now time.Time) time.Duration {
	return c.categoryTime(day, now, c.cats.Maintenance)
}

// sync clears every entry when the ledger has changed since the last read.
func (c *Cache) sync() {
	if v := c.src.Version(); v != c.version {
		clear(c.days)
		c.version = v
	}
}

func (c *Cache) compute(day, now time.Time) (domain.DayTotals, bool) {
	loc := c.src.Location()
	from := ledger.StartOfDay(day, loc)
	to := ledger.AddDays(from, 1)

	// A running segment that starts before the day ends can still grow into
	// it, so the entry depends on now even if the day is empty so far.
	live := false
	var candidates []domain.Segment
	for _, s := range c.src.Segments() {
		if s.Active() && s.Start.Before(to) {
			live = true
		}
		if s.Start.Before(to) && s.EffectiveEnd(now).After(from) {
			candidates = append(candidates, s)
		}
	}

	totals := domain.DayTotals{}
	for _, s := range ledger.Clean(candidates, now) {
		start, end := s.Start, s.EffectiveEnd(now)
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		if end.After(start) {
			totals[s.TagID] += end.Sub(start)
		}
	}
	return totals, live
}

func (c *Cache) categoryTime(day, now time.Time, names []string) time.Duration {
	totals := c.TotalsByTag(day, now)
	var d time.Duration
	for _, t := range c.src.Tags() {
		if containsFold(names, t.Name) {
			d += totals[t.ID]
		}
	}
	return d
}
