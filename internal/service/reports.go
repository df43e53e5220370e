package service

import (
	"time"

	"github.com/pkordes/activity-ledger/internal/domain"
	"github.com/pkordes/activity-ledger/internal/ledger"
)

// DaySummary returns per-tag totals for day, in tag display order.
// Tags with no tracked time are omitted.
func (l *Ledger) DaySummary(day time.Time) domain.DaySummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()

	totals := l.cache.TotalsByTag(day, now)
	sum := domain.DaySummary{
		Day:          ledger.DayKey(day, l.opts.Location),
		Totals:       []domain.TagTotal{},
		TrackedHours: domain.Hours(totals.Sum()),
		ActiveHours:  domain.Hours(l.cache.ActiveTime(day, now)),
		IdleHours:    domain.Hours(l.cache.IdleTime(day, now)),
	}
	for _, t := range l.engine.Tags() {
		d, ok := totals[t.ID]
		if !ok || d <= 0 {
			continue
		}
		sum.Totals = append(sum.Totals, domain.TagTotal{
			TagID:   t.ID,
			TagName: t.Name,
			Seconds: int64(d / time.Second),
			Hours:   domain.Hours(d),
		})
	}
	return sum
}

// WindowReport returns the trailing seven-day aggregates ending on anchor.
func (l *Ledger) WindowReport(anchor time.Time) domain.WindowReport {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()

	return domain.WindowReport{
		Anchor:           ledger.DayKey(anchor, l.opts.Location),
		ActiveHours:      domain.Hours(l.cache.ActiveTimeForWindow(anchor, now)),
		FocusedHours:     domain.Hours(l.cache.FocusedTimeForWindow(anchor, now)),
		MaintenanceHours: domain.Hours(l.cache.MaintenanceTimeForWindow(anchor, now)),
		IdleHours:        domain.Hours(l.cache.IdleTimeForWindow(anchor, now)),
		TrackedDays:      l.cache.TrackedDaysCount(anchor, now),
	}
}

// Export returns one row per segment starting on a day in [from, to],
// both inclusive, ordered by start.
func (l *Ledger) Export(from, to time.Time) []domain.ExportRow {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ExportRows(l.engine.Segments(), from, ledger.AddDays(to, 1), l.clock.Now(), l.opts.Location)
}

// ExportRows flattens segs whose start falls in [from, until).
// Segments must already carry their tag name.
func ExportRows(segs []domain.Segment, from, until, now time.Time, loc *time.Location) []domain.ExportRow {
	rows := []domain.ExportRow{}
	for _, s := range segs {
		if s.Start.Before(from) || !s.Start.Before(until) {
			continue
		}
		rows = append(rows, domain.ExportRow{
			Day:       ledger.DayKey(s.Start, loc),
			SegmentID: s.ID.String(),
			TagName:   s.TagName,
			Start:     s.Start,
			End:       s.End,
			Seconds:   int64(s.Duration(now) / time.Second),
			Note:      s.Note,
		})
	}
	return rows
}
