package ledger

import (
	"slices"
	"time"

	"github.com/pkordes/activity-ledger/internal/domain"
)

// CheckDayRollover closes an active segment that started before today.
//
// With continueTag the segment is closed at the first midnight after its
// start, one filler segment of the same tag is added for every full day in
// between, and a new active segment for that tag opens at today's start.
// Without it the segment is closed at today's start and an idle segment
// opens there. It reports whether anything changed.
func (e *Engine) CheckDayRollover(continueTag bool, now time.Time) bool {
	i := e.activeIndex()
	if i < 0 {
		return false
	}
	today := StartOfDay(now, e.loc)
	active := e.segments[i]
	if !active.Start.Before(today) {
		return false
	}

	if continueTag {
		next := AddDays(StartOfDay(active.Start, e.loc), 1)
		e.segments[i].End = domain.TimePtr(minTime(next, today))
		e.touch(i)
		fillers := 0
		for d := next; d.Before(today); d = AddDays(d, 1) {
			end := AddDays(d, 1)
			e.insert(e.newSegment(active.TagID, d, &end, ""))
			fillers++
		}
		e.insert(e.newSegment(active.TagID, today, nil, ""))
		e.log.Info("ledger: day rollover", "segment_id", active.ID, "continue_tag", true, "fillers", fillers)
	} else {
		e.segments[i].End = domain.TimePtr(today)
		e.touch(i)
		idle, _ := e.ensureIdleTag()
		e.insert(e.newSegment(idle.ID, today, nil, ""))
		e.log.Info("ledger: day rollover", "segment_id", active.ID, "continue_tag", false)
	}
	e.commit()
	return true
}

// NormalizeSegmentsAcrossMidnight replaces every closed segment that crosses
// midnight with one segment per calendar day, each keeping the tag and note.
// It is idempotent and returns the number of segments replaced.
func (e *Engine) NormalizeSegmentsAcrossMidnight() int {
	n := e.normalize()
	if n > 0 {
		e.commit()
	}
	return n
}

// NormalizeDaily runs NormalizeSegmentsAcrossMidnight at most once per
// calendar day, remembering the last run in a persisted setting.
func (e *Engine) NormalizeDaily(now time.Time) bool {
	key := DayKey(now, e.loc)
	if e.settings[domain.SettingLastNormalizedDay] == key {
		return false
	}
	e.normalize()
	e.putSetting(domain.SettingLastNormalizedDay, key)
	e.commit()
	return true
}

func (e *Engine) normalize() int {
	var crossing []domain.Segment
	for _, s := range e.segments {
		if s.End != nil && spansMidnight(s.Start, *s.End, e.loc) {
			crossing = append(crossing, cloneSegment(s))
		}
	}
	for _, s := range crossing {
		e.removeAt(e.indexOf(s.ID))
		start := s.Start
		for {
			midnight := AddDays(StartOfDay(start, e.loc), 1)
			if !midnight.Before(*s.End) {
				break
			}
			e.insert(e.newSegment(s.TagID, start, &midnight, s.Note))
			start = midnight
		}
		e.insert(e.newSegment(s.TagID, start, s.End, s.Note))
	}
	if len(crossing) > 0 {
		e.log.Info("ledger: normalized segments across midnight", "count", len(crossing))
	}
	return len(crossing)
}

// EnsureSingleRunningSegment repairs the active-segment invariant at launch.
//
// If several segments are active, the one with the latest start is kept and
// the others are closed at that start; one sharing that start would become
// empty, so it is removed instead. If the survivor started before today
// it is closed at today's start and an idle segment opens there. If nothing
// is active an idle segment opens at now. It reports whether anything changed.
func (e *Engine) EnsureSingleRunningSegment(now time.Time) bool {
	var active []domain.Segment
	for _, s := range e.segments {
		if s.Active() {
			active = append(active, s)
		}
	}

	idle, changed := e.ensureIdleTag()
	if len(active) == 0 {
		e.insert(e.newSegment(idle.ID, now, nil, ""))
		e.log.Info("ledger: no active segment at launch; opened idle")
		e.commit()
		return true
	}

	latest := slices.MaxFunc(active, func(a, b domain.Segment) int { return a.Start.Compare(b.Start) })
	for _, s := range active {
		if s.ID == latest.ID {
			continue
		}
		i := e.indexOf(s.ID)
		if s.Start.Equal(latest.Start) {
			e.removeAt(i)
		} else {
			e.segments[i].End = domain.TimePtr(latest.Start)
			e.touch(i)
		}
		changed = true
	}
	if len(active) > 1 {
		e.log.Info("ledger: closed extra active segments at launch", "count", len(active)-1)
	}

	today := StartOfDay(now, e.loc)
	if latest.Start.Before(today) {
		i := e.indexOf(latest.ID)
		e.segments[i].End = domain.TimePtr(today)
		e.touch(i)
		e.insert(e.newSegment(idle.ID, today, nil, ""))
		e.log.Info("ledger: stale active segment closed at launch", "segment_id", latest.ID)
		changed = true
	}

	if changed {
		e.commit()
	}
	return changed
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
