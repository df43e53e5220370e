package aggregate

import (
	"time"

	"github.com/pkordes/activity-ledger/internal/ledger"
)

// WindowDays is the length of the trailing window, anchor day included.
const WindowDays = 7

// TrackedDayThreshold is the active time a day needs to count as tracked.
const TrackedDayThreshold = 30 * time.Minute

// ActiveTimeForWindow sums ActiveTime over the 7 days ending on anchor.
func (c *Cache) ActiveTimeForWindow(anchor, now time.Time) time.Duration {
	return c.fold(anchor, now, c.ActiveTime)
}

// FocusedTimeForWindow sums FocusedTime over the 7 days ending on anchor.
func (c *Cache) FocusedTimeForWindow(anchor, now time.Time) time.Duration {
	return c.fold(anchor, now, c.FocusedTime)
}

// MaintenanceTimeForWindow sums MaintenanceTime over the 7 days ending on anchor.
func (c *Cache) MaintenanceTimeForWindow(anchor, now time.Time) time.Duration {
	return c.fold(anchor, now, c.MaintenanceTime)
}

// IdleTimeForWindow sums IdleTime over the 7 days ending on anchor.
func (c *Cache) IdleTimeForWindow(anchor, now time.Time) time.Duration {
	return c.fold(anchor, now, c.IdleTime)
}

// TrackedDaysCount counts the days in the window whose active time reaches
// TrackedDayThreshold.
func (c *Cache) TrackedDaysCount(anchor, now time.Time) int {
	n := 0
	for _, day := range c.windowDays(anchor) {
		if c.ActiveTime(day, now) >= TrackedDayThreshold {
			n++
		}
	}
	return n
}

func (c *Cache) fold(anchor, now time.Time, perDay func(day, now time.Time) time.Duration) time.Duration {
	var total time.Duration
	for _, day := range c.windowDays(anchor) {
		total += perDay(day, now)
	}
	return total
}

// windowDays returns anchor's day and the 6 days before it.
func (c *Cache) windowDays(anchor time.Time) []time.Time {
	start := ledger.StartOfDay(anchor, c.src.Location())
	days := make([]time.Time, WindowDays)
	for i := range days {
		days[i] = ledger.AddDays(start, -i)
	}
	return days
}
