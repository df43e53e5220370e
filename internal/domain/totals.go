package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DayTotals maps a tag id to the tracked duration for that tag on one day.
type DayTotals map[uuid.UUID]time.Duration

// Sum returns the total duration across all tags.
func (t DayTotals) Sum() time.Duration {
	var total time.Duration
	for _, d := range t {
		total += d
	}
	return total
}

// Hours converts d into decimal hours rounded to two places.
func Hours(d time.Duration) decimal.Decimal {
	return decimal.NewFromFloat(d.Hours()).Round(2)
}

// TagTotal is the tracked time for one tag within a summary.
type TagTotal struct {
	TagID   uuid.UUID       `json:"tag_id"`
	TagName string          `json:"tag_name"`
	Seconds int64           `json:"seconds"`
	Hours   decimal.Decimal `json:"hours"`
}

// DaySummary is the read model for one calendar day.
// Totals are ordered by tag display order.
type DaySummary struct {
	Day          string          `json:"day"` // "2006-01-02"
	Totals       []TagTotal      `json:"totals"`
	TrackedHours decimal.Decimal `json:"tracked_hours"`
	ActiveHours  decimal.Decimal `json:"active_hours"`
	IdleHours    decimal.Decimal `json:"idle_hours"`
}

// WindowReport is the read model for the trailing 7 days ending on Anchor.
type WindowReport struct {
	Anchor           string          `json:"anchor"` // "2006-01-02"
	ActiveHours      decimal.Decimal `json:"active_hours"`
	FocusedHours     decimal.Decimal `json:"focused_hours"`
	MaintenanceHours decimal.Decimal `json:"maintenance_hours"`
	IdleHours        decimal.Decimal `json:"idle_hours"`
	TrackedDays      int             `json:"tracked_days"`
}
