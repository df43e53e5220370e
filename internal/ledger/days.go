package ledger

import "time"

// Granularity is the resolution at which overlap and split checks compare
// instants. Stored timestamps keep full precision.
const Granularity = time.Minute

// StartOfDay returns midnight at the start of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// AddDays returns midnight n calendar days after the midnight day.
// Computing through time.Date keeps the result on midnight across DST changes.
func AddDays(day time.Time, n int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, day.Location())
}

// DayKey formats t's calendar day in loc as "2006-01-02".
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}

// ParseDay parses a "2006-01-02" key as midnight in loc.
func ParseDay(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, key, loc)
}

func quantize(t time.Time) time.Time {
	return t.Truncate(Granularity)
}

// overlaps is the half-open, minute-quantized intersection test.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return quantize(aStart).Before(quantize(bEnd)) && quantize(aEnd).After(quantize(bStart))
}

// spansMidnight reports whether a closed interval crosses into a later day.
// An end exactly on the next midnight still belongs to the start's day.
func spansMidnight(start, end time.Time, loc *time.Location) bool {
	return end.After(AddDays(StartOfDay(start, loc), 1))
}
