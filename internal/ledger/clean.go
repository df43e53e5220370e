package ledger

import (
	"slices"
	"time"

	"github.com/pkordes/activity-ledger/internal/domain"
)

// NoiseThreshold is both the largest gap bridged between two same-tag
// segments and the length below which a closed segment counts as noise.
const NoiseThreshold = 60 * time.Second

// Clean returns the coalesced projection of segments. The input is not
// modified.
//
// Segments are walked in start order. A segment with the same tag as the
// previous result entry that starts within NoiseThreshold of that entry's
// effective end is merged into it. A closed segment shorter than
// NoiseThreshold is otherwise absorbed into a same-tag previous entry or
// dropped. Everything else is kept as its own entry. A merged entry keeps the
// id and note of its first segment and stays open-ended if any part was.
func Clean(segments []domain.Segment, now time.Time) []domain.Segment {
	sorted := make([]domain.Segment, len(segments))
	for i, s := range segments {
		sorted[i] = cloneSegment(s)
	}
	sortByStart(sorted)

	result := make([]domain.Segment, 0, len(sorted))
	for _, s := range sorted {
		n := len(result)
		if n > 0 && canMerge(result[n-1], s, now) {
			extend(&result[n-1], s)
			continue
		}
		if s.End != nil && s.End.Sub(s.Start) < NoiseThreshold {
			if n > 0 && result[n-1].TagID == s.TagID {
				extend(&result[n-1], s)
			}
			continue
		}
		result = append(result, s)
	}
	return result
}

func canMerge(last, next domain.Segment, now time.Time) bool {
	return last.TagID == next.TagID && next.Start.Sub(last.EffectiveEnd(now)) <= NoiseThreshold
}

// extend grows last to cover next. An open end on either side wins.
func extend(last *domain.Segment, next domain.Segment) {
	if last.End == nil || next.End == nil {
		last.End = nil
		return
	}
	if next.End.After(*last.End) {
		last.End = domain.TimePtr(*next.End)
	}
}

// MergeAdjacent persists the cleaned projection of day's segments: every
// segment starting on that day is removed and the coalesced set is stored in
// its place. It returns the stored set, ordered by start.
func (e *Engine) MergeAdjacent(day time.Time, now time.Time) []domain.Segment {
	members := e.SegmentsForDay(day)
	cleaned := Clean(members, now)
	if sameSegments(members, cleaned) {
		return cleaned
	}

	for _, s := range members {
		e.removeAt(e.indexOf(s.ID))
	}
	for i, s := range cleaned {
		cleaned[i] = e.insert(s)
	}
	e.commit()
	return cleaned
}

func sameSegments(a, b []domain.Segment) bool {
	return slices.EqualFunc(a, b, func(x, y domain.Segment) bool {
		if x.ID != y.ID || !x.Start.Equal(y.Start) || (x.End == nil) != (y.End == nil) {
			return false
		}
		return x.End == nil || x.End.Equal(*y.End)
	})
}
