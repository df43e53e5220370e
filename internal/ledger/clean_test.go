package ledger_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/activity-ledger/internal/domain"
	"github.com/pkordes/activity-ledger/internal/ledger"
)

func TestClean_BridgesNoiseAndShortGaps(t *testing.T) {
	work := uuid.New()
	segs := []domain.Segment{
		closedSeg(work, at(9, 31, 0), at(10, 0, 0)),
		closedSeg(work, at(9, 0, 0), at(9, 30, 0)),
		closedSeg(work, at(9, 30, 0), at(9, 30, 45)),
	}

	got := ledger.Clean(segs, at(12, 0, 0))

	require.Len(t, got, 1)
	assert.Equal(t, at(9, 0, 0), got[0].Start)
	assert.Equal(t, at(10, 0, 0), *got[0].End)
	assert.Equal(t, segs[1].ID, got[0].ID, "merged entry keeps the first segment's id")
	assert.Equal(t, at(9, 30, 0), *segs[1].End, "input must not be modified")
}

func TestClean_DropsNoiseOfOtherTag(t *testing.T) {
	work, food := uuid.New(), uuid.New()
	segs := []domain.Segment{
		closedSeg(work, at(9, 0, 0), at(9, 30, 0)),
		closedSeg(food, at(9, 30, 0), at(9, 30, 20)),
		closedSeg(work, at(9, 30, 50), at(10, 0, 0)),
	}

	got := ledger.Clean(segs, at(12, 0, 0))

	require.Len(t, got, 1)
	assert.Equal(t, work, got[0].TagID)
	assert.Equal(t, at(10, 0, 0), *got[0].End)
}

func TestClean_KeepsOtherTagsAndLongGaps(t *testing.T) {
	work, food := uuid.New(), uuid.New()
	segs := []domain.Segment{
		closedSeg(work, at(9, 0, 0), at(9, 30, 0)),
		closedSeg(food, at(9, 30, 0), at(10, 0, 0)),
		closedSeg(work, at(10, 0, 0), at(10, 30, 0)),
		closedSeg(work, at(10, 32, 0), at(11, 0, 0)),
	}

	got := ledger.Clean(segs, at(12, 0, 0))

	require.Len(t, got, 4)
}

func TestClean_OpenEndWins(t *testing.T) {
	work := uuid.New()
	segs := []domain.Segment{
		closedSeg(work, at(9, 0, 0), at(9, 30, 0)),
		openSeg(work, at(9, 30, 30)),
	}

	got := ledger.Clean(segs, at(9, 30, 40))

	require.Len(t, got, 1)
	assert.True(t, got[0].Active(), "a merge with the running segment stays open-ended")
}

func TestClean_ShortActiveIsNotNoise(t *testing.T) {
	work, food := uuid.New(), uuid.New()
	segs := []domain.Segment{
		closedSeg(work, at(9, 0, 0), at(9, 30, 0)),
		openSeg(food, at(9, 30, 0)),
	}

	got := ledger.Clean(segs, at(9, 30, 10))

	require.Len(t, got, 2)
}

func TestMergeAdjacent_PersistsCoalescedDay(t *testing.T) {
	e := newEngine(t)
	work, food := tagID(t, e, "Work"), tagID(t, e, "Food")
	first := closedSeg(work, at(9, 0, 0), at(9, 30, 0))
	noise := closedSeg(food, at(9, 30, 0), at(9, 30, 20))
	second := closedSeg(work, at(9, 30, 50), at(10, 0, 0))
	tomorrow := closedSeg(work, day.AddDate(0, 0, 1).Add(9*time.Hour), day.AddDate(0, 0, 1).Add(10*time.Hour))
	withSegments(e, first, noise, second, tomorrow)

	got := e.MergeAdjacent(at(15, 0, 0), at(18, 0, 0))

	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Len(t, e.Segments(), 2, "other days are untouched")

	cs := e.DrainChanges()
	assert.Contains(t, cs.Segments, first.ID)
	assert.Contains(t, cs.DeletedSegments, noise.ID)
	assert.Contains(t, cs.DeletedSegments, second.ID)
	assert.NotContains(t, cs.DeletedSegments, first.ID)
}

func TestMergeAdjacent_NoChangeIsNotAMutation(t *testing.T) {
	e := newEngine(t)
	withSegments(e, closedSeg(tagID(t, e, "Work"), at(9, 0, 0), at(10, 0, 0)))
	v := e.Version()

	e.MergeAdjacent(day, at(12, 0, 0))

	assert.Equal(t, v, e.Version())
}

// Splitting a segment, deleting a short piece and merging the day again
// restores the original duration for that tag.
func TestSplitThenMerge_RoundTrip(t *testing.T) {
	e := newEngine(t)
	work, food := tagID(t, e, "Work"), tagID(t, e, "Food")
	s := closedSeg(work, at(9, 0, 0), at(10, 0, 0))
	withSegments(e, s)
	now := at(12, 0, 0)

	halves, err := e.SplitSegment(s.ID, at(9, 20, 10), work, food, now)
	require.NoError(t, err)
	halves2, err := e.SplitSegment(halves[1].ID, at(9, 21, 0), food, work, now)
	require.NoError(t, err)

	// Deleting the 50-second Food sliver leaves a gap the merge bridges.
	require.NoError(t, e.DeleteSegment(halves2[0].ID, now))
	merged := e.MergeAdjacent(day, now)

	require.Len(t, merged, 1)
	assert.Equal(t, time.Hour, merged[0].Duration(now))
	assertInvariants(t, e, now)
}
