package persist_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/activity-ledger/internal/domain"
	"github.com/pkordes/activity-ledger/internal/persist"
)

// ---- test doubles ------------------------------------------------------------

type mockApplier struct {
	mu      sync.Mutex
	err     error
	batches []domain.ChangeSet
}

func (m *mockApplier) Apply(_ context.Context, cs domain.ChangeSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, cs)
	return nil
}

func (m *mockApplier) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockApplier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}

var _ persist.Applier = (*mockApplier)(nil)

// pendingQueue stands in for the engine's change tracking.
type pendingQueue struct {
	mu sync.Mutex
	cs domain.ChangeSet
}

func newPendingQueue() *pendingQueue { return &pendingQueue{cs: domain.NewChangeSet()} }

func (q *pendingQueue) put(s domain.Segment) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cs.PutSegment(s)
}

func (q *pendingQueue) drain() domain.ChangeSet {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.cs
	q.cs = domain.NewChangeSet()
	return out
}

func newFlusher(store persist.Applier, q *pendingQueue, delay time.Duration) *persist.Flusher {
	return persist.New(store, q.drain, delay, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func segment() domain.Segment {
	return domain.Segment{ID: uuid.New(), TagID: uuid.New(), Start: time.Now()}
}

// ---- tests ---------------------------------------------------------------------

func TestFlusher_DebouncesBurstIntoOneWrite(t *testing.T) {
	store, q := &mockApplier{}, newPendingQueue()
	f := newFlusher(store, q, 30*time.Millisecond)

	for range 5 {
		q.put(segment())
		f.Schedule()
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return store.count() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, store.count())
	assert.Len(t, store.batches[0].Segments, 5)
}

func TestFlusher_FlushNowEmptyDoesNotWrite(t *testing.T) {
	store, q := &mockApplier{}, newPendingQueue()
	f := newFlusher(store, q, time.Hour)

	require.NoError(t, f.FlushNow(context.Background()))

	assert.Zero(t, store.count())
}

func TestFlusher_FailedBatchIsRetainedAndMerged(t *testing.T) {
	store, q := &mockApplier{}, newPendingQueue()
	f := newFlusher(store, q, time.Hour)
	ctx := context.Background()

	store.setErr(errors.New("connection refused"))
	first := segment()
	q.put(first)
	require.Error(t, f.FlushNow(ctx))
	assert.True(t, f.Pending())

	store.setErr(nil)
	second := segment()
	q.put(second)
	require.NoError(t, f.FlushNow(ctx))

	require.Equal(t, 1, store.count())
	assert.Contains(t, store.batches[0].Segments, first.ID)
	assert.Contains(t, store.batches[0].Segments, second.ID)
	assert.False(t, f.Pending())
}

func TestFlusher_CloseFlushesAndIgnoresLaterSchedules(t *testing.T) {
	store, q := &mockApplier{}, newPendingQueue()
	f := newFlusher(store, q, 10*time.Millisecond)

	q.put(segment())
	f.Schedule()
	require.NoError(t, f.Close(context.Background()))
	assert.Equal(t, 1, store.count())

	q.put(segment())
	f.Schedule()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 1, store.count(), "no timer runs after Close")
}
