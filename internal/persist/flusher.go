// Package persist writes ledger changes to durable storage in batches.
//
// Mutations are applied in memory first. Each one calls Schedule, and a
// single write of the accumulated ChangeSet happens once no further mutation
// arrives for the configured delay. A batch that fails to write is kept and
// merged into the next attempt.
package persist

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkordes/activity-ledger/internal/domain"
)

// Applier writes a ChangeSet atomically. *repo.Store satisfies it.
type Applier interface {
	Apply(ctx context.Context, cs domain.ChangeSet) error
}

// DrainFunc returns and clears the in-memory pending changes. It must do its
// own locking; the flusher calls it from the timer goroutine.
type DrainFunc func() domain.ChangeSet

// writeTimeout bounds a timer-triggered write.
const writeTimeout = 10 * time.Second

// Flusher debounces ChangeSet writes.
type Flusher struct {
	store Applier
	drain DrainFunc
	delay time.Duration
	log   *slog.Logger

	mu     sync.Mutex
	timer  *time.Timer
	closed bool

	// writeMu serialises writes and guards retained.
	writeMu  sync.Mutex
	retained domain.ChangeSet
}

// New returns a Flusher writing to store after delay of quiet.
func New(store Applier, drain DrainFunc, delay time.Duration, log *slog.Logger) *Flusher {
	if log == nil {
		log = slog.Default()
	}
	return &Flusher{
		store:    store,
		drain:    drain,
		delay:    delay,
		log:      log,
		retained: domain.NewChangeSet(),
	}
}

// Schedule (re)starts the debounce timer. Calls after Close are ignored.
func (f *Flusher) Schedule() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.delay, f.onTimer)
}

func (f *Flusher) onTimer() {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := f.FlushNow(ctx); err != nil {
		f.log.Error("persist: flush failed; batch retained", "error", err)
	}
}

// FlushNow drains pending changes and writes them together with any batch
// retained from a failed write. On failure the combined batch is retained.
func (f *Flusher) FlushNow(ctx context.Context) error {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.mu.Unlock()

	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	batch := f.retained
	batch.Merge(f.drain())
	f.retained = domain.NewChangeSet()
	if batch.Empty() {
		return nil
	}

	if err := f.store.Apply(ctx, batch); err != nil {
		f.retained = batch
		return fmt.Errorf("persist.Flusher.FlushNow: %w", err)
	}
	f.log.Debug("persist: flushed",
		"segments", len(batch.Segments),
		"deleted_segments", len(batch.DeletedSegments),
		"tags", len(batch.Tags),
		"deleted_tags", len(batch.DeletedTags),
		"settings", len(batch.Settings),
	)
	return nil
}

// Pending reports whether a failed batch is waiting to be retried.
func (f *Flusher) Pending() bool {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	return !f.retained.Empty()
}

// Close stops the timer and performs a final synchronous flush.
func (f *Flusher) Close(ctx context.Context) error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return f.FlushNow(ctx)
}
