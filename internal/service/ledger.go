// Package service is the boundary between transports (HTTP, CLI) and the
// ledger engine. It owns the single lock that serializes every mutation,
// reads the clock, keeps the undo slot and schedules persistence.
// No SQL lives here; storage is reached through the Store interface.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkordes/activity-ledger/internal/aggregate"
	"github.com/pkordes/activity-ledger/internal/clock"
	"github.com/pkordes/activity-ledger/internal/domain"
	"github.com/pkordes/activity-ledger/internal/ledger"
	"github.com/pkordes/activity-ledger/internal/legacy"
	"github.com/pkordes/activity-ledger/internal/persist"
	"github.com/pkordes/activity-ledger/internal/repo"
)

// Store is the durable storage behind the ledger. *repo.Store satisfies it.
type Store interface {
	Load(ctx context.Context) (repo.Snapshot, error)
	Apply(ctx context.Context, cs domain.ChangeSet) error
}

// Options configures a Ledger.
type Options struct {
	Location            *time.Location
	Clock               clock.Clock
	Categories          aggregate.Categories
	RolloverContinueTag bool
	LegacyImportPath    string
	FlushDelay          time.Duration
	Logger              *slog.Logger
}

// LaunchReport summarizes the startup repairs.
type LaunchReport struct {
	RunningRepaired bool `json:"running_repaired"`
	RolledOver      bool `json:"rolled_over"`
	Normalized      int  `json:"normalized"`
	Imported        int  `json:"imported"`
}

// Ledger serializes all access to the engine and its aggregate cache.
type Ledger struct {
	mu      sync.Mutex
	engine  *ledger.Engine
	cache   *aggregate.Cache
	undo    *domain.UndoToken
	flusher *persist.Flusher

	clock clock.Clock
	opts  Options
	log   *slog.Logger
}

// NewLedger loads the persisted state from store and returns a ready Ledger.
// Every mutation is written back to store after opts.FlushDelay of quiet.
func NewLedger(ctx context.Context, store Store, opts Options) (*Ledger, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.NewLedger: %w", err)
	}

	l := &Ledger{
		engine: ledger.New(opts.Location, ledger.WithLogger(opts.Logger)),
		clock:  opts.Clock,
		opts:   opts,
		log:    opts.Logger,
	}
	l.engine.Load(snap.Tags, snap.Segments, snap.Settings)
	l.cache = aggregate.New(l.engine, opts.Categories)
	l.flusher = persist.New(store, l.drain, opts.FlushDelay, opts.Logger)
	l.engine.Subscribe(func(uint64) { l.flusher.Schedule() })
	return l, nil
}

func (l *Ledger) drain() domain.ChangeSet {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.DrainChanges()
}

// Location returns the zone calendar days are computed in.
func (l *Ledger) Location() *time.Location {
	return l.opts.Location
}

// Now returns the ledger clock's current instant.
func (l *Ledger) Now() time.Time {
	return l.clock.Now()
}

// Launch runs the startup repairs and the one-time legacy import, then
// writes the result immediately.
func (l *Ledger) Launch(ctx context.Context) (LaunchReport, error) {
	l.mu.Lock()
	now := l.clock.Now()
	var rep LaunchReport
	rep.RunningRepaired = l.engine.EnsureSingleRunningSegment(now)
	rep.RolledOver = l.engine.CheckDayRollover(l.opts.RolloverContinueTag, now)
	rep.Imported = legacy.ImportOnce(l.opts.LegacyImportPath, l.engine, l.log)
	rep.Normalized = l.engine.NormalizeSegmentsAcrossMidnight()
	l.engine.NormalizeDaily(now)
	if rep.Imported > 0 {
		// Imported history may contain overlapping or multiple running entries.
		rep.RunningRepaired = l.engine.EnsureSingleRunningSegment(now) || rep.RunningRepaired
	}
	l.mu.Unlock()

	l.log.Info("ledger launched",
		"running_repaired", rep.RunningRepaired,
		"rolled_over", rep.RolledOver,
		"normalized", rep.Normalized,
		"imported", rep.Imported,
	)
	if err := l.flusher.FlushNow(ctx); err != nil {
		return rep, fmt.Errorf("service.Ledger.Launch: %w", err)
	}
	return rep, nil
}

// Tick is called periodically with the current instant. It refreshes the
// running totals and applies the day rollover and daily normalization.
func (l *Ledger) Tick(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Tick(now)
	l.engine.CheckDayRollover(l.opts.RolloverContinueTag, now)
	l.engine.NormalizeDaily(now)
}

// Flush writes pending changes now.
func (l *Ledger) Flush(ctx context.Context) error {
	if err := l.flusher.FlushNow(ctx); err != nil {
		return fmt.Errorf("service.Ledger.Flush: %w", err)
	}
	return nil
}

// Close stops scheduled writes and flushes what is pending.
func (l *Ledger) Close(ctx context.Context) error {
	if err := l.flusher.Close(ctx); err != nil {
		return fmt.Errorf("service.Ledger.Close: %w", err)
	}
	return nil
}
