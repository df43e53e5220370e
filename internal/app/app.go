// Package app holds the bootstrap steps shared by the API server and
// ledgerctl: logger construction, the database pool, migrations and the
// ledger service itself.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/pkordes/activity-ledger/internal/clock"
	"github.com/pkordes/activity-ledger/internal/config"
	"github.com/pkordes/activity-ledger/internal/repo"
	"github.com/pkordes/activity-ledger/internal/service"
	"github.com/pkordes/activity-ledger/migrations"
)

// NewLogger returns a JSON slog.Logger writing to w at the named level.
// Unknown levels fall back to info.
func NewLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// OpenPool creates a pgx pool and verifies the database is reachable.
func OpenPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("app.OpenPool: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("app.OpenPool: ping: %w", err)
	}
	return pool, nil
}

// Migrate applies every pending migration and returns how many ran.
func Migrate(ctx context.Context, dsn string) (int, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return 0, fmt.Errorf("app.Migrate: open: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return 0, fmt.Errorf("app.Migrate: create provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("app.Migrate: up: %w", err)
	}
	return len(results), nil
}

// Options maps the loaded configuration onto ledger options.
func Options(cfg config.Config, log *slog.Logger) service.Options {
	return service.Options{
		Location:            cfg.Location,
		Clock:               clock.System{},
		Categories:          cfg.Categories,
		RolloverContinueTag: cfg.RolloverContinueTag,
		LegacyImportPath:    cfg.LegacyImportPath,
		FlushDelay:          cfg.FlushDelay,
		Logger:              log,
	}
}

// OpenLedger loads the ledger from pool. The caller runs Launch.
func OpenLedger(ctx context.Context, pool *pgxpool.Pool, opts service.Options) (*service.Ledger, *repo.Store, error) {
	store := repo.NewStore(pool)
	l, err := service.NewLedger(ctx, store, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("app.OpenLedger: %w", err)
	}
	return l, store, nil
}
