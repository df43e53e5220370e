package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/pkordes/activity-ledger/internal/app"
	"github.com/pkordes/activity-ledger/internal/config"
	"github.com/pkordes/activity-ledger/internal/repo"
	"github.com/pkordes/activity-ledger/internal/service"
)

// closeTimeout bounds the final flush when a command exits.
const closeTimeout = 15 * time.Second

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operate the activity ledger database",
		Long: `ledgerctl works directly against the ledger database configured by
DATABASE_URL and the other server environment variables.

Do not run mutating commands while the API server is running: both
processes keep the ledger in memory and the last writer wins.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newMigrateCmd(),
		newImportCmd(),
		newRepairCmd(),
		newTotalsCmd(),
		newExportCmd(),
	)
	return root
}

// env is the state shared by commands that need the database.
type env struct {
	cfg  config.Config
	log  *slog.Logger
	pool *pgxpool.Pool
}

func openEnv(ctx context.Context, stderr io.Writer) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := app.NewLogger(stderr, cfg.LogLevel)
	pool, err := app.OpenPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, pool: pool}, nil
}

func (e *env) close() {
	e.pool.Close()
}

// ledger loads the service over the pool. The returned func flushes and
// stops it; callers defer it.
func (e *env) ledger(ctx context.Context) (*service.Ledger, *repo.Store, func() error, error) {
	l, store, err := app.OpenLedger(ctx, e.pool, app.Options(e.cfg, e.log))
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		return l.Close(ctx)
	}
	return l, store, closeFn, nil
}

// withEnv opens the environment for the duration of run.
func withEnv(cmd *cobra.Command, run func(ctx context.Context, e *env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := openEnv(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()
	return run(ctx, e)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// parseDay reads a YYYY-MM-DD flag value in loc. An empty value means fallback.
func parseDay(value string, loc *time.Location, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: want YYYY-MM-DD", value)
	}
	return d, nil
}
