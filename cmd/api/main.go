// Package main is the entry point for the activity ledger API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/activity-ledger/internal/app"
	"github.com/pkordes/activity-ledger/internal/clock"
	"github.com/pkordes/activity-ledger/internal/config"
	"github.com/pkordes/activity-ledger/internal/handler"
	"github.com/pkordes/activity-ledger/internal/middleware"
)

// maxBodyBytes bounds every request body. Segment and tag payloads are tiny.
const maxBodyBytes = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := app.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	applied, err := app.Migrate(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied", "count", applied)

	pool, err := app.OpenPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	slog.Info("database connection established")

	// --- Ledger -----------------------------------------------------------
	ledger, _, err := app.OpenLedger(ctx, pool, app.Options(cfg, logger))
	if err != nil {
		slog.Error("failed to load ledger", "error", err)
		os.Exit(1)
	}
	if _, err := ledger.Launch(ctx); err != nil {
		// The batch is retained and retried on the next flush.
		slog.Warn("initial flush failed", "error", err)
	}

	tickCtx, stopTicks := context.WithCancel(ctx)
	defer stopTicks()
	go clock.Run(tickCtx, ledger, cfg.TickInterval, ledger.Tick)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID, RealIP, Logger, Recoverer,
	// CORS, body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	r.Mount("/", handler.NewServer(ledger, ledger.Now).Routes())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")
	stopTicks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	if err := ledger.Close(shutdownCtx); err != nil {
		slog.Error("final flush failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
