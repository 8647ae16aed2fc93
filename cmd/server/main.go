package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/parfold/parfold/internal/api"
	"github.com/parfold/parfold/internal/config"
	"github.com/parfold/parfold/internal/db"
	"github.com/parfold/parfold/internal/journal"
	"github.com/parfold/parfold/internal/metrics"
	"github.com/parfold/parfold/internal/provider"
	"github.com/parfold/parfold/internal/ratelimiter"
	"github.com/parfold/parfold/internal/service"
	"github.com/parfold/parfold/internal/sim"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	cfg := config.Load()

	// ---- journal: Postgres when configured, in-memory otherwise ----
	ctx := context.Background()
	var j journal.EventJournal
	journalBackend := "memory"
	if cfg.DatabaseURL != "" {
		pool, err := db.Open(ctx, cfg)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		logger.Info("database migrations applied")
		j = journal.NewPgJournal(pool)
		journalBackend = "postgres"
	} else {
		logger.Info("no DATABASE_URL configured, using in-memory journal")
		j = journal.NewMemJournal()
	}

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	limiter := ratelimiter.New(cfg.DeliveryRate)

	var prov provider.Provider = provider.NewNop()
	if cfg.WebhookURL != "" {
		prov = provider.NewWebhookProvider(cfg.WebhookURL, cfg.WebhookTimeout)
	}

	svc := service.NewAlertService(j, logger)

	// ---- simulation ----
	onFlush, onDelivered, onJournalError, onWebhookError := m.SimHooks()
	simulation := sim.New(cfg, j, limiter, prov, logger, sim.MetricHooks{
		OnFlush:        onFlush,
		OnDelivered:    onDelivered,
		OnJournalError: onJournalError,
		OnWebhookError: onWebhookError,
	})

	// Context for the tick loop; cancelled on shutdown signal.
	simCtx, cancelSim := context.WithCancel(ctx)
	defer cancelSim()

	simDone := make(chan struct{})
	go func() {
		defer close(simDone)
		simulation.Run(simCtx)
	}()

	// ---- HTTP server ----
	router := api.NewRouter(svc, simulation, reg, journalBackend, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. Stop the tick loop. A tick in flight finishes its flush and
	// delivery before Run returns; buffered-but-unflushed events from a
	// cancelled tick are discarded, never having been visible to readers.
	cancelSim()
	<-simDone

	logger.Info("server stopped cleanly")
}
