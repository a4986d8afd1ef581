// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/event-seat-booking/internal/cache"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/config"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/database"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/handler"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/logger"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/metrics"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/repository"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/service"
)

const healthTimeout = 2 * time.Second

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Open the booking store ─────────────────────────────────────────
	store, closeStore, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// ── 2. Optional occupancy cache ──────────────────────────────────────
	var occupancy service.OccupancyCache
	if cfg.Redis.CacheEnabled() {
		client := cache.NewClient(cfg.Redis)
		defer func() { _ = client.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, healthTimeout)
		err := cache.Ping(pingCtx, client)
		cancel()
		if err != nil {
			log.Warn("redis unavailable, occupancy cache disabled",
				zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			occupancy = cache.NewOccupancyCache(client, cfg.Redis.TTL)
			log.Info("occupancy cache enabled",
				zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
		}
	}

	// ── 3. Metrics registry ──────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// ── 4. Wire up layers ────────────────────────────────────────────────
	reservations := service.NewReservationService(store, occupancy, m, log)
	events := service.NewEventService(store, occupancy, log)
	health := service.NewHealthService(store, healthTimeout, log)
	h := handler.New(reservations, events, health, log)

	router := handler.NewRouter(h, handler.RouterOptions{
		Log:       log,
		Metrics:   m,
		Gatherer:  reg,
		RateLimit: cfg.RateLimit,
	})

	// ── 5. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// openStore returns the configured Store and a function that releases it.
func openStore(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (repository.Store, func(), error) {
	switch cfg.Driver {
	case "memory":
		store := repository.NewMemoryStore()
		e := store.AddEvent("Demo Concert", 10)
		log.Warn("using in-memory store; bookings are lost on exit",
			zap.Int64("demo_event_id", e.ID), zap.Int("total_seats", e.TotalSeats))
		return store, func() {}, nil

	case "postgres", "":
		pool, err := database.NewPool(ctx, cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("database: %w", err)
		}
		if err := database.Migrate(pool, log); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("database: %w", err)
		}
		return repository.NewPostgresStore(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q (want postgres or memory)", cfg.Driver)
	}
}
