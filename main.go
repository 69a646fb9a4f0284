package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"taskflow/internal/config"
	"taskflow/internal/handlers"
	"taskflow/internal/scheduler"
	"taskflow/internal/service"
	"taskflow/internal/store"
	"taskflow/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("taskflow: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	shutdownTracing, err := telemetry.Setup(ctx, "taskflow", cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Printf("Failed to flush traces: %v", err)
		}
	}()

	// Initialize store
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if cfg.Seed {
		if err := seedStore(ctx, s); err != nil {
			return err
		}
	}

	svc := service.New(s)

	// Daily digest
	sched := scheduler.New(time.Local)
	if cfg.DigestSchedule != "" {
		id, err := sched.Schedule(cfg.DigestSchedule, scheduler.DigestJob(svc.Tasks.Digest, time.Minute))
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		log.Printf("Digest scheduled, next run at %s", sched.Next(id).Format(time.RFC3339))
	}

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	handlers.New(svc).Routes(r)

	// Start server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on http://localhost%s (store: %s)", srv.Addr, cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		// Ensure data directory exists
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		s, err := store.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize store: %w", err)
		}
		return s, nil
	default:
		var latency store.Latency = store.NoLatency{}
		if cfg.SimulateLatency {
			latency = store.DefaultSimulatedLatency()
		}
		return store.NewMemoryStore(store.WithLatency(latency)), nil
	}
}

// seedStore loads the fixtures unless the store already holds data.
func seedStore(ctx context.Context, s store.Store) error {
	fixtures, err := store.LoadFixtures()
	if err != nil {
		return err
	}
	err = s.Seed(ctx, fixtures)
	switch {
	case errors.Is(err, store.ErrNotEmpty):
		log.Printf("Store already has data, skipping seed")
		return nil
	case err != nil:
		return fmt.Errorf("failed to seed store: %w", err)
	}
	log.Printf("Seeded %d tasks, %d lists, %d categories", len(fixtures.Tasks), len(fixtures.Lists), len(fixtures.Categories))
	return nil
}
