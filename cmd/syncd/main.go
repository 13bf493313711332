// Package main is the entry point for the reservation sync service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flatcolina/sincbook/internal/api"
	"github.com/flatcolina/sincbook/internal/calendar"
	"github.com/flatcolina/sincbook/internal/config"
	"github.com/flatcolina/sincbook/internal/logger"
	"github.com/flatcolina/sincbook/internal/storage"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	healthCheck := flag.Bool("health-check", false, "Probe a running scheduled instance and exit")
	flag.Parse()

	l := slog.New(logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil)))
	slog.SetDefault(l)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}

	// Health check mode for container HEALTHCHECK directives.
	if *healthCheck {
		if err := runHealthCheck(cfg.ListenAddr); err != nil {
			slog.Error("health check failed", "error", err)
			os.Exit(1)
		}
		return
	}

	slog.Info("starting reservation sync", "version", version, "project", cfg.ProjectID, "origin", cfg.Origin)

	client, err := storage.NewClient(ctx, cfg.ProjectID, []byte(cfg.CredentialsJSON), cfg.CredentialsFile)
	if err != nil {
		slog.Error("connecting to document store", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	configRepo := storage.NewFeedConfigRepository(client, cfg.FeedConfigCollection)
	reservationRepo := storage.NewReservationRepository(client, cfg.ReservationCollection)
	syncService := calendar.NewSyncService(configRepo, reservationRepo, calendar.NewParser(cfg.FetchTimeout), cfg.Origin)

	// One-shot mode: run a single batch and exit. Per-feed failures are
	// already isolated inside the run; only an unreachable configuration
	// store makes the process exit non-zero.
	if cfg.Schedule == "" {
		if _, err := syncService.SyncAll(ctx); err != nil {
			slog.Error("sync run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	runScheduled(ctx, cfg, syncService)
}

// runScheduled runs the service as a daemon: an internal cron re-runs the
// batch, and a small HTTP surface exposes health, status, and a manual
// trigger.
func runScheduled(ctx context.Context, cfg *config.Config, syncService *calendar.SyncService) {
	scheduler := calendar.NewScheduler(syncService)
	if err := scheduler.Start(cfg.Schedule); err != nil {
		slog.Error("starting scheduler", "error", err)
		os.Exit(1)
	}

	// First pass immediately; the cron entry handles the cadence after.
	scheduler.TriggerSync()

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      api.NewRouter(scheduler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("status server listening", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("status server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
}

// runHealthCheck probes the status server of a running scheduled instance.
func runHealthCheck(addr string) error {
	url := "http://localhost" + addr + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
