package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/flatcolina/sincbook/internal/storage/models"
)

// Scheduler re-runs the whole sync batch on a cron schedule and keeps the
// most recent run's summary for the status endpoint. It schedules the batch
// as a single job; individual feeds are never scheduled separately.
type Scheduler struct {
	cron    *cron.Cron
	service *SyncService

	mu      sync.RWMutex
	lastRun *models.SyncRun
	lastErr error
}

// NewScheduler creates a scheduler around the given sync service.
func NewScheduler(syncService *SyncService) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		service: syncService,
	}
}

// Start registers the sync job under the given cron spec (either a
// five-field expression or an interval like "@every 15m") and starts the
// scheduler.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return fmt.Errorf("scheduling sync job: %w", err)
	}

	s.cron.Start()
	slog.Info("sync scheduler started", "spec", spec)
	return nil
}

// Stop gracefully shuts down the scheduler, waiting for a running job to
// finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("sync scheduler stopped")
}

// TriggerSync runs a sync pass in the background, outside the schedule.
func (s *Scheduler) TriggerSync() {
	go s.runOnce()
}

// RunNow runs a sync pass synchronously and records its outcome.
func (s *Scheduler) RunNow(ctx context.Context) (*models.SyncRun, error) {
	run, err := s.service.SyncAll(ctx)

	s.mu.Lock()
	s.lastRun, s.lastErr = run, err
	s.mu.Unlock()

	return run, err
}

func (s *Scheduler) runOnce() {
	if _, err := s.RunNow(context.Background()); err != nil {
		slog.Error("scheduled sync failed", "error", err)
	}
}

// LastRun returns the most recent run summary and its error, if any run has
// happened yet.
func (s *Scheduler) LastRun() (*models.SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun, s.lastErr
}
