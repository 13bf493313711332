package calendar

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flatcolina/sincbook/internal/logger"
	"github.com/flatcolina/sincbook/internal/storage/models"
)

// ConfigSource loads the feed configurations a sync run operates on.
type ConfigSource interface {
	ListEnabled(ctx context.Context) ([]models.FeedConfig, error)
}

// ReservationStore is the durable store a sync run reads and writes.
type ReservationStore interface {
	Exists(ctx context.Context, propertyID, sourceCode, origin string) (bool, error)
	Upsert(ctx context.Context, res *models.Reservation) (created bool, err error)
}

// SyncService runs the fetch, parse, map, upsert pipeline for every
// configured feed of one origin.
type SyncService struct {
	configs ConfigSource
	store   ReservationStore
	parser  *Parser
	origin  string
}

// NewSyncService creates a new sync service. An empty origin defaults to
// booking.
func NewSyncService(configs ConfigSource, store ReservationStore, parser *Parser, origin string) *SyncService {
	if origin == "" {
		origin = models.OriginBooking
	}
	if parser == nil {
		parser = NewParser(DefaultFetchTimeout)
	}
	return &SyncService{
		configs: configs,
		store:   store,
		parser:  parser,
		origin:  origin,
	}
}

// SyncAll loads the feed configuration, filters it to the service's origin,
// and syncs each feed in list order. A fetch or parse failure on one feed is
// logged, contributes zero records, and never aborts the batch. Only a
// configuration load failure is returned as an error.
func (s *SyncService) SyncAll(ctx context.Context) (*models.SyncRun, error) {
	run := &models.SyncRun{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	ctx = logger.Ctx(ctx, slog.String("run_id", run.RunID))

	configs, err := s.configs.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}

	var feeds []models.FeedConfig
	for _, cfg := range configs {
		if cfg.Origin == s.origin {
			feeds = append(feeds, cfg)
		}
	}

	if len(feeds) == 0 {
		slog.InfoContext(ctx, "no feeds configured for origin", "origin", s.origin)
		run.FinishedAt = time.Now().UTC()
		return run, nil
	}

	slog.InfoContext(ctx, "starting sync run", "origin", s.origin, "feeds", len(feeds))

	for _, cfg := range feeds {
		run.Results = append(run.Results, s.SyncFeed(ctx, cfg))
	}

	run.FinishedAt = time.Now().UTC()
	slog.InfoContext(ctx, "sync run finished",
		"created", run.TotalCreated(),
		"updated", run.TotalUpdated(),
		"duration", run.FinishedAt.Sub(run.StartedAt).String(),
	)

	return run, nil
}

// SyncFeed syncs a single feed. Failures are captured in the result rather
// than returned; per-feed isolation is the caller's contract.
func (s *SyncService) SyncFeed(ctx context.Context, cfg models.FeedConfig) models.SyncResult {
	ctx = logger.Ctx(ctx, slog.String("property_id", cfg.PropertyID))

	result := models.SyncResult{
		PropertyID:    cfg.PropertyID,
		PropertyLabel: cfg.PropertyLabel,
		SyncedAt:      time.Now().UTC(),
	}

	events, err := s.parser.FetchAndParse(ctx, cfg.FeedURL)
	if err != nil {
		slog.ErrorContext(ctx, "feed sync failed", "url", cfg.FeedURL, "error", err)
		result.Error = err
		return result
	}
	result.EventsFound = len(events)

	for _, event := range events {
		created, updated, err := s.processEvent(ctx, cfg.PropertyID, event)
		if err != nil {
			slog.WarnContext(ctx, "skipping event", "uid", event.UID, "error", err)
			continue
		}
		switch {
		case created:
			result.Created++
		case updated:
			result.Updated++
		default:
			result.Skipped++
		}
	}

	slog.InfoContext(ctx, "feed synced",
		"events", result.EventsFound,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
	)

	return result
}

// processEvent maps one event and writes it unless it is already stored.
func (s *SyncService) processEvent(ctx context.Context, propertyID string, event models.CalendarEvent) (created, updated bool, err error) {
	res, err := MapEvent(event, propertyID, s.origin)
	if err != nil {
		return false, false, err
	}

	exists, err := s.store.Exists(ctx, res.PropertyID, res.SourceReservationCode, res.Origin)
	if err != nil {
		// Proceed as if the record were new: a redundant write attempt is
		// preferable to dropping a legitimate booking, and the deterministic
		// document key keeps the write idempotent regardless.
		slog.WarnContext(ctx, "duplicate check failed, writing anyway",
			"code", res.SourceReservationCode, "error", err)
		exists = false
	}
	if exists {
		return false, false, nil
	}

	created, err = s.store.Upsert(ctx, res)
	if err != nil {
		return false, false, err
	}

	return created, !created, nil
}
