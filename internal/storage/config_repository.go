package storage

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/api/iterator"

	"github.com/flatcolina/sincbook/internal/storage/models"
)

// FeedConfigRepository provides read access to the feed configuration
// collection. Configuration is written by an administrative surface outside
// this service; sync runs only ever read it.
type FeedConfigRepository struct {
	BaseRepository
}

// NewFeedConfigRepository creates a new feed config repository.
func NewFeedConfigRepository(client *Client, collection string) *FeedConfigRepository {
	return &FeedConfigRepository{
		BaseRepository: NewBaseRepository(client, collection),
	}
}

// ListEnabled retrieves all active feed configurations in collection order.
// Entries missing a property ID or feed URL, and entries that fail to decode,
// are skipped with a warning rather than failing the load. A failure to read
// the collection itself returns a ConfigLoadError, which aborts the run.
func (r *FeedConfigRepository) ListEnabled(ctx context.Context) ([]models.FeedConfig, error) {
	iter := r.Collection().Documents(ctx)
	defer iter.Stop()

	var configs []models.FeedConfig
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, &ConfigLoadError{Collection: r.CollectionName(), Err: err}
		}

		var cfg models.FeedConfig
		if err := doc.DataTo(&cfg); err != nil {
			slog.Warn("skipping malformed feed config", "doc", doc.Ref.ID, "error", err)
			continue
		}
		if !cfg.Valid() {
			slog.Warn("skipping feed config without propertyId or feedUrl", "doc", doc.Ref.ID)
			continue
		}
		if cfg.Disabled {
			continue
		}

		configs = append(configs, cfg)
	}

	return configs, nil
}
