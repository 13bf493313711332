// Package config loads service configuration from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds everything the service reads from the environment. The
// credentials JSON blob takes precedence over the credentials file when both
// are set, matching how deployments inject the service account.
type Config struct {
	ProjectID       string `env:"FIREBASE_PROJECT_ID, required"`
	CredentialsJSON string `env:"FIREBASE_CREDENTIALS_JSON"`
	CredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE, default=firebase-credentials.json"`

	Origin                string `env:"SYNC_ORIGIN, default=booking"`
	FeedConfigCollection  string `env:"FEED_CONFIG_COLLECTION, default=feed_configs"`
	ReservationCollection string `env:"RESERVATION_COLLECTION, default=pre_reservations"`

	FetchTimeout time.Duration `env:"FETCH_TIMEOUT, default=10s"`

	// Schedule, when set (e.g. "@every 15m"), switches the service from a
	// one-shot batch into a long-lived daemon with an internal cron.
	Schedule   string `env:"SYNC_SCHEDULE"`
	ListenAddr string `env:"LISTEN_ADDR, default=:8099"`
}

// Load parses the configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
