package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port      string `env:"PORT" envDefault:"4000"`
	Provider  string `env:"PROVIDER" envDefault:"live"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	Roster    RosterConfig
	Upstreams UpstreamConfig
	Discovery DiscoveryConfig
	Fetch     FetchConfig
	Warmer    WarmerConfig
	Metrics   MetricsConfig
}

// RosterConfig controls aggregation caching.
type RosterConfig struct {
	TTL        Duration `env:"ROSTER_TTL" envDefault:"15m"`
	MinTracked int      `env:"TRACKING_MIN_ATTEMPTS" envDefault:"1"`
}

// WarmerConfig controls background roster refreshes.
type WarmerConfig struct {
	Enabled  bool     `env:"ROSTER_WARM_ENABLED" envDefault:"true"`
	Interval Duration `env:"ROSTER_WARM_INTERVAL" envDefault:"10m"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	positive := map[string]time.Duration{
		"ROSTER_TTL":           c.Roster.TTL,
		"ROSTER_WARM_INTERVAL": c.Warmer.Interval,
		"FETCH_BACKOFF_BASE":   c.Fetch.BackoffBase,
		"FETCH_BACKOFF_MAX":    c.Fetch.BackoffMax,
		"UPSTREAM_TIMEOUT":     c.Fetch.Timeout,
		"BREAKER_TIMEOUT":      c.Fetch.BreakerTimeout,
	}
	for key, val := range positive {
		if val <= 0 {
			return fmt.Errorf("%s must be positive, got %s", key, val)
		}
	}
	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("FETCH_MAX_RETRIES must not be negative, got %d", c.Fetch.MaxRetries)
	}
	switch c.Provider {
	case ProviderLive, ProviderFixture:
	default:
		return fmt.Errorf("unknown PROVIDER %q", c.Provider)
	}
	return nil
}
