package config

import "time"

// Duration wraps time.Duration for clearer type usage in Config.
type Duration = time.Duration

const (
	ProviderLive    = "live"
	ProviderFixture = "fixture"
)
