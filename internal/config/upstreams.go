package config

// UpstreamConfig holds base URLs for every upstream collaborator.
type UpstreamConfig struct {
	LeaderboardURL string `env:"LEADERBOARD_BASE_URL" envDefault:"https://www.fangraphs.com/leaders-legacy.aspx"`
	TrackingURL    string `env:"TRACKING_BASE_URL" envDefault:"https://baseballsavant.mlb.com/leaderboard/statcast"`
	ScheduleURL    string `env:"SCHEDULE_BASE_URL" envDefault:"https://statsapi.mlb.com/api/v1/schedule"`
	DeepDiveURL    string `env:"DEEP_DIVE_BASE_URL" envDefault:"http://127.0.0.1:8017/api/deep-dive"`
}

// DiscoveryConfig controls summary endpoint discovery.
type DiscoveryConfig struct {
	BaseURL         string `env:"BIOLAB_API_BASE" envDefault:"http://127.0.0.1:8017/api/biolab"`
	SummaryTemplate string `env:"DEEP_DIVE_HITTER_SUMMARY_ROUTE" envDefault:"/hitters/{id}/summary"`
	SearchPath      string `env:"DEEP_DIVE_HITTER_SEARCH_ROUTE" envDefault:"/hitters/search"`
}

// FetchConfig tunes the resilient fetch client shared by all upstream calls.
type FetchConfig struct {
	MaxRetries       int      `env:"FETCH_MAX_RETRIES" envDefault:"2"`
	BackoffBase      Duration `env:"FETCH_BACKOFF_BASE" envDefault:"300ms"`
	BackoffMax       Duration `env:"FETCH_BACKOFF_MAX" envDefault:"5s"`
	Timeout          Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
	RequestsPerSec   float64  `env:"UPSTREAM_RPS" envDefault:"5"`
	Burst            int      `env:"UPSTREAM_BURST" envDefault:"4"`
	BreakerFailures  uint32   `env:"BREAKER_FAILURES" envDefault:"5"`
	BreakerTimeout   Duration `env:"BREAKER_TIMEOUT" envDefault:"30s"`
	BreakerHalfOpens uint32   `env:"BREAKER_HALF_OPEN_REQUESTS" envDefault:"1"`
}
