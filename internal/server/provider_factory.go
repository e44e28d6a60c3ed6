package server

import (
	"log/slog"

	"github.com/itbasis/go-clock"

	"github.com/preston-bernstein/roster-stats-service/internal/app/deepdive"
	"github.com/preston-bernstein/roster-stats-service/internal/app/discovery"
	"github.com/preston-bernstein/roster-stats-service/internal/app/gameday"
	"github.com/preston-bernstein/roster-stats-service/internal/config"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/players"
	"github.com/preston-bernstein/roster-stats-service/internal/metrics"
	"github.com/preston-bernstein/roster-stats-service/internal/providers"
	"github.com/preston-bernstein/roster-stats-service/internal/providers/fixture"
	"github.com/preston-bernstein/roster-stats-service/internal/providers/leaderboard"
	"github.com/preston-bernstein/roster-stats-service/internal/providers/schedule"
	"github.com/preston-bernstein/roster-stats-service/internal/providers/tracking"
)

const (
	upstreamLeaderboard = "leaderboard"
	upstreamTracking    = "tracking"
	upstreamSchedule    = "schedule"
	upstreamBiolab      = "biolab"
	upstreamDeepDive    = "deep-dive"
)

// components are the upstream-facing collaborators the app services run on.
type components struct {
	sources   []providers.RowSource
	schedule  gameday.Schedule
	summaries *discovery.Resolver
	deepDives *deepdive.Service
}

// providerFactory assembles upstream adapters, each behind its own resilient client.
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
	clock   clock.Clock
}

func newProviderFactory(logger *slog.Logger, recorder *metrics.Recorder, clk clock.Clock) providerFactory {
	if clk == nil {
		clk = clock.New()
	}
	return providerFactory{logger: logger, metrics: recorder, clock: clk}
}

func (f providerFactory) build(cfg config.Config) components {
	var comps components
	switch cfg.Provider {
	case config.ProviderFixture:
		comps.sources = []providers.RowSource{
			fixture.New(players.SourceLeaderboard),
			fixture.New(players.SourceTracking),
		}
		comps.schedule = fixture.NewSchedule()
	default:
		comps.sources = []providers.RowSource{
			leaderboard.NewClient(leaderboard.Config{
				BaseURL:    cfg.Upstreams.LeaderboardURL,
				HTTPClient: f.client(upstreamLeaderboard, cfg.Fetch),
			}, f.logger),
			tracking.NewClient(tracking.Config{
				BaseURL:     cfg.Upstreams.TrackingURL,
				HTTPClient:  f.client(upstreamTracking, cfg.Fetch),
				MinAttempts: cfg.Roster.MinTracked,
			}, f.logger),
		}
		comps.schedule = schedule.NewClient(schedule.Config{
			BaseURL:    cfg.Upstreams.ScheduleURL,
			HTTPClient: f.client(upstreamSchedule, cfg.Fetch),
		}, f.logger)
	}

	comps.summaries = discovery.NewResolver(discovery.Config{
		BaseURL:         cfg.Discovery.BaseURL,
		SummaryTemplate: cfg.Discovery.SummaryTemplate,
		SearchPath:      cfg.Discovery.SearchPath,
	}, f.client(upstreamBiolab, cfg.Fetch), f.logger, f.metrics)

	comps.deepDives = deepdive.NewService(deepdive.Config{
		BaseURL: cfg.Upstreams.DeepDiveURL,
		Retries: cfg.Fetch.MaxRetries,
	}, f.client(upstreamDeepDive, cfg.Fetch), f.clock, f.logger)

	return comps
}

func (f providerFactory) client(name string, cfg config.FetchConfig) *providers.Client {
	return providers.NewClient(providers.ClientConfig{
		Name:           name,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		BackoffBase:    cfg.BackoffBase,
		BackoffMax:     cfg.BackoffMax,
		RequestsPerSec: cfg.RequestsPerSec,
		Burst:          cfg.Burst,
		Breaker: providers.BreakerConfig{
			Failures:  cfg.BreakerFailures,
			Timeout:   cfg.BreakerTimeout,
			HalfOpens: cfg.BreakerHalfOpens,
		},
	}, f.logger, f.metrics)
}
