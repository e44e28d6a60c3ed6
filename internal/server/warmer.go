package server

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/roster-stats-service/internal/app/roster"
	"github.com/preston-bernstein/roster-stats-service/internal/config"
	"github.com/preston-bernstein/roster-stats-service/internal/logging"
	"github.com/preston-bernstein/roster-stats-service/internal/metrics"
	"github.com/preston-bernstein/roster-stats-service/internal/poller"
	"github.com/preston-bernstein/roster-stats-service/internal/store"
)

// Warmer is the background roster refresher as seen by the server lifecycle.
type Warmer interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}

// newWarmer returns nil when warming is disabled so /ready reports ready unconditionally.
func newWarmer(cfg config.WarmerConfig, rosters *roster.Service, cache *store.RosterCache, logger *slog.Logger, recorder *metrics.Recorder) Warmer {
	if !cfg.Enabled {
		return nil
	}
	return poller.New(warmTarget{rosters: rosters, cache: cache, logger: logger}, logger, recorder, cfg.Interval)
}

// warmTarget drops expired cache entries before refreshing every roster.
type warmTarget struct {
	rosters *roster.Service
	cache   *store.RosterCache
	logger  *slog.Logger
}

func (w warmTarget) RefreshAll(ctx context.Context, season int) error {
	if removed := w.cache.Purge(); removed > 0 {
		logging.Info(w.logger, "purged expired rosters", logging.FieldCount, removed)
	}
	return w.rosters.RefreshAll(ctx, season)
}
