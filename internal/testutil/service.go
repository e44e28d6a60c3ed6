package testutil

import (
	"github.com/itbasis/go-clock"

	"github.com/preston-bernstein/roster-stats-service/internal/app/roster"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
	"github.com/preston-bernstein/roster-stats-service/internal/providers"
	"github.com/preston-bernstein/roster-stats-service/internal/store"
)

// NewRosterService builds a roster service over the given sources with a fresh cache.
func NewRosterService(registry *teams.Registry, clk clock.Clock, sources ...providers.RowSource) *roster.Service {
	cache := store.NewRosterCache(store.DefaultRosterTTL, clk)
	agg := roster.NewAggregator(sources, clk, nil, nil)
	return roster.NewService(registry, agg, cache, nil, nil)
}
