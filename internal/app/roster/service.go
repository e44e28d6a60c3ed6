package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/roster-stats-service/internal/domain/players"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
	"github.com/preston-bernstein/roster-stats-service/internal/logging"
	"github.com/preston-bernstein/roster-stats-service/internal/metrics"
	"github.com/preston-bernstein/roster-stats-service/internal/store"
)

const defaultLoadTimeout = 45 * time.Second

// Cache defines the contract for storing aggregated rosters.
type Cache interface {
	Get(key store.RosterKey) ([]players.Player, bool)
	Set(key store.RosterKey, roster []players.Player) time.Time
}

// Catalog lists the configured teams.
type Catalog interface {
	Get(key string) (teams.Option, bool)
	Keys() []string
	RosterFallbackKey() string
}

// Loader aggregates a roster from upstream sources.
type Loader interface {
	Aggregate(ctx context.Context, team teams.Option, season int) (Result, error)
}

// Service serves rosters through the cache and resolves player identifiers.
type Service struct {
	catalog     Catalog
	loader      Loader
	cache       Cache
	group       singleflight.Group
	flightMu    sync.Mutex
	flights     map[string]*flight
	loadTimeout time.Duration
	logger      *slog.Logger
	metrics     *metrics.Recorder
}

// NewService constructs a roster Service.
func NewService(catalog Catalog, loader Loader, cache Cache, logger *slog.Logger, recorder *metrics.Recorder) *Service {
	return &Service{
		catalog:     catalog,
		loader:      loader,
		cache:       cache,
		flights:     make(map[string]*flight),
		loadTimeout: defaultLoadTimeout,
		logger:      logger,
		metrics:     recorder,
	}
}

// FallbackTeamKey is used when a roster request names no team.
func (s *Service) FallbackTeamKey() string {
	return s.catalog.RosterFallbackKey()
}

// Roster returns the players for a team and season. Unknown or unconfigured
// teams yield an empty roster. Concurrent misses for one key share a single
// aggregation; only complete results are cached.
func (s *Service) Roster(ctx context.Context, teamKey string, season int) ([]players.Player, error) {
	team, ok := s.catalog.Get(teamKey)
	if !ok || !team.HasRosterSources() {
		return []players.Player{}, nil
	}
	key := store.RosterKey{TeamKey: teamKey, Season: season}
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.RecordCacheLookup(true)
		return cached, nil
	}
	s.metrics.RecordCacheLookup(false)
	return s.load(ctx, team, key)
}

// Refresh reloads a team roster regardless of cache state.
func (s *Service) Refresh(ctx context.Context, teamKey string, season int) error {
	team, ok := s.catalog.Get(teamKey)
	if !ok || !team.HasRosterSources() {
		return nil
	}
	_, err := s.load(ctx, team, store.RosterKey{TeamKey: teamKey, Season: season})
	return err
}

// RefreshAll reloads every configured team for season.
func (s *Service) RefreshAll(ctx context.Context, season int) error {
	var errs []error
	for _, key := range s.catalog.Keys() {
		if err := s.Refresh(ctx, key, season); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// FindByIdentifier searches the named team, or every team in configured
// order, for a player matching identifier. The first match wins.
func (s *Service) FindByIdentifier(ctx context.Context, identifier string, season int, teamKey string) (players.Player, bool, error) {
	keys := s.catalog.Keys()
	if teamKey != "" {
		keys = []string{teamKey}
	}

	var lastErr error
	for _, key := range keys {
		roster, err := s.Roster(ctx, key, season)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return players.Player{}, false, ctxErr
			}
			logging.Warn(logging.FromContext(ctx, s.logger), "roster unavailable during identifier lookup",
				logging.FieldTeamKey, key, logging.FieldSeason, season, logging.FieldError, err)
			lastErr = err
			continue
		}
		for _, p := range roster {
			if p.MatchesIdentifier(identifier) {
				return p, true, nil
			}
		}
	}
	return players.Player{}, false, lastErr
}

type loadOutcome struct {
	players []players.Player
}

// flight is the context shared by every waiter of one in-progress load.
// It is cancelled when the last waiter leaves, so an abandoned load never
// reaches the cache.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

func (s *Service) load(ctx context.Context, team teams.Option, key store.RosterKey) ([]players.Player, error) {
	flightKey := key.TeamKey + "|" + strconv.Itoa(key.Season)
	f := s.join(ctx, flightKey)
	defer s.leave(flightKey, f)

	ch := s.group.DoChan(flightKey, func() (interface{}, error) {
		result, err := s.loader.Aggregate(f.ctx, team, key.Season)
		if err != nil {
			return nil, err
		}
		s.storeIfLive(f, key, result)
		return loadOutcome{players: result.Players}, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return players.CloneAll(res.Val.(loadOutcome).players), nil
	}
}

func (s *Service) join(ctx context.Context, flightKey string) *flight {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()
	f, ok := s.flights[flightKey]
	if !ok {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		f = &flight{ctx: loadCtx, cancel: cancel}
		s.flights[flightKey] = f
	}
	f.waiters++
	return f
}

func (s *Service) leave(flightKey string, f *flight) {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if s.flights[flightKey] == f {
		delete(s.flights, flightKey)
		s.group.Forget(flightKey)
	}
}

// storeIfLive caches a complete result unless every waiter has already left.
func (s *Service) storeIfLive(f *flight, key store.RosterKey, result Result) {
	if !result.Complete() {
		return
	}
	s.flightMu.Lock()
	defer s.flightMu.Unlock()
	if f.ctx.Err() == nil {
		s.cache.Set(key, result.Players)
	}
}
