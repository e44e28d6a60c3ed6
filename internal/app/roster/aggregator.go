package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/preston-bernstein/roster-stats-service/internal/domain/players"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
	"github.com/preston-bernstein/roster-stats-service/internal/logging"
	"github.com/preston-bernstein/roster-stats-service/internal/metrics"
	"github.com/preston-bernstein/roster-stats-service/internal/providers"
)

// ErrAllSourcesFailed is returned when every adapter call for a roster failed.
var ErrAllSourcesFailed = errors.New("all roster sources failed")

// SourceError records one failed adapter call.
type SourceError struct {
	Source players.SourceKind
	Kind   players.Kind
	Err    error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Source, e.Kind, e.Err)
}

func (e SourceError) Unwrap() error { return e.Err }

// Result is one aggregation run. Errors lists adapter calls that failed;
// their rows are missing from Players.
type Result struct {
	Players []players.Player
	Errors  []SourceError
	Calls   int
}

// Complete reports whether every adapter call succeeded.
func (r Result) Complete() bool { return len(r.Errors) == 0 }

// Aggregator fans out to every row source and merges rows into canonical players.
type Aggregator struct {
	sources []providers.RowSource
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// NewAggregator builds an aggregator. Source order fixes the fold order.
func NewAggregator(sources []providers.RowSource, clk clock.Clock, logger *slog.Logger, recorder *metrics.Recorder) *Aggregator {
	if clk == nil {
		clk = clock.New()
	}
	return &Aggregator{sources: sources, clock: clk, logger: logger, metrics: recorder}
}

type call struct {
	source providers.RowSource
	kind   players.Kind
	rows   []providers.Row
	err    error
}

// Aggregate builds the roster for a team and season. A team missing either
// upstream's identifiers yields an empty roster and no error. An error is
// returned only when every adapter call failed or ctx ended.
func (a *Aggregator) Aggregate(ctx context.Context, team teams.Option, season int) (Result, error) {
	if !team.HasRosterSources() || len(a.sources) == 0 {
		return Result{Players: []players.Player{}}, nil
	}

	calls := make([]call, 0, len(a.sources)*len(players.Kinds))
	for _, src := range a.sources {
		for _, kind := range players.Kinds {
			calls = append(calls, call{source: src, kind: kind})
		}
	}

	var wg sync.WaitGroup
	for i := range calls {
		wg.Add(1)
		go func(c *call) {
			defer wg.Done()
			c.rows, c.err = c.source.FetchRows(ctx, team, season, c.kind)
		}(&calls[i])
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	logger := logging.FromContext(ctx, a.logger)
	merger := newMerger(team, season, logger, a.metrics)
	result := Result{Calls: len(calls)}
	var failures []error
	for _, c := range calls {
		if c.err != nil {
			result.Errors = append(result.Errors, SourceError{Source: c.source.Source(), Kind: c.kind, Err: c.err})
			failures = append(failures, c.err)
			logging.Warn(logger, "roster source failed",
				logging.FieldProvider, string(c.source.Source()),
				logging.FieldRole, string(c.kind),
				logging.FieldTeamKey, team.Key,
				logging.FieldSeason, season,
				"err", c.err,
			)
			continue
		}
		for _, row := range c.rows {
			merger.fold(c.source.Source(), c.kind, row)
		}
	}

	if len(failures) == len(calls) {
		return result, fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(failures...))
	}

	result.Players = merger.finish(a.clock.Now())
	logging.Info(logger, "roster aggregated",
		logging.FieldTeamKey, team.Key,
		logging.FieldSeason, season,
		logging.FieldCount, len(result.Players),
		"failed_calls", len(result.Errors),
	)
	return result, nil
}

type merger struct {
	team    teams.Option
	season  int
	order   []players.MergeKey
	byKey   map[players.MergeKey]*players.Player
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newMerger(team teams.Option, season int, logger *slog.Logger, recorder *metrics.Recorder) *merger {
	return &merger{
		team:    team,
		season:  season,
		byKey:   make(map[players.MergeKey]*players.Player),
		logger:  logger,
		metrics: recorder,
	}
}

func (m *merger) fold(source players.SourceKind, kind players.Kind, row providers.Row) {
	key := players.KeyFor(row.Name, kind)
	if key.Name == "" {
		return
	}
	p, ok := m.byKey[key]
	if !ok {
		p = &players.Player{
			TeamKey:   m.team.Key,
			TeamLabel: m.team.Label,
			Level:     m.team.Level,
			Name:      row.Name,
			Kind:      kind,
			Sources:   []players.SourceSnapshot{},
		}
		m.byKey[key] = p
		m.order = append(m.order, key)
	}
	if p.Name == "" {
		p.Name = row.Name
	}

	// Two rows from one provider under one key are distinct people sharing a
	// normalized name. The first row keeps the slot.
	if p.HasSource(m.season, source) {
		m.conflict(key, source, row)
		return
	}

	idSlot := &p.SecondaryID
	if source == players.SourceTracking {
		idSlot = &p.PrimaryID
	}
	if row.ProviderID > 0 {
		switch {
		case *idSlot == 0:
			*idSlot = row.ProviderID
		case *idSlot != row.ProviderID:
			m.conflict(key, source, row)
		}
	}
	if p.Position == "" && row.Position != "" {
		p.Position = row.Position
	}
	p.Sources = append(p.Sources, players.SourceSnapshot{
		Season: m.season,
		Source: source,
		Stats:  row.Stats.Clone(),
	})
}

func (m *merger) conflict(key players.MergeKey, source players.SourceKind, row providers.Row) {
	m.metrics.RecordIdentityConflict(m.team.Key)
	logging.Warn(m.logger, "identity conflict on normalized name",
		logging.FieldTeamKey, m.team.Key,
		logging.FieldProvider, string(source),
		logging.FieldRole, string(key.Kind),
		"normalized_name", key.Name,
		"row_name", row.Name,
		"provider_id", row.ProviderID,
	)
}

func (m *merger) finish(now time.Time) []players.Player {
	out := make([]players.Player, 0, len(m.order))
	for _, key := range m.order {
		p := *m.byKey[key]
		p.ID = players.CanonicalID(p, m.team.Key)
		p.LastUpdated = now
		out = append(out, p)
	}
	SortPlayers(out)
	return out
}

// SortPlayers orders hitters before pitchers, then by name ignoring case,
// then by id so equal names stay deterministic.
func SortPlayers(list []players.Player) {
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Kind.Rank() != b.Kind.Rank() {
			return a.Kind.Rank() < b.Kind.Rank()
		}
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}
