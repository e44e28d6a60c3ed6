package fixture

import (
	"context"
	"time"

	"github.com/preston-bernstein/roster-stats-service/internal/domain/players"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
	"github.com/preston-bernstein/roster-stats-service/internal/providers"
	"github.com/preston-bernstein/roster-stats-service/internal/providers/schedule"
)

// Provider returns a static set of rows useful for local testing and running offline.
type Provider struct {
	source players.SourceKind
}

// New creates a fixture row source for the given upstream kind.
func New(source players.SourceKind) *Provider {
	return &Provider{source: source}
}

// Source implements providers.RowSource.
func (p *Provider) Source() players.SourceKind { return p.source }

// FetchRows returns deterministic rows for any team with the upstream configured.
func (p *Provider) FetchRows(ctx context.Context, team teams.Option, season int, kind players.Kind) ([]providers.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_ = season
	switch p.source {
	case players.SourceLeaderboard:
		if team.LeaderboardTeamID <= 0 {
			return nil, providers.ErrConfigurationMissing
		}
		return leaderboardRows(team, kind), nil
	default:
		if team.TrackingTeam == "" {
			return nil, providers.ErrConfigurationMissing
		}
		return trackingRows(team, kind), nil
	}
}

func leaderboardRows(team teams.Option, kind players.Kind) []providers.Row {
	if kind == players.KindPitcher {
		return []providers.Row{
			{Name: "Ace Arm", ProviderID: 2001, Team: team.TrackingTeam, Position: "SP", Stats: players.Stats{"ERA": 3.12, "FIP": 3.40, "K%": 27.5, "WAR": 3.1}},
			{Name: "Rick Relief", ProviderID: 2002, Team: team.TrackingTeam, Position: "RP", Stats: players.Stats{"ERA": 2.45, "FIP": 2.90, "K%": 31.0, "WAR": 1.2}},
		}
	}
	return []providers.Row{
		{Name: "Jane Doe", ProviderID: 1001, Team: team.TrackingTeam, Position: "SS", Stats: players.Stats{"AVG": 0.300, "OBP": 0.380, "wRC+": 142.0, "WAR": 4.4}},
		{Name: "Sam Roe", ProviderID: 1002, Team: team.TrackingTeam, Position: "C", Stats: players.Stats{"AVG": 0.241, "OBP": 0.322, "wRC+": 98.0, "WAR": 1.7}},
	}
}

func trackingRows(team teams.Option, kind players.Kind) []providers.Row {
	if kind == players.KindPitcher {
		return []providers.Row{
			{Name: "Ace Arm", ProviderID: 660001, Team: team.TrackingTeam, Stats: players.Stats{"brl_percent": 6.1, "avg_hit_speed": 87.9}},
		}
	}
	return []providers.Row{
		{Name: "Jane Doe", ProviderID: 555, Team: team.TrackingTeam, Stats: players.Stats{"avg_hit_speed": 90.1, "brl_percent": 11.3}},
		{Name: "Sam Roe", ProviderID: 556, Team: team.TrackingTeam, Stats: players.Stats{"avg_hit_speed": 88.4, "brl_percent": 7.9}},
	}
}

// Schedule returns a canned upcoming game.
type Schedule struct {
	now func() time.Time
}

// NewSchedule creates a fixture schedule with a time source.
func NewSchedule() *Schedule {
	return &Schedule{now: time.Now}
}

// NextGame reports a home game two days out for any configured team.
func (s *Schedule) NextGame(ctx context.Context, teamID int) (schedule.Game, bool, error) {
	if err := ctx.Err(); err != nil {
		return schedule.Game{}, false, err
	}
	if teamID <= 0 {
		return schedule.Game{}, false, providers.ErrConfigurationMissing
	}
	start := s.now().UTC().Truncate(time.Hour).Add(48 * time.Hour)
	return schedule.Game{
		ID:           9001,
		Start:        start,
		Home:         true,
		OpponentName: "Fixture City Foxes",
		ProbableHome: "Ace Arm",
		ProbableAway: "Visiting Starter",
	}, true, nil
}
