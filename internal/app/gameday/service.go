package gameday

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
	"github.com/preston-bernstein/roster-stats-service/internal/logging"
	"github.com/preston-bernstein/roster-stats-service/internal/providers"
	"github.com/preston-bernstein/roster-stats-service/internal/providers/schedule"
)

// SourceSchedule labels next-opponent data sourced from the league schedule.
const SourceSchedule = "mlb-statsapi"

// ErrNoUpcomingGame is returned when no game exists in the look-ahead window
// or the team has no schedule id.
var ErrNoUpcomingGame = errors.New("no upcoming opponent found")

// ProbablePitchers lists announced starters; empty means unannounced.
type ProbablePitchers struct {
	Home string `json:"home,omitempty"`
	Away string `json:"away,omitempty"`
}

// NextOpponent summarizes a team's next scheduled game.
type NextOpponent struct {
	TeamName         string           `json:"teamName"`
	OpponentName     string           `json:"opponentName"`
	GameTimeLocal    time.Time        `json:"gameTimeLocal"`
	Home             bool             `json:"home"`
	ProbablePitchers ProbablePitchers `json:"probablePitchers"`
	Level            teams.Level      `json:"level"`
	Source           string           `json:"source"`
}

// Catalog resolves team options.
type Catalog interface {
	Get(key string) (teams.Option, bool)
}

// Schedule finds the next game for a schedule team id.
type Schedule interface {
	NextGame(ctx context.Context, teamID int) (schedule.Game, bool, error)
}

// Service answers next-opponent queries.
type Service struct {
	catalog  Catalog
	schedule Schedule
	logger   *slog.Logger
}

// NewService constructs a gameday Service.
func NewService(catalog Catalog, sched Schedule, logger *slog.Logger) *Service {
	return &Service{catalog: catalog, schedule: sched, logger: logger}
}

// NextOpponent returns the next game for teamKey. Unknown teams, teams
// without a schedule id, and empty windows all yield ErrNoUpcomingGame.
func (s *Service) NextOpponent(ctx context.Context, teamKey string) (NextOpponent, error) {
	opt, ok := s.catalog.Get(teamKey)
	if !ok || opt.ScheduleTeamID <= 0 {
		return NextOpponent{}, ErrNoUpcomingGame
	}

	game, found, err := s.schedule.NextGame(ctx, opt.ScheduleTeamID)
	if err != nil {
		if errors.Is(err, providers.ErrConfigurationMissing) {
			return NextOpponent{}, ErrNoUpcomingGame
		}
		logging.Warn(logging.FromContext(ctx, s.logger), "schedule lookup failed", logging.FieldTeamKey, teamKey, logging.FieldError, err)
		return NextOpponent{}, fmt.Errorf("load schedule for %s: %w", teamKey, err)
	}
	if !found {
		return NextOpponent{}, ErrNoUpcomingGame
	}

	return NextOpponent{
		TeamName:      opt.Label,
		OpponentName:  game.OpponentName,
		GameTimeLocal: game.Start,
		Home:          game.Home,
		ProbablePitchers: ProbablePitchers{
			Home: game.ProbableHome,
			Away: game.ProbableAway,
		},
		Level:  opt.Level,
		Source: SourceSchedule,
	}, nil
}
