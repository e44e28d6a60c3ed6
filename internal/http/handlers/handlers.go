package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/preston-bernstein/roster-stats-service/internal/app/deepdive"
	"github.com/preston-bernstein/roster-stats-service/internal/app/discovery"
	"github.com/preston-bernstein/roster-stats-service/internal/app/gameday"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/players"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
	"github.com/preston-bernstein/roster-stats-service/internal/poller"
)

// ServiceName is reported by the ping endpoint.
const ServiceName = "roster-stats"

// Rosters loads team rosters and looks up single players.
type Rosters interface {
	Roster(ctx context.Context, teamKey string, season int) ([]players.Player, error)
	FindByIdentifier(ctx context.Context, identifier string, season int, teamKey string) (players.Player, bool, error)
	FallbackTeamKey() string
}

// Summaries resolves a player's summary document.
type Summaries interface {
	Resolve(ctx context.Context, name string, query url.Values) (discovery.Result, error)
}

// Gameday answers next-opponent queries.
type Gameday interface {
	NextOpponent(ctx context.Context, teamKey string) (gameday.NextOpponent, error)
}

// DeepDives fetches pitcher deep dives.
type DeepDives interface {
	Fetch(ctx context.Context, q deepdive.Query) (deepdive.Result, error)
}

// TeamOptions lists configured teams.
type TeamOptions interface {
	List() []teams.Option
}

// Deps groups the services the handlers delegate to. Any field may be nil;
// the matching routes then answer 503.
type Deps struct {
	Rosters   Rosters
	Summaries Summaries
	Gameday   Gameday
	DeepDives DeepDives
	Teams     TeamOptions
	Status    func() poller.Status
}

// Handler wires HTTP routes to the app services.
type Handler struct {
	deps   Deps
	logger *slog.Logger
	now    func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(deps Deps, logger *slog.Logger) *Handler {
	return &Handler{deps: deps, logger: logger, now: time.Now}
}

func (h *Handler) unavailable(w http.ResponseWriter, r *http.Request, what string) {
	writeError(w, r, http.StatusServiceUnavailable, what+" not configured", nil, h.logger)
}
