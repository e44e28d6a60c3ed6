package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/preston-bernstein/roster-stats-service/internal/http/handlers"
	"github.com/preston-bernstein/roster-stats-service/internal/http/middleware"
	"github.com/preston-bernstein/roster-stats-service/internal/metrics"
)

// NewRouter registers HTTP routes on a chi router wrapped with request
// logging, metrics, and panic recovery.
func NewRouter(handler *handlers.Handler, logger *slog.Logger, recorder *metrics.Recorder) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(logger, recorder))
	r.Use(chimw.Recoverer)

	r.Get("/", handler.Help)
	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)
	r.Get("/ping", handler.Ping)

	r.Route("/players", func(r chi.Router) {
		r.Get("/", handler.Roster)
		r.Get("/{id}", handler.PlayerByID)
		r.Get("/{name}/summary", handler.PlayerSummary)
	})
	r.Get("/gameday/next-opponent", handler.NextOpponent)
	r.Get("/deep-dive/pitcher", handler.PitcherDeepDive)
	r.Get("/metrics/dictionary", handler.Dictionary)
	r.Get("/options/teams", handler.TeamOptions)

	r.NotFound(func(w nethttp.ResponseWriter, req *nethttp.Request) {
		handler.NotFound(w, req)
	})
	r.MethodNotAllowed(func(w nethttp.ResponseWriter, req *nethttp.Request) {
		handler.MethodNotAllowed(w, req)
	})
	return r
}
