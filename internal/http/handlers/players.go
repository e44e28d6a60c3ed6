package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/roster-stats-service/internal/app/discovery"
	"github.com/preston-bernstein/roster-stats-service/internal/logging"
	"github.com/preston-bernstein/roster-stats-service/internal/timeutil"
)

const (
	headerSummaryStrategy = "X-Summary-Strategy"
	headerSummarySource   = "X-Summary-Source"
)

// Roster returns the merged roster for teamKey (or the fallback team) and season.
func (h *Handler) Roster(w http.ResponseWriter, r *http.Request) {
	if h.deps.Rosters == nil {
		h.unavailable(w, r, "roster service")
		return
	}
	q := r.URL.Query()
	season := timeutil.SeasonOrCurrent(q.Get("season"), h.now())
	teamKey := strings.TrimSpace(q.Get("teamKey"))
	if teamKey == "" {
		teamKey = h.deps.Rosters.FallbackTeamKey()
	}
	if teamKey == "" {
		writeError(w, r, http.StatusBadRequest, "teamKey is required for roster data", nil, h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	roster, err := h.deps.Rosters.Roster(r.Context(), teamKey, season)
	if err != nil {
		logging.Warn(logger, "roster load failed", logging.FieldTeamKey, teamKey, logging.FieldSeason, season, logging.FieldError, err)
		writeError(w, r, http.StatusBadGateway, err.Error(), fields{"teamKey": teamKey, "season": season}, h.logger)
		return
	}
	if len(roster) == 0 {
		writeError(w, r, http.StatusNotFound, "No roster data available", fields{"teamKey": teamKey, "season": season}, h.logger)
		return
	}
	logging.Info(logger, "served roster", logging.FieldTeamKey, teamKey, logging.FieldSeason, season, logging.FieldCount, len(roster))
	writeData(w, http.StatusOK, roster, h.logger)
}

// PlayerByID finds one player by canonical or provider id.
func (h *Handler) PlayerByID(w http.ResponseWriter, r *http.Request) {
	if h.deps.Rosters == nil {
		h.unavailable(w, r, "roster service")
		return
	}
	playerID := strings.TrimSpace(chi.URLParam(r, "id"))
	if playerID == "" {
		writeError(w, r, http.StatusBadRequest, "invalid player id", nil, h.logger)
		return
	}
	q := r.URL.Query()
	season := timeutil.SeasonOrCurrent(q.Get("season"), h.now())
	teamKey := strings.TrimSpace(q.Get("teamKey"))

	player, ok, err := h.deps.Rosters.FindByIdentifier(r.Context(), playerID, season, teamKey)
	if err != nil && !ok {
		logging.Warn(loggerFromContext(r, h.logger), "player lookup failed", "player_id", playerID, logging.FieldSeason, season, logging.FieldError, err)
		writeError(w, r, http.StatusBadGateway, err.Error(), fields{"playerId": playerID, "season": season}, h.logger)
		return
	}
	if !ok {
		writeError(w, r, http.StatusNotFound, "Player not found", fields{"playerId": playerID, "season": season}, h.logger)
		return
	}
	writeData(w, http.StatusOK, player, h.logger)
}

// PlayerSummary discovers the summary endpoint for a player name and relays
// the upstream document unchanged.
func (h *Handler) PlayerSummary(w http.ResponseWriter, r *http.Request) {
	if h.deps.Summaries == nil {
		h.unavailable(w, r, "summary discovery")
		return
	}
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "player name is required", nil, h.logger)
		return
	}

	res, err := h.deps.Summaries.Resolve(r.Context(), name, r.URL.Query())
	if err != nil {
		var noMatch *discovery.NoMatchError
		if errors.As(err, &noMatch) {
			writeError(w, r, http.StatusNotFound, noMatch.Reason, fields{
				"reason":   noMatch.Reason,
				"name":     noMatch.Name,
				"attempts": noMatch.Attempts,
			}, h.logger)
			return
		}
		logging.Warn(loggerFromContext(r, h.logger), "summary discovery failed", "name", name, logging.FieldError, err)
		writeError(w, r, http.StatusBadGateway, err.Error(), fields{"name": name}, h.logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(headerSummaryStrategy, string(res.Strategy))
	w.Header().Set(headerSummarySource, res.URL)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Document); err != nil {
		logging.Error(h.logger, "failed to write summary", err)
	}
}
