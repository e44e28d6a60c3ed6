package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/preston-bernstein/roster-stats-service/internal/app/gameday"
	"github.com/preston-bernstein/roster-stats-service/internal/logging"
)

// NextOpponent returns the next scheduled game for teamKey.
func (h *Handler) NextOpponent(w http.ResponseWriter, r *http.Request) {
	if h.deps.Gameday == nil {
		h.unavailable(w, r, "gameday service")
		return
	}
	teamKey := strings.TrimSpace(r.URL.Query().Get("teamKey"))
	if teamKey == "" {
		writeError(w, r, http.StatusBadRequest, "teamKey is required", nil, h.logger)
		return
	}

	next, err := h.deps.Gameday.NextOpponent(r.Context(), teamKey)
	switch {
	case errors.Is(err, gameday.ErrNoUpcomingGame):
		writeError(w, r, http.StatusNotFound, "No upcoming opponent found", fields{"teamKey": teamKey}, h.logger)
	case err != nil:
		logging.Warn(loggerFromContext(r, h.logger), "next opponent lookup failed", logging.FieldTeamKey, teamKey, logging.FieldError, err)
		writeError(w, r, http.StatusBadGateway, err.Error(), fields{"teamKey": teamKey}, h.logger)
	default:
		writeData(w, http.StatusOK, next, h.logger)
	}
}
