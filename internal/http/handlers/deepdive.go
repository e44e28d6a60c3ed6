package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/preston-bernstein/roster-stats-service/internal/app/deepdive"
	"github.com/preston-bernstein/roster-stats-service/internal/logging"
	"github.com/preston-bernstein/roster-stats-service/internal/timeutil"
)

// PitcherDeepDive returns the normalized deep dive, falling back to the last
// good document when the upstream fails.
func (h *Handler) PitcherDeepDive(w http.ResponseWriter, r *http.Request) {
	if h.deps.DeepDives == nil {
		h.unavailable(w, r, "deep dive service")
		return
	}
	q := r.URL.Query()
	mlbam, err := strconv.Atoi(strings.TrimSpace(q.Get("mlbam")))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "mlbam must be an integer", nil, h.logger)
		return
	}
	query := deepdive.Query{
		MLBAM:  mlbam,
		Year:   timeutil.SeasonOrCurrent(q.Get("year"), h.now()),
		Span:   deepdive.Span(valueOr(q.Get("span"), string(deepdive.SpanRegular))),
		Rollup: deepdive.Rollup(valueOr(q.Get("rollup"), string(deepdive.RollupSeason))),
	}

	res, err := h.deps.DeepDives.Fetch(r.Context(), query)
	switch {
	case errors.Is(err, deepdive.ErrInvalidQuery):
		writeError(w, r, http.StatusBadRequest, err.Error(), nil, h.logger)
	case err != nil:
		logging.Warn(loggerFromContext(r, h.logger), "deep dive failed", "mlbam", mlbam, logging.FieldError, err)
		writeError(w, r, http.StatusBadGateway, err.Error(), fields{"mlbam": mlbam, "year": query.Year}, h.logger)
	default:
		writeData(w, http.StatusOK, res, h.logger)
	}
}

func valueOr(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
