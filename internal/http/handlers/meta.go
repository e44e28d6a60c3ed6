package handlers

import (
	"net/http"

	"github.com/preston-bernstein/roster-stats-service/internal/domain/dictionary"
)

var endpoints = []string{
	"/gameday/next-opponent?teamKey={teamKey}",
	"/players",
	"/players?teamKey={teamKey}&season={season}",
	"/players/{playerId}",
	"/players/{name}/summary",
	"/deep-dive/pitcher?mlbam={mlbam}&year={year}&span={span}&rollup={rollup}",
	"/metrics/dictionary",
	"/options/teams",
	"/ping",
	"/health",
	"/ready",
}

// Help lists the available endpoints.
func (h *Handler) Help(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "endpoints": endpoints}, h.logger)
}

// Dictionary returns the metric dictionary.
func (h *Handler) Dictionary(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, dictionary.List(), h.logger)
}

// TeamOptions returns the configured teams.
func (h *Handler) TeamOptions(w http.ResponseWriter, r *http.Request) {
	if h.deps.Teams == nil {
		h.unavailable(w, r, "team options")
		return
	}
	writeData(w, http.StatusOK, h.deps.Teams.List(), h.logger)
}

// Ping reports the service name and how many teams are configured.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	count := 0
	if h.deps.Teams != nil {
		count = len(h.deps.Teams.List())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"services": []string{ServiceName},
		"options":  count,
	}, h.logger)
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", nil, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic based on the roster warmer.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.deps.Status == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.deps.Status()
	if status.IsReady() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, nil, h.logger)
}

// NotFound answers unknown routes with the error envelope.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "Unknown endpoint", fields{"path": r.URL.Path}, h.logger)
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil, h.logger)
}
