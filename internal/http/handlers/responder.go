package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/roster-stats-service/internal/http/middleware"
	"github.com/preston-bernstein/roster-stats-service/internal/http/requestutil"
	"github.com/preston-bernstein/roster-stats-service/internal/logging"
)

// fields carries extra context merged into an error envelope.
type fields map[string]any

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error(logger, "failed to encode response", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	writeJSON(w, status, map[string]any{"ok": true, "data": data}, logger)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, extra fields, logger *slog.Logger) {
	body := map[string]any{"ok": false, "error": message}
	for k, v := range extra {
		body[k] = v
	}
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get(requestutil.HeaderRequestID)
	}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
