package logging

import "log/slog"

// Structured field keys shared by every package that logs.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldError      = "err"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDurationMS = "duration_ms"

	FieldProvider = "provider"
	FieldURL      = "url"
	FieldAttempt  = "attempt"
	FieldTeamKey  = "team_key"
	FieldSeason   = "season"
	FieldRole     = "role"
	FieldCount    = "count"
)

// serviceAttrs tags every record with the binary's identity.
func serviceAttrs(service, version string) []slog.Attr {
	var attrs []slog.Attr
	for _, kv := range [][2]string{{FieldService, service}, {FieldVersion, version}} {
		if kv[1] != "" {
			attrs = append(attrs, slog.String(kv[0], kv[1]))
		}
	}
	return attrs
}
