package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/itbasis/go-clock"

	"github.com/preston-bernstein/roster-stats-service/internal/metrics"
)

// NewBufferLogger returns a debug-level text logger writing into the returned buffer.
func NewBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// LogContains reports whether any buffered log line carries every fragment.
func LogContains(buf *bytes.Buffer, fragments ...string) bool {
	for _, line := range strings.Split(buf.String(), "\n") {
		matched := line != ""
		for _, f := range fragments {
			if !strings.Contains(line, f) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// NowAt returns a time source frozen at t.
func NowAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// MockClockAt returns a mock clock advanced to t.
func MockClockAt(t time.Time) *clock.Mock {
	m := clock.NewMock()
	m.Add(t.Sub(m.Now()))
	return m
}

// StubTelemetry returns a metrics setup func that hands back rec and serves
// handler without touching any exporter.
func StubTelemetry(rec *metrics.Recorder, handler http.Handler) func(context.Context, metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
	return func(context.Context, metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return rec, handler, func(context.Context) error { return nil }, nil
	}
}
