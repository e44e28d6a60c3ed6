package providers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotFound marks a well-formed query with no matching data.
	ErrNotFound = errors.New("not found")
	// ErrConfigurationMissing marks a team without the identifiers an upstream needs.
	ErrConfigurationMissing = errors.New("team configuration missing")
	// ErrCircuitOpen is returned while the upstream breaker rejects calls.
	ErrCircuitOpen = errors.New("circuit open")
)

// UpstreamError reports a non-success status or transport failure from an upstream.
type UpstreamError struct {
	Provider   string
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(": ")
	}
	b.WriteString("upstream unavailable")
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " (status=%d)", e.StatusCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// AsUpstreamError attempts to unwrap an error into an UpstreamError.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr, true
	}
	return nil, false
}

// RateLimitError captures rate limit responses from upstream providers.
type RateLimitError struct {
	Provider   string
	URL        string
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// ShapeMismatchError marks a parseable success response with the wrong document shape.
type ShapeMismatchError struct {
	URL        string
	StatusCode int
	Reason     string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("unexpected payload shape from %s: %s", e.URL, e.Reason)
}

// IsTransientStatus reports whether a status code is worth retrying.
func IsTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code <= 599)
}

// IsRetryable reports whether err represents a transient upstream failure.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, ErrCircuitOpen) {
		return false
	}
	if _, ok := AsRateLimitError(err); ok {
		return true
	}
	if upErr, ok := AsUpstreamError(err); ok {
		if upErr.StatusCode == 0 {
			return upErr.Err != nil
		}
		return IsTransientStatus(upErr.StatusCode)
	}
	return false
}

// StatusOf extracts the upstream status code carried by err, or 0.
func StatusOf(err error) int {
	if rl, ok := AsRateLimitError(err); ok {
		return rl.StatusCode
	}
	if upErr, ok := AsUpstreamError(err); ok {
		return upErr.StatusCode
	}
	var shapeErr *ShapeMismatchError
	if errors.As(err, &shapeErr) {
		return shapeErr.StatusCode
	}
	return 0
}

// parseRetryAfter accepts delay-seconds or an HTTP date.
func parseRetryAfter(raw string, now time.Time) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
