package requestutil

import (
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	HeaderRequestID    = "X-Request-ID"
	headerForwardedFor = "X-Forwarded-For"
	headerRealIP       = "X-Real-IP"
)

var (
	requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,64}$`)
	newUUID          = uuid.NewRandom
)

// SanitizeRequestID keeps a well-formed caller id and mints a fresh one otherwise.
func SanitizeRequestID(incoming string) string {
	incoming = strings.TrimSpace(incoming)
	if requestIDPattern.MatchString(incoming) {
		return incoming
	}
	return NewRequestID()
}

// NewRequestID returns a random UUID, or a nanosecond timestamp when the
// system randomness source fails.
func NewRequestID() string {
	id, err := newUUID()
	if err != nil {
		return "t-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return id.String()
}

// ClientIP reports the originating address, preferring proxy headers.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if fwd := r.Header.Get(headerForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if ip := strings.TrimSpace(r.Header.Get(headerRealIP)); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
