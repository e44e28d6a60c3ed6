package requestutil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSanitizeRequestID(t *testing.T) {
	cases := []struct {
		in   string
		keep bool
	}{
		{"valid-123", true},
		{"trace:abc.1", true},
		{"bad id", false},
		{"", false},
		{strings.Repeat("a", 65), false},
	}
	for _, tc := range cases {
		in, keep := tc.in, tc.keep
		got := SanitizeRequestID(in)
		if keep && got != in {
			t.Fatalf("expected %q kept, got %q", in, got)
		}
		if !keep {
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("expected minted uuid for %q, got %q", in, got)
			}
		}
	}
}

func TestNewRequestIDFallsBackWhenRandomnessFails(t *testing.T) {
	orig := newUUID
	newUUID = func() (uuid.UUID, error) { return uuid.Nil, errors.New("entropy exhausted") }
	defer func() { newUUID = orig }()

	got := NewRequestID()
	if !strings.HasPrefix(got, "t-") || !requestIDPattern.MatchString(got) {
		t.Fatalf("expected timestamp fallback id, got %q", got)
	}
}

func TestClientIP(t *testing.T) {
	if got := ClientIP(nil); got != "" {
		t.Fatalf("expected empty for nil request, got %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	req.Header.Set("X-Real-IP", "7.7.7.7")
	if got := ClientIP(req); got != "1.2.3.4" {
		t.Fatalf("expected first forwarded address, got %s", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "7.7.7.7")
	if got := ClientIP(req); got != "7.7.7.7" {
		t.Fatalf("expected real ip header, got %s", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"
	if got := ClientIP(req); got != "9.9.9.9" {
		t.Fatalf("expected host from remote addr, got %s", got)
	}

	req.RemoteAddr = "unix-socket"
	if got := ClientIP(req); got != "unix-socket" {
		t.Fatalf("expected raw remote addr, got %s", got)
	}
}
