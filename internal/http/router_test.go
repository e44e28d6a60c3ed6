package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
	"github.com/preston-bernstein/roster-stats-service/internal/http/handlers"
	"github.com/preston-bernstein/roster-stats-service/internal/metrics"
)

func TestRouterRoutesKnownPaths(t *testing.T) {
	h := handlers.NewHandler(handlers.Deps{Teams: teams.DefaultRegistry()}, nil)
	router := NewRouter(h, nil, metrics.NewRecorder())

	cases := map[string]int{
		"/":                      http.StatusOK,
		"/health":                http.StatusOK,
		"/ready":                 http.StatusOK,
		"/ping":                  http.StatusOK,
		"/metrics/dictionary":    http.StatusOK,
		"/options/teams":         http.StatusOK,
		"/players":               http.StatusServiceUnavailable,
		"/players/mlb:1":         http.StatusServiceUnavailable,
		"/players/Jane/summary":  http.StatusServiceUnavailable,
		"/gameday/next-opponent": http.StatusServiceUnavailable,
		"/deep-dive/pitcher":     http.StatusServiceUnavailable,
	}

	for path, expected := range cases {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != expected {
			t.Fatalf("route %s expected status %d, got %d", path, expected, rr.Code)
		}
		if rr.Header().Get("X-Request-ID") == "" {
			t.Fatalf("route %s missing request id header", path)
		}
	}
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	router := NewRouter(handlers.NewHandler(handlers.Deps{}, nil), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", rr.Code)
	}
}

func TestRouterRejectsWrongMethod(t *testing.T) {
	router := NewRouter(handlers.NewHandler(handlers.Deps{}, nil), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}
