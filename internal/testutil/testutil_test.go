package testutil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/itbasis/go-clock"

	"github.com/preston-bernstein/roster-stats-service/internal/domain/players"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
	"github.com/preston-bernstein/roster-stats-service/internal/metrics"
	"github.com/preston-bernstein/roster-stats-service/internal/providers"
)

func TestClockHelpers(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := NowAt(at)(); !got.Equal(at) {
		t.Fatalf("expected frozen time, got %v", got)
	}
	mock := MockClockAt(at)
	if !mock.Now().Equal(at) {
		t.Fatalf("expected mock clock at %v, got %v", at, mock.Now())
	}
	mock.Add(time.Minute)
	if !mock.Now().Equal(at.Add(time.Minute)) {
		t.Fatalf("expected mock clock to advance")
	}
}

func TestFixturesHelper(t *testing.T) {
	team := SampleTeam("mlb:T")
	if !team.HasRosterSources() {
		t.Fatalf("expected roster sources on sample team %+v", team)
	}
	p := SamplePlayer("mlb:T", "Jane Doe", 555, 2024)
	if p.ID != "mlb:555" || !p.HasSource(2024, players.SourceLeaderboard) {
		t.Fatalf("unexpected player fixture %+v", p)
	}
	anon := SamplePlayer("mlb:T", "Jane Doe", 0, 2024)
	if anon.ID != "mlb:T:jane-doe" {
		t.Fatalf("expected slug id, got %s", anon.ID)
	}
}

func TestServeHelpers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true,"data":{"method":"` + r.Method + `"},"requestId":"abc"}`))
	})

	rr := Serve(handler, http.MethodPost, "/test", strings.NewReader("{}"))
	AssertStatus(t, rr, http.StatusCreated)
	var data struct {
		Method string `json:"method"`
	}
	env := DecodeData(t, rr, &data)
	if data.Method != http.MethodPost || env.RequestID != "abc" {
		t.Fatalf("unexpected envelope %+v data %+v", env, data)
	}

	rr = ServeRequest(handler, httptest.NewRequest(http.MethodGet, "/req", nil))
	var raw map[string]any
	DecodeJSON(t, rr, &raw)
	if raw["ok"] != true {
		t.Fatalf("expected ok=true, got %v", raw)
	}
}

func TestFakeWarmer(t *testing.T) {
	w := &FakeWarmer{StopErr: errors.New("stop")}
	w.Start(context.Background())
	if err := w.Stop(context.Background()); !errors.Is(err, w.StopErr) {
		t.Fatalf("expected stop error, got %v", err)
	}
	if w.Starts.Load() != 1 || w.Stops.Load() != 1 {
		t.Fatalf("unexpected call counts %d %d", w.Starts.Load(), w.Stops.Load())
	}
	if w.Status() != w.StatusVal {
		t.Fatalf("expected status passthrough")
	}
}

func TestFakeHTTPServer(t *testing.T) {
	if err := ClosedServer().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("expected ErrServerClosed, got %v", err)
	}

	s := &FakeHTTPServer{Release: make(chan struct{})}
	done := make(chan error, 1)
	go func() { done <- s.Shutdown(context.Background()) }()
	close(s.Release)
	if err := <-done; err != nil {
		t.Fatalf("expected released shutdown, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	blocked := &FakeHTTPServer{Release: make(chan struct{})}
	if err := blocked.Shutdown(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled shutdown, got %v", err)
	}
	if s.Shutdowns.Load() != 1 || s.Addr() != ":0" || s.Handler() == nil {
		t.Fatalf("unexpected fake state")
	}
}

func TestObservabilityHelpers(t *testing.T) {
	logger, buf := NewBufferLogger()
	logger.Debug("roster warm complete", "team_key", "mlb:T")
	if !LogContains(buf, "roster warm complete", "team_key=mlb:T") {
		t.Fatalf("expected debug line in buffer, got %s", buf.String())
	}
	if LogContains(buf, "roster warm complete", "team_key=other") {
		t.Fatalf("expected fragments to match on one line only")
	}

	rec := metrics.NewRecorder()
	setup := StubTelemetry(rec, http.NotFoundHandler())
	got, handler, shutdown, err := setup(context.Background(), metrics.TelemetryConfig{})
	if err != nil || got != rec || handler == nil {
		t.Fatalf("unexpected stub telemetry result %v %v %v", got, handler, err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil shutdown error, got %v", err)
	}
}

func TestStubRowSource(t *testing.T) {
	src := &StubRowSource{
		Kind: players.SourceTracking,
		Rows: map[players.Kind][]providers.Row{
			players.KindHitter: {{Name: "Jane Doe", ProviderID: 555}},
		},
	}
	rows, err := src.FetchRows(context.Background(), SampleTeam("mlb:T"), 2024, players.KindHitter)
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected one row, got %v %v", rows, err)
	}
	if rows, _ := src.FetchRows(context.Background(), SampleTeam("mlb:T"), 2024, players.KindPitcher); len(rows) != 0 {
		t.Fatalf("expected no pitcher rows, got %v", rows)
	}
	if src.Calls.Load() != 2 || src.Source() != players.SourceTracking {
		t.Fatalf("unexpected stub state")
	}
}

func TestNewRosterService(t *testing.T) {
	registry := teams.NewRegistry([]teams.Option{SampleTeam("mlb:T")})
	leader := &StubRowSource{
		Kind: players.SourceLeaderboard,
		Rows: map[players.Kind][]providers.Row{
			players.KindHitter: {{Name: "Jane Doe", Stats: players.Stats{"AVG": 0.3}}},
		},
	}
	tracking := &StubRowSource{
		Kind: players.SourceTracking,
		Rows: map[players.Kind][]providers.Row{
			players.KindHitter: {{Name: "Jane Doe", ProviderID: 555, Stats: players.Stats{"avg_hit_speed": 90.1}}},
		},
	}
	svc := NewRosterService(registry, clock.NewMock(), leader, tracking)

	roster, err := svc.Roster(context.Background(), "mlb:T", 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roster) != 1 || roster[0].ID != "mlb:555" || len(roster[0].Sources) != 2 {
		t.Fatalf("unexpected roster %+v", roster)
	}
}
