package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/roster-stats-service/internal/app/deepdive"
	"github.com/preston-bernstein/roster-stats-service/internal/app/discovery"
	"github.com/preston-bernstein/roster-stats-service/internal/app/gameday"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/players"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
	"github.com/preston-bernstein/roster-stats-service/internal/poller"
	"github.com/preston-bernstein/roster-stats-service/internal/testutil"
)

type stubRosters struct {
	roster   []players.Player
	err      error
	fallback string
	gotTeam  string
	gotSeas  int
	found    bool
	player   players.Player
}

func (s *stubRosters) Roster(_ context.Context, teamKey string, season int) ([]players.Player, error) {
	s.gotTeam, s.gotSeas = teamKey, season
	return s.roster, s.err
}

func (s *stubRosters) FindByIdentifier(_ context.Context, identifier string, season int, teamKey string) (players.Player, bool, error) {
	s.gotTeam, s.gotSeas = teamKey, season
	return s.player, s.found, s.err
}

func (s *stubRosters) FallbackTeamKey() string { return s.fallback }

type stubSummaries struct {
	res      discovery.Result
	err      error
	gotName  string
	gotQuery url.Values
}

func (s *stubSummaries) Resolve(_ context.Context, name string, query url.Values) (discovery.Result, error) {
	s.gotName, s.gotQuery = name, query
	return s.res, s.err
}

type stubGameday struct {
	next gameday.NextOpponent
	err  error
}

func (s *stubGameday) NextOpponent(context.Context, string) (gameday.NextOpponent, error) {
	return s.next, s.err
}

type stubDeepDives struct {
	res   deepdive.Result
	err   error
	query deepdive.Query
}

func (s *stubDeepDives) Fetch(_ context.Context, q deepdive.Query) (deepdive.Result, error) {
	s.query = q
	if err := q.Validate(); err != nil {
		return deepdive.Result{}, err
	}
	return s.res, s.err
}

type envelope struct {
	OK        bool                `json:"ok"`
	Error     string              `json:"error"`
	Reason    string              `json:"reason"`
	Attempts  []discovery.Attempt `json:"attempts"`
	TeamKey   string              `json:"teamKey"`
	Season    int                 `json:"season"`
	RequestID string              `json:"requestId"`
	Endpoints []string            `json:"endpoints"`
	Services  []string            `json:"services"`
	Options   int                 `json:"options"`
}

func newTestHandler(deps Deps) *Handler {
	h := NewHandler(deps, nil)
	h.now = testutil.NowAt(time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC))
	return h
}

func route(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Help)
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Get("/ping", h.Ping)
	r.Get("/players", h.Roster)
	r.Get("/players/{id}", h.PlayerByID)
	r.Get("/players/{name}/summary", h.PlayerSummary)
	r.Get("/gameday/next-opponent", h.NextOpponent)
	r.Get("/deep-dive/pitcher", h.PitcherDeepDive)
	r.Get("/metrics/dictionary", h.Dictionary)
	r.Get("/options/teams", h.TeamOptions)
	return r
}

func TestHealth(t *testing.T) {
	rr := testutil.Serve(route(newTestHandler(Deps{})), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := newTestHandler(Deps{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req.WithContext(ctx))

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp envelope
	testutil.DecodeJSON(t, rr, &resp)
	if resp.OK || resp.Error != "shutting down" {
		t.Fatalf("unexpected body %+v", resp)
	}
}

func TestReadyUsesWarmerStatus(t *testing.T) {
	status := poller.Status{}
	h := newTestHandler(Deps{Status: func() poller.Status { return status }})

	rr := testutil.Serve(route(h), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)

	status = poller.Status{LastSuccess: time.Now()}
	rr = testutil.Serve(route(h), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	status = poller.Status{LastSuccess: time.Now(), ConsecutiveFailures: 5, LastError: "upstream down"}
	rr = testutil.Serve(route(h), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp envelope
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Error != "upstream down" {
		t.Fatalf("expected last error surfaced, got %q", resp.Error)
	}
}

func TestReadyWithoutWarmer(t *testing.T) {
	rr := testutil.Serve(route(newTestHandler(Deps{})), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestHelpPingAndOptions(t *testing.T) {
	h := newTestHandler(Deps{Teams: teams.DefaultRegistry()})

	rr := testutil.Serve(route(h), http.MethodGet, "/", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var help envelope
	testutil.DecodeJSON(t, rr, &help)
	if !help.OK || len(help.Endpoints) == 0 {
		t.Fatalf("expected endpoint listing, got %+v", help)
	}

	rr = testutil.Serve(route(h), http.MethodGet, "/ping", nil)
	var ping envelope
	testutil.DecodeJSON(t, rr, &ping)
	if ping.Options != 2 || len(ping.Services) != 1 || ping.Services[0] != ServiceName {
		t.Fatalf("unexpected ping %+v", ping)
	}

	rr = testutil.Serve(route(h), http.MethodGet, "/options/teams", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var opts struct {
		OK   bool           `json:"ok"`
		Data []teams.Option `json:"data"`
	}
	testutil.DecodeJSON(t, rr, &opts)
	if !opts.OK || len(opts.Data) != 2 || opts.Data[0].Key != "mlb:NYM" {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestDictionary(t *testing.T) {
	rr := testutil.Serve(route(newTestHandler(Deps{})), http.MethodGet, "/metrics/dictionary", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp struct {
		OK   bool             `json:"ok"`
		Data []map[string]any `json:"data"`
	}
	testutil.DecodeJSON(t, rr, &resp)
	if !resp.OK || len(resp.Data) == 0 {
		t.Fatalf("expected dictionary entries, got %+v", resp)
	}
}

func TestRosterUsesFallbackTeamAndSeason(t *testing.T) {
	stub := &stubRosters{
		fallback: "mlb:NYM",
		roster:   []players.Player{testutil.SamplePlayer("mlb:NYM", "Jane Doe", 555, 2024)},
	}
	rr := testutil.Serve(route(newTestHandler(Deps{Rosters: stub})), http.MethodGet, "/players", nil)

	testutil.AssertStatus(t, rr, http.StatusOK)
	if stub.gotTeam != "mlb:NYM" || stub.gotSeas != 2024 {
		t.Fatalf("expected fallback team and current season, got %s %d", stub.gotTeam, stub.gotSeas)
	}
	var resp struct {
		OK   bool             `json:"ok"`
		Data []players.Player `json:"data"`
	}
	testutil.DecodeJSON(t, rr, &resp)
	if !resp.OK || len(resp.Data) != 1 || resp.Data[0].ID != "mlb:555" {
		t.Fatalf("unexpected roster body %+v", resp)
	}
}

func TestRosterExplicitSeasonAndTeam(t *testing.T) {
	stub := &stubRosters{roster: []players.Player{testutil.SamplePlayer("mlb:T", "A", 1, 2019)}}
	rr := testutil.Serve(route(newTestHandler(Deps{Rosters: stub})), http.MethodGet, "/players?teamKey=mlb:T&season=2019", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if stub.gotTeam != "mlb:T" || stub.gotSeas != 2019 {
		t.Fatalf("unexpected args %s %d", stub.gotTeam, stub.gotSeas)
	}

	rr = testutil.Serve(route(newTestHandler(Deps{Rosters: stub})), http.MethodGet, "/players?teamKey=mlb:T&season=1800", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if stub.gotSeas != 2024 {
		t.Fatalf("expected invalid season to fall back to current year, got %d", stub.gotSeas)
	}
}

func TestRosterErrors(t *testing.T) {
	rr := testutil.Serve(route(newTestHandler(Deps{Rosters: &stubRosters{}})), http.MethodGet, "/players", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	rr = testutil.Serve(route(newTestHandler(Deps{Rosters: &stubRosters{}})), http.MethodGet, "/players?teamKey=mlb:T", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	var resp envelope
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Error != "No roster data available" || resp.TeamKey != "mlb:T" || resp.Season != 2024 {
		t.Fatalf("unexpected not found body %+v", resp)
	}

	stub := &stubRosters{err: errors.New("all roster sources failed")}
	rr = testutil.Serve(route(newTestHandler(Deps{Rosters: stub})), http.MethodGet, "/players?teamKey=mlb:T", nil)
	testutil.AssertStatus(t, rr, http.StatusBadGateway)
}

func TestPlayerByID(t *testing.T) {
	stub := &stubRosters{found: true, player: testutil.SamplePlayer("mlb:T", "Jane Doe", 555, 2024)}
	rr := testutil.Serve(route(newTestHandler(Deps{Rosters: stub})), http.MethodGet, "/players/mlb:555?teamKey=mlb:T", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if stub.gotTeam != "mlb:T" {
		t.Fatalf("expected team forwarded, got %q", stub.gotTeam)
	}

	missing := &stubRosters{}
	rr = testutil.Serve(route(newTestHandler(Deps{Rosters: missing})), http.MethodGet, "/players/999", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	var resp envelope
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Error != "Player not found" {
		t.Fatalf("unexpected body %+v", resp)
	}

	failing := &stubRosters{err: errors.New("upstream down")}
	rr = testutil.Serve(route(newTestHandler(Deps{Rosters: failing})), http.MethodGet, "/players/999", nil)
	testutil.AssertStatus(t, rr, http.StatusBadGateway)
}

func TestPlayerSummaryRelaysDocument(t *testing.T) {
	stub := &stubSummaries{res: discovery.Result{
		Document: []byte(`{"summary":{"avg":0.3}}`),
		URL:      "http://biolab/hitters/Jane%20Doe/summary",
		Strategy: discovery.StrategyNameTemplated,
	}}
	rr := testutil.Serve(route(newTestHandler(Deps{Summaries: stub})), http.MethodGet, "/players/Jane%20Doe/summary?year=2024", nil)

	testutil.AssertStatus(t, rr, http.StatusOK)
	if rr.Body.String() != `{"summary":{"avg":0.3}}` {
		t.Fatalf("expected raw document, got %s", rr.Body.String())
	}
	if rr.Header().Get(headerSummaryStrategy) != string(discovery.StrategyNameTemplated) {
		t.Fatalf("expected strategy header")
	}
	if stub.gotQuery.Get("year") != "2024" {
		t.Fatalf("expected query forwarded, got %v", stub.gotQuery)
	}
}

func TestPlayerSummaryNoMatchCarriesAttempts(t *testing.T) {
	stub := &stubSummaries{err: &discovery.NoMatchError{
		Name:     "Jane Doe",
		Reason:   "no hitter summary route matched",
		Attempts: []discovery.Attempt{{URL: "http://biolab/hitters/search?q=Jane", Status: 200, Note: "no id in search results"}},
	}}
	rr := testutil.Serve(route(newTestHandler(Deps{Summaries: stub})), http.MethodGet, "/players/Jane%20Doe/summary", nil)

	testutil.AssertStatus(t, rr, http.StatusNotFound)
	var resp envelope
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Reason != "no hitter summary route matched" || len(resp.Attempts) != 1 || resp.Attempts[0].Note != "no id in search results" {
		t.Fatalf("unexpected body %+v", resp)
	}

	stub.err = context.DeadlineExceeded
	rr = testutil.Serve(route(newTestHandler(Deps{Summaries: stub})), http.MethodGet, "/players/Jane/summary", nil)
	testutil.AssertStatus(t, rr, http.StatusBadGateway)
}

func TestNextOpponent(t *testing.T) {
	h := newTestHandler(Deps{Gameday: &stubGameday{next: gameday.NextOpponent{TeamName: "Mets", OpponentName: "Braves"}}})
	rr := testutil.Serve(route(h), http.MethodGet, "/gameday/next-opponent", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	var bad envelope
	testutil.DecodeJSON(t, rr, &bad)
	if bad.Error != "teamKey is required" {
		t.Fatalf("unexpected error %q", bad.Error)
	}

	rr = testutil.Serve(route(h), http.MethodGet, "/gameday/next-opponent?teamKey=mlb:NYM", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	h = newTestHandler(Deps{Gameday: &stubGameday{err: gameday.ErrNoUpcomingGame}})
	rr = testutil.Serve(route(h), http.MethodGet, "/gameday/next-opponent?teamKey=mlb:NYM", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	h = newTestHandler(Deps{Gameday: &stubGameday{err: errors.New("schedule 500")}})
	rr = testutil.Serve(route(h), http.MethodGet, "/gameday/next-opponent?teamKey=mlb:NYM", nil)
	testutil.AssertStatus(t, rr, http.StatusBadGateway)
}

func TestPitcherDeepDive(t *testing.T) {
	stub := &stubDeepDives{res: deepdive.Result{Stale: true, Error: "upstream 503"}}
	h := newTestHandler(Deps{DeepDives: stub})

	rr := testutil.Serve(route(h), http.MethodGet, "/deep-dive/pitcher?mlbam=605400", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	want := deepdive.Query{MLBAM: 605400, Year: 2024, Span: deepdive.SpanRegular, Rollup: deepdive.RollupSeason}
	if stub.query != want {
		t.Fatalf("expected defaults applied, got %+v", stub.query)
	}
	var resp struct {
		OK   bool            `json:"ok"`
		Data deepdive.Result `json:"data"`
	}
	testutil.DecodeJSON(t, rr, &resp)
	if !resp.Data.Stale {
		t.Fatalf("expected stale flag passed through")
	}

	rr = testutil.Serve(route(h), http.MethodGet, "/deep-dive/pitcher?mlbam=abc", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	rr = testutil.Serve(route(h), http.MethodGet, "/deep-dive/pitcher?mlbam=1&span=spring", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	stub.err = errors.New("upstream down")
	rr = testutil.Serve(route(h), http.MethodGet, "/deep-dive/pitcher?mlbam=1", nil)
	testutil.AssertStatus(t, rr, http.StatusBadGateway)
}

func TestMissingDepsReturnServiceUnavailable(t *testing.T) {
	h := route(newTestHandler(Deps{}))
	for _, path := range []string{"/players", "/players/1", "/players/x/summary", "/gameday/next-opponent?teamKey=x", "/deep-dive/pitcher?mlbam=1", "/options/teams"} {
		rr := testutil.Serve(h, http.MethodGet, path, nil)
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	}
}
