package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/roster-stats-service/internal/logging"
	"github.com/preston-bernstein/roster-stats-service/internal/providers"
	"github.com/preston-bernstein/roster-stats-service/internal/timeutil"
)

const (
	providerName     = "schedule"
	defaultBaseURL   = "https://statsapi.mlb.com/api/v1/schedule"
	defaultTimezone  = "America/New_York"
	defaultDaysAhead = 14
)

// Config controls how the schedule client reaches the upstream.
type Config struct {
	BaseURL    string
	HTTPClient providers.Doer
	Timezone   string
	DaysAhead  int
}

// Client looks up upcoming games for a team.
type Client struct {
	baseURL   string
	http      providers.Doer
	loc       *time.Location
	daysAhead int
	now       func() time.Time
	logger    *slog.Logger
}

// NewClient constructs a schedule client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	doer := cfg.HTTPClient
	if doer == nil {
		doer = http.DefaultClient
	}
	days := cfg.DaysAhead
	if days <= 0 {
		days = defaultDaysAhead
	}
	tz := cfg.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	return &Client{
		baseURL:   baseURL,
		http:      doer,
		loc:       providers.ResolveTimezone(tz, time.UTC),
		daysAhead: days,
		now:       time.Now,
		logger:    logger,
	}
}

// NextGame returns the first game for teamID within the look-ahead window.
// The boolean is false when the team has no game in the window.
func (c *Client) NextGame(ctx context.Context, teamID int) (Game, bool, error) {
	if teamID <= 0 {
		return Game{}, false, providers.ErrConfigurationMissing
	}
	start, end := timeutil.Window(c.now().In(c.loc), c.daysAhead)
	q := url.Values{}
	q.Set("sportId", "1")
	q.Set("teamId", strconv.Itoa(teamID))
	q.Set("startDate", start)
	q.Set("endDate", end)
	rawURL := c.baseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Game{}, false, fmt.Errorf("schedule: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if _, ok := providers.AsUpstreamError(err); ok || ctx.Err() != nil {
			return Game{}, false, err
		}
		return Game{}, false, &providers.UpstreamError{Provider: providerName, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Game{}, false, &providers.UpstreamError{Provider: providerName, URL: rawURL, StatusCode: resp.StatusCode}
	}

	var payload scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Game{}, false, &providers.UpstreamError{Provider: providerName, URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}

	game, ok := findNext(payload, teamID, c.loc)
	providers.LogWithProvider(ctx, c.logger, slog.LevelDebug, providerName, "schedule fetched",
		"team_id", teamID,
		"found", ok,
		logging.FieldCount, len(payload.Dates),
	)
	return game, ok, nil
}
