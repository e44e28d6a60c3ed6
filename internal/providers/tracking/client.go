package tracking

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/preston-bernstein/roster-stats-service/internal/domain/players"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
	"github.com/preston-bernstein/roster-stats-service/internal/logging"
	"github.com/preston-bernstein/roster-stats-service/internal/providers"
)

const (
	providerName   = "tracking"
	defaultBaseURL = "https://baseballsavant.mlb.com/leaderboard/statcast"
)

var (
	nameColumns = []string{"last_name, first_name", "player_name"}
	idColumns   = []string{"player_id", "playerid", "batter", "pitcher"}
	skipColumns = map[string]bool{
		"last_name, first_name": true,
		"player_name":           true,
		"player_id":             true,
		"playerid":              true,
		"team":                  true,
	}
)

// Config controls how the tracking client reaches the upstream.
type Config struct {
	BaseURL     string
	HTTPClient  providers.Doer
	MinAttempts int
}

// Client downloads the tracking metrics CSV export.
type Client struct {
	baseURL     string
	http        providers.Doer
	minAttempts int
	logger      *slog.Logger
}

// NewClient constructs a tracking client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	doer := cfg.HTTPClient
	if doer == nil {
		doer = http.DefaultClient
	}
	minAttempts := cfg.MinAttempts
	if minAttempts <= 0 {
		minAttempts = 1
	}
	return &Client{baseURL: baseURL, http: doer, minAttempts: minAttempts, logger: logger}
}

// Source implements providers.RowSource.
func (c *Client) Source() players.SourceKind { return players.SourceTracking }

// FetchRows loads batter or pitcher tracking metrics for a team and season.
func (c *Client) FetchRows(ctx context.Context, team teams.Option, season int, kind players.Kind) ([]providers.Row, error) {
	if strings.TrimSpace(team.TrackingTeam) == "" {
		return nil, providers.ErrConfigurationMissing
	}
	rawURL := c.buildURL(team.TrackingTeam, season, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("tracking: build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.http.Do(req)
	if err != nil {
		if _, ok := providers.AsUpstreamError(err); ok || ctx.Err() != nil {
			return nil, err
		}
		return nil, &providers.UpstreamError{Provider: providerName, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &providers.UpstreamError{Provider: providerName, URL: rawURL, StatusCode: resp.StatusCode}
	}

	rows, err := parseRows(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tracking: parse csv: %w", err)
	}
	providers.LogWithProvider(ctx, c.logger, slog.LevelDebug, providerName, "tracking rows parsed",
		logging.FieldTeamKey, team.Key,
		logging.FieldSeason, season,
		logging.FieldRole, string(kind),
		logging.FieldCount, len(rows),
	)
	return rows, nil
}

func (c *Client) buildURL(teamCode string, season int, kind players.Kind) string {
	role := "batter"
	if kind == players.KindPitcher {
		role = "pitcher"
	}
	q := url.Values{}
	q.Set("type", role)
	q.Set("year", strconv.Itoa(season))
	q.Set("position", "")
	q.Set("team", teamCode)
	q.Set("min", strconv.Itoa(c.minAttempts))
	q.Set("csv", "true")
	return c.baseURL + "?" + q.Encode()
}

func parseRows(r io.Reader) ([]providers.Row, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(body)) == 0 {
		return []providers.Row{}, nil
	}

	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	rows := make([]providers.Row, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		name := displayName(firstValue(record, index, nameColumns...))
		if name == "" {
			continue
		}
		row := providers.Row{
			Name:       name,
			ProviderID: providers.ParseID(firstValue(record, index, idColumns...)),
			Team:       strings.TrimSpace(field(record, index, "team")),
			Stats:      players.Stats{},
		}
		for i, h := range header {
			key := strings.TrimSpace(h)
			if skipColumns[key] || i >= len(record) {
				continue
			}
			if v, ok := providers.ParseNumber(record[i]); ok {
				row.Stats[key] = v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// displayName turns "Last, First" into "First Last" and collapses whitespace.
func displayName(raw string) string {
	cleaned := strings.TrimSpace(raw)
	parts := strings.Split(cleaned, ",")
	if len(parts) == 2 {
		last := strings.TrimSpace(parts[0])
		first := strings.TrimSpace(parts[1])
		if first != "" && last != "" {
			return first + " " + last
		}
	}
	return strings.Join(strings.Fields(cleaned), " ")
}

func field(record []string, index map[string]int, key string) string {
	i, ok := index[key]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func firstValue(record []string, index map[string]int, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(field(record, index, k)); v != "" {
			return v
		}
	}
	return ""
}
