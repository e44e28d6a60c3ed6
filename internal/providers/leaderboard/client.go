package leaderboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/preston-bernstein/roster-stats-service/internal/domain/players"
	"github.com/preston-bernstein/roster-stats-service/internal/domain/teams"
	"github.com/preston-bernstein/roster-stats-service/internal/logging"
	"github.com/preston-bernstein/roster-stats-service/internal/providers"
)

const (
	providerName   = "leaderboard"
	defaultBaseURL = "https://www.fangraphs.com/leaders-legacy.aspx"
)

var playerIDPattern = regexp.MustCompile(`(?i)playerid=(\d+)`)

// Config controls how the leaderboard client reaches the upstream.
type Config struct {
	BaseURL    string
	HTTPClient providers.Doer
}

// Client scrapes the team leaderboard table into rows.
type Client struct {
	baseURL string
	http    providers.Doer
	logger  *slog.Logger
}

// NewClient constructs a leaderboard client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	doer := cfg.HTTPClient
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: doer, logger: logger}
}

// Source implements providers.RowSource.
func (c *Client) Source() players.SourceKind { return players.SourceLeaderboard }

// FetchRows loads the batting or pitching table for a team and season.
func (c *Client) FetchRows(ctx context.Context, team teams.Option, season int, kind players.Kind) ([]providers.Row, error) {
	if team.LeaderboardTeamID <= 0 {
		return nil, providers.ErrConfigurationMissing
	}
	rawURL := c.buildURL(team.LeaderboardTeamID, season, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: build request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

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
		return nil, fmt.Errorf("leaderboard: parse table: %w", err)
	}
	providers.LogWithProvider(ctx, c.logger, slog.LevelDebug, providerName, "leaderboard rows parsed",
		logging.FieldTeamKey, team.Key,
		logging.FieldSeason, season,
		logging.FieldRole, string(kind),
		logging.FieldCount, len(rows),
	)
	return rows, nil
}

func (c *Client) buildURL(teamID, season int, kind players.Kind) string {
	category := "bat"
	if kind == players.KindPitcher {
		category = "pit"
	}
	year := strconv.Itoa(season)
	q := url.Values{}
	q.Set("pos", "all")
	q.Set("stats", category)
	q.Set("lg", "all")
	q.Set("qual", "0")
	q.Set("type", "8")
	q.Set("season", year)
	q.Set("season1", year)
	q.Set("month", "0")
	q.Set("ind", "0")
	q.Set("team", strconv.Itoa(teamID))
	q.Set("rost", "0")
	q.Set("age", "0")
	q.Set("filter", "")
	q.Set("players", "0")
	q.Set("sort", "20,a")
	q.Set("page", "1_200")
	return c.baseURL + "?" + q.Encode()
}

// parseRows reads the master table. The first column is a rank and the
// second holds the player name, optionally linking to the provider id.
func parseRows(r io.Reader) ([]providers.Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	table := doc.Find("table.rgMasterTable").First()
	if table.Length() == 0 {
		return []providers.Row{}, nil
	}

	var headers []string
	table.Find("thead tr").Last().Find("th").Each(func(i int, th *goquery.Selection) {
		if i == 0 {
			return
		}
		text := strings.TrimSpace(th.Text())
		if text == "" {
			text = fmt.Sprintf("col%d", i)
		}
		headers = append(headers, text)
	})

	rows := make([]providers.Row, 0)
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}
		nameCell := cells.Eq(1)
		name := strings.TrimSpace(nameCell.Text())
		if name == "" || strings.Contains(strings.ToLower(name), "team totals") {
			return
		}

		row := providers.Row{Name: name, Stats: players.Stats{}}
		if href, ok := nameCell.Find("a").Attr("href"); ok {
			if m := playerIDPattern.FindStringSubmatch(href); m != nil {
				row.ProviderID = providers.ParseID(m[1])
			}
		}
		cells.Each(func(idx int, td *goquery.Selection) {
			if idx == 0 {
				return
			}
			header := fmt.Sprintf("col%d", idx)
			if idx-1 < len(headers) {
				header = headers[idx-1]
			}
			if v, ok := providers.CoerceCell(td.Text()); ok {
				row.Stats[header] = v
			}
		})
		row.Team = statText(row.Stats, "Team", "Tm")
		row.Position = statText(row.Stats, "Pos")
		rows = append(rows, row)
	})
	return rows, nil
}

func statText(stats players.Stats, keys ...string) string {
	for _, k := range keys {
		if s, ok := stats[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
