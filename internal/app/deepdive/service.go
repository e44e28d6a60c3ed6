package deepdive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/itbasis/go-clock"

	"github.com/preston-bernstein/roster-stats-service/internal/logging"
	"github.com/preston-bernstein/roster-stats-service/internal/providers"
)

const (
	defaultBaseURL = "http://127.0.0.1:8017/api/deep-dive"
	defaultRetries = 2
	maxBodyBytes   = 16 << 20
)

// ErrInvalidQuery marks a query that cannot be sent upstream.
var ErrInvalidQuery = errors.New("invalid deep dive query")

// Span selects the part of the season.
type Span string

const (
	SpanRegular    Span = "regular"
	SpanPostseason Span = "postseason"
	SpanTotal      Span = "total"
)

// Rollup selects the aggregation window.
type Rollup string

const (
	RollupSeason Rollup = "season"
	RollupLast3  Rollup = "last3"
	RollupCareer Rollup = "career"
)

// Query identifies one pitcher deep dive.
type Query struct {
	MLBAM  int
	Year   int
	Span   Span
	Rollup Rollup
}

// Validate checks ids and enumerations.
func (q Query) Validate() error {
	if q.MLBAM <= 0 {
		return fmt.Errorf("%w: mlbam must be a positive integer", ErrInvalidQuery)
	}
	if q.Year < 1900 {
		return fmt.Errorf("%w: year must be 1900 or later", ErrInvalidQuery)
	}
	switch q.Span {
	case SpanRegular, SpanPostseason, SpanTotal:
	default:
		return fmt.Errorf("%w: unknown span %q", ErrInvalidQuery, q.Span)
	}
	switch q.Rollup {
	case RollupSeason, RollupLast3, RollupCareer:
	default:
		return fmt.Errorf("%w: unknown rollup %q", ErrInvalidQuery, q.Rollup)
	}
	return nil
}

func (q Query) values() url.Values {
	v := url.Values{}
	v.Set("mlbam", strconv.Itoa(q.MLBAM))
	v.Set("year", strconv.Itoa(q.Year))
	v.Set("span", string(q.Span))
	v.Set("rollup", string(q.Rollup))
	return v
}

// Result is a deep-dive document. Stale marks a last-good fallback served
// because the fresh fetch failed; Error then carries the failure.
type Result struct {
	Document  Document  `json:"document"`
	FetchedAt time.Time `json:"fetchedAt"`
	Stale     bool      `json:"stale"`
	Error     string    `json:"error,omitempty"`
}

// Fetcher issues a request with a retry budget.
type Fetcher interface {
	FetchWithRetry(ctx context.Context, req *http.Request, maxRetries int) (*http.Response, error)
}

// Config locates the deep-dive API.
type Config struct {
	BaseURL string
	Retries int
}

type lastGood struct {
	doc       Document
	fetchedAt time.Time
}

// Service fetches pitcher deep dives and keeps the last good document per query.
type Service struct {
	baseURL string
	retries int
	fetcher Fetcher
	clock   clock.Clock
	logger  *slog.Logger

	mu   sync.RWMutex
	good map[Query]lastGood
}

// NewService constructs a deep-dive Service.
func NewService(cfg Config, fetcher Fetcher, clk clock.Clock, logger *slog.Logger) *Service {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = defaultRetries
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		baseURL: base,
		retries: retries,
		fetcher: fetcher,
		clock:   clk,
		logger:  logger,
		good:    make(map[Query]lastGood),
	}
}

// Fetch loads the document for q. When the fetch fails and a previous good
// document exists it is returned marked stale. A canceled fetch returns the
// context error and leaves retained state untouched.
func (s *Service) Fetch(ctx context.Context, q Query) (Result, error) {
	if err := q.Validate(); err != nil {
		return Result{}, err
	}

	doc, err := s.fetch(ctx, q)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}
	if err != nil {
		if prev, ok := s.lastGood(q); ok {
			logging.Warn(logging.FromContext(ctx, s.logger), "deep dive fetch failed, serving last good",
				"mlbam", q.MLBAM, "year", q.Year, logging.FieldError, err)
			return Result{Document: prev.doc.Clone(), FetchedAt: prev.fetchedAt, Stale: true, Error: err.Error()}, nil
		}
		return Result{}, err
	}

	now := s.clock.Now()
	s.mu.Lock()
	s.good[q] = lastGood{doc: doc, fetchedAt: now}
	s.mu.Unlock()
	return Result{Document: doc.Clone(), FetchedAt: now}, nil
}

func (s *Service) fetch(ctx context.Context, q Query) (Document, error) {
	rawURL := s.baseURL + "/pitcher/full?" + q.values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.fetcher.FetchWithRetry(ctx, req, s.retries)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &providers.UpstreamError{URL: rawURL, StatusCode: resp.StatusCode, Err: err}
	}
	doc, err := Normalize(body)
	if err != nil {
		return nil, &providers.ShapeMismatchError{URL: rawURL, StatusCode: resp.StatusCode, Reason: err.Error()}
	}
	return doc, nil
}

func (s *Service) lastGood(q Query) (lastGood, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prev, ok := s.good[q]
	return prev, ok
}
