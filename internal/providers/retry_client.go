package providers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/preston-bernstein/roster-stats-service/internal/logging"
	"github.com/preston-bernstein/roster-stats-service/internal/metrics"
)

const (
	defaultMaxRetries  = 2
	defaultBackoffBase = 300 * time.Millisecond
	defaultBackoffMax  = 5 * time.Second
	defaultHTTPTimeout = 10 * time.Second
)

// ClientConfig tunes a resilient client for one upstream.
type ClientConfig struct {
	Name           string
	HTTPClient     Doer
	Timeout        time.Duration
	MaxRetries     int
	BackoffBase    time.Duration
	BackoffMax     time.Duration
	RequestsPerSec float64
	Burst          int
	Breaker        BreakerConfig
}

type sleepFunc func(ctx context.Context, d time.Duration) error

// Client issues idempotent GETs with rate limiting, a circuit breaker and
// exponential backoff on 429 and 5xx responses.
type Client struct {
	name        string
	doer        Doer
	logger      *slog.Logger
	metrics     *metrics.Recorder
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	maxRetries  int
	backoffBase time.Duration
	backoffMax  time.Duration
	sleep       sleepFunc
	now         func() time.Time
}

// NewClient builds a resilient client. Zero values fall back to defaults.
func NewClient(cfg ClientConfig, logger *slog.Logger, recorder *metrics.Recorder) *Client {
	doer := cfg.HTTPClient
	if doer == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		doer = &http.Client{Timeout: timeout}
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	base := cfg.BackoffBase
	if base <= 0 {
		base = defaultBackoffBase
	}
	maxDelay := cfg.BackoffMax
	if maxDelay <= 0 {
		maxDelay = defaultBackoffMax
	}
	return &Client{
		name:        cfg.Name,
		doer:        doer,
		logger:      logger,
		metrics:     recorder,
		limiter:     newLimiter(cfg.RequestsPerSec, cfg.Burst),
		breaker:     newBreaker(cfg.Name, cfg.Breaker, logger, recorder),
		maxRetries:  maxRetries,
		backoffBase: base,
		backoffMax:  maxDelay,
		sleep:       sleepCtx,
		now:         time.Now,
	}
}

// Name identifies the upstream in logs and metrics.
func (c *Client) Name() string { return c.name }

// Do retries with the configured retry budget.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.FetchWithRetry(req.Context(), req, c.maxRetries)
}

// Get builds and issues a GET for rawURL.
func (c *Client) Get(ctx context.Context, rawURL string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	return c.Do(req)
}

// FetchWithRetry issues req up to maxRetries+1 times. Only 429, 5xx and
// transport failures are retried. Any other non-2xx status is returned as an
// UpstreamError without retrying. A 2xx response is returned with an open body.
func (c *Client) FetchWithRetry(ctx context.Context, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}
	bo := c.newBackOff()
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := waitTurn(ctx, c.limiter, c.logger, c.name); err != nil {
			return nil, err
		}

		resp, err := c.attempt(ctx, req)
		if err == nil {
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return resp, nil
			}
			drain(resp)
			return nil, &UpstreamError{Provider: c.name, URL: req.URL.String(), StatusCode: resp.StatusCode}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if isBreakerRejection(err) {
			logWithProvider(ctx, c.logger, slog.LevelWarn, c.name, "circuit open, skipping upstream call")
			return nil, &UpstreamError{Provider: c.name, URL: req.URL.String(), Err: ErrCircuitOpen}
		}
		lastErr = err
		if !IsRetryable(err) || attempt == maxRetries {
			break
		}

		delay := bo.NextBackOff()
		if rl, ok := AsRateLimitError(err); ok && rl.RetryAfter > delay {
			delay = rl.RetryAfter
		}
		logWithProvider(ctx, c.logger, slog.LevelWarn, c.name, "upstream fetch retry",
			logging.FieldAttempt, attempt+1,
			"max_retries", maxRetries,
			"delay_ms", delay.Milliseconds(),
			logging.FieldError, err,
		)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	logWithProvider(ctx, c.logger, slog.LevelWarn, c.name, "upstream fetch failed",
		"attempts", maxRetries+1, "err", lastErr)
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, req *http.Request) (*http.Response, error) {
	call := func() (interface{}, error) {
		start := c.now()
		resp, err := c.doer.Do(req.Clone(ctx))
		duration := c.now().Sub(start)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			wrapped := &UpstreamError{Provider: c.name, URL: req.URL.String(), Err: err}
			c.metrics.RecordProviderAttempt(c.name, duration, wrapped)
			return nil, wrapped
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"), c.now())
			drain(resp)
			rlErr := &RateLimitError{Provider: c.name, URL: req.URL.String(), StatusCode: resp.StatusCode, RetryAfter: retryAfter}
			c.metrics.RecordProviderAttempt(c.name, duration, rlErr)
			c.metrics.RecordRateLimit(c.name, retryAfter)
			return nil, rlErr
		}
		if IsTransientStatus(resp.StatusCode) {
			drain(resp)
			upErr := &UpstreamError{Provider: c.name, URL: req.URL.String(), StatusCode: resp.StatusCode}
			c.metrics.RecordProviderAttempt(c.name, duration, upErr)
			return nil, upErr
		}
		c.metrics.RecordProviderAttempt(c.name, duration, nil)
		return resp, nil
	}

	var (
		out interface{}
		err error
	)
	if c.breaker != nil {
		out, err = c.breaker.Execute(call)
	} else {
		out, err = call()
	}
	if err != nil {
		return nil, err
	}
	return out.(*http.Response), nil
}

func (c *Client) newBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.backoffBase
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = c.backoffMax
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}

func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
