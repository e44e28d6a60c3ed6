package providers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/preston-bernstein/roster-stats-service/internal/metrics"
)

// BreakerConfig trips the breaker after consecutive transient failures.
type BreakerConfig struct {
	Failures  uint32
	Timeout   time.Duration
	HalfOpens uint32
}

// newBreaker returns nil when Failures is zero.
func newBreaker(name string, cfg BreakerConfig, logger *slog.Logger, recorder *metrics.Recorder) *gobreaker.CircuitBreaker {
	if cfg.Failures == 0 {
		return nil
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpens,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !IsRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logWithProvider(context.Background(), logger, slog.LevelWarn, name, "circuit breaker state change",
				"from", from.String(), "to", to.String())
			if to == gobreaker.StateOpen {
				recorder.RecordBreakerOpen(name)
			}
		},
	})
}

// isBreakerRejection reports gobreaker's open and half-open rejections.
func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
