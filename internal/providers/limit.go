package providers

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"
)

// newLimiter builds a token bucket; a non-positive rate disables limiting.
func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// waitTurn blocks until the limiter admits one call or ctx ends.
func waitTurn(ctx context.Context, limiter *rate.Limiter, logger *slog.Logger, provider string) error {
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		logWithProvider(ctx, logger, slog.LevelWarn, provider, "rate-limited fetch canceled", "err", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}
