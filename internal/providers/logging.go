package providers

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/roster-stats-service/internal/logging"
)

// LogWithProvider emits a log entry tagged with the provider name. A nil logger is a no-op.
func LogWithProvider(ctx context.Context, logger *slog.Logger, level slog.Level, provider string, msg string, args ...any) {
	logger = logging.FromContext(ctx, logger)
	if logger == nil {
		return
	}
	args = append(args, slog.String(logging.FieldProvider, provider))
	logger.Log(ctx, level, msg, args...)
}

func logWithProvider(ctx context.Context, logger *slog.Logger, level slog.Level, provider string, msg string, args ...any) {
	LogWithProvider(ctx, logger, level, provider, msg, args...)
}
