// AngelaMos | 2026
// fallback.go

package limiter

import (
	"context"
	"log/slog"
)

// Fallback consults primary and switches to secondary for any call where
// primary errors.
type Fallback struct {
	primary   Limiter
	secondary Limiter
	logger    *slog.Logger
}

func NewFallback(primary, secondary Limiter, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

func (f *Fallback) Allow(ctx context.Context, key string) (Result, error) {
	res, err := f.primary.Allow(ctx, key)
	if err == nil {
		return res, nil
	}

	f.logger.Warn("login limiter degraded to memory",
		"error", err,
		"key", key,
	)
	return f.secondary.Allow(ctx, key)
}
