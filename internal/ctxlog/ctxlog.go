// Package ctxlog carries a slog.Logger through context.Context so the
// generation pipeline can log without threading a logger through every
// signature.
package ctxlog

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// WithLogger embeds the logger in the returned context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger embedded in ctx. Contexts without one,
// such as those built directly in tests, fall back to the global default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
