package gate

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/autoses/pkg/logger"
)

type forcedKey struct{}

// Force returns a context in which the gate reports enabled regardless of
// the persisted flag. Predicates still run.
func Force(ctx context.Context) context.Context {
	return context.WithValue(ctx, forcedKey{}, true)
}

// IsForced reports whether ctx carries the force-enable override.
func IsForced(ctx context.Context) bool {
	forced, _ := ctx.Value(forcedKey{}).(bool)
	return forced
}

// WithForcedEnable runs action with the override set. The caller's ctx is
// never modified, so the override is gone once action returns, fails or panics.
func WithForcedEnable[T any](ctx context.Context, action func(ctx context.Context) (T, error)) (T, error) {
	return action(Force(ctx))
}

// ForcedExtractor tags log records emitted under the override.
func ForcedExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if IsForced(ctx) {
			return slog.Bool("ses_forced", true), true
		}
		return slog.Attr{}, false
	}
}
