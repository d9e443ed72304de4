package gate

import (
	"context"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/autoses/pkg/logger"
)

// EnabledSource reports the persisted enabled flag.
type EnabledSource interface {
	Enabled(ctx context.Context) (bool, error)
}

// Predicate receives the current decision and returns the new one.
type Predicate func(ctx context.Context, enabled bool) bool

type predicate struct {
	fn       Predicate
	priority int
}

// Gate answers whether SES dispatch is active for a call.
type Gate struct {
	source     EnabledSource
	logger     *slog.Logger
	predicates []predicate
}

// Option configures a Gate.
type Option func(*Gate)

// WithPredicate appends fn to the decision chain. Lower priorities run first;
// equal priorities run in registration order.
func WithPredicate(priority int, fn Predicate) Option {
	return func(g *Gate) {
		if fn != nil {
			g.predicates = append(g.predicates, predicate{fn: fn, priority: priority})
		}
	}
}

// WithLogger sets the logger used to report store read failures.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a Gate reading the persisted flag from source.
func New(source EnabledSource, opts ...Option) *Gate {
	g := &Gate{source: source, logger: logger.NewNope()}
	for _, opt := range opts {
		opt(g)
	}
	slices.SortStableFunc(g.predicates, func(a, b predicate) int {
		return a.priority - b.priority
	})
	return g
}

// IsEnabled reports whether SES dispatch is active for ctx.
// A store read failure counts as not persisted-enabled.
func (g *Gate) IsEnabled(ctx context.Context) bool {
	enabled, err := g.source.Enabled(ctx)
	if err != nil {
		g.logger.WarnContext(ctx, "failed to read ses enabled flag", slog.String("error", err.Error()))
		enabled = false
	}

	enabled = enabled || IsForced(ctx)

	for _, p := range g.predicates {
		enabled = p.fn(ctx, enabled)
	}

	return enabled
}
