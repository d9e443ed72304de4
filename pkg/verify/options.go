package verify

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/autoses/pkg/logger"
)

// DefaultTTL is how long a verification answer is cached.
const DefaultTTL = 7 * 24 * time.Hour

// Option configures a Verifier.
type Option func(*options)

type options struct {
	logger *slog.Logger
	ttl    time.Duration
}

func defaultOptions() *options {
	return &options{
		logger: logger.NewNope(),
		ttl:    DefaultTTL,
	}
}

// WithTTL overrides the cache lifetime of verification answers.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.ttl = d
		}
	}
}

// WithLogger sets the logger used to report failed lookups.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
