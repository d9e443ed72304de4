package dispatch

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/autoses/pkg/dnsverify"
	"github.com/dmitrymomot/autoses/pkg/gate"
	"github.com/dmitrymomot/autoses/pkg/mailer"
	"github.com/dmitrymomot/autoses/pkg/mailer/ses"
)

// Option configures a Dispatcher.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	onResult   mailer.ResultFunc
	dns        *dnsverify.Checker
	predicates []gate.Option
	sesOpts    []ses.Option
	verifyTTL  time.Duration
}

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithGatePredicate adds a predicate to the dispatch gate.
func WithGatePredicate(priority int, fn gate.Predicate) Option {
	return func(o *options) {
		o.predicates = append(o.predicates, gate.WithPredicate(priority, fn))
	}
}

// WithResultCallback receives every delivery attempt in addition to the
// built-in failure logging.
func WithResultCallback(fn mailer.ResultFunc) Option {
	return func(o *options) {
		o.onResult = fn
	}
}

// WithSESOptions configures the SES transport.
func WithSESOptions(opts ...ses.Option) Option {
	return func(o *options) {
		o.sesOpts = append(o.sesOpts, opts...)
	}
}

// WithDNSChecker sets the checker used for the DNS diagnostic.
func WithDNSChecker(c *dnsverify.Checker) Option {
	return func(o *options) {
		if c != nil {
			o.dns = c
		}
	}
}

// WithVerificationTTL overrides how long verification results are cached.
func WithVerificationTTL(d time.Duration) Option {
	return func(o *options) {
		o.verifyTTL = d
	}
}
