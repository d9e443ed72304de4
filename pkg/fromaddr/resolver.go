package fromaddr

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/autoses/pkg/logger"
	"github.com/dmitrymomot/autoses/pkg/mailer"
	"github.com/dmitrymomot/autoses/pkg/settings"
)

// OptionsReader supplies the current sender configuration.
type OptionsReader interface {
	Options(ctx context.Context) (settings.Options, error)
}

// VerificationChecker reports whether an address may be used as sender.
type VerificationChecker interface {
	IsVerified(ctx context.Context, addr string) bool
}

// Resolver decides the final From address.
type Resolver struct {
	store    OptionsReader
	verifier VerificationChecker
	logger   *slog.Logger
	fallback string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used to report settings read failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver. fallback is used when no default sender is configured.
func New(store OptionsReader, verifier VerificationChecker, fallback string, opts ...Option) *Resolver {
	r := &Resolver{
		store:    store,
		verifier: verifier,
		fallback: fallback,
		logger:   logger.NewNope(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveFrom returns the address that must be used as sender for requested.
// Settings are read fresh on every call; a read failure falls back to defaults.
func (r *Resolver) ResolveFrom(ctx context.Context, requested string) string {
	opts, err := r.store.Options(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to read sender settings", slog.String("error", err.Error()))
		opts = settings.Options{}
	}

	if opts.UseVerified && requested != "" && r.verifier.IsVerified(ctx, requested) {
		return requested
	}
	if opts.From != "" {
		return opts.From
	}
	return r.fallback
}

// Filter adapts the resolver to the mailer's from-filter chain.
func (r *Resolver) Filter() mailer.FromFilter {
	return r.ResolveFrom
}
