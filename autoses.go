package autoses

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/autoses/internal/admin"
	"github.com/dmitrymomot/autoses/internal/dispatch"
	"github.com/dmitrymomot/autoses/pkg/cache"
	"github.com/dmitrymomot/autoses/pkg/dnsverify"
	"github.com/dmitrymomot/autoses/pkg/gate"
	"github.com/dmitrymomot/autoses/pkg/mailer"
	"github.com/dmitrymomot/autoses/pkg/mailer/ses"
	"github.com/dmitrymomot/autoses/pkg/provider"
	"github.com/dmitrymomot/autoses/pkg/settings"
)

// Type aliases - public API
type (
	// Dispatcher routes application mail through SES when enabled and runs
	// the administrative actions.
	Dispatcher = dispatch.Dispatcher

	// Config holds site-level settings for the dispatcher.
	Config = dispatch.Config

	// Option configures a Dispatcher.
	Option = dispatch.Option

	// Status is the admin status report.
	Status = dispatch.Status

	// SettingsInput is the sender settings form.
	SettingsInput = dispatch.SettingsInput

	// SettingsResult is the saved settings plus any notices.
	SettingsResult = dispatch.SettingsResult

	// Email is an outgoing message.
	Email = mailer.Email

	// MailerConfig holds mailer configuration.
	MailerConfig = mailer.Config

	// Result describes one delivery attempt.
	Result = mailer.Result

	// TransportFactory builds the generic transport used while SES is disabled.
	TransportFactory = mailer.TransportFactory

	// SettingsStore persists the sender options and the enabled flag.
	SettingsStore = settings.Store

	// ProviderSource yields the process-wide SES client.
	ProviderSource = provider.Source

	// ProviderConfig holds SES client settings.
	ProviderConfig = provider.Config

	// Predicate vetoes or grants SES dispatch after the enabled flag.
	Predicate = gate.Predicate

	// AdminHandler serves the admin JSON routes.
	AdminHandler = admin.Handler
)

// Error taxonomy.
var (
	ErrProviderUnavailable = provider.ErrProviderUnavailable
	ErrAuthorization       = provider.ErrAuthorization
	ErrLookupFailed        = provider.ErrLookupFailed
	ErrSendRejected        = provider.ErrSendRejected
	ErrNoClient            = ses.ErrNoClient
	ErrSendFailed          = mailer.ErrSendFailed
	ErrEnableFailed        = dispatch.ErrEnableFailed
	ErrNoRecipient         = dispatch.ErrNoRecipient
	ErrInvalidAddress      = dispatch.ErrInvalidAddress
)

// New creates a Dispatcher.
//
// Example:
//
//	d := autoses.New(
//	    autoses.Config{AdminEmail: "admin@example.com", SiteURL: "https://example.com"},
//	    autoses.MailerConfig{SingleTo: true},
//	    settings.NewMemory(),
//	    autoses.NewProvider(autoses.ProviderConfig{}),
//	    cache.NewMemory[bool](),
//	    smtp.Factory(smtp.Config{Host: "localhost", Port: 25}),
//	)
//
//	err := d.Mail(ctx, &autoses.Email{To: []string{"a@example.com"}, Subject: "Hi", Text: "Hello"})
func New(cfg Config, mcfg MailerConfig, store SettingsStore, source ProviderSource, verified cache.Cache[bool], factory TransportFactory, opts ...Option) *Dispatcher {
	return dispatch.New(cfg, mcfg, store, source, verified, factory, opts...)
}

// NewProvider creates the lazily initialised, process-wide SES client source.
func NewProvider(cfg ProviderConfig, opts ...provider.Option) *provider.Accessor {
	return provider.NewAccessor(cfg, opts...)
}

// NewAdminHandler creates the admin JSON handler for d.
// Mount it behind authentication, e.g. middlewares.BearerToken.
func NewAdminHandler(d *Dispatcher, opts ...admin.Option) *AdminHandler {
	return admin.New(d, opts...)
}

// WithLogger sets the logger used by every component of the dispatcher.
func WithLogger(l *slog.Logger) Option {
	return dispatch.WithLogger(l)
}

// WithGatePredicate adds a predicate evaluated after the enabled flag.
// Lower priorities run first.
func WithGatePredicate(priority int, fn Predicate) Option {
	return dispatch.WithGatePredicate(priority, fn)
}

// WithResultCallback receives every delivery attempt.
func WithResultCallback(fn mailer.ResultFunc) Option {
	return dispatch.WithResultCallback(fn)
}

// WithConfigurationSet tags SES sends with the named configuration set.
func WithConfigurationSet(name string) Option {
	return dispatch.WithSESOptions(ses.WithConfigurationSet(name))
}

// WithDNSChecker overrides the resolver used for the _amazonses TXT diagnostic.
func WithDNSChecker(resolver dnsverify.TXTResolver) Option {
	return dispatch.WithDNSChecker(dnsverify.New(resolver))
}

// WithVerificationTTL overrides how long verification answers are cached.
func WithVerificationTTL(d time.Duration) Option {
	return dispatch.WithVerificationTTL(d)
}

// Force marks ctx so mail sent with it goes through SES regardless of the
// persisted flag. Predicates still apply.
func Force(ctx context.Context) context.Context {
	return gate.Force(ctx)
}
