package dispatch

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/dmitrymomot/autoses/pkg/cache"
	"github.com/dmitrymomot/autoses/pkg/dnsverify"
	"github.com/dmitrymomot/autoses/pkg/fromaddr"
	"github.com/dmitrymomot/autoses/pkg/gate"
	"github.com/dmitrymomot/autoses/pkg/logger"
	"github.com/dmitrymomot/autoses/pkg/mailer"
	"github.com/dmitrymomot/autoses/pkg/mailer/ses"
	"github.com/dmitrymomot/autoses/pkg/provider"
	"github.com/dmitrymomot/autoses/pkg/settings"
	"github.com/dmitrymomot/autoses/pkg/verify"
)

//go:embed templates
var templates embed.FS

const (
	layoutName      = "base.html"
	testTemplate    = "test.md"
	enabledTemplate = "enabled.md"
)

// Dispatcher routes application mail through SES when enabled and runs
// the administrative actions.
type Dispatcher struct {
	store    settings.Store
	source   provider.Source
	verifier *verify.Verifier
	resolver *fromaddr.Resolver
	gate     *gate.Gate
	mailer   *mailer.Mailer
	dns      *dnsverify.Checker
	logger   *slog.Logger
	onResult mailer.ResultFunc
	cfg      Config
}

// New wires the dispatcher. factory builds the generic transport used while
// SES is disabled; verified caches verification results.
func New(cfg Config, mcfg mailer.Config, store settings.Store, source provider.Source, verified cache.Cache[bool], factory mailer.TransportFactory, opts ...Option) *Dispatcher {
	o := &options{logger: logger.NewNope()}
	for _, opt := range opts {
		opt(o)
	}
	if o.dns == nil {
		o.dns = dnsverify.New(nil)
	}
	if cfg.IdentitiesLimit <= 0 {
		cfg.IdentitiesLimit = 15
	}
	if mcfg.DefaultLayout == "" {
		mcfg.DefaultLayout = layoutName
	}

	verifyOpts := []verify.Option{verify.WithLogger(o.logger)}
	if o.verifyTTL > 0 {
		verifyOpts = append(verifyOpts, verify.WithTTL(o.verifyTTL))
	}

	d := &Dispatcher{
		store:    store,
		source:   source,
		verifier: verify.New(source, verified, verifyOpts...),
		dns:      o.dns,
		logger:   o.logger,
		onResult: o.onResult,
		cfg:      cfg,
	}
	d.resolver = fromaddr.New(store, d.verifier, cfg.AdminEmail, fromaddr.WithLogger(o.logger))
	d.gate = gate.New(store, append(o.predicates, gate.WithLogger(o.logger))...)

	tmpl, _ := fs.Sub(templates, "templates")
	d.mailer = mailer.New(factory, mailer.NewRenderer(tmpl), mcfg,
		mailer.WithFromFilter(mailer.LatePriority, d.resolver.Filter()),
		mailer.WithPreSendHook(ses.Hook(d.gate.IsEnabled, source, o.logger, o.sesOpts...)),
		mailer.WithResultCallback(d.report),
		mailer.WithLogger(o.logger),
	)

	return d
}

// Mail sends e through SES when the gate is open, otherwise through the
// generic transport.
func (d *Dispatcher) Mail(ctx context.Context, e *mailer.Email) error {
	return d.mailer.SendRaw(ctx, e)
}

// MailForced sends e through SES regardless of the persisted flag.
func (d *Dispatcher) MailForced(ctx context.Context, e *mailer.Email) error {
	_, err := gate.WithForcedEnable(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, d.mailer.SendRaw(ctx, e)
	})
	return err
}

// IsEnabled reports whether mail sent with ctx goes through SES.
func (d *Dispatcher) IsEnabled(ctx context.Context) bool {
	return d.gate.IsEnabled(ctx)
}

// ResolveFrom returns the sender address used for requested.
func (d *Dispatcher) ResolveFrom(ctx context.Context, requested string) string {
	return d.resolver.ResolveFrom(ctx, requested)
}

// IsVerified reports whether addr may be used as a verified sender.
func (d *Dispatcher) IsVerified(ctx context.Context, addr string) bool {
	return d.verifier.IsVerified(ctx, addr)
}

// SendTestEmail sends the test message to to through SES.
func (d *Dispatcher) SendTestEmail(ctx context.Context, to string) error {
	if to == "" {
		return ErrNoRecipient
	}
	if !validAddress(to) {
		return ErrInvalidAddress
	}
	return d.sendForced(ctx, to, testTemplate, nil)
}

// Enable sends a confirmation to notify through SES and persists the
// enabled flag only when that send succeeds. An empty notify uses the
// configured admin address.
func (d *Dispatcher) Enable(ctx context.Context, notify string) error {
	if notify == "" {
		notify = d.cfg.AdminEmail
	}

	err := d.sendForced(ctx, notify, enabledTemplate, map[string]string{
		"Site":      d.cfg.SiteURL,
		"Dashboard": provider.DashboardURL(d.source.Region(ctx)),
	})
	if err != nil {
		return errors.Join(ErrEnableFailed, err)
	}

	if err := d.store.SetEnabled(ctx, true); err != nil {
		return err
	}

	d.logger.InfoContext(ctx, "ses dispatch enabled", slog.String("notified", notify))
	return nil
}

// Disable clears the persisted enabled flag.
func (d *Dispatcher) Disable(ctx context.Context) error {
	if err := d.store.SetEnabled(ctx, false); err != nil {
		return err
	}
	d.logger.InfoContext(ctx, "ses dispatch disabled")
	return nil
}

// Reset restores both persisted values to their defaults.
func (d *Dispatcher) Reset(ctx context.Context) error {
	if err := d.store.Reset(ctx); err != nil {
		return err
	}
	d.logger.InfoContext(ctx, "ses settings reset")
	return nil
}

func (d *Dispatcher) sendForced(ctx context.Context, to, tmpl string, data any) error {
	_, err := gate.WithForcedEnable(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, d.mailer.Send(ctx, mailer.SendParams{
			To:       to,
			Template: tmpl,
			Data:     data,
		})
	})
	return err
}

func (d *Dispatcher) report(ctx context.Context, res mailer.Result) {
	if !res.OK() {
		d.logger.WarnContext(ctx, "email delivery failed",
			slog.Any("to", res.To),
			slog.String("subject", res.Subject),
			slog.String("error", res.Err.Error()),
		)
	}
	if d.onResult != nil {
		d.onResult(ctx, res)
	}
}
