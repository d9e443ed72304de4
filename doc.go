// Package autoses routes a site's outbound email through Amazon SES when an
// operator has enabled it, and through a generic transport otherwise.
//
// # Quick Start
//
// Build a [Dispatcher] from a settings store, a provider source, a
// verification cache and the generic transport, then send mail through it:
//
//	d := autoses.New(
//	    autoses.Config{AdminEmail: "admin@example.com", SiteURL: "https://example.com"},
//	    autoses.MailerConfig{},
//	    settings.NewMemory(),
//	    autoses.NewProvider(autoses.ProviderConfig{}),
//	    cache.NewMemory[bool](),
//	    smtp.Factory(smtp.Config{Host: "localhost", Port: 25}),
//	    autoses.WithLogger(log),
//	)
//
//	err := d.Mail(ctx, &autoses.Email{
//	    To:      []string{"user@example.com"},
//	    Subject: "Welcome",
//	    HTML:    "<p>Hello</p>",
//	})
//
// # Dispatch gate
//
// Mail goes through SES when the persisted enabled flag is set or the
// context carries a forced override ([Force]), and every registered
// [Predicate] agrees. Otherwise the generic transport delivers it
// unchanged. Enable only persists the flag after a confirmation email was
// accepted by SES.
//
// # Sender resolution
//
// The From address is rewritten after every other filter: the requested
// address is kept when use_verified is on and SES reports it (or its
// domain) verified; otherwise the configured default sender is used, and
// the admin address when that is empty. Verification answers are cached
// for seven days. Lookup failures count as not verified and are never
// cached.
//
// # Provider
//
// The SES client is built once per process. When no explicit region is
// configured it is read from the EC2 instance identity document, which is
// cached on disk. A failed build leaves the provider absent for the life of
// the process; SES sends then fail with [ErrNoClient].
//
// # Administration
//
// [Dispatcher.Status], [Dispatcher.SaveSettings], [Dispatcher.Enable],
// [Dispatcher.Disable], [Dispatcher.SendTestEmail] and [Dispatcher.Reset]
// back the JSON routes served by [NewAdminHandler].
package autoses
