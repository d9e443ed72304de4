// Package mailer sends email through pluggable transports.
//
// A [Mailer] validates a message, runs the sender address through the
// registered from-filters, loads the message into a fresh [Transport] and
// lets pre-send hooks inspect or replace that transport before delivery.
// Hooks receive a pointer to the transport variable, which is how a
// provider-backed transport takes over delivery for a single message
// without touching the configured default.
//
//	m := mailer.New(smtpFactory, renderer, cfg,
//		mailer.WithFromFilter(mailer.LatePriority, resolver.Filter()),
//		mailer.WithPreSendHook(ses.Hook(gate.IsEnabled, source, log)),
//	)
//	err := m.SendRaw(ctx, &mailer.Email{
//		To:      []string{"user@example.com"},
//		Subject: "Hello",
//		HTML:    "<p>Hi</p>",
//	})
//
// Transports report every delivery attempt through [Delivery.OnResult]:
// once per recipient in single-recipient mode, once per message otherwise.
//
// # Templates
//
// [Renderer] renders markdown files with YAML frontmatter into an HTML
// layout. The Subject frontmatter key supplies the default subject and may
// reference template data:
//
//	---
//	Subject: SES enabled on {{.Site}}
//	---
//	SES has been enabled on **{{.Site}}**.
//
// [Compose] produces the raw RFC 5322 message used by transports that
// submit pre-built messages. A text alternative is derived from the HTML
// body when the email has none.
package mailer
