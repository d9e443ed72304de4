package mailer_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/autoses/pkg/mailer"
)

type recorder struct {
	sent    []mailer.State
	results []mailer.Result
	err     error
}

func (r *recorder) factory() mailer.Transport {
	return mailer.NewFunc("recorder", func(_ context.Context, s *mailer.State) error {
		r.sent = append(r.sent, *s)
		return r.err
	})
}

func (r *recorder) onResult(_ context.Context, res mailer.Result) {
	r.results = append(r.results, res)
}

func newMailer(r *recorder, cfg mailer.Config, opts ...mailer.Option) *mailer.Mailer {
	opts = append(opts, mailer.WithResultCallback(r.onResult))
	return mailer.New(r.factory, nil, cfg, opts...)
}

func validEmail() *mailer.Email {
	return &mailer.Email{
		To:      []string{"alice@example.com"},
		Subject: "Hello",
		HTML:    "<p>Hi</p>",
	}
}

func TestMailer_SendRaw(t *testing.T) {
	t.Parallel()

	t.Run("delivers through the factory transport", func(t *testing.T) {
		t.Parallel()

		r := &recorder{}
		m := newMailer(r, mailer.Config{DefaultFrom: "site@example.com", SingleTo: true, Hostname: "example.com"})

		require.NoError(t, m.SendRaw(context.Background(), validEmail()))
		require.Len(t, r.sent, 1)
		require.Equal(t, "site@example.com", r.sent[0].Email.From)
		require.True(t, r.sent[0].Delivery.SingleTo)
		require.Equal(t, "example.com", r.sent[0].Delivery.Hostname)
		require.Len(t, r.results, 1)
		require.True(t, r.results[0].OK())
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()

		m := newMailer(&recorder{}, mailer.Config{DefaultFrom: "site@example.com"})
		ctx := context.Background()

		e := validEmail()
		e.To = nil
		require.ErrorIs(t, m.SendRaw(ctx, e), mailer.ErrNoRecipient)

		e = validEmail()
		e.Subject = ""
		require.ErrorIs(t, m.SendRaw(ctx, e), mailer.ErrNoSubject)

		e = validEmail()
		e.HTML = ""
		require.ErrorIs(t, m.SendRaw(ctx, e), mailer.ErrNoContent)

		e = validEmail()
		e.HTML = ""
		e.Text = "plain"
		require.NoError(t, m.SendRaw(ctx, e))
	})

	t.Run("no sender", func(t *testing.T) {
		t.Parallel()

		err := newMailer(&recorder{}, mailer.Config{}).SendRaw(context.Background(), validEmail())
		require.ErrorIs(t, err, mailer.ErrNoSender)
	})

	t.Run("invalid from", func(t *testing.T) {
		t.Parallel()

		e := validEmail()
		e.From = "not an address"
		err := newMailer(&recorder{}, mailer.Config{}).SendRaw(context.Background(), e)
		require.ErrorIs(t, err, mailer.ErrInvalidAddress)
	})

	t.Run("transport error wrapped", func(t *testing.T) {
		t.Parallel()

		sendErr := errors.New("connection refused")
		r := &recorder{err: sendErr}
		err := newMailer(r, mailer.Config{DefaultFrom: "site@example.com"}).SendRaw(context.Background(), validEmail())

		require.ErrorIs(t, err, mailer.ErrSendFailed)
		require.ErrorIs(t, err, sendErr)
		require.Len(t, r.results, 1)
		require.False(t, r.results[0].OK())
	})

	t.Run("caller email untouched", func(t *testing.T) {
		t.Parallel()

		r := &recorder{}
		m := newMailer(r, mailer.Config{DefaultFrom: "site@example.com"})
		e := validEmail()

		require.NoError(t, m.SendRaw(context.Background(), e))
		require.Empty(t, e.From)
	})
}

func TestMailer_FromFilters(t *testing.T) {
	t.Parallel()

	var order []string
	r := &recorder{}
	m := newMailer(r, mailer.Config{FromName: "Site"},
		mailer.WithFromFilter(mailer.LatePriority, func(_ context.Context, from string) string {
			order = append(order, "late:"+from)
			return "final@example.com"
		}),
		mailer.WithFromFilter(10, func(_ context.Context, from string) string {
			order = append(order, "early:"+from)
			return "early@example.com"
		}),
	)

	e := validEmail()
	e.From = "Bob <bob@example.com>"
	require.NoError(t, m.SendRaw(context.Background(), e))

	require.Equal(t, []string{"early:bob@example.com", "late:early@example.com"}, order)
	require.Equal(t, "Bob <final@example.com>", r.sent[0].Email.From)
}

func TestMailer_PreSendHookReplacesTransport(t *testing.T) {
	t.Parallel()

	r := &recorder{}
	var replaced []mailer.State

	hook := func(_ context.Context, tr *mailer.Transport) {
		next := mailer.NewFunc("replacement", func(_ context.Context, s *mailer.State) error {
			replaced = append(replaced, *s)
			return nil
		})
		next.CopyFrom((*tr).Carrier())
		*tr = next
	}

	m := newMailer(r, mailer.Config{DefaultFrom: "site@example.com"}, mailer.WithPreSendHook(hook))
	require.NoError(t, m.SendRaw(context.Background(), validEmail()))

	require.Empty(t, r.sent)
	require.Len(t, replaced, 1)
	require.Equal(t, "replacement", replaced[0].Agent)
	require.Equal(t, "Hello", replaced[0].Email.Subject)
	require.Len(t, r.results, 1)
}

func TestMailer_Send(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"layouts/base.html": {Data: []byte(`<html><body>{{.Content}}</body></html>`)},
		"welcome.md":        {Data: []byte("---\nSubject: Welcome {{.Name}}\n---\nHello **{{.Name}}**!\n")},
		"plain.md":          {Data: []byte("No subject here")},
	}
	renderer := mailer.NewRendererWithConfig(fsys, mailer.RendererConfig{LayoutDir: "layouts"})
	cfg := mailer.Config{DefaultLayout: "base.html", FallbackSubject: "Notification", DefaultFrom: "site@example.com"}

	t.Run("subject from frontmatter", func(t *testing.T) {
		t.Parallel()

		r := &recorder{}
		m := mailer.New(r.factory, renderer, cfg)
		err := m.Send(context.Background(), mailer.SendParams{
			To:       "alice@example.com",
			Template: "welcome.md",
			Data:     map[string]string{"Name": "Alice"},
		})

		require.NoError(t, err)
		require.Equal(t, "Welcome Alice", r.sent[0].Email.Subject)
		require.Contains(t, r.sent[0].Email.HTML, "<strong>Alice</strong>")
		require.Contains(t, r.sent[0].Email.Text, "**Alice**")
	})

	t.Run("fallback subject", func(t *testing.T) {
		t.Parallel()

		r := &recorder{}
		m := mailer.New(r.factory, renderer, cfg)
		require.NoError(t, m.Send(context.Background(), mailer.SendParams{To: "a@example.com", Template: "plain.md"}))
		require.Equal(t, "Notification", r.sent[0].Email.Subject)
	})

	t.Run("missing template", func(t *testing.T) {
		t.Parallel()

		m := mailer.New((&recorder{}).factory, renderer, cfg)
		err := m.Send(context.Background(), mailer.SendParams{To: "a@example.com", Template: "nope.md"})
		require.ErrorIs(t, err, mailer.ErrRenderFailed)
		require.ErrorIs(t, err, mailer.ErrTemplateNotFound)
	})

	t.Run("no recipient", func(t *testing.T) {
		t.Parallel()

		m := mailer.New((&recorder{}).factory, renderer, cfg)
		require.ErrorIs(t, m.Send(context.Background(), mailer.SendParams{Template: "welcome.md"}), mailer.ErrNoRecipient)
	})
}

func TestMailer_UnparsableFromGoesThroughFilters(t *testing.T) {
	t.Parallel()

	var seen string
	r := &recorder{}
	m := newMailer(r, mailer.Config{},
		mailer.WithFromFilter(mailer.LatePriority, func(_ context.Context, from string) string {
			seen = from
			return "noreply@example.com"
		}),
	)

	e := validEmail()
	e.From = "wordpress@"
	require.NoError(t, m.SendRaw(context.Background(), e))

	require.Equal(t, "wordpress@", seen)
	require.Len(t, r.sent, 1)
	require.Equal(t, "noreply@example.com", r.sent[0].Email.From)
}

func TestMailer_AddressHeaders(t *testing.T) {
	t.Parallel()

	t.Run("from header is filtered like From", func(t *testing.T) {
		t.Parallel()

		var seen string
		r := &recorder{}
		m := newMailer(r, mailer.Config{},
			mailer.WithFromFilter(mailer.LatePriority, func(_ context.Context, from string) string {
				seen = from
				return "noreply@example.com"
			}),
		)

		e := validEmail()
		e.Headers = map[string]string{"from": "Spoof <spoof@evil.test>", "X-Campaign": "launch"}
		require.NoError(t, m.SendRaw(context.Background(), e))

		require.Equal(t, "spoof@evil.test", seen)
		got := r.sent[0].Email
		require.Equal(t, "Spoof <noreply@example.com>", got.From)
		require.Equal(t, map[string]string{"X-Campaign": "launch"}, got.Headers)
		require.Len(t, e.Headers, 2)
	})

	t.Run("cc and bcc headers become recipients", func(t *testing.T) {
		t.Parallel()

		r := &recorder{}
		m := newMailer(r, mailer.Config{DefaultFrom: "site@example.com"})

		e := validEmail()
		e.Headers = map[string]string{
			"Cc":       "c1@example.com, Carol <c2@example.com>",
			"BCC":      "hidden@example.com",
			"Reply-To": "reply@example.com",
		}
		require.NoError(t, m.SendRaw(context.Background(), e))

		got := r.sent[0].Email
		require.Equal(t, []string{"c1@example.com", "Carol <c2@example.com>"}, got.CC)
		require.Equal(t, []string{"hidden@example.com"}, got.BCC)
		require.Equal(t, "reply@example.com", got.ReplyTo)
		require.Empty(t, got.Headers)
	})
}
