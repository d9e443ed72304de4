package smtp_test

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"

	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/autoses/pkg/mailer"
	"github.com/dmitrymomot/autoses/pkg/mailer/smtp"
)

type envelope struct {
	from string
	to   []string
	data string
}

type backend struct {
	mu       sync.Mutex
	received []envelope
}

func (b *backend) NewSession(*gosmtp.Conn) (gosmtp.Session, error) {
	return &session{b: b}, nil
}

func (b *backend) all() []envelope {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]envelope(nil), b.received...)
}

type session struct {
	b    *backend
	from string
	to   []string
}

func (s *session) AuthMechanisms() []string { return []string{sasl.Plain} }

func (s *session) Auth(string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(_, username, password string) error {
		if username == "user" && password == "secret" {
			return nil
		}
		return errors.New("invalid credentials")
	}), nil
}

func (s *session) Mail(from string, _ *gosmtp.MailOptions) error {
	s.from = from
	return nil
}

func (s *session) Rcpt(to string, _ *gosmtp.RcptOptions) error {
	s.to = append(s.to, to)
	return nil
}

func (s *session) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.b.mu.Lock()
	s.b.received = append(s.b.received, envelope{from: s.from, to: s.to, data: string(data)})
	s.b.mu.Unlock()
	return nil
}

func (s *session) Reset() {
	s.from = ""
	s.to = nil
}

func (s *session) Logout() error { return nil }

func startServer(t *testing.T) (*backend, smtp.Config) {
	t.Helper()

	be := &backend{}
	srv := gosmtp.NewServer(be)
	srv.Domain = "localhost"
	srv.AllowInsecureAuth = true

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = srv.Serve(l) }()
	t.Cleanup(func() { _ = srv.Close() })

	return be, smtp.Config{Host: "127.0.0.1", Port: l.Addr().(*net.TCPAddr).Port, TLS: smtp.TLSNone}
}

func load(tr *smtp.Transport, singleTo bool, results *[]mailer.Result) {
	tr.Email = mailer.Email{
		From:    "Site <site@example.com>",
		To:      []string{"a@example.com", "Bee <b@example.com>"},
		BCC:     []string{"hidden@example.com"},
		Subject: "Hello",
		Text:    "Hi there",
	}
	tr.Delivery = mailer.Delivery{
		SingleTo: singleTo,
		OnResult: func(_ context.Context, res mailer.Result) { *results = append(*results, res) },
	}
}

func TestTransport_Send(t *testing.T) {
	t.Parallel()

	t.Run("one transaction for all recipients", func(t *testing.T) {
		t.Parallel()

		be, cfg := startServer(t)
		tr := smtp.New(cfg)
		var results []mailer.Result
		load(tr, false, &results)

		require.NoError(t, tr.Send(context.Background()))

		got := be.all()
		require.Len(t, got, 1)
		require.Equal(t, "site@example.com", got[0].from)
		require.Equal(t, []string{"a@example.com", "b@example.com", "hidden@example.com"}, got[0].to)
		require.Contains(t, got[0].data, "Subject: Hello")
		require.NotContains(t, got[0].data, "hidden@example.com")
		require.Len(t, results, 1)
		require.True(t, results[0].OK())
	})

	t.Run("single recipient mode", func(t *testing.T) {
		t.Parallel()

		be, cfg := startServer(t)
		tr := smtp.New(cfg)
		var results []mailer.Result
		load(tr, true, &results)

		require.NoError(t, tr.Send(context.Background()))

		got := be.all()
		require.Len(t, got, 2)
		require.Equal(t, []string{"a@example.com"}, got[0].to)
		require.Equal(t, []string{"b@example.com"}, got[1].to)
		require.Len(t, results, 2)
	})

	t.Run("authenticated", func(t *testing.T) {
		t.Parallel()

		be, cfg := startServer(t)
		cfg.Username, cfg.Password = "user", "secret"
		tr := smtp.New(cfg)
		var results []mailer.Result
		load(tr, false, &results)

		require.NoError(t, tr.Send(context.Background()))
		require.Len(t, be.all(), 1)
	})

	t.Run("bad credentials", func(t *testing.T) {
		t.Parallel()

		be, cfg := startServer(t)
		cfg.Username, cfg.Password = "user", "wrong"
		tr := smtp.New(cfg)
		var results []mailer.Result
		load(tr, false, &results)

		err := tr.Send(context.Background())
		require.ErrorIs(t, err, smtp.ErrAuth)
		require.Empty(t, be.all())
		require.Len(t, results, 1)
		require.False(t, results[0].OK())
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()

		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		port := l.Addr().(*net.TCPAddr).Port
		require.NoError(t, l.Close())

		tr := smtp.New(smtp.Config{Host: "127.0.0.1", Port: port})
		var results []mailer.Result
		load(tr, false, &results)

		require.ErrorIs(t, tr.Send(context.Background()), smtp.ErrDial)
	})

	t.Run("unknown tls mode", func(t *testing.T) {
		t.Parallel()

		tr := smtp.New(smtp.Config{Host: "127.0.0.1", Port: 25, TLS: "ssl3"})
		var results []mailer.Result
		load(tr, false, &results)

		require.ErrorIs(t, tr.Send(context.Background()), smtp.ErrInvalidMode)
	})
}

func TestFactory(t *testing.T) {
	t.Parallel()

	f := smtp.Factory(smtp.Config{Host: "localhost", Port: 25})
	a, b := f(), f()

	require.Equal(t, smtp.Mode, a.Mode())
	require.NotSame(t, a, b)
}
