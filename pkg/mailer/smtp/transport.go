package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"net"
	"strconv"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/dmitrymomot/autoses/pkg/mailer"
)

// Mode is the transport mode name.
const Mode = "smtp"

// Transport relays the carried message through an SMTP server.
type Transport struct {
	mailer.State
	cfg Config
}

var _ mailer.Transport = (*Transport)(nil)

// New creates an SMTP transport.
func New(cfg Config) *Transport {
	return &Transport{State: mailer.State{Agent: "autoses-smtp"}, cfg: cfg}
}

// Factory returns a mailer.TransportFactory producing SMTP transports.
func Factory(cfg Config) mailer.TransportFactory {
	return func() mailer.Transport { return New(cfg) }
}

// Mode implements mailer.Transport.
func (t *Transport) Mode() string { return Mode }

// Send implements mailer.Transport. Each SMTP transaction gets its own
// connection.
func (t *Transport) Send(ctx context.Context) error {
	raw, err := mailer.Compose(&t.State)
	if err != nil {
		return err
	}

	from, err := bareAddress(t.Email.Envelope())
	if err != nil {
		return err
	}

	if t.Delivery.SingleTo {
		for _, rcpt := range t.Email.To {
			to := []string{rcpt}
			err := t.deliver(ctx, from, to, raw)
			t.Report(ctx, to, err)
			if err != nil {
				return err
			}
		}
		return nil
	}

	err = t.deliver(ctx, from, t.Email.Recipients(), raw)
	t.Report(ctx, t.Email.To, err)
	return err
}

func (t *Transport) deliver(ctx context.Context, from string, to []string, raw []byte) error {
	rcpts := make([]string, 0, len(to))
	for _, r := range to {
		addr, err := bareAddress(r)
		if err != nil {
			return err
		}
		rcpts = append(rcpts, addr)
	}

	c, err := t.dial(ctx)
	if err != nil {
		return errors.Join(ErrDial, err)
	}
	defer c.Close()

	if t.cfg.Username != "" {
		if err := c.Auth(sasl.NewPlainClient("", t.cfg.Username, t.cfg.Password)); err != nil {
			return errors.Join(ErrAuth, err)
		}
	}

	if err := c.SendMail(from, rcpts, bytes.NewReader(raw)); err != nil {
		return errors.Join(ErrDelivery, err)
	}

	return c.Quit()
}

func (t *Transport) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))
	tlsCfg := &tls.Config{ServerName: t.cfg.Host, MinVersion: tls.VersionTLS12}

	var (
		conn net.Conn
		err  error
	)
	switch t.cfg.TLS {
	case "", TLSNone, TLSStartTLS:
		conn, err = (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	case TLSImplicit:
		conn, err = (&tls.Dialer{Config: tlsCfg}).DialContext(ctx, "tcp", addr)
	default:
		return nil, ErrInvalidMode
	}
	if err != nil {
		return nil, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c := smtp.NewClient(conn)
	if t.cfg.LocalName != "" {
		if err := c.Hello(t.cfg.LocalName); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	if t.cfg.TLS == TLSStartTLS {
		if err := c.StartTLS(tlsCfg); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	return c, nil
}

func bareAddress(s string) (string, error) {
	a, err := mail.ParseAddress(s)
	if err != nil {
		return "", errors.Join(mailer.ErrInvalidAddress, err)
	}
	return a.Address, nil
}
