package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	texttemplate "text/template"

	"github.com/emersion/go-message/mail"

	"github.com/dmitrymomot/autoses/pkg/logger"
)

// Mailer renders templates, resolves the sender and hands messages to a
// transport.
type Mailer struct {
	factory  TransportFactory
	renderer *Renderer
	onResult ResultFunc
	logger   *slog.Logger
	filters  []fromFilter
	hooks    []PreSendHook
	config   Config
}

// New creates a Mailer. factory builds the default transport for each
// message; renderer may be nil when only SendRaw is used.
func New(factory TransportFactory, renderer *Renderer, cfg Config, opts ...Option) *Mailer {
	m := &Mailer{
		factory:  factory,
		renderer: renderer,
		config:   cfg,
		logger:   logger.NewNope(),
	}
	for _, opt := range opts {
		opt(m)
	}
	slices.SortStableFunc(m.filters, func(a, b fromFilter) int {
		return a.priority - b.priority
	})
	return m
}

// SendParams contains parameters for sending a templated email.
type SendParams struct {
	To       string // single recipient
	Template string // template filename, e.g. "test.md"
	Data     any

	Subject     string // overrides template subject
	Layout      string // overrides default layout
	From        string
	ReplyTo     string
	CC          []string
	BCC         []string
	Attachments []Attachment
}

// Send renders a template and sends the result.
// Subject resolution: params.Subject > template metadata > config fallback.
func (m *Mailer) Send(ctx context.Context, params SendParams) error {
	if params.To == "" {
		return ErrNoRecipient
	}
	if m.renderer == nil {
		return errors.Join(ErrRenderFailed, ErrTemplateNotFound)
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}

	result, err := m.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	subject := params.Subject
	if subject == "" {
		if s, ok := result.Metadata["Subject"].(string); ok {
			subject = s
		} else {
			subject = m.config.FallbackSubject
		}
	}

	subject, err = executeSubject(subject, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	return m.SendRaw(ctx, &Email{
		To:          []string{params.To},
		Subject:     subject,
		HTML:        result.HTML,
		Text:        result.Text,
		From:        params.From,
		ReplyTo:     params.ReplyTo,
		CC:          params.CC,
		BCC:         params.BCC,
		Attachments: params.Attachments,
	})
}

// SendRaw sends a pre-built email. The caller's Email is not modified.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	if email == nil || len(email.To) == 0 {
		return ErrNoRecipient
	}
	if email.Subject == "" {
		return ErrNoSubject
	}
	if email.HTML == "" && email.Text == "" {
		return ErrNoContent
	}

	msg := email.Clone()
	liftHeaders(msg)
	from, err := m.resolveFrom(ctx, msg.From)
	if err != nil {
		return err
	}
	msg.From = from

	tr := m.factory()
	st := tr.Carrier()
	st.Email = *msg
	st.Delivery = Delivery{
		OnResult: m.onResult,
		Hostname: m.config.Hostname,
		SingleTo: m.config.SingleTo,
	}

	for _, hook := range m.hooks {
		hook(ctx, &tr)
	}

	if err := tr.Send(ctx); err != nil {
		m.logger.ErrorContext(ctx, "failed to send email",
			slog.String("transport", tr.Mode()),
			slog.String("subject", msg.Subject),
			slog.String("error", err.Error()),
		)
		return errors.Join(ErrSendFailed, err)
	}

	m.logger.DebugContext(ctx, "email sent",
		slog.String("transport", tr.Mode()),
		slog.String("subject", msg.Subject),
		slog.Int("recipients", len(msg.Recipients())),
	)

	return nil
}

// resolveFrom runs the from-filter chain on the address part of requested
// and reattaches the display name. A requested value that does not parse
// is handed to the filters as is, so the sender policy can replace it.
func (m *Mailer) resolveFrom(ctx context.Context, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		requested = m.config.DefaultFrom
	}

	name, addr := m.config.FromName, requested
	if parsed, err := mail.ParseAddress(requested); err == nil {
		addr = parsed.Address
		if parsed.Name != "" {
			name = parsed.Name
		}
	}

	for _, f := range m.filters {
		addr = f.fn(ctx, addr)
	}

	if addr == "" {
		return "", ErrNoSender
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		return "", errors.Join(ErrInvalidAddress, fmt.Errorf("from %q: %w", addr, err))
	}

	return Recipient(name, addr), nil
}

// liftHeaders moves address headers given in Headers onto the Email fields,
// so that a From header goes through the from-filters and Cc/Bcc headers
// become recipients instead of raw header lines. An explicit From or
// Reply-To field wins over the header.
func liftHeaders(e *Email) {
	for k, v := range e.Headers {
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "from":
			if e.From == "" {
				e.From = v
			}
		case "reply-to":
			if e.ReplyTo == "" {
				e.ReplyTo = v
			}
		case "cc":
			e.CC = append(e.CC, splitAddresses(v)...)
		case "bcc":
			e.BCC = append(e.BCC, splitAddresses(v)...)
		default:
			continue
		}
		delete(e.Headers, k)
	}
}

// splitAddresses breaks a header list into single recipients. A list that
// does not parse is kept whole and rejected later by Compose.
func splitAddresses(v string) []string {
	list, err := mail.ParseAddressList(v)
	if err != nil {
		return []string{v}
	}
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, Recipient(a.Name, a.Address))
	}
	return out
}

func executeSubject(subject string, data any) (string, error) {
	tmpl, err := texttemplate.New("subject").Parse(subject)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
