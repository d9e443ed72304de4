package resend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/autoses/pkg/mailer"
)

// Mode is the transport mode name.
const Mode = "resend"

// Transport delivers the carried message through the Resend API.
type Transport struct {
	mailer.State
	client *resend.Client
}

var _ mailer.Transport = (*Transport)(nil)

// New creates a Resend transport.
func New(client *resend.Client) *Transport {
	return &Transport{State: mailer.State{Agent: "autoses-resend"}, client: client}
}

// NewClient builds a Resend API client from cfg.
func NewClient(cfg Config) (*resend.Client, error) {
	client := resend.NewClient(cfg.APIKey)
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("resend: invalid base url: %w", err)
		}
		client.BaseURL = u
	}
	return client, nil
}

// Factory returns a mailer.TransportFactory sharing one API client.
func Factory(client *resend.Client) mailer.TransportFactory {
	return func() mailer.Transport { return New(client) }
}

// Mode implements mailer.Transport.
func (t *Transport) Mode() string { return Mode }

// Send implements mailer.Transport.
func (t *Transport) Send(ctx context.Context) error {
	if t.Delivery.SingleTo {
		for _, rcpt := range t.Email.To {
			to := []string{rcpt}
			err := t.deliver(ctx, to, nil, nil)
			t.Report(ctx, to, err)
			if err != nil {
				return err
			}
		}
		return nil
	}

	err := t.deliver(ctx, t.Email.To, t.Email.CC, t.Email.BCC)
	t.Report(ctx, t.Email.To, err)
	return err
}

func (t *Transport) deliver(ctx context.Context, to, cc, bcc []string) error {
	e := &t.Email
	req := &resend.SendEmailRequest{
		From:    e.From,
		To:      to,
		Cc:      cc,
		Bcc:     bcc,
		Subject: e.Subject,
		Html:    e.HTML,
		Text:    e.Text,
		ReplyTo: e.ReplyTo,
		Headers: e.ExtraHeaders(),
	}
	if len(e.Attachments) > 0 {
		req.Attachments = attachments(e.Attachments)
	}
	if len(e.Tags) > 0 {
		req.Tags = tags(e.Tags)
	}

	if _, err := t.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: send email: %w", err)
	}
	return nil
}

func attachments(in []mailer.Attachment) []*resend.Attachment {
	out := make([]*resend.Attachment, len(in))
	for i, a := range in {
		out[i] = &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
			ContentId:   a.ContentID,
		}
	}
	return out
}

func tags(in mailer.Tags) []resend.Tag {
	out := make([]resend.Tag, 0, len(in))
	for name, v := range in {
		out = append(out, resend.Tag{Name: name, Value: tagValue(v)})
	}
	return out
}

// tagValue renders a tag value; presence-only tags become "true".
func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
