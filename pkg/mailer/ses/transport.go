package ses

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsses "github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/dmitrymomot/autoses/pkg/mailer"
	"github.com/dmitrymomot/autoses/pkg/provider"
)

// Mode is the transport mode name.
const Mode = "ses"

// Agent is the X-Mailer value of SES-sent messages.
const Agent = "autoses"

// RawSender is the SES call the transport needs.
type RawSender interface {
	SendRawEmail(ctx context.Context, params *awsses.SendRawEmailInput, optFns ...func(*awsses.Options)) (*awsses.SendRawEmailOutput, error)
}

// Option configures a Transport.
type Option func(*Transport)

// WithConfigurationSet names the SES configuration set used for sends.
func WithConfigurationSet(name string) Option {
	return func(t *Transport) {
		t.configSet = name
	}
}

// Transport submits the carried message through SendRawEmail.
type Transport struct {
	mailer.State
	client    RawSender
	configSet string
}

var _ mailer.Transport = (*Transport)(nil)

// New creates an SES transport. A nil client leaves it unarmed.
func New(client RawSender, opts ...Option) *Transport {
	t := &Transport{State: mailer.State{Agent: Agent}}
	for _, opt := range opts {
		opt(t)
	}
	t.Arm(client)
	return t
}

// Replace builds an SES transport carrying old's message and delivery
// settings. old itself is not modified.
func Replace(old mailer.Transport, opts ...Option) *Transport {
	t := New(nil, opts...)
	if old != nil {
		t.CopyFrom(old.Carrier())
	}
	return t
}

// Arm attaches client unless one is already attached.
func (t *Transport) Arm(client RawSender) {
	if t.client == nil && client != nil {
		t.client = client
	}
}

// Armed reports whether a client is attached.
func (t *Transport) Armed() bool { return t.client != nil }

// Mode implements mailer.Transport.
func (t *Transport) Mode() string { return Mode }

// Send implements mailer.Transport. In single-recipient mode every To
// address gets its own SendRawEmail call and result; the first failure
// stops the loop. Otherwise one call covers To, CC and BCC.
func (t *Transport) Send(ctx context.Context) error {
	if t.client == nil {
		return ErrNoClient
	}

	raw, err := mailer.Compose(&t.State)
	if err != nil {
		return err
	}

	source := t.Email.Envelope()

	if t.Delivery.SingleTo {
		for _, rcpt := range t.Email.To {
			to := []string{rcpt}
			err := t.submit(ctx, source, to, raw)
			t.Report(ctx, to, err)
			if err != nil {
				return err
			}
		}
		return nil
	}

	err = t.submit(ctx, source, t.Email.Recipients(), raw)
	t.Report(ctx, t.Email.To, err)
	return err
}

func (t *Transport) submit(ctx context.Context, source string, destinations []string, raw []byte) error {
	in := &awsses.SendRawEmailInput{
		Source:       aws.String(source),
		Destinations: destinations,
		RawMessage:   &types.RawMessage{Data: raw},
	}
	if t.configSet != "" {
		in.ConfigurationSetName = aws.String(t.configSet)
	}

	if _, err := t.client.SendRawEmail(ctx, in); err != nil {
		return provider.Classify(err, provider.ErrSendRejected)
	}
	return nil
}
