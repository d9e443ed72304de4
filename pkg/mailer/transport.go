package mailer

import "context"

// Result describes one delivery attempt reported to a ResultFunc.
type Result struct {
	Err     error
	From    string
	Subject string
	Body    string
	To      []string
	CC      []string
	BCC     []string
}

// OK reports whether the attempt succeeded.
func (r Result) OK() bool { return r.Err == nil }

// ResultFunc receives the outcome of each delivery attempt.
type ResultFunc func(ctx context.Context, res Result)

// Delivery holds transport settings that travel with a message.
type Delivery struct {
	OnResult ResultFunc
	Hostname string // Message-ID domain
	SingleTo bool   // one message per To recipient
}

// State is the message and delivery settings a transport carries.
// Transports embed it.
type State struct {
	Email    Email
	Delivery Delivery

	// Agent identifies the transport implementation in the X-Mailer header.
	// It belongs to the transport and is never copied between transports.
	Agent string
}

// Carrier gives access to the embedded State.
func (s *State) Carrier() *State { return s }

// CopyFrom copies the message and delivery settings of src into s.
// Agent is left untouched.
func (s *State) CopyFrom(src *State) {
	if src == nil || src == s {
		return
	}
	s.Email = *src.Email.Clone()
	s.Delivery = Delivery{
		OnResult: src.Delivery.OnResult,
		Hostname: src.Delivery.Hostname,
		SingleTo: src.Delivery.SingleTo,
	}
}

// Report passes an attempt for the given To recipients to the result callback.
func (s *State) Report(ctx context.Context, to []string, err error) {
	if s.Delivery.OnResult == nil {
		return
	}
	s.Delivery.OnResult(ctx, Result{
		Err:     err,
		From:    s.Email.From,
		Subject: s.Email.Subject,
		Body:    s.Email.Body(),
		To:      to,
		CC:      s.Email.CC,
		BCC:     s.Email.BCC,
	})
}

// Transport delivers the message it carries.
type Transport interface {
	// Mode names the delivery mechanism, e.g. "smtp" or "ses".
	Mode() string
	// Carrier returns the mutable message state.
	Carrier() *State
	// Send delivers the carried message, reporting each attempt through
	// Delivery.OnResult.
	Send(ctx context.Context) error
}

// TransportFactory returns a fresh transport for each message.
type TransportFactory func() Transport

// FromFilter rewrites the sender address of an outgoing message.
type FromFilter func(ctx context.Context, from string) string

// PreSendHook runs right before Send and may replace the transport.
type PreSendHook func(ctx context.Context, tr *Transport)

// LatePriority runs a from-filter after all regular filters.
const LatePriority = 9999

// Func adapts a plain function to a Transport. Used for tests and for
// senders without delivery settings.
type Func struct {
	State
	fn func(ctx context.Context, s *State) error
}

// NewFunc wraps fn as a Transport named mode.
func NewFunc(mode string, fn func(ctx context.Context, s *State) error) *Func {
	return &Func{State: State{Agent: mode}, fn: fn}
}

// Mode implements Transport.
func (f *Func) Mode() string { return f.Agent }

// Send implements Transport.
func (f *Func) Send(ctx context.Context) error {
	err := f.fn(ctx, &f.State)
	f.Report(ctx, f.Email.To, err)
	return err
}

var _ Transport = (*Func)(nil)
