package mailer

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Tags are provider-specific message categories. Presence-only tags use
// struct{}{} as value.
type Tags map[string]any

// SimpleTags creates presence-only tags.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Recipient formats a name and address as "Name <addr>".
func Recipient(name, addr string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", name, addr)
}

// Email is a message ready for a transport.
type Email struct {
	Headers     map[string]string
	Tags        Tags
	Subject     string
	HTML        string
	Text        string
	From        string // header sender, "Name <addr>" or bare address
	Sender      string // envelope sender; From is used when empty
	ReplyTo     string
	To          []string
	CC          []string
	BCC         []string
	Attachments []Attachment
}

// Attachment is a file attached to an Email.
type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string // set for inline parts referenced from HTML
	Content     []byte
}

// Clone returns a deep copy of e.
func (e *Email) Clone() *Email {
	if e == nil {
		return nil
	}

	c := &Email{
		Headers: maps.Clone(e.Headers),
		Tags:    maps.Clone(e.Tags),
		Subject: e.Subject,
		HTML:    e.HTML,
		Text:    e.Text,
		From:    e.From,
		Sender:  e.Sender,
		ReplyTo: e.ReplyTo,
		To:      slices.Clone(e.To),
		CC:      slices.Clone(e.CC),
		BCC:     slices.Clone(e.BCC),
	}

	if e.Attachments != nil {
		c.Attachments = make([]Attachment, len(e.Attachments))
		for i, a := range e.Attachments {
			a.Content = slices.Clone(a.Content)
			c.Attachments[i] = a
		}
	}

	return c
}

// Envelope returns the envelope sender.
func (e *Email) Envelope() string {
	if e.Sender != "" {
		return e.Sender
	}
	return e.From
}

// Body returns the HTML body, or the text body for text-only messages.
func (e *Email) Body() string {
	if e.HTML != "" {
		return e.HTML
	}
	return e.Text
}

// Recipients returns every To, CC and BCC address in that order.
func (e *Email) Recipients() []string {
	return slices.Concat(e.To, e.CC, e.BCC)
}

// ownHeaders are written by the message builder from the Email fields and
// are never taken from Headers.
var ownHeaders = map[string]struct{}{
	"from":         {},
	"sender":       {},
	"to":           {},
	"cc":           {},
	"bcc":          {},
	"reply-to":     {},
	"message-id":   {},
	"date":         {},
	"subject":      {},
	"mime-version": {},
}

// IsOwnHeader reports whether key is derived from the Email fields and
// therefore ignored in Headers. Matching is case-insensitive.
func IsOwnHeader(key string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	if strings.HasPrefix(k, "content-") {
		return true
	}
	_, ok := ownHeaders[k]
	return ok
}

// ExtraHeaders returns Headers without the ones IsOwnHeader reports.
func (e *Email) ExtraHeaders() map[string]string {
	if len(e.Headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.Headers))
	for k, v := range e.Headers {
		if !IsOwnHeader(k) {
			out[k] = v
		}
	}
	return out
}
