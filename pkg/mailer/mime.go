package mailer

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// Compose builds the RFC 5322 message for the state's Email.
// BCC recipients never appear in the headers, and Headers cannot replace
// the address, date, subject or MIME headers built from the Email fields.
func Compose(s *State) ([]byte, error) {
	raw, err := compose(s, time.Now())
	if err != nil {
		return nil, errors.Join(ErrComposeFailed, err)
	}
	return raw, nil
}

func compose(s *State, now time.Time) ([]byte, error) {
	e := &s.Email

	var h mail.Header
	h.SetDate(now)
	h.SetSubject(e.Subject)
	h.SetMessageID(messageID(s.Delivery.Hostname))

	if err := setAddresses(&h, "From", e.From); err != nil {
		return nil, err
	}
	if err := setAddresses(&h, "To", e.To...); err != nil {
		return nil, err
	}
	if err := setAddresses(&h, "Cc", e.CC...); err != nil {
		return nil, err
	}
	if err := setAddresses(&h, "Reply-To", e.ReplyTo); err != nil {
		return nil, err
	}
	if e.Sender != "" && e.Sender != e.From {
		if err := setAddresses(&h, "Sender", e.Sender); err != nil {
			return nil, err
		}
	}
	if s.Agent != "" {
		h.Set("X-Mailer", s.Agent)
	}
	for k, v := range e.ExtraHeaders() {
		h.Set(k, v)
	}

	var buf bytes.Buffer
	if len(e.Attachments) == 0 {
		iw, err := mail.CreateInlineWriter(&buf, h)
		if err != nil {
			return nil, err
		}
		if err := writeBodies(iw, e); err != nil {
			return nil, err
		}
		if err := iw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, err
	}

	iw, err := mw.CreateInline()
	if err != nil {
		return nil, err
	}
	if err := writeBodies(iw, e); err != nil {
		return nil, err
	}
	if err := iw.Close(); err != nil {
		return nil, err
	}

	for _, a := range e.Attachments {
		if err := writeAttachment(mw, a); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setAddresses(h *mail.Header, key string, values ...string) error {
	var list []*mail.Address
	for _, v := range values {
		if v == "" {
			continue
		}
		addrs, err := mail.ParseAddressList(v)
		if err != nil {
			return errors.Join(ErrInvalidAddress, fmt.Errorf("%s %q: %w", key, v, err))
		}
		list = append(list, addrs...)
	}
	if len(list) > 0 {
		h.SetAddressList(key, list)
	}
	return nil
}

func writeBodies(iw *mail.InlineWriter, e *Email) error {
	text := e.Text
	if text == "" && e.HTML != "" {
		text = PlainText(e.HTML)
	}

	if err := writePart(iw, "text/plain", text); err != nil {
		return err
	}
	if e.HTML != "" {
		return writePart(iw, "text/html", e.HTML)
	}
	return nil
}

func writePart(iw *mail.InlineWriter, contentType, body string) error {
	var ph mail.InlineHeader
	ph.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	ph.Set("Content-Transfer-Encoding", "quoted-printable")

	w, err := iw.CreatePart(ph)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, body); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func writeAttachment(mw *mail.Writer, a Attachment) error {
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var ah mail.AttachmentHeader
	ah.SetContentType(contentType, nil)
	ah.SetFilename(a.Filename)
	if a.ContentID != "" {
		ah.Set("Content-Id", "<"+strings.Trim(a.ContentID, "<>")+">")
	}

	w, err := mw.CreateAttachment(ah)
	if err != nil {
		return err
	}
	if _, err := w.Write(a.Content); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func messageID(hostname string) string {
	if hostname == "" {
		hostname = "localhost"
	}
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString() + "@" + hostname
	}
	return id.String() + "@" + hostname
}

// PlainText strips markup from an HTML body.
func PlainText(htmlBody string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(htmlBody)))
}
