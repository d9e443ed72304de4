package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/emersion/go-message/mail"

	"github.com/dmitrymomot/autoses/pkg/settings"
)

// Notice explains why a submitted setting was not applied.
type Notice struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SettingsInput is a submitted settings form.
type SettingsInput struct {
	From        string `json:"from"`
	UseVerified bool   `json:"use_verified"`
}

// SettingsResult is what was saved plus notices for rejected values.
type SettingsResult struct {
	Options settings.Options `json:"options"`
	Notices []Notice         `json:"notices,omitempty"`
}

// SaveSettings validates and persists the sender settings.
// An invalid from keeps the previous value. use_verified is only kept when
// the verification lookup is permitted.
func (d *Dispatcher) SaveSettings(ctx context.Context, in SettingsInput) (SettingsResult, error) {
	out, err := d.store.Options(ctx)
	if err != nil {
		return SettingsResult{}, err
	}

	var notices []Notice

	from := strings.TrimSpace(in.From)
	switch {
	case from == "":
		out.From = ""
	case validAddress(from):
		out.From = from
	default:
		notices = append(notices, Notice{
			Field:   "from",
			Message: fmt.Sprintf("%q doesn't look like an email address.", from),
		})
	}

	out.UseVerified = false
	if in.UseVerified {
		probe := out.From
		if probe == "" {
			probe = d.cfg.AdminEmail
		}
		if _, err := d.verifier.Check(ctx, probe); err != nil {
			d.logger.WarnContext(ctx, "verification permission probe failed", slog.String("error", err.Error()))
			notices = append(notices, Notice{
				Field:   "use_verified",
				Message: "Please grant ses:GetIdentityVerificationAttributes to this server's role.",
			})
		} else {
			out.UseVerified = true
		}
	}

	if err := d.store.SaveOptions(ctx, out); err != nil {
		return SettingsResult{}, err
	}

	return SettingsResult{Options: out, Notices: notices}, nil
}

// validAddress accepts a bare addr-spec only.
func validAddress(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Name == "" && a.Address == s
}
