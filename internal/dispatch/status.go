package dispatch

import (
	"context"
	"errors"

	"github.com/dmitrymomot/autoses/pkg/dnsverify"
	"github.com/dmitrymomot/autoses/pkg/provider"
	"github.com/dmitrymomot/autoses/pkg/settings"
	"github.com/dmitrymomot/autoses/pkg/verify"
)

// ProviderError is an SES error as shown to operators.
type ProviderError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func newProviderError(err error) *ProviderError {
	return &ProviderError{Code: provider.ErrorCode(err), Message: provider.ErrorMessage(err)}
}

// DNSRecord is the outcome of the _amazonses TXT lookup.
type DNSRecord struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
	Found bool   `json:"found"`
}

// Status is the admin status report.
type Status struct {
	Settings          settings.Options     `json:"settings"`
	Verification      *verify.Verification `json:"verification,omitempty"`
	VerificationError *ProviderError       `json:"verification_error,omitempty"`
	DNSRecord         *DNSRecord           `json:"dns_record,omitempty"`
	IdentitiesError   *ProviderError       `json:"identities_error,omitempty"`
	Region            string               `json:"region,omitempty"`
	Sender            string               `json:"sender,omitempty"`
	AdminEmail        string               `json:"admin_email,omitempty"`
	DashboardURL      string               `json:"dashboard_url,omitempty"`
	Identities        []verify.Identity    `json:"identities,omitempty"`
	Available         bool                 `json:"available"`
	Enabled           bool                 `json:"enabled"`
	CanEnable         bool                 `json:"can_enable"`
	MoreIdentities    bool                 `json:"more_identities"`
}

// Status builds the report shown on the admin surface. actor is the
// address the enable confirmation would go to.
func (d *Dispatcher) Status(ctx context.Context, actor string) (*Status, error) {
	opts, err := d.store.Options(ctx)
	if err != nil {
		return nil, err
	}
	enabled, err := d.store.Enabled(ctx)
	if err != nil {
		return nil, err
	}

	if actor == "" {
		actor = d.cfg.AdminEmail
	}

	st := &Status{Settings: opts, Enabled: enabled, AdminEmail: actor}

	if _, err := d.source.Client(ctx); err != nil {
		if !errors.Is(err, provider.ErrProviderUnavailable) {
			return nil, err
		}
		return st, nil
	}

	st.Available = true
	st.Region = d.source.Region(ctx)
	st.DashboardURL = provider.DashboardURL(st.Region)

	st.Sender = opts.From
	if st.Sender == "" {
		st.Sender = d.cfg.AdminEmail
	}

	v, err := d.verifier.Check(ctx, st.Sender)
	st.Verification = &v
	if err != nil {
		st.VerificationError = newProviderError(err)
	}
	st.CanEnable = v.Verified || (err != nil && provider.IsAuthorization(err))

	if err == nil && !v.Verified && v.DomainToken != "" {
		st.DNSRecord = d.dnsRecord(ctx, v.Domain, v.DomainToken)
	}

	page, err := d.verifier.Identities(ctx, d.cfg.IdentitiesLimit, "")
	if err != nil {
		st.IdentitiesError = newProviderError(err)
	} else {
		st.Identities = page.Identities
		st.MoreIdentities = page.More
	}

	return st, nil
}

func (d *Dispatcher) dnsRecord(ctx context.Context, domain, token string) *DNSRecord {
	rec := &DNSRecord{Name: dnsverify.RecordName(domain)}
	err := d.dns.Check(ctx, domain, token)
	rec.Found = err == nil
	if err != nil {
		rec.Error = err.Error()
	}
	return rec
}
