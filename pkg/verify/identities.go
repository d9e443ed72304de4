package verify

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"

	"github.com/dmitrymomot/autoses/pkg/provider"
)

// IdentityType distinguishes address identities from domain identities.
type IdentityType string

const (
	TypeEmail  IdentityType = "Email"
	TypeDomain IdentityType = "Domain"
)

// Identity is one SES identity as shown on the admin status report.
type Identity struct {
	Raw    string       `json:"raw"`
	Text   string       `json:"text"`
	Type   IdentityType `json:"type"`
	Status string       `json:"status,omitempty"`
}

// Page is one page of ListIdentities.
type Page struct {
	NextToken  string     `json:"next_token,omitempty"`
	Identities []Identity `json:"identities"`
	More       bool       `json:"more"`
}

// Identities lists up to limit identities starting at token and attaches
// their verification status. A permission failure on the status lookup
// leaves statuses empty instead of failing the listing.
func (v *Verifier) Identities(ctx context.Context, limit int32, token string) (Page, error) {
	client, err := v.source.Client(ctx)
	if err != nil {
		return Page{}, err
	}

	in := &ses.ListIdentitiesInput{MaxItems: aws.Int32(limit)}
	if token != "" {
		in.NextToken = aws.String(token)
	}

	out, err := client.ListIdentities(ctx, in)
	if err != nil {
		return Page{}, provider.Classify(err, provider.ErrLookupFailed)
	}

	page := Page{
		Identities: make([]Identity, 0, len(out.Identities)),
		NextToken:  aws.ToString(out.NextToken),
	}
	page.More = page.NextToken != ""

	for _, raw := range out.Identities {
		id := Identity{Raw: raw, Text: raw, Type: TypeEmail}
		if !strings.Contains(raw, "@") {
			id.Type = TypeDomain
			id.Text = "*@" + raw
		}
		page.Identities = append(page.Identities, id)
	}

	if len(out.Identities) == 0 {
		return page, nil
	}

	attrs, err := client.GetIdentityVerificationAttributes(ctx, &ses.GetIdentityVerificationAttributesInput{
		Identities: out.Identities,
	})
	if err != nil {
		if provider.IsAuthorization(provider.Classify(err, provider.ErrLookupFailed)) {
			return page, nil
		}
		return page, provider.Classify(err, provider.ErrLookupFailed)
	}

	for i := range page.Identities {
		if a, ok := attrs.VerificationAttributes[page.Identities[i].Raw]; ok {
			page.Identities[i].Status = string(a.VerificationStatus)
		}
	}

	return page, nil
}
