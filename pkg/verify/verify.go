package verify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/dmitrymomot/autoses/pkg/cache"
	"github.com/dmitrymomot/autoses/pkg/provider"
)

// Scope tells which identity made an address verified.
type Scope string

const (
	ScopeEmail  Scope = "email"
	ScopeDomain Scope = "domain"
)

// Verification is the uncached result of Check.
type Verification struct {
	Email       string `json:"email"`
	Domain      string `json:"domain"`
	Scope       Scope  `json:"scope,omitempty"`
	DomainToken string `json:"-"`
	Verified    bool   `json:"verified"`
}

// Verifier checks sender addresses against SES identity verification.
type Verifier struct {
	source provider.Source
	cache  cache.Cache[bool]
	opts   *options
}

// New creates a Verifier backed by c.
func New(source provider.Source, c cache.Cache[bool], opts ...Option) *Verifier {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Verifier{source: source, cache: c, opts: o}
}

// Domain returns the text after the first "@", or addr itself when it has none.
func Domain(addr string) string {
	if _, domain, ok := strings.Cut(addr, "@"); ok {
		return domain
	}
	return addr
}

// CacheKey is the cache key for addr.
func CacheKey(addr string) string {
	return "verified:" + addr
}

// IsVerified reports whether addr or its domain is verified.
// Errors are logged and reported as false without touching the cache.
func (v *Verifier) IsVerified(ctx context.Context, addr string) bool {
	verified, err := cache.GetOrSet(ctx, v.cache, CacheKey(addr), func(ctx context.Context) (bool, time.Duration, error) {
		res, err := v.Check(ctx, addr)
		if err != nil {
			return false, 0, err
		}
		return res.Verified, v.opts.ttl, nil
	})
	if err != nil {
		v.opts.logger.WarnContext(ctx, "sender verification lookup failed",
			slog.String("address", addr),
			slog.String("code", provider.ErrorCode(err)),
			slog.String("error", err.Error()),
		)
		return false
	}
	return verified
}

// Check queries SES for addr and its domain in one call, bypassing the cache.
func (v *Verifier) Check(ctx context.Context, addr string) (Verification, error) {
	res := Verification{Email: addr, Domain: Domain(addr)}

	client, err := v.source.Client(ctx)
	if err != nil {
		return res, err
	}

	identities := []string{res.Email}
	if res.Domain != res.Email {
		identities = append(identities, res.Domain)
	}

	out, err := client.GetIdentityVerificationAttributes(ctx, &ses.GetIdentityVerificationAttributesInput{
		Identities: identities,
	})
	if err != nil {
		return res, provider.Classify(err, provider.ErrLookupFailed)
	}

	emailAttrs := out.VerificationAttributes[res.Email]
	domainAttrs := out.VerificationAttributes[res.Domain]
	res.DomainToken = aws.ToString(domainAttrs.VerificationToken)

	switch {
	case emailAttrs.VerificationStatus == types.VerificationStatusSuccess:
		res.Verified = true
		res.Scope = ScopeEmail
	case domainAttrs.VerificationStatus == types.VerificationStatusSuccess:
		res.Verified = true
		res.Scope = ScopeDomain
	}

	return res, nil
}
