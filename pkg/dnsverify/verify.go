package dnsverify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"slices"
	"strings"
)

// RecordPrefix is the label SES reads the verification token from.
const RecordPrefix = "_amazonses."

var (
	ErrDNSLookupFailed   = errors.New("dns lookup failed")
	ErrDomainNotVerified = errors.New("domain not verified")
	ErrTXTRecordNotFound = errors.New("txt record not found")
	ErrInvalidInput      = errors.New("invalid domain or token")
)

// TXTResolver looks up TXT records. *net.Resolver satisfies it.
type TXTResolver interface {
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

// Checker verifies published SES tokens.
type Checker struct {
	resolver TXTResolver
}

// New creates a Checker. A nil resolver uses net.DefaultResolver.
func New(resolver TXTResolver) *Checker {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &Checker{resolver: resolver}
}

// RecordName returns the TXT record name for domain.
func RecordName(domain string) string {
	return RecordPrefix + strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
}

// Check returns nil when the _amazonses TXT record of domain holds token.
func (c *Checker) Check(ctx context.Context, domain, token string) error {
	domain = strings.TrimSpace(domain)
	token = strings.TrimSpace(token)
	if domain == "" || token == "" {
		return ErrInvalidInput
	}

	records, err := c.resolver.LookupTXT(ctx, RecordName(domain))
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return ErrTXTRecordNotFound
		}
		return fmt.Errorf("%w: %v", ErrDNSLookupFailed, err)
	}

	if slices.ContainsFunc(records, func(r string) bool { return strings.TrimSpace(r) == token }) {
		return nil
	}

	return ErrDomainNotVerified
}
