// Package dnsverify checks whether a domain publishes its SES verification
// token.
//
// SES verifies a domain identity once the TXT record
//
//	_amazonses.example.com TXT "<verification token>"
//
// is visible. [Checker.Check] looks the record up so the admin status report
// can tell an operator whether a pending domain is waiting on DNS or on SES.
//
//	c := dnsverify.New(nil)
//	err := c.Check(ctx, "example.com", token)
//	switch {
//	case errors.Is(err, dnsverify.ErrTXTRecordNotFound):
//		// record not published yet
//	case errors.Is(err, dnsverify.ErrDomainNotVerified):
//		// record published with a different token
//	}
package dnsverify
