// Package smtp delivers mailer messages through an SMTP relay.
//
// It is the default transport while SES dispatch is disabled. Messages are
// composed with [mailer.Compose], so the bytes on the wire match what the
// SES transport would submit.
package smtp
