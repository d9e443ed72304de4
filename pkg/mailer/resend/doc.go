// Package resend delivers mailer messages through the Resend HTTP API.
package resend
