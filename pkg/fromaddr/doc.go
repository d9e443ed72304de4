// Package fromaddr picks the From address used for outgoing mail.
//
// When the operator has opted into verified senders and the requested
// address (or its domain) is verified with SES, the requested address is
// kept. Otherwise the configured default sender wins, and when none is
// configured the host's fallback address is used. The resolver is installed
// on the mailer as a late from-filter so it has the final say over the header
// no matter which transport eventually sends the message.
package fromaddr
