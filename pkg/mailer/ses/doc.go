// Package ses delivers mailer messages as raw SES messages.
//
// The transport is installed per message by [Hook], a mailer pre-send hook.
// When the dispatch gate is closed the hook leaves the default transport
// alone. When it is open the hook copies the message state into a
// [Transport], arms it with the process-wide SES client and lets the mailer
// continue. Calling the hook again on an SES transport only re-arms it.
//
// A Transport without a client fails with [ErrNoClient] before any network
// call.
package ses
