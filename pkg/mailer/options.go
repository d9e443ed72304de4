package mailer

import (
	"log/slog"
)

type fromFilter struct {
	fn       FromFilter
	priority int
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithFromFilter registers fn on the from-filter chain. Filters run in
// ascending priority; use LatePriority to have the final say.
func WithFromFilter(priority int, fn FromFilter) Option {
	return func(m *Mailer) {
		if fn != nil {
			m.filters = append(m.filters, fromFilter{fn: fn, priority: priority})
		}
	}
}

// WithPreSendHook registers a hook that runs right before delivery.
func WithPreSendHook(hook PreSendHook) Option {
	return func(m *Mailer) {
		if hook != nil {
			m.hooks = append(m.hooks, hook)
		}
	}
}

// WithResultCallback sets the callback receiving every delivery attempt.
func WithResultCallback(fn ResultFunc) Option {
	return func(m *Mailer) {
		m.onResult = fn
	}
}

// WithLogger sets the mailer logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mailer) {
		if l != nil {
			m.logger = l
		}
	}
}
