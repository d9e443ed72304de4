package ses

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/autoses/pkg/logger"
	"github.com/dmitrymomot/autoses/pkg/mailer"
	"github.com/dmitrymomot/autoses/pkg/provider"
)

// Substitute makes *tr an armed SES transport. An existing SES transport is
// re-armed in place; any other transport is replaced by a copy.
func Substitute(tr *mailer.Transport, client RawSender, opts ...Option) *Transport {
	if st, ok := (*tr).(*Transport); ok {
		st.Arm(client)
		return st
	}

	st := Replace(*tr, opts...)
	st.Arm(client)
	*tr = st
	return st
}

// Hook returns a mailer pre-send hook routing messages through SES while
// enabled reports true. The client is pulled from source only when the gate
// is open and the transport is not armed yet. If source has no client the
// transport is still substituted, so the send fails with ErrNoClient instead
// of leaving through another path.
func Hook(enabled func(context.Context) bool, source provider.Source, log *slog.Logger, opts ...Option) mailer.PreSendHook {
	if log == nil {
		log = logger.NewNope()
	}

	return func(ctx context.Context, tr *mailer.Transport) {
		if tr == nil || *tr == nil || !enabled(ctx) {
			return
		}
		if st, ok := (*tr).(*Transport); ok && st.Armed() {
			return
		}

		var client RawSender
		api, err := source.Client(ctx)
		switch {
		case err != nil:
			log.WarnContext(ctx, "ses dispatch enabled but client unavailable", slog.String("error", err.Error()))
		case api != nil:
			client = api
		}

		Substitute(tr, client, opts...)
	}
}
