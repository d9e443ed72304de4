// Package logger builds the slog loggers used across the dispatch service.
//
// Loggers write JSON (or text) to stdout and can be decorated with
// [ContextExtractor] functions that copy request-scoped values into every
// record. Send paths rely on this to tag log lines with the request ID and
// with whether the SES gate was force-enabled for the call:
//
//	log := logger.New(logger.Config{Level: "info"},
//	    middlewares.RequestIDExtractor(),
//	    gate.ForcedExtractor(),
//	)
//
// [NewWithSentry] additionally forwards warnings and errors to Sentry when a
// DSN is configured and falls back to stdout only otherwise. [NewNope]
// discards everything and is the default logger of every package that
// accepts a WithLogger option.
package logger
