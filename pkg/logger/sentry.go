package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig configures the Sentry destination. MinLevel is either
// slog.LevelWarn or slog.LevelError and controls which records are kept as
// Sentry logs; errors always become issues.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	MinLevel    slog.Level
}

// NewWithSentry logs to stdout and, when a DSN is set and the SDK starts,
// to Sentry as well. Extractors apply to both destinations.
func NewWithSentry(logCfg Config, cfg SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	stdout := newHandler(logCfg, os.Stdout)
	if cfg.DSN == "" {
		return slog.New(Decorate(stdout, extractors...))
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	})
	if err != nil {
		slog.New(stdout).Error("sentry disabled", slog.String("error", err.Error()))
		return slog.New(Decorate(stdout, extractors...))
	}

	kept := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel >= slog.LevelError {
		kept = kept[1:]
	}
	toSentry := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   kept,
	}.NewSentryHandler(context.Background())

	return slog.New(Decorate(fanout{stdout, toSentry}, extractors...))
}
