package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/autoses/internal/admin"
	"github.com/dmitrymomot/autoses/internal/config"
	"github.com/dmitrymomot/autoses/internal/dispatch"
	"github.com/dmitrymomot/autoses/internal/server"
	"github.com/dmitrymomot/autoses/middlewares"
	"github.com/dmitrymomot/autoses/pkg/cache"
	"github.com/dmitrymomot/autoses/pkg/db"
	"github.com/dmitrymomot/autoses/pkg/gate"
	"github.com/dmitrymomot/autoses/pkg/health"
	"github.com/dmitrymomot/autoses/pkg/logger"
	"github.com/dmitrymomot/autoses/pkg/mailer"
	"github.com/dmitrymomot/autoses/pkg/mailer/resend"
	"github.com/dmitrymomot/autoses/pkg/mailer/ses"
	"github.com/dmitrymomot/autoses/pkg/mailer/smtp"
	"github.com/dmitrymomot/autoses/pkg/provider"
	"github.com/dmitrymomot/autoses/pkg/redis"
	"github.com/dmitrymomot/autoses/pkg/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	cfg.Sentry.MinLevel = slog.LevelWarn
	log := logger.NewWithSentry(cfg.Log, cfg.Sentry,
		middlewares.RequestIDExtractor(),
		gate.ForcedExtractor(),
	)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	checks := health.Checks{}
	var opts []server.Option

	var rdb goredis.UniversalClient
	if cfg.UsesRedis() {
		client, err := redis.Open(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		rdb = client
		checks["redis"] = redis.Healthcheck(client)
		opts = append(opts, server.WithShutdownHook(redis.Shutdown(client)))
	}

	var store settings.Store
	switch cfg.Store {
	case config.BackendRedis:
		store = settings.NewRedis(rdb, cfg.Redis.Prefix)
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return err
		}
		if err := settings.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return err
		}
		store = settings.NewPostgres(pool)
		checks["postgres"] = db.Healthcheck(pool)
		opts = append(opts, server.WithShutdownHook(db.Shutdown(pool)))
	default:
		store = settings.NewMemory()
	}

	var verified cache.Cache[bool]
	switch cfg.Cache {
	case config.BackendRedis:
		verified = cache.NewRedis[bool](rdb, nil, cache.WithPrefix(cfg.Redis.Prefix+":verified"))
	default:
		verified = cache.NewMemory[bool](cache.WithMaxEntries(10_000))
	}
	opts = append(opts, server.WithShutdownHook(func(context.Context) error { return verified.Close() }))

	factory, err := transportFactory(cfg)
	if err != nil {
		return err
	}

	source := provider.NewAccessor(cfg.Provider, provider.WithLogger(log))
	checks["ses"] = provider.Healthcheck(source)

	var sesOpts []ses.Option
	if cfg.ConfigurationSet != "" {
		sesOpts = append(sesOpts, ses.WithConfigurationSet(cfg.ConfigurationSet))
	}

	d := dispatch.New(cfg.Dispatch, cfg.Mailer, store, source, verified, factory,
		dispatch.WithLogger(log),
		dispatch.WithVerificationTTL(cfg.VerificationTTL),
		dispatch.WithSESOptions(sesOpts...),
	)

	r := chi.NewRouter()
	r.Use(middlewares.RequestID(), middlewares.Recover(log))
	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(checks, health.WithLogger(log)))

	if cfg.AdminToken != "" {
		r.Group(func(r chi.Router) {
			r.Use(middlewares.BearerToken(cfg.AdminToken))
			admin.New(d, admin.WithLogger(log)).Routes(r)
		})
	} else {
		log.Warn("AUTOSES_ADMIN_TOKEN is empty, admin routes are disabled")
	}

	opts = append(opts, server.WithLogger(log))
	return server.Run(ctx, cfg.Server, r, opts...)
}

func transportFactory(cfg config.Config) (mailer.TransportFactory, error) {
	if cfg.Transport == config.TransportResend {
		client, err := resend.NewClient(cfg.Resend)
		if err != nil {
			return nil, err
		}
		return resend.Factory(client), nil
	}
	return smtp.Factory(cfg.SMTP), nil
}
