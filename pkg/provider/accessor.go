package provider

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Accessor lazily builds the SES client and memoizes the outcome,
// including failure, for the lifetime of the process.
type Accessor struct {
	client API
	err    error
	opts   *options
	cfg    Config
	region string
	once   sync.Once
}

// NewAccessor creates an Accessor. No network calls happen until Client is called.
func NewAccessor(cfg Config, opts ...Option) *Accessor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.discoverer == nil {
		o.discoverer = NewDocumentCache(cfg.DocumentPath, nil)
	}
	if o.newClient == nil {
		o.newClient = sesClientFactory(cfg.Endpoint)
	}

	return &Accessor{cfg: cfg, opts: o}
}

// Client returns the memoized client, building it on first use.
// Returns ErrProviderUnavailable when the client could not be built.
func (a *Accessor) Client(ctx context.Context) (API, error) {
	a.once.Do(func() {
		// A cancelled request must not leave the process without a client.
		a.init(context.WithoutCancel(ctx))
	})
	return a.client, a.err
}

// Region returns the region the client is bound to, or "" when Absent.
func (a *Accessor) Region(ctx context.Context) string {
	_, _ = a.Client(ctx)
	return a.region
}

func (a *Accessor) init(ctx context.Context) {
	region := a.cfg.Region
	if region == "" {
		r, err := a.opts.discoverer.DiscoverRegion(ctx)
		if err != nil {
			a.fail(ctx, err)
			return
		}
		region = r
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if a.cfg.AccessKey != "" && a.cfg.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(a.cfg.AccessKey, a.cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		a.fail(ctx, err)
		return
	}

	a.client = a.opts.newClient(awsCfg)
	a.region = region
	a.opts.logger.InfoContext(ctx, "ses client ready", slog.String("region", region))
}

func (a *Accessor) fail(ctx context.Context, err error) {
	a.err = errors.Join(ErrProviderUnavailable, err)
	a.opts.logger.WarnContext(ctx, "ses client unavailable", slog.String("error", err.Error()))
}

// static is a Source with a fixed client, for wiring a pre-built client.
type static struct {
	client API
	region string
}

// Static returns a Source that always yields client.
// A nil client behaves like an Absent accessor.
func Static(client API, region string) Source {
	return &static{client: client, region: region}
}

func (s *static) Client(context.Context) (API, error) {
	if s.client == nil {
		return nil, ErrProviderUnavailable
	}
	return s.client, nil
}

func (s *static) Region(context.Context) string {
	if s.client == nil {
		return ""
	}
	return s.region
}
