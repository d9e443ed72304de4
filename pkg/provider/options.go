package provider

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"

	"github.com/dmitrymomot/autoses/pkg/logger"
)

// Option configures an Accessor.
type Option func(*options)

type options struct {
	discoverer RegionDiscoverer
	newClient  func(aws.Config) API
	logger     *slog.Logger
}

func defaultOptions() *options {
	return &options{
		logger: logger.NewNope(),
	}
}

// WithDiscoverer replaces instance identity discovery.
func WithDiscoverer(d RegionDiscoverer) Option {
	return func(o *options) {
		if d != nil {
			o.discoverer = d
		}
	}
}

// WithClientFactory replaces ses.NewFromConfig. Tests use it to inject fakes.
func WithClientFactory(fn func(aws.Config) API) Option {
	return func(o *options) {
		if fn != nil {
			o.newClient = fn
		}
	}
}

// WithLogger sets the logger used to report an Absent client.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func sesClientFactory(endpoint string) func(aws.Config) API {
	return func(cfg aws.Config) API {
		return ses.NewFromConfig(cfg, func(o *ses.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		})
	}
}
