// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/autoses/internal/dispatch"
	"github.com/dmitrymomot/autoses/internal/server"
	"github.com/dmitrymomot/autoses/pkg/db"
	"github.com/dmitrymomot/autoses/pkg/logger"
	"github.com/dmitrymomot/autoses/pkg/mailer"
	"github.com/dmitrymomot/autoses/pkg/mailer/resend"
	"github.com/dmitrymomot/autoses/pkg/mailer/smtp"
	"github.com/dmitrymomot/autoses/pkg/provider"
	"github.com/dmitrymomot/autoses/pkg/redis"
)

// Backend names.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"

	TransportSMTP   = "smtp"
	TransportResend = "resend"
)

// ErrInvalidConfig wraps every parse and validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full service configuration.
type Config struct {
	Server   server.Config
	Dispatch dispatch.Config
	Mailer   mailer.Config
	SMTP     smtp.Config
	Resend   resend.Config
	Provider provider.Config
	Redis    redis.Config
	DB       db.Config
	Log      logger.Config
	Sentry   logger.SentryConfig

	// AdminToken protects the admin routes. Empty disables them.
	AdminToken string `env:"AUTOSES_ADMIN_TOKEN"`

	Transport        string        `env:"AUTOSES_TRANSPORT" envDefault:"smtp"`
	Store            string        `env:"AUTOSES_STORE" envDefault:"memory"`
	Cache            string        `env:"AUTOSES_CACHE" envDefault:"memory"`
	VerificationTTL  time.Duration `env:"AUTOSES_VERIFICATION_TTL" envDefault:"168h"`
	ConfigurationSet string        `env:"AWS_SES_CONFIGURATION_SET"`
}

// Load reads the optional dotenv files, then parses the process environment.
// Missing files are ignored; with no names, ".env" is tried.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return Parse(nil)
}

// Parse builds a Config from environ, or from the process environment when
// environ is nil.
func Parse(environ map[string]string) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks backend selections and their required settings.
func (c Config) Validate() error {
	var errs []error

	switch c.Store {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis store"))
		}
	case BackendPostgres:
		if c.DB.ConnectionString == "" {
			errs = append(errs, errors.New("DATABASE_CONN_URL is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTOSES_STORE %q", c.Store))
	}

	switch c.Cache {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTOSES_CACHE %q", c.Cache))
	}

	switch c.Transport {
	case TransportSMTP:
	case TransportResend:
		if c.Resend.APIKey == "" {
			errs = append(errs, errors.New("RESEND_API_KEY is required for the resend transport"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTOSES_TRANSPORT %q", c.Transport))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// UsesRedis reports whether any backend needs a Redis connection.
func (c Config) UsesRedis() bool {
	return c.Store == BackendRedis || c.Cache == BackendRedis
}
