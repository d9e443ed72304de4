package mailer

// Config holds mailer configuration.
// Embed it in the app config for env parsing with caarlos0/env.
type Config struct {
	FallbackSubject string `env:"MAILER_FALLBACK_SUBJECT" envDefault:"Notification"`
	DefaultLayout   string `env:"MAILER_DEFAULT_LAYOUT" envDefault:"base.html"`
	DefaultFrom     string `env:"MAILER_DEFAULT_FROM"`
	FromName        string `env:"MAILER_FROM_NAME"`
	Hostname        string `env:"MAILER_HOSTNAME" envDefault:"localhost"`
	SingleTo        bool   `env:"MAILER_SINGLE_TO" envDefault:"false"`
}
