package smtp

// TLS modes.
const (
	TLSNone     = "none"
	TLSStartTLS = "starttls"
	TLSImplicit = "tls"
)

// Config holds SMTP relay settings.
// Embed it in the app config for env parsing with caarlos0/env.
type Config struct {
	Host      string `env:"SMTP_HOST" envDefault:"localhost"`
	Username  string `env:"SMTP_USERNAME"`
	Password  string `env:"SMTP_PASSWORD"`
	TLS       string `env:"SMTP_TLS" envDefault:"none"`
	LocalName string `env:"SMTP_LOCAL_NAME"`
	Port      int    `env:"SMTP_PORT" envDefault:"25"`
}
