package dispatch

// Config holds site-level settings for the dispatcher.
type Config struct {
	SiteURL         string `env:"AUTOSES_SITE_URL" envDefault:"http://localhost"`
	AdminEmail      string `env:"AUTOSES_ADMIN_EMAIL,required"`
	IdentitiesLimit int32  `env:"AUTOSES_IDENTITIES_LIMIT" envDefault:"15"`
}
