package redis

// Config holds the Redis connection settings.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	URL string `env:"REDIS_URL"`

	// Prefix namespaces settings and cache keys when several sites share one Redis.
	Prefix string `env:"REDIS_KEY_PREFIX" envDefault:"autoses"`
}
