package cache

import "time"

// RedisOption configures a Redis cache.
type RedisOption func(*redisSettings)

type redisSettings struct {
	prefix string
	ttl    time.Duration
}

// WithPrefix stores keys as "prefix:key". Clear only touches prefixed keys.
func WithPrefix(prefix string) RedisOption {
	return func(s *redisSettings) { s.prefix = prefix }
}

// WithRedisDefaultTTL is the expiry applied when Set is called with ttl 0.
// One hour unless set.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(s *redisSettings) { s.ttl = d }
}
