// Package cache provides a generic TTL cache with in-memory and Redis backends.
//
// The verification cache keeps one boolean per sender address for a fixed
// time window; this package supplies the storage behind it. Both backends
// implement [Cache], so a single-process deployment can use [NewMemory] and
// a fleet sharing verification results can use [NewRedis].
//
// TTL semantics for Set:
//   - Positive duration: item expires after this duration
//   - Zero: use the cache's configured default TTL (1 hour by default)
//   - Negative: item never expires
//
// # In-Memory Cache
//
// [NewMemory] keeps up to [DefaultMaxEntries] entries in an LRU
// (hashicorp/golang-lru) and sweeps expired entries in the background:
//
//	c := cache.NewMemory[bool](
//	    cache.WithDefaultTTL(7 * 24 * time.Hour),
//	    cache.WithMaxEntries(10000),
//	)
//	defer c.Close()
//
// [WithClock] replaces the time source, which lets tests move past a TTL
// without sleeping.
//
// # Redis Cache
//
// [NewRedis] stores values under "{prefix}:{key}", encoded with a [Codec]
// ([JSON] when nil is passed):
//
//	client, _ := redis.Open(ctx, os.Getenv("REDIS_URL"))
//	c := cache.NewRedis[bool](client, nil, cache.WithPrefix("autoses"))
//
// # Read-Through
//
// [GetOrSet] returns a cached value or computes it once per key, even with
// concurrent callers. A compute error is returned to every waiting caller
// and nothing is stored:
//
//	ok, err := cache.GetOrSet(ctx, c, "verified:a@example.com",
//	    func(ctx context.Context) (bool, time.Duration, error) {
//	        v, err := lookup(ctx)
//	        return v, 7 * 24 * time.Hour, err
//	    })
//
// # Errors
//
//   - [ErrNotFound]: key does not exist or has expired
//   - [ErrClosed]: operation on a closed cache
//   - [ErrMarshal], [ErrUnmarshal]: value encoding failed
package cache
