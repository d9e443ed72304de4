// Package redis opens the go-redis client shared by the Redis settings store
// and the Redis verification cache.
//
//	client, err := redis.Open(ctx, cfg.Redis.URL,
//	    redis.WithPoolSize(20),
//	    redis.WithRetry(5, time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//
// [Open] accepts redis://, rediss:// and unix:// URLs and retries the
// initial ping with exponential backoff (sethvargo/go-retry). [Healthcheck] and [Shutdown] return closures for
// the readiness endpoint and the server's shutdown hooks.
package redis
