package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

// Redis is a Cache stored in Redis, shared by every process using the same
// prefix. Values are encoded with a Codec, JSON by default.
type Redis[V any] struct {
	client redis.UniversalClient
	codec  Codec[V]
	redisSettings
}

// NewRedis creates a Redis-backed cache on client. A nil m selects JSON.
// The client stays owned by the caller.
//
// Example:
//
//	client, _ := redis.Open(ctx, os.Getenv("REDIS_URL"))
//	c := cache.NewRedis[bool](client, nil, cache.WithPrefix("autoses:verified"))
func NewRedis[V any](client redis.UniversalClient, m Codec[V], opts ...RedisOption) *Redis[V] {
	r := &Redis[V]{client: client, codec: m, redisSettings: redisSettings{ttl: time.Hour}}
	for _, opt := range opts {
		opt(&r.redisSettings)
	}
	if r.codec == nil {
		r.codec = JSON[V]{}
	}
	return r
}

func (r *Redis[V]) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

// Get returns the decoded value for key.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		var zero V
		return zero, ErrNotFound
	case err != nil:
		var zero V
		return zero, err
	}
	return r.codec.Unmarshal(data)
}

// Set stores value. A zero ttl uses the default; a negative ttl stores the
// key without expiry.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.codec.Marshal(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = r.ttl
	}
	// Redis treats a zero expiration as none.
	return r.client.Set(ctx, r.key(key), data, max(ttl, 0)).Err()
}

// Delete removes key.
func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Has reports whether key exists.
func (r *Redis[V]) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	return n > 0, err
}

// Clear removes the keys under the configured prefix, or the whole
// database when no prefix is set.
func (r *Redis[V]) Clear(ctx context.Context) error {
	if r.prefix == "" {
		return r.client.FlushDB(ctx).Err()
	}

	iter := r.client.Scan(ctx, 0, r.prefix+":*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := r.client.Unlink(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.client.Unlink(ctx, batch...).Err()
	}
	return nil
}

// Close does nothing; close the client with pkg/redis.Shutdown.
func (r *Redis[V]) Close() error {
	return nil
}

var _ Cache[any] = (*Redis[any])(nil)
