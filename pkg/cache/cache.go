package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache stores values of one type under string keys. A positive ttl on Set
// expires the entry after that long, zero means the backend default and a
// negative ttl keeps the entry until it is deleted or evicted.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, error) // ErrNotFound on miss or expiry
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
	Close() error
}

// Codec turns values into bytes for backends that store blobs.
type Codec[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// JSON is the default Codec.
type JSON[V any] struct{}

func (JSON[V]) Marshal(v V) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarshal, err)
	}
	return b, nil
}

func (JSON[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: %w", ErrUnmarshal, err)
	}
	return v, nil
}

var flights singleflight.Group

type computed[V any] struct {
	val V
	ttl time.Duration
}

// GetOrSet returns the cached value for key, or computes it with fn on a
// miss and stores it for the returned ttl. Concurrent misses for the same
// key on the same cache share one fn call. An fn error reaches every
// waiting caller and nothing is stored. A caller whose ctx ends stops
// waiting; the shared computation keeps running for the others.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, fn func(ctx context.Context) (V, time.Duration, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	ch := flights.DoChan(fmt.Sprintf("%p:%s", c, key), func() (any, error) {
		val, ttl, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		_ = c.Set(context.WithoutCancel(ctx), key, val, ttl)
		return computed[V]{val: val, ttl: ttl}, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(computed[V]).val, nil
	}
}
