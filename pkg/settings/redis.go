package settings

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Redis stores settings as plain Redis keys, optionally prefixed.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis creates a Redis-backed store. Keys are "{prefix}:{option}" when
// prefix is set.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Options(ctx context.Context) (Options, error) {
	data, err := r.client.Get(ctx, r.key(OptionsKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Options{}, nil
	}
	if err != nil {
		return Options{}, errors.Join(ErrRead, err)
	}
	return decodeOptions(data)
}

func (r *Redis) SaveOptions(ctx context.Context, opts Options) error {
	data, err := encodeOptions(opts)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(OptionsKey), data, 0).Err(); err != nil {
		return errors.Join(ErrWrite, err)
	}
	return nil
}

func (r *Redis) Enabled(ctx context.Context) (bool, error) {
	v, err := r.client.Get(ctx, r.key(EnabledKey)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Join(ErrRead, err)
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Join(ErrDecode, err)
	}
	return enabled, nil
}

func (r *Redis) SetEnabled(ctx context.Context, enabled bool) error {
	if err := r.client.Set(ctx, r.key(EnabledKey), strconv.FormatBool(enabled), 0).Err(); err != nil {
		return errors.Join(ErrWrite, err)
	}
	return nil
}

// Reset deletes both keys in one MULTI/EXEC.
func (r *Redis) Reset(ctx context.Context) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key(OptionsKey), r.key(EnabledKey))
		return nil
	})
	if err != nil {
		return errors.Join(ErrWrite, err)
	}
	return nil
}

func (r *Redis) key(name string) string {
	if r.prefix == "" {
		return name
	}
	return r.prefix + ":" + name
}

var _ Store = (*Redis)(nil)
