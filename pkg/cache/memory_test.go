package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/autoses/pkg/cache"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrNotFound for missing key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[bool]()
		defer c.Close()

		_, err := c.Get(context.Background(), "verified:a@example.com")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("stores false as a real value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[bool]()
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "k", false, time.Minute))

		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.False(t, v)

		ok, err := c.Has(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("overwrites existing entry", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "k", "a", time.Minute))
		require.NoError(t, c.Set(ctx, "k", "b", time.Minute))

		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "b", v)
	})

	t.Run("delete removes entry", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "k", "a", time.Minute))
		require.NoError(t, c.Delete(ctx, "k"))

		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})
}

func TestMemory_Expiration(t *testing.T) {
	t.Parallel()

	t.Run("entry expires after ttl", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		c := cache.NewMemory[bool](cache.WithClock(clock.Now), cache.WithCleanupInterval(0))
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "k", true, 7*24*time.Hour))

		clock.Advance(7*24*time.Hour - time.Second)
		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, v)

		clock.Advance(2 * time.Second)
		_, err = c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)

		ok, err := c.Has(ctx, "k")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("zero ttl uses default", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		c := cache.NewMemory[int](
			cache.WithClock(clock.Now),
			cache.WithDefaultTTL(time.Minute),
			cache.WithCleanupInterval(0),
		)
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "k", 1, 0))

		clock.Advance(2 * time.Minute)
		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		c := cache.NewMemory[int](cache.WithClock(clock.Now), cache.WithCleanupInterval(0))
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "k", 1, -1))

		clock.Advance(365 * 24 * time.Hour)
		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, 1, v)
	})
}

func TestMemory_MaxEntries(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[int](cache.WithMaxEntries(2))
	defer c.Close()

	var evicted []string
	c.SetEvictCallback(func(key string, _ int) {
		evicted = append(evicted, key)
	})

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "b", 2, time.Minute))

	// Touch "a" so "b" becomes least recently used.
	_, err := c.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "c", 3, time.Minute))
	require.Equal(t, []string{"b"}, evicted)

	_, err = c.Get(ctx, "b")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemory_Close(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[int]()
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	err := c.Set(context.Background(), "k", 1, time.Minute)
	require.ErrorIs(t, err, cache.ErrClosed)
}

func TestMemory_Sweep(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := cache.NewMemory[bool](cache.WithClock(clock.Now), cache.WithCleanupInterval(5*time.Millisecond))
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "short", true, time.Minute))
	require.NoError(t, c.Set(ctx, "long", true, time.Hour))
	require.Equal(t, 2, c.Len())

	clock.Advance(2 * time.Minute)
	require.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, 5*time.Millisecond)

	ok, err := c.Has(ctx, "long")
	require.NoError(t, err)
	require.True(t, ok)
}
