package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type item[V any] struct {
	expiresAt time.Time // zero: no expiry
	value     V
}

func (it item[V]) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && now.After(it.expiresAt)
}

// Memory is an in-process cache bounded by entry count, least recently
// used entries are dropped first. Each entry carries its own expiry.
type Memory[V any] struct {
	entries *lru.Cache[string, item[V]]
	opts    *memorySettings
	onEvict atomic.Pointer[func(key string, value V)]
	closed  atomic.Bool
	done    chan struct{}
	stop    sync.Once
}

// NewMemory creates an in-memory cache.
//
// Example:
//
//	c := cache.NewMemory[bool](
//	    cache.WithDefaultTTL(7 * 24 * time.Hour),
//	    cache.WithMaxEntries(10000),
//	)
//	defer c.Close()
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := newMemorySettings()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory[V]{opts: o, done: make(chan struct{})}

	// Only fails for a non-positive size, which the options never produce.
	m.entries, _ = lru.NewWithEvict(o.capacity, func(key string, it item[V]) {
		if fn := m.onEvict.Load(); fn != nil {
			(*fn)(key, it.value)
		}
	})

	if o.sweepEvery > 0 {
		go m.sweep()
	}

	return m
}

// SetEvictCallback registers fn for every entry leaving the cache, whether
// by capacity, expiry, Delete or Clear.
func (m *Memory[V]) SetEvictCallback(fn func(key string, value V)) {
	if fn == nil {
		m.onEvict.Store(nil)
		return
	}
	m.onEvict.Store(&fn)
}

// Get returns the value for key and marks it recently used.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	var zero V

	it, ok := m.entries.Get(key)
	if !ok {
		return zero, ErrNotFound
	}
	if it.expired(m.opts.clock()) {
		m.entries.Remove(key)
		return zero, ErrNotFound
	}
	return it.value, nil
}

// Set stores value under key. A zero ttl uses the default, a negative ttl
// keeps the entry until it is evicted.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	if m.closed.Load() {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.ttl
	}

	it := item[V]{value: value}
	if ttl > 0 {
		it.expiresAt = m.opts.clock().Add(ttl)
	}

	m.entries.Add(key, it)
	return nil
}

// Delete drops key.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.entries.Remove(key)
	return nil
}

// Has reports whether key holds an unexpired value without touching recency.
func (m *Memory[V]) Has(_ context.Context, key string) (bool, error) {
	it, ok := m.entries.Peek(key)
	if !ok {
		return false, nil
	}
	if it.expired(m.opts.clock()) {
		m.entries.Remove(key)
		return false, nil
	}
	return true, nil
}

// Clear drops every entry.
func (m *Memory[V]) Clear(_ context.Context) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.entries.Purge()
	return nil
}

// Len returns the number of stored entries, expired ones included until
// they are swept.
func (m *Memory[V]) Len() int {
	return m.entries.Len()
}

// Close stops the background sweep. Reads keep working; writes return
// ErrClosed. Close is idempotent.
func (m *Memory[V]) Close() error {
	m.stop.Do(func() {
		m.closed.Store(true)
		close(m.done)
	})
	return nil
}

func (m *Memory[V]) sweep() {
	ticker := time.NewTicker(m.opts.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.removeExpired()
		}
	}
}

func (m *Memory[V]) removeExpired() {
	now := m.opts.clock()
	for _, key := range m.entries.Keys() {
		if it, ok := m.entries.Peek(key); ok && it.expired(now) {
			m.entries.Remove(key)
		}
	}
}

var _ Cache[any] = (*Memory[any])(nil)
