package cache

import "time"

// DefaultMaxEntries is the capacity of a memory cache built without
// WithMaxEntries.
const DefaultMaxEntries = 10_000

// MemoryOption configures a Memory cache.
type MemoryOption func(*memorySettings)

type memorySettings struct {
	clock      func() time.Time
	ttl        time.Duration
	sweepEvery time.Duration
	capacity   int
}

func newMemorySettings() *memorySettings {
	return &memorySettings{
		clock:      time.Now,
		ttl:        time.Hour,
		sweepEvery: time.Minute,
		capacity:   DefaultMaxEntries,
	}
}

// WithDefaultTTL is the expiry applied when Set is called with ttl 0.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(s *memorySettings) { s.ttl = d }
}

// WithCleanupInterval sets the period of the background sweep that drops
// expired entries. Zero turns the sweep off and leaves expiry to reads.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(s *memorySettings) { s.sweepEvery = d }
}

// WithMaxEntries sets the capacity. The least recently used entry is evicted
// once it is reached. n <= 0 is ignored.
func WithMaxEntries(n int) MemoryOption {
	return func(s *memorySettings) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithClock sets the time source used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *memorySettings) {
		if now != nil {
			s.clock = now
		}
	}
}
