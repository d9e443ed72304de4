package settings

import (
	"context"
	"sync"
)

// Memory keeps settings in process memory.
type Memory struct {
	opts    Options
	mu      sync.RWMutex
	enabled bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Options(context.Context) (Options, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opts, nil
}

func (m *Memory) SaveOptions(_ context.Context, opts Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts = opts
	return nil
}

func (m *Memory) Enabled(context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled, nil
}

func (m *Memory) SetEnabled(_ context.Context, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
	return nil
}

func (m *Memory) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts = Options{}
	m.enabled = false
	return nil
}

var _ Store = (*Memory)(nil)
