package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value    string
	storedAt time.Time
}

// Memory is a process-local solver cache, used when no database path is set.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory returns an empty cache. A ttl of zero keeps entries forever.
func NewMemory(ttl time.Duration, opts ...Option) *Memory {
	o := buildOptions(opts)
	return &Memory{entries: make(map[string]entry), ttl: ttl, now: o.now}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok || (m.ttl > 0 && m.now().Sub(e.storedAt) >= m.ttl) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: value, storedAt: m.now()}
	return nil
}

// Prune drops expired entries.
func (m *Memory) Prune(_ context.Context) (int64, error) {
	if m.ttl <= 0 {
		return 0, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, e := range m.entries {
		if m.now().Sub(e.storedAt) >= m.ttl {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
