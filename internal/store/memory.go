// internal/store/memory.go
//
// In-memory registry of live assistant sessions.
//
// Characteristics:
//   - Stores *session.Controller values keyed by session ID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Idle sessions are evicted by Sweep; state is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/wordlebot/internal/session"
)

// ErrNotFound is returned by Get for unknown or evicted sessions.
var ErrNotFound = errors.New("session not found")

// Store defines the registry used by the HTTP layer.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, c *session.Controller) error

	// Get retrieves a session by ID or returns ErrNotFound.
	Get(ctx context.Context, id string) (*session.Controller, error)

	// Delete removes a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Sweep evicts sessions idle since before cutoff and returns their IDs.
	Sweep(ctx context.Context, cutoff time.Time) []string

	// Len reports the number of live sessions.
	Len() int
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*session.Controller
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*session.Controller)}
}

func (m *memory) Save(_ context.Context, c *session.Controller) error {
	if c.ID() == "" {
		return errors.New("session has no id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[c.ID()] = c
	return nil
}

func (m *memory) Get(_ context.Context, id string) (*session.Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.sessions[id]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Sweep(_ context.Context, cutoff time.Time) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var evicted []string
	for id, c := range m.sessions {
		if c.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
