package cache

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func stores(t *testing.T, ttl time.Duration, clock *fakeClock) map[string]Store {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "cache.db"), ttl, WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return map[string]Store{
		"sqlite": db,
		"memory": NewMemory(ttl, WithClock(clock.Now)),
	}
}

func TestStoreGetPut(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t, time.Hour, newClock()) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "raise:BBBBB")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Put(ctx, "raise:BBBBB", "cloth"))
			v, ok, err := s.Get(ctx, "raise:BBBBB")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "cloth", v)

			require.NoError(t, s.Put(ctx, "raise:BBBBB", "NA"))
			v, _, _ = s.Get(ctx, "raise:BBBBB")
			assert.Equal(t, "NA", v)
		})
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	for name, s := range stores(t, time.Minute, clock) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, name, "cloth"))
			_, ok, _ := s.Get(ctx, name)
			assert.True(t, ok)

			clock.Advance(time.Minute)
			_, ok, err := s.Get(ctx, name)
			require.NoError(t, err)
			assert.False(t, ok)

			n, err := s.Prune(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
		})
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	for name, s := range stores(t, 0, clock) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "k", "v"))
			clock.Advance(24 * 365 * time.Hour)
			_, ok, _ := s.Get(ctx, "k")
			assert.True(t, ok)
			n, _ := s.Prune(ctx)
			assert.Zero(t, n)
		})
	}
}

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	first, err := OpenSQLite(path, 0)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, "raise:GGGGG", "raise"))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path, 0)
	require.NoError(t, err)
	defer second.Close()

	v, ok, err := second.Get(ctx, "raise:GGGGG")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "raise", v)

	var applied int
	require.NoError(t, second.db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestOpenFallsBackToMemory(t *testing.T) {
	s, closer, err := Open("", time.Minute)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)
	assert.NoError(t, closer.Close())
}

func TestPruneEveryStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		PruneEvery(ctx, NewMemory(time.Second), time.Millisecond, zerolog.Nop())
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PruneEvery did not return")
	}
}
