// Package cache stores solver replies keyed by the history they answer.
package cache

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Store is implemented by SQLite and Memory.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Prune(ctx context.Context) (int64, error)
}

// Open returns a SQLite cache at path, or a Memory cache when path is empty.
// The returned closer is always non-nil.
func Open(path string, ttl time.Duration, opts ...Option) (Store, io.Closer, error) {
	if path == "" {
		return NewMemory(ttl, opts...), io.NopCloser(nil), nil
	}
	db, err := OpenSQLite(path, ttl, opts...)
	if err != nil {
		return nil, nil, err
	}
	return db, db, nil
}

// PruneEvery removes expired entries on every tick until ctx ends.
func PruneEvery(ctx context.Context, s Store, every time.Duration, log zerolog.Logger) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.Prune(ctx); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Msg("prune solver cache")
			}
		}
	}
}
