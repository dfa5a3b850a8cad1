// internal/cache/sqlite.go
//
// SQLite-backed store for solver replies.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Get/Put of replies keyed by history, with a time-to-live.
//
// Expired rows are ignored on read and removed by Prune.

package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordlebot/assets"
)

// SQLite is a persistent solver cache.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
	log zerolog.Logger
}

// Option configures a cache.
type Option func(*options)

type options struct {
	now func() time.Time
	log zerolog.Logger
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// OpenSQLite opens (creating if missing) the database at path and migrates it.
// A ttl of zero keeps entries forever.
func OpenSQLite(path string, ttl time.Duration, opts ...Option) (*SQLite, error) {
	o := buildOptions(opts)
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db, o.log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db, ttl: ttl, now: o.now, log: o.log}, nil
}

// Close releases the database.
func (c *SQLite) Close() error { return c.db.Close() }

// Get returns the stored reply for key if present and not expired.
func (c *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value    string
		storedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT next_guess, stored_at FROM solver_cache WHERE history_key=?`, key,
	).Scan(&value, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get: %w", err)
	}
	if c.expired(time.Unix(0, storedAt)) {
		return "", false, nil
	}
	return value, true, nil
}

// Put stores value under key, replacing any earlier entry.
func (c *SQLite) Put(ctx context.Context, key, value string) error {
	_, err := c.db.ExecContext(ctx, `
        INSERT INTO solver_cache (history_key, next_guess, stored_at)
        VALUES (?, ?, ?)
        ON CONFLICT(history_key) DO UPDATE SET
            next_guess=excluded.next_guess,
            stored_at=excluded.stored_at`,
		key, value, c.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Prune deletes expired entries and reports how many were removed.
func (c *SQLite) Prune(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	cutoff := c.now().Add(-c.ttl).UnixNano()
	res, err := c.db.ExecContext(ctx, `DELETE FROM solver_cache WHERE stored_at <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		c.log.Debug().Int64("removed", n).Msg("pruned solver cache")
	}
	return n, nil
}

func (c *SQLite) expired(storedAt time.Time) bool {
	return c.ttl > 0 && c.now().Sub(storedAt) >= c.ttl
}

// openDB opens a SQLite file with busy timeout and WAL journaling.
// The parent directory of relative paths such as ./data/cache.db is created.
func openDB(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies the embedded SQL scripts that are not yet recorded in
// _migrations, each inside its own transaction. Scripts that manage their
// own transaction run as-is.
func migrate(db *sql.DB, log zerolog.Logger) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	migrations, err := assets.Migrations()
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	for _, m := range migrations {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, m.Name).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", m.Name).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		if strings.Contains(strings.ToUpper(m.SQL), "BEGIN TRANSACTION") {
			if _, err := db.Exec(m.SQL); err != nil {
				return fmt.Errorf("apply %s: %w", m.Name, err)
			}
			if _, err := db.Exec(`INSERT INTO _migrations(name) VALUES (?)`, m.Name); err != nil {
				return fmt.Errorf("record %s: %w", m.Name, err)
			}
			log.Info().Str("migration", m.Name).Msg("applied (self-managed)")
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", m.Name, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, m.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", m.Name, err)
		}
		log.Info().Str("migration", m.Name).Msg("applied")
	}
	return nil
}
