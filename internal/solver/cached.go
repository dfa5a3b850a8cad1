package solver

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/robalobadob/wordlebot/internal/game"
)

// Cache stores raw nextGuess values keyed by HistoryKey.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
}

// Cached wraps a Gateway with a response cache. Concurrent calls for the
// same history share one upstream request. Words and sentinels are cached;
// transport errors never are.
type Cached struct {
	next    Gateway
	cache   Cache
	flight  singleflight.Group
	timeout time.Duration
	log     zerolog.Logger
}

// CachedOption configures a Cached gateway.
type CachedOption func(*Cached)

// WithFlightTimeout bounds a shared upstream call. The call does not follow
// any single caller's context, so this is its only deadline besides the
// wrapped gateway's own.
func WithFlightTimeout(d time.Duration) CachedOption {
	return func(c *Cached) { c.timeout = d }
}

// NewCached decorates next with cache.
func NewCached(next Gateway, cache Cache, log zerolog.Logger, opts ...CachedOption) *Cached {
	c := &Cached{next: next, cache: cache, log: log}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NextGuess implements Gateway. A caller whose context ends stops waiting
// with a TransportError; the shared call keeps running for the others.
func (c *Cached) NextGuess(ctx context.Context, history []game.Record) (game.Word, error) {
	key := HistoryKey(history)

	v, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		cacheLookups.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Msg("solver cache lookup")
	case ok:
		cacheLookups.WithLabelValues("hit").Inc()
		return Interpret(v)
	default:
		cacheLookups.WithLabelValues("miss").Inc()
	}

	ch := c.flight.DoChan(key, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(fctx, c.timeout)
			defer cancel()
		}
		w, err := c.next.NextGuess(fctx, history)
		if value, cacheable := wireValue(w, err); cacheable {
			if perr := c.cache.Put(fctx, key, value); perr != nil {
				c.log.Warn().Err(perr).Msg("solver cache store")
			}
		}
		return w, err
	})

	select {
	case <-ctx.Done():
		return "", &TransportError{Op: "request", Err: ctx.Err()}
	case res := <-ch:
		if res.Shared {
			c.log.Debug().Int("rounds", len(history)).Msg("solver call shared")
		}
		w, _ := res.Val.(game.Word)
		return w, res.Err
	}
}
