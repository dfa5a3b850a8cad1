// internal/session/controller.go
//
// The session state machine.
//
// States:
//   - active: cells can be cycled, feedback submitted, the guess changed.
//   - solved: terminal until Reset; history stays visible.
//
// Every intent runs to completion under the controller's mutex. Submit is
// the only operation that waits on the network: it hands back a Round that
// the caller fetches outside the lock and folds back in with Resolve.
// Reset bumps the generation, so a Round started before it is discarded.

package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/solver"
)

var errRoundNotFetched = errors.New("round resolved before it was fetched")

// Controller orchestrates user intents against a session.
type Controller struct {
	mu sync.Mutex

	id           string
	defaultGuess game.Word
	policy       SentinelPolicy
	gateway      solver.Gateway
	log          zerolog.Logger
	now          func() time.Time

	state      State
	generation uint64
	pending    bool
	openRound  bool // last record has no next guess yet; re-sending it is a retry
	lastActive time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithID tags the controller (and its logs) with a session id.
func WithID(id string) Option {
	return func(c *Controller) { c.id = id }
}

// WithDefaultGuess overrides the opening word.
func WithDefaultGuess(w game.Word) Option {
	return func(c *Controller) {
		if w != "" {
			c.defaultGuess = w
		}
	}
}

// WithSentinelPolicy selects how sentinel replies treat history.
func WithSentinelPolicy(p SentinelPolicy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithLogger sets the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New starts a session in its default state.
func New(gw solver.Gateway, opts ...Option) *Controller {
	c := &Controller{
		defaultGuess: game.DefaultGuess,
		gateway:      gw,
		log:          zerolog.Nop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.id != "" {
		c.log = c.log.With().Str("session", c.id).Logger()
	}
	c.state = NewState(c.defaultGuess)
	c.lastActive = c.now()
	return c
}

// ID returns the session id.
func (c *Controller) ID() string { return c.id }

// LastActive returns the time of the most recent intent.
func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// State returns a copy of the session data.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.History = slices.Clone(c.state.History)
	return s
}

func (c *Controller) touch() { c.lastActive = c.now() }

// CycleCell advances the outcome of one cell. It is a no-op once solved.
func (c *Controller) CycleCell(index int) Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	switch {
	case c.state.Solved:
		return noticeSessionSolved
	case c.pending:
		return noticeBusy
	case index < 0 || index >= game.WordLength:
		return Notice{
			Level:   LevelWarning,
			Code:    CodeInvalidCell,
			Message: fmt.Sprintf("Cell %d does not exist.", index+1),
		}
	}
	c.state.Cells[index] = game.Cycle(c.state.Cells[index])
	return Notice{}
}

// Round is an outstanding solver request created by Submit.
type Round struct {
	generation uint64
	record     game.Record
	history    []game.Record
	gateway    solver.Gateway

	fetched  bool
	resolved bool
	word     game.Word
	err      error
}

// Record is the round being resolved.
func (r *Round) Record() game.Record { return r.record }

// History is the full history sent to the solver.
func (r *Round) History() []game.Record { return slices.Clone(r.history) }

// Fetch performs the solver call. It must not hold any controller lock.
func (r *Round) Fetch(ctx context.Context) {
	r.word, r.err = r.gateway.NextGuess(ctx, slices.Clone(r.history))
	r.fetched = true
}

// Submit records the feedback of the current row.
//
// When the feedback is all-correct the session becomes solved and no Round
// is returned. Otherwise the returned Round must be fetched and then passed
// to Resolve. Re-submitting the unchanged last round after a failed reply
// re-sends history without appending to it.
func (c *Controller) Submit() (*Round, Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.state.Solved {
		return nil, noticeSessionSolved
	}
	if c.pending {
		return nil, noticeBusy
	}

	rec := game.Record{Guess: c.state.CurrentGuess, Feedback: game.EncodeCells(c.state.Cells)}
	if game.InHistory(rec.Guess, c.state.History) {
		last := c.state.History[len(c.state.History)-1]
		if !c.openRound || last != rec {
			err := &game.ValidationError{Candidate: string(rec.Guess), Err: game.ErrDuplicateGuess}
			return nil, validationNotice(err)
		}
		c.log.Debug().Str("guess", string(rec.Guess)).Msg("re-sending open round")
	} else {
		c.state.History = append(c.state.History, rec)
	}

	if rec.Feedback.Solved() {
		c.state.Solved = true
		c.openRound = false
		if c.state.Overlay == OverlayChangeGuess {
			c.state.Overlay = OverlayNone
		}
		c.log.Info().Str("guess", string(rec.Guess)).Int("rounds", len(c.state.History)).Msg("session solved")
		return nil, Notice{Level: LevelSuccess, Code: CodeSolved, Message: msgSolved}
	}

	c.pending = true
	return &Round{
		generation: c.generation,
		record:     rec,
		history:    slices.Clone(c.state.History),
		gateway:    c.gateway,
	}, Notice{}
}

// Resolve folds a fetched Round back into the session.
func (c *Controller) Resolve(r *Round) Notice {
	if r == nil {
		return Notice{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.generation != c.generation || r.resolved {
		c.log.Debug().Uint64("round", r.generation).Uint64("current", c.generation).Msg("discarding stale solver reply")
		return Notice{Level: LevelInfo, Code: CodeStale, Message: msgStale}
	}
	c.pending = false
	r.resolved = true

	word, err := r.word, r.err
	if !r.fetched {
		err = &solver.TransportError{Op: "request", Err: errRoundNotFetched}
	} else if err == nil {
		word, err = solver.Interpret(string(word))
	}

	if err == nil {
		c.state.CurrentGuess = word
		c.state.Cells = game.Cells{}
		c.openRound = false
		c.log.Info().Str("guess", string(r.record.Guess)).Str("feedback", string(r.record.Feedback)).
			Str("next", string(word)).Msg("next guess")
		return Notice{Level: LevelInfo, Code: CodeNextGuess, Message: "Next guess: " + word.Display()}
	}

	n := solverNotice(err)
	if solver.IsSentinel(err) && c.policy == SentinelDiscard {
		c.discardLast(r.record)
	} else {
		c.openRound = true
	}
	lvl := zerolog.InfoLevel
	if n.Level == LevelError {
		lvl = zerolog.WarnLevel
	}
	c.log.WithLevel(lvl).Err(err).Str("guess", string(r.record.Guess)).Str("policy", c.policy.String()).Msg("round unresolved")
	return n
}

// discardLast drops rec if it is the last history record.
func (c *Controller) discardLast(rec game.Record) {
	n := len(c.state.History)
	if n > 0 && c.state.History[n-1] == rec {
		c.state.History = c.state.History[: n-1 : n-1]
	}
	c.openRound = false
}

// SubmitAndWait runs Submit, fetches the round and resolves it.
func (c *Controller) SubmitAndWait(ctx context.Context) Notice {
	r, n := c.Submit()
	if r == nil {
		return n
	}
	r.Fetch(ctx)
	return c.Resolve(r)
}

// Reset replaces the whole session with its defaults. Any outstanding
// Round becomes stale.
func (c *Controller) Reset() Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	c.generation++
	c.pending = false
	c.openRound = false
	c.state = NewState(c.defaultGuess)
	c.log.Debug().Uint64("generation", c.generation).Msg("session reset")
	return Notice{Level: LevelInfo, Code: CodeReset, Message: msgReset}
}

// OpenOverlay shows an overlay, replacing any other. Opening the change
// guess panel clears its input.
func (c *Controller) OpenOverlay(m OverlayMode) Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if m == OverlayChangeGuess {
		if c.state.Solved {
			return noticeSessionSolved
		}
		c.state.PendingCustomGuess = ""
	}
	c.state.Overlay = m
	return Notice{}
}

// CloseOverlay hides the current overlay.
func (c *Controller) CloseOverlay() Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	c.state.Overlay = OverlayNone
	return Notice{}
}

// EditCustomGuess stores the alphabetic, upper-cased projection of text,
// capped at five letters.
func (c *Controller) EditCustomGuess(text string) Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.state.Overlay != OverlayChangeGuess {
		return noticeOverlayClosed
	}
	letters := game.Filter(text)
	if len(letters) > game.WordLength {
		letters = letters[:game.WordLength]
	}
	c.state.PendingCustomGuess = letters
	return Notice{}
}

// SubmitCustomGuess replaces the current guess with the typed word.
// History and the solver are never touched.
func (c *Controller) SubmitCustomGuess() Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if c.state.Overlay != OverlayChangeGuess {
		return noticeOverlayClosed
	}
	if c.pending {
		return noticeBusy
	}
	w, err := game.Validate(c.state.PendingCustomGuess, c.state.History)
	if err != nil {
		return validationNotice(err)
	}

	c.state.CurrentGuess = w
	c.state.Cells = game.Cells{}
	c.state.Overlay = OverlayNone
	c.state.PendingCustomGuess = ""
	c.openRound = false
	c.log.Debug().Str("guess", string(w)).Msg("guess changed")
	return Notice{Level: LevelInfo, Code: CodeGuessChanged, Message: "Guess changed to " + w.Display() + "."}
}
