// internal/solver/gateway.go
//
// Contract with the remote solver.
//
// The solver receives the full history of (guess, feedback) rounds and
// answers with a next guess. Its "nextGuess" field is overloaded:
//   - a literal five-letter word,
//   - "NA"   when no word satisfies every constraint,
//   - "NOTW" when a submitted guess is not a dictionary word.
//
// Interpret turns that field into either a game.Word or one of the sentinel
// errors below, so sentinels never reach the session as words.

package solver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/wordlebot/internal/game"
)

// Wire values of the sentinel responses.
const (
	SentinelNoCandidates = "NA"
	SentinelInvalidWord  = "NOTW"
)

var (
	ErrNoCandidates = errors.New("there are no possible words left with this pattern, try again")
	ErrInvalidWord  = errors.New("the guess you entered is not a valid 5 letter word")
)

// Gateway fetches the next candidate word for a history.
// Callers must not start a second call for the same session before the
// previous one has returned.
type Gateway interface {
	NextGuess(ctx context.Context, history []game.Record) (game.Word, error)
}

// GatewayFunc adapts a function to the Gateway interface.
type GatewayFunc func(ctx context.Context, history []game.Record) (game.Word, error)

func (f GatewayFunc) NextGuess(ctx context.Context, history []game.Record) (game.Word, error) {
	return f(ctx, history)
}

// TransportError covers network failures, unexpected statuses and
// responses that cannot be interpreted.
type TransportError struct {
	Op     string // "request", "status" or "decode"
	Status int    // HTTP status when Op == "status"
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("solver %s: http %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("solver %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsSentinel reports whether err is one of the sentinel responses.
func IsSentinel(err error) bool {
	return errors.Is(err, ErrNoCandidates) || errors.Is(err, ErrInvalidWord)
}

// Interpret classifies a raw nextGuess value.
func Interpret(next string) (game.Word, error) {
	switch next {
	case SentinelNoCandidates:
		return "", ErrNoCandidates
	case SentinelInvalidWord:
		return "", ErrInvalidWord
	}
	if len(next) != game.WordLength || len(game.Filter(next)) != game.WordLength {
		return "", &TransportError{Op: "decode", Err: fmt.Errorf("malformed next guess %q", next)}
	}
	return game.Word(strings.ToLower(next)), nil
}

// wireValue is the inverse of Interpret for cacheable outcomes.
func wireValue(w game.Word, err error) (string, bool) {
	switch {
	case err == nil:
		return string(w), true
	case errors.Is(err, ErrNoCandidates):
		return SentinelNoCandidates, true
	case errors.Is(err, ErrInvalidWord):
		return SentinelInvalidWord, true
	default:
		return "", false
	}
}

// HistoryKey is a canonical string form of a history, used for caching and
// request coalescing.
func HistoryKey(history []game.Record) string {
	parts := make([]string, len(history))
	for i, r := range history {
		parts[i] = strings.ToLower(string(r.Guess)) + ":" + string(r.Feedback)
	}
	return strings.Join(parts, ",")
}
