// internal/game/validate.go
//
// Validation of user-entered guesses.
//
// Rules (in order):
//   1. Non-alphabetic characters are stripped; the rest must be 5 letters.
//   2. The word must not already appear in history (case-insensitive).
//
// Validate has no side effects; callers decide what to do with the result.

package game

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

var (
	ErrInvalidLength  = errors.New("please enter a 5-letter word")
	ErrDuplicateGuess = errors.New("this guess has already been used, please enter a different guess")
)

// ValidationError carries the rejected candidate alongside the rule it broke.
type ValidationError struct {
	Candidate string
	Err       error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("guess %q: %v", e.Candidate, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Filter keeps only ASCII letters and upper-cases them.
// It is applied on every keystroke of the change-guess input.
func Filter(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// Validate checks candidate against the format and uniqueness rules and
// returns the normalized lower-case word.
func Validate(candidate string, history []Record) (Word, error) {
	letters := Filter(candidate)
	if len(letters) != WordLength {
		return "", &ValidationError{Candidate: candidate, Err: ErrInvalidLength}
	}
	w := Word(strings.ToLower(letters))
	if InHistory(w, history) {
		return "", &ValidationError{Candidate: candidate, Err: ErrDuplicateGuess}
	}
	return w, nil
}

// InHistory reports whether w was already submitted.
func InHistory(w Word, history []Record) bool {
	return lo.ContainsBy(history, func(r Record) bool { return r.Guess.Equal(w) })
}
