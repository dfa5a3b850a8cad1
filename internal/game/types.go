// internal/game/types.go
//
// Core type definitions shared by the assistant.
// Defines:
//   - Outcome: judged result of a single letter (incorrect/wrong position/correct).
//   - Cells: the five outcomes of the interactive row.
//   - Word: a normalized five-letter guess.
//   - Feedback: the five-character wire encoding of a row of outcomes.
//   - Record: one submitted (guess, feedback) round of history.

package game

import (
	"fmt"
	"strings"
)

// WordLength is the number of letters in every guess.
const WordLength = 5

// DefaultGuess is the opening word offered at the start of every session.
const DefaultGuess Word = "raise"

// Outcome represents the evaluation result for a single letter in a guess.
// Ordinal order is the order in which a cell cycles when clicked.
type Outcome int

const (
	Incorrect     Outcome = iota // letter not in the answer
	WrongPosition                // letter in the answer, elsewhere
	Correct                      // letter in the right position
)

// numOutcomes is the cardinality used for cycling.
const numOutcomes = 3

// String returns a human readable label.
func (o Outcome) String() string {
	switch o {
	case Incorrect:
		return "incorrect"
	case WrongPosition:
		return "wrong_position"
	case Correct:
		return "correct"
	default:
		return "unknown"
	}
}

// MarshalText renders the label in JSON views.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText parses a label written by MarshalText.
func (o *Outcome) UnmarshalText(b []byte) error {
	for _, v := range []Outcome{Incorrect, WrongPosition, Correct} {
		if v.String() == string(b) {
			*o = v
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// Cells holds the outcome of each letter position of the current guess.
type Cells [WordLength]Outcome

// Word is a five-letter guess stored lower-case for transmission.
type Word string

// Display returns the upper-case form shown in the grid.
func (w Word) Display() string { return strings.ToUpper(string(w)) }

// Letters splits the display form into one string per cell.
func (w Word) Letters() []string {
	return strings.Split(w.Display(), "")
}

// Equal compares two words case-insensitively.
func (w Word) Equal(other Word) bool {
	return strings.EqualFold(string(w), string(other))
}

// Feedback is the wire encoding of a row of outcomes, e.g. "YBGBY".
type Feedback string

// Record is an immutable round of history.
type Record struct {
	Guess    Word     `json:"guess"`
	Feedback Feedback `json:"feedback"`
}
