// internal/game/codec.go
//
// Mapping between outcomes and their single-character wire codes.
//
// Codes:
//   - 'B' Incorrect
//   - 'Y' WrongPosition
//   - 'G' Correct
//
// The remote solver speaks this alphabet, so it is the only one accepted.

package game

import (
	"fmt"
	"strings"
)

var codes = [numOutcomes]byte{
	Incorrect:     'B',
	WrongPosition: 'Y',
	Correct:       'G',
}

// SolvedFeedback is the feedback of a row where every letter is correct.
var SolvedFeedback = Feedback(strings.Repeat(string(codes[Correct]), WordLength))

// UnknownCodeError is returned by Decode for a character that is not a wire code.
type UnknownCodeError struct {
	Code byte
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("unknown outcome code %q", e.Code)
}

// Encode returns the wire code for o.
func Encode(o Outcome) byte {
	if o < 0 || int(o) >= numOutcomes {
		o = Incorrect
	}
	return codes[o]
}

// Decode maps a wire code back to its outcome.
func Decode(c byte) (Outcome, error) {
	for o, code := range codes {
		if code == c {
			return Outcome(o), nil
		}
	}
	return Incorrect, &UnknownCodeError{Code: c}
}

// Cycle returns the next outcome in ordinal order, wrapping after the last.
func Cycle(o Outcome) Outcome {
	return Outcome((int(o) + 1) % numOutcomes)
}

// EncodeCells encodes every position, in order.
func EncodeCells(cells Cells) Feedback {
	var b [WordLength]byte
	for i, o := range cells {
		b[i] = Encode(o)
	}
	return Feedback(b[:])
}

// ParseFeedback decodes a feedback string into cells.
// The first unknown character aborts decoding.
func ParseFeedback(f Feedback) (Cells, error) {
	var cells Cells
	if len(f) != WordLength {
		return cells, fmt.Errorf("feedback %q: want %d codes, got %d", f, WordLength, len(f))
	}
	for i := 0; i < WordLength; i++ {
		o, err := Decode(f[i])
		if err != nil {
			return cells, fmt.Errorf("feedback %q position %d: %w", f, i, err)
		}
		cells[i] = o
	}
	return cells, nil
}

// Solved reports whether every position is correct.
func (f Feedback) Solved() bool { return f == SolvedFeedback }
