package session

import (
	"errors"

	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/solver"
)

// Level is the severity of a Notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Code identifies what a Notice is about.
type Code string

const (
	CodeNextGuess      Code = "next_guess"
	CodeSolved         Code = "solved"
	CodeReset          Code = "reset"
	CodeGuessChanged   Code = "guess_changed"
	CodeNoCandidates   Code = "no_candidates"
	CodeInvalidWord    Code = "invalid_word"
	CodeTransport      Code = "transport_error"
	CodeInvalidLength  Code = "invalid_length"
	CodeDuplicateGuess Code = "duplicate_guess"
	CodeInvalidCell    Code = "invalid_cell"
	CodeBusy           Code = "busy"
	CodeSessionSolved  Code = "session_solved"
	CodeOverlayClosed  Code = "overlay_closed"
	CodeStale          Code = "stale_result"
)

// Notice is the user-facing outcome of an intent. Every failure inside the
// controller is converted into one; the zero Notice means nothing to report.
type Notice struct {
	Level   Level  `json:"level"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// IsZero reports whether there is nothing to show.
func (n Notice) IsZero() bool { return n.Code == "" }

// Failed reports whether the intent was refused or did not complete.
func (n Notice) Failed() bool { return n.Level >= LevelWarning }

const (
	msgSolved         = "Thank you for using the bot! Press the reset button to try a different word."
	msgNoCandidates   = "There are no possible words left with this pattern. Try again."
	msgInvalidWord    = "The guess you entered is not a valid 5 letter word."
	msgTransport      = "Could not reach the solver. Submit again to retry."
	msgInvalidLength  = "Please enter a 5-letter word."
	msgDuplicateGuess = "This guess has already been used. Please enter a different guess."
	msgBusy           = "Still waiting for the solver."
	msgSessionSolved  = "This session is solved. Press reset to start again."
	msgOverlayClosed  = "Open the change guess panel first."
	msgStale          = "Ignored a solver reply from before the reset."
	msgReset          = "Started a new session."
)

func validationNotice(err error) Notice {
	if errors.Is(err, game.ErrDuplicateGuess) {
		return Notice{Level: LevelWarning, Code: CodeDuplicateGuess, Message: msgDuplicateGuess, Err: err}
	}
	return Notice{Level: LevelWarning, Code: CodeInvalidLength, Message: msgInvalidLength, Err: err}
}

func solverNotice(err error) Notice {
	switch {
	case errors.Is(err, solver.ErrNoCandidates):
		return Notice{Level: LevelWarning, Code: CodeNoCandidates, Message: msgNoCandidates, Err: err}
	case errors.Is(err, solver.ErrInvalidWord):
		return Notice{Level: LevelWarning, Code: CodeInvalidWord, Message: msgInvalidWord, Err: err}
	default:
		return Notice{Level: LevelError, Code: CodeTransport, Message: msgTransport, Err: err}
	}
}

var (
	noticeBusy          = Notice{Level: LevelWarning, Code: CodeBusy, Message: msgBusy}
	noticeSessionSolved = Notice{Level: LevelWarning, Code: CodeSessionSolved, Message: msgSessionSolved}
	noticeOverlayClosed = Notice{Level: LevelWarning, Code: CodeOverlayClosed, Message: msgOverlayClosed}
)
