// internal/session/state.go
//
// Session data and its small enums.
//
// State is owned by a Controller and only ever mutated through its intents.
// A fresh State is built on session start and again on every reset.

package session

import (
	"fmt"

	"github.com/robalobadob/wordlebot/internal/game"
)

// OverlayMode is the single overlay shown on top of the grid, if any.
type OverlayMode int

const (
	OverlayNone OverlayMode = iota
	OverlayInfo
	OverlayChangeGuess
)

func (m OverlayMode) String() string {
	switch m {
	case OverlayInfo:
		return "info"
	case OverlayChangeGuess:
		return "change_guess"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m OverlayMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *OverlayMode) UnmarshalText(b []byte) error {
	v, err := ParseOverlayMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseOverlayMode parses "none", "info" or "change_guess".
func ParseOverlayMode(s string) (OverlayMode, error) {
	switch s {
	case "", "none":
		return OverlayNone, nil
	case "info":
		return OverlayInfo, nil
	case "change_guess":
		return OverlayChangeGuess, nil
	}
	return OverlayNone, fmt.Errorf("unknown overlay mode %q", s)
}

// State is the session's data.
type State struct {
	CurrentGuess       game.Word
	Cells              game.Cells
	History            []game.Record
	Solved             bool
	Overlay            OverlayMode
	PendingCustomGuess string
}

// NewState returns the defaults of a fresh session.
func NewState(defaultGuess game.Word) State {
	return State{
		CurrentGuess: defaultGuess,
		History:      []game.Record{},
	}
}
