package session

import (
	"github.com/samber/lo"

	"github.com/robalobadob/wordlebot/internal/game"
)

// View is the immutable snapshot handed to a presentation layer.
type View struct {
	ID                 string      `json:"id,omitempty"`
	Generation         uint64      `json:"generation"`
	CurrentGuess       string      `json:"currentGuess"`
	Cells              []CellView  `json:"cells"`
	History            []RowView   `json:"history"`
	Solved             bool        `json:"solved"`
	Pending            bool        `json:"pending"`
	Overlay            OverlayMode `json:"overlay"`
	PendingCustomGuess string      `json:"pendingCustomGuess"`
}

// CellView is one letter box of a grid row.
type CellView struct {
	Letter  string       `json:"letter"`
	Outcome game.Outcome `json:"outcome"`
	Code    string       `json:"code"`
}

// RowView is a read-only history row. If its feedback cannot be decoded,
// Cells is empty and Error explains why; other rows are unaffected.
type RowView struct {
	Guess    string     `json:"guess"`
	Feedback string     `json:"feedback"`
	Cells    []CellView `json:"cells,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// CanEdit reports whether the interactive row and its controls are live.
func (v View) CanEdit() bool { return !v.Solved }

// View renders the current session.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return View{
		ID:                 c.id,
		Generation:         c.generation,
		CurrentGuess:       c.state.CurrentGuess.Display(),
		Cells:              cellViews(c.state.CurrentGuess, c.state.Cells),
		History:            lo.Map(c.state.History, func(r game.Record, _ int) RowView { return rowView(r) }),
		Solved:             c.state.Solved,
		Pending:            c.pending,
		Overlay:            c.state.Overlay,
		PendingCustomGuess: c.state.PendingCustomGuess,
	}
}

func cellViews(w game.Word, cells game.Cells) []CellView {
	letters := w.Letters()
	out := make([]CellView, game.WordLength)
	for i, o := range cells {
		var letter string
		if i < len(letters) {
			letter = letters[i]
		}
		out[i] = CellView{Letter: letter, Outcome: o, Code: string(game.Encode(o))}
	}
	return out
}

func rowView(r game.Record) RowView {
	row := RowView{Guess: r.Guess.Display(), Feedback: string(r.Feedback)}
	cells, err := game.ParseFeedback(r.Feedback)
	if err != nil {
		row.Error = err.Error()
		return row
	}
	row.Cells = cellViews(r.Guess, cells)
	return row
}
