package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/session"
	"github.com/robalobadob/wordlebot/internal/solver"
	"github.com/robalobadob/wordlebot/internal/solver/solvertest"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m *Model, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

// roundDone runs cmd and returns the roundDoneMsg it produces.
func roundDone(t *testing.T, cmd tea.Cmd) roundDoneMsg {
	t.Helper()
	require.NotNil(t, cmd)
	switch msg := cmd().(type) {
	case roundDoneMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if done, ok := c().(roundDoneMsg); ok {
				return done
			}
		}
	}
	t.Fatal("no roundDoneMsg produced")
	return roundDoneMsg{}
}

func TestDigitsCycleCells(t *testing.T) {
	ctrl := session.New(solvertest.NewGateway())
	m := New(ctrl, time.Second)

	press(t, m, runes("1"), runes("3"), runes("3"))
	assert.Equal(t, game.Cells{game.WrongPosition, 0, game.Correct, 0, 0}, ctrl.State().Cells)
}

func TestEnterFetchesAndResolves(t *testing.T) {
	gw := solvertest.NewGateway(solvertest.Step{Word: "cloth"})
	ctrl := session.New(gw)
	m := New(ctrl, time.Second)

	cmd := press(t, m, runes("5"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, ctrl.View().Pending)
	assert.Contains(t, m.View(), "Asking the solver")

	press(t, m, roundDone(t, cmd))
	assert.Equal(t, game.Word("cloth"), ctrl.State().CurrentGuess)
	assert.Contains(t, m.View(), "Next guess: CLOTH")
	assert.Equal(t, []game.Record{{Guess: "raise", Feedback: "BBBBY"}}, gw.Calls()[0])
}

func TestSentinelNoticeShown(t *testing.T) {
	ctrl := session.New(solvertest.NewGateway(solvertest.Step{Err: solver.ErrNoCandidates}))
	m := New(ctrl, time.Second)

	cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	press(t, m, roundDone(t, cmd))
	assert.Contains(t, m.View(), "no possible words left")
	assert.Equal(t, game.Word("raise"), ctrl.State().CurrentGuess)
}

func TestResetWhilePendingDropsReply(t *testing.T) {
	ctrl := session.New(solvertest.NewGateway(solvertest.Step{Word: "cloth"}))
	m := New(ctrl, time.Second)

	cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	press(t, m, runes("r"))
	press(t, m, roundDone(t, cmd))

	assert.Equal(t, game.Word("raise"), ctrl.State().CurrentGuess)
	assert.Empty(t, ctrl.State().History)
}

func TestChangeGuessOverlay(t *testing.T) {
	ctrl := session.New(solvertest.NewGateway())
	m := New(ctrl, time.Second)

	press(t, m, runes("c"))
	require.Equal(t, session.OverlayChangeGuess, ctrl.State().Overlay)

	// keys that are bindings on the grid are plain text here
	press(t, m, runes("c"), runes("r"), runes("4"), runes("a"), runes("n"), runes("e"))
	assert.Equal(t, "CRANE", ctrl.State().PendingCustomGuess)
	assert.Equal(t, "CRANE", m.input.Value())

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, game.Word("crane"), ctrl.State().CurrentGuess)
	assert.Equal(t, session.OverlayNone, ctrl.State().Overlay)
}

func TestChangeGuessRejectionKeepsOverlay(t *testing.T) {
	ctrl := session.New(solvertest.NewGateway())
	m := New(ctrl, time.Second)

	press(t, m, runes("c"), runes("a"), runes("b"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, session.OverlayChangeGuess, ctrl.State().Overlay)
	assert.Contains(t, m.View(), "Please enter a 5-letter word.")

	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, session.OverlayNone, ctrl.State().Overlay)
	assert.Equal(t, game.Word("raise"), ctrl.State().CurrentGuess)
}

func TestInfoOverlayToggles(t *testing.T) {
	ctrl := session.New(solvertest.NewGateway())
	m := New(ctrl, time.Second)

	press(t, m, runes("?"))
	assert.Equal(t, session.OverlayInfo, ctrl.State().Overlay)
	assert.Contains(t, m.View(), "Instructions")

	press(t, m, runes("1"))
	assert.Equal(t, game.Cells{}, ctrl.State().Cells)

	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, session.OverlayNone, ctrl.State().Overlay)
}

func TestQuit(t *testing.T) {
	m := New(session.New(solvertest.NewGateway()), time.Second)
	cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestSolvedHidesInteractiveRow(t *testing.T) {
	ctrl := session.New(solvertest.NewGateway())
	m := New(ctrl, time.Second)
	assert.NotEmpty(t, renderGrid(ctrl.View()))

	for _, d := range []string{"1", "2", "3", "4", "5"} {
		press(t, m, runes(d), runes(d))
	}
	cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	require.True(t, ctrl.State().Solved)

	assert.Empty(t, renderGrid(ctrl.View()))
	assert.NotContains(t, m.View(), "1   2   3   4   5")
}

func TestBrokenHistoryRowShowsError(t *testing.T) {
	row := session.RowView{Guess: "RAISE", Feedback: "YBOBY", Error: "unknown outcome code"}
	out := renderHistoryRow(row)
	assert.Contains(t, out, "RAISE")
	assert.Contains(t, out, "YBOBY")
	assert.Contains(t, out, "unknown outcome code")
}
