// internal/tui/model.go
//
// Terminal front end for one assistant session.
//
// Key handling maps one-to-one onto controller intents. Submitting starts a
// Round whose network call runs as a tea.Cmd; the resulting roundDoneMsg is
// folded back with Resolve, which drops it if the session was reset meanwhile.

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/session"
)

const infoText = `Instructions

- The bot suggests a guess. Type it into Wordle.
- Press 1-5 to set the colour of each letter to match
  Wordle: grey, then yellow, then green.
- Press enter to submit the pattern and get the next guess.
- Press c to use your own guess instead.
- Press r to start a new session.`

// roundDoneMsg carries a fetched round back to Update.
type roundDoneMsg struct {
	round *session.Round
}

// Model is the bubbletea model around a session controller.
type Model struct {
	ctrl    *session.Controller
	keys    KeyMap
	help    help.Model
	input   textinput.Model
	spinner spinner.Model

	notice  session.Notice
	timeout time.Duration
	width   int
	height  int
}

// New creates the model. timeout bounds each solver round trip.
func New(ctrl *session.Controller, timeout time.Duration) *Model {
	in := textinput.New()
	in.Placeholder = "CRANE"
	in.CharLimit = game.WordLength
	in.Width = game.WordLength + 1
	in.Prompt = "> "

	s := spinner.New()
	s.Spinner = spinner.Dot

	return &Model{
		ctrl:    ctrl,
		keys:    NewKeyMap(),
		help:    help.New(),
		input:   in,
		spinner: s,
		timeout: timeout,
	}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case roundDoneMsg:
		m.notice = m.ctrl.Resolve(msg.round)
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.View().Pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.ctrl.State().Overlay {
		case session.OverlayChangeGuess:
			return m.updateChangeGuess(msg)
		case session.OverlayInfo:
			return m.updateInfo(msg)
		default:
			return m.updateGrid(msg)
		}
	}

	if m.ctrl.State().Overlay == session.OverlayChangeGuess {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cycle):
		m.notice = m.ctrl.CycleCell(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.Reset):
		m.notice = m.ctrl.Reset()
	case key.Matches(msg, m.keys.ChangeGuess):
		m.notice = m.ctrl.OpenOverlay(session.OverlayChangeGuess)
		if m.notice.IsZero() {
			m.input.Reset()
			return m, m.input.Focus()
		}
	case key.Matches(msg, m.keys.Info):
		m.notice = m.ctrl.OpenOverlay(session.OverlayInfo)
	}
	return m, nil
}

func (m *Model) updateInfo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Info):
		m.notice = m.ctrl.CloseOverlay()
	}
	return m, nil
}

func (m *Model) updateChangeGuess(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.input.Blur()
		m.notice = m.ctrl.CloseOverlay()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		m.notice = m.ctrl.SubmitCustomGuess()
		if !m.notice.Failed() {
			m.input.Blur()
			m.input.Reset()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.notice = m.ctrl.EditCustomGuess(m.input.Value())
	m.input.SetValue(m.ctrl.State().PendingCustomGuess)
	m.input.CursorEnd()
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	round, n := m.ctrl.Submit()
	m.notice = n
	if round == nil {
		return nil
	}
	timeout := m.timeout
	fetch := func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		round.Fetch(ctx)
		return roundDoneMsg{round: round}
	}
	return tea.Batch(fetch, m.spinner.Tick)
}

func (m *Model) View() string {
	v := m.ctrl.View()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Wordle Bot"))
	b.WriteString("\n")

	if len(v.History) > 0 {
		rows := make([]string, 0, len(v.History))
		for _, row := range v.History {
			rows = append(rows, renderHistoryRow(row))
		}
		b.WriteString(historyStyle.Render(strings.Join(rows, "\n")))
		b.WriteString("\n")
	}

	b.WriteString(renderGrid(v))
	b.WriteString("\n")

	switch {
	case v.Pending:
		b.WriteString(m.spinner.View() + " Asking the solver...")
	case !m.notice.IsZero():
		b.WriteString(noticeStyles[m.notice.Level].Render(m.notice.Message))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	screen := b.String()
	switch v.Overlay {
	case session.OverlayInfo:
		return m.place(overlayStyle.Render(infoText + "\n\n" + indexStyle.Render("esc to close")))
	case session.OverlayChangeGuess:
		body := fmt.Sprintf("Change guess\n\n%s\n\n%s", m.input.View(), indexStyle.Render("enter to use this guess, esc to close"))
		if m.notice.Failed() {
			body += "\n" + noticeStyles[m.notice.Level].Render(m.notice.Message)
		}
		return m.place(overlayStyle.Render(body))
	}
	return screen
}

func (m *Model) place(s string) string {
	if m.width == 0 || m.height == 0 {
		return s
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

func renderCells(cells []session.CellView) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = cellStyles[c.Outcome].Render(c.Letter)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderGrid draws the interactive row. A solved session has none.
func renderGrid(v session.View) string {
	if !v.CanEdit() {
		return ""
	}
	return renderCells(v.Cells) + "\n" + indexStyle.Render(" 1   2   3   4   5") + "\n"
}

func renderHistoryRow(row session.RowView) string {
	if row.Error != "" {
		return brokenRowStyle.Render(fmt.Sprintf("%s %s (%s)", row.Guess, row.Feedback, row.Error))
	}
	return renderCells(row.Cells)
}

// Run starts the program on the current terminal and blocks until it exits.
func Run(ctrl *session.Controller, timeout time.Duration) error {
	_, err := tea.NewProgram(New(ctrl, timeout), tea.WithAltScreen()).Run()
	return err
}
