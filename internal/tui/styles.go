package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)

	cellBase = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			MarginRight(1)

	cellStyles = map[game.Outcome]lipgloss.Style{
		game.Incorrect:     cellBase.Background(lipgloss.Color("#787c7e")),
		game.WrongPosition: cellBase.Background(lipgloss.Color("#c9b458")),
		game.Correct:       cellBase.Background(lipgloss.Color("#6aaa64")),
	}

	brokenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f87")).Italic(true)
	indexStyle     = lipgloss.NewStyle().Faint(true)
	historyStyle   = lipgloss.NewStyle().MarginBottom(1)

	noticeStyles = map[session.Level]lipgloss.Style{
		session.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#87afff")),
		session.LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#6aaa64")).Bold(true),
		session.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#c9b458")),
		session.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f87")).Bold(true),
	}

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6aaa64")).
			Padding(1, 2).
			Width(56)
)
