package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings of the grid screen.
type KeyMap struct {
	Cycle       key.Binding
	Submit      key.Binding
	Reset       key.Binding
	ChangeGuess key.Binding
	Info        key.Binding
	Close       key.Binding
	Quit        key.Binding
}

// NewKeyMap returns the default bindings.
func NewKeyMap() KeyMap {
	return KeyMap{
		Cycle: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "cycle letter"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		ChangeGuess: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "change guess"),
		),
		Info: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "how to use"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cycle, k.Submit, k.ChangeGuess, k.Reset, k.Info, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Cycle, k.Submit},
		{k.ChangeGuess, k.Reset},
		{k.Info, k.Close, k.Quit},
	}
}
