package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard surface of the UI.
type keyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Search   key.Binding
	Controls key.Binding
	Escape   key.Binding
	NextPane key.Binding
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Enqueue  key.Binding
	Refresh  key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Search: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "search"),
	),
	Controls: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "controls"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "dismiss"),
	),
	NextPane: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch pane"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Enqueue: key.NewBinding(
		key.WithKeys("+"),
		key.WithHelp("+", "enqueue"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
}
