package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the picker key bindings.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Filter  key.Binding
	Delete  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Apply   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the standard picker bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "mark"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete marked"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (keyMap KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keyMap.Toggle, keyMap.Filter, keyMap.Delete, keyMap.Help, keyMap.Quit}
}

// FullHelp implements help.KeyMap.
func (keyMap KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keyMap.Up, keyMap.Down, keyMap.Toggle},
		{keyMap.Filter, keyMap.Apply, keyMap.Cancel},
		{keyMap.Delete, keyMap.Confirm, keyMap.Quit},
	}
}
