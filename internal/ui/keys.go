package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap contains all keyboard shortcuts
type KeyMap struct {
	Map      key.Binding
	Missions key.Binding
	Filter   key.Binding
	Refresh  key.Binding
	Logout   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// NewKeyMap creates the default key bindings
func NewKeyMap() KeyMap {
	return KeyMap{
		Map: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "live map"),
		),
		Missions: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "mission list"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle status filter"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh now"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "logout"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the key bindings shown in the bottom bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Map, k.Missions, k.Filter, k.Refresh, k.Logout, k.Help, k.Quit}
}
