package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up         key.Binding
	Down       key.Binding
	Home       key.Binding
	End        key.Binding
	Enter      key.Binding
	SwitchPane key.Binding

	// Actions
	Quit          key.Binding
	Escape        key.Binding
	Search        key.Binding
	RateUp        key.Binding
	RateDown      key.Binding
	Rate          key.Binding
	Add           key.Binding
	Delete        key.Binding
	Filter        key.Binding
	ToggleResults key.Binding
	ToggleDetail  key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open/close"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch pane"),
		),

		// Actions
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		RateUp: key.NewBinding(
			key.WithKeys("right", "l", "+"),
			key.WithHelp("→", "more stars"),
		),
		RateDown: key.NewBinding(
			key.WithKeys("left", "h", "-"),
			key.WithHelp("←", "fewer stars"),
		),
		Rate: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0"),
			key.WithHelp("1-0", "rate"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add to watched"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter watched"),
		),
		ToggleResults: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "collapse results"),
		),
		ToggleDetail: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "collapse details"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
