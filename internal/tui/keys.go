package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the dashboard.
type KeyMap struct {
	CodeMode key.Binding
	Hours    key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		CodeMode: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "codes"),
		),
		Hours: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "hours"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.CodeMode, k.Hours, k.Refresh, k.Quit}
}
