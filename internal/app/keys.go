package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keyboard bindings. Screen-local keys live in
// the view packages.
type KeyMap struct {
	Home      key.Binding
	Jobs      key.Binding
	Schemes   key.Binding
	Users     key.Binding
	Subadmins key.Binding
	AuditLog  key.Binding
	Logout    key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default global bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Home: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "home"),
		),
		Jobs: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "jobs"),
		),
		Schemes: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "schemes"),
		),
		Users: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "users"),
		),
		Subadmins: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "subadmins"),
		),
		AuditLog: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "audit log"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logout"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
