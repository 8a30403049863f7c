package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Tab        key.Binding
	PrevField  key.Binding
	NextField  key.Binding
	SwitchAuth key.Binding
	Tasks      key.Binding
	Notes      key.Binding
	Enter      key.Binding
	Add        key.Binding
	Notify     key.Binding
	Read       key.Binding
	Delete     key.Binding
	Yes        key.Binding
	No         key.Binding
	Help       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	Escape     key.Binding
	Logout     key.Binding
	Refresh    key.Binding
}

var keys = keyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch tab")),
	PrevField:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
	NextField:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	SwitchAuth: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "sign in / sign up")),
	Tasks:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "tasks")),
	Notes:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "notifications")),
	Enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/submit")),
	Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Notify:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new notification")),
	Read:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "mark read")),
	Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Yes:        key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	No:         key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Escape:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Logout:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
	Refresh:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),
}
