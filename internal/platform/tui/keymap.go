package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// PlayKeyMap defines key bindings for the board screen.
type PlayKeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Select  key.Binding
	Cancel  key.Binding
	Undo    key.Binding
	Restart key.Binding
	Hint    key.Binding
	Next    key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns bindings for the short help view.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Select, k.Undo, k.Hint, k.Back}
}

// FullHelp returns bindings for the full help view.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Select, k.Cancel},
		{k.Undo, k.Restart, k.Hint, k.Next},
		{k.Back, k.Quit},
	}
}

// DefaultPlayKeyMap returns the default board bindings.
// Digits 1-9 jump straight to a bottle and are handled separately.
func DefaultPlayKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h", "a"),
			key.WithHelp("left/h", "prev bottle"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "d"),
			key.WithHelp("right/l", "next bottle"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("space", "pick/pour"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "drop selection"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "z"),
			key.WithHelp("u", "undo"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Hint: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "hint"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next level"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// PickerKeyMap defines key bindings for the level picker.
type PickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Resume key.Binding
	Online key.Binding
	Quit   key.Binding
}

// ShortHelp returns bindings for the short help view.
func (k PickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Resume, k.Online, k.Quit}
}

// FullHelp returns bindings for the full help view.
func (k PickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Resume, k.Online, k.Quit},
	}
}

// DefaultPickerKeyMap returns the default picker bindings.
func DefaultPickerKeyMap() PickerKeyMap {
	return PickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		Resume: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "continue"),
		),
		Online: key.NewBinding(
			key.WithKeys("o", "tab"),
			key.WithHelp("o", "online race"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// LobbyKeyMap defines key bindings for the online lobby.
type LobbyKeyMap struct {
	Quick  key.Binding
	Host   key.Binding
	Join   key.Binding
	Submit key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns bindings for the short help view.
func (k LobbyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quick, k.Host, k.Join, k.Back}
}

// FullHelp returns bindings for the full help view.
func (k LobbyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quick, k.Host, k.Join}, {k.Submit, k.Back, k.Quit}}
}

// DefaultLobbyKeyMap returns the default lobby bindings.
func DefaultLobbyKeyMap() LobbyKeyMap {
	return LobbyKeyMap{
		Quick: key.NewBinding(
			key.WithKeys("m", "1"),
			key.WithHelp("m", "quick match"),
		),
		Host: key.NewBinding(
			key.WithKeys("h", "2"),
			key.WithHelp("h", "host room"),
		),
		Join: key.NewBinding(
			key.WithKeys("j", "3"),
			key.WithHelp("j", "join by code"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "join"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
