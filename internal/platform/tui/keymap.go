package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/twenty48/internal/game"
)

// KeyMap defines the key bindings of the play screen.
type KeyMap struct {
	Up      key.Binding
	Right   key.Binding
	Down    key.Binding
	Left    key.Binding
	Hint    key.Binding
	Restart key.Binding
	Pause   key.Binding
	Faster  key.Binding
	Slower  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Hint, k.Restart, k.Pause},
		{k.Faster, k.Slower},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns arrow, WASD and vim bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/w/k", "up"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d/l", "right"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/s/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a/h", "left"),
		),
		Hint: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "hint"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new game"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "pause"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "slower"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Direction maps a key to a move. The second result is false for keys
// that are not movement keys.
func (k KeyMap) Direction(msg tea.KeyMsg) (game.Direction, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return game.Up, true
	case key.Matches(msg, k.Right):
		return game.Right, true
	case key.Matches(msg, k.Down):
		return game.Down, true
	case key.Matches(msg, k.Left):
		return game.Left, true
	}
	return game.Up, false
}
