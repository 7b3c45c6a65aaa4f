package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// BoardKeyMap defines the key bindings for the board screen.
type BoardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Place     key.Binding
	Clear     key.Binding
	NextPiece key.Binding
	PrevPiece key.Binding
	Rotate    key.Binding
	MoveStart key.Binding
	MoveEnd   key.Binding
	Run       key.Binding
	Save      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Place, k.NextPiece, k.Run, k.Save, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k BoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Place, k.Clear, k.NextPiece, k.PrevPiece},
		{k.Rotate, k.MoveStart, k.MoveEnd},
		{k.Run, k.Save, k.Help, k.Quit},
	}
}

// DefaultBoardKeyMap returns default key bindings.
func DefaultBoardKeyMap() BoardKeyMap {
	return BoardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "a"),
			key.WithHelp("left/h", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "d"),
			key.WithHelp("right/l", "move right"),
		),
		Place: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "place piece"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x", "backspace", "delete"),
			key.WithHelp("x", "clear cell"),
		),
		NextPiece: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab/1-6", "next piece"),
		),
		PrevPiece: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev piece"),
		),
		Rotate: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "turn source"),
		),
		MoveStart: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "move source here"),
		),
		MoveEnd: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "move sink here"),
		),
		Run: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "run water"),
		),
		Save: key.NewBinding(
			key.WithKeys("s", "ctrl+s"),
			key.WithHelp("s", "save"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// paletteSlot maps the digit keys 1-9 to a zero-based palette slot.
func paletteSlot(msg tea.KeyMsg) (int, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}
