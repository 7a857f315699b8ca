// Package keys contains the keybindings and decodes key presses into
// abstract actions.
package keys

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/thorstenhirsch/ezgit/internal/action"
	"github.com/thorstenhirsch/ezgit/internal/state"
)

// KeyMap defines the command mode keybindings.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Actions
	Select       key.Binding
	SwitchPanel  key.Binding
	Refresh      key.Binding
	CommitWork   key.Binding
	CreateBranch key.Binding
	MergeBranch  key.Binding

	// General
	Help     key.Binding
	Deselect key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "scroll left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "scroll right"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		SwitchPanel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch panel"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		CommitWork: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "commit & push"),
		),
		CreateBranch: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "new branch"),
		),
		MergeBranch: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "merge into main"),
		),
		Help: key.NewBinding(
			key.WithKeys("g", "?"),
			key.WithHelp("g", "key guide"),
		),
		Deselect: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.SwitchPanel, k.CommitWork, k.Help, k.Quit}
}

// FullHelp returns keybindings for the key guide.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown}, // Navigation
		{k.Select, k.SwitchPanel, k.Refresh, k.CommitWork, k.CreateBranch, k.MergeBranch}, // Actions
		{k.Help, k.Deselect, k.Quit}, // General
	}
}

// TextKeyMap defines the keybindings while text is entered.
type TextKeyMap struct {
	Confirm   key.Binding
	Cancel    key.Binding
	Backspace key.Binding
}

// DefaultTextKeyMap returns the keybindings for text entry.
func DefaultTextKeyMap() TextKeyMap {
	return TextKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "delete"),
		),
	}
}

// ShortHelp returns keybindings for the footer.
func (k TextKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns all text entry keybindings.
func (k TextKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel, k.Backspace}}
}

// Decoder turns key presses into actions according to the input mode.
type Decoder struct {
	Command KeyMap
	Text    TextKeyMap
}

// NewDecoder returns a decoder with the default keybindings.
func NewDecoder() *Decoder {
	return &Decoder{Command: DefaultKeyMap(), Text: DefaultTextKeyMap()}
}

// Decode maps msg to zero or more actions. Pasted text yields one TextInput
// per rune.
func (d *Decoder) Decode(msg tea.KeyMsg, mode state.InputMode) []action.Action {
	if mode == state.Text {
		return d.decodeText(msg)
	}
	if a := d.decodeCommand(msg); a.Kind != action.None {
		return []action.Action{a}
	}
	return nil
}

func (d *Decoder) decodeText(msg tea.KeyMsg) []action.Action {
	switch {
	case key.Matches(msg, d.Text.Confirm):
		return []action.Action{action.Of(action.Confirm)}
	case key.Matches(msg, d.Text.Cancel):
		return []action.Action{action.Of(action.Cancel)}
	case key.Matches(msg, d.Text.Backspace):
		return []action.Action{action.Of(action.Backspace)}
	}
	switch msg.Type {
	case tea.KeySpace:
		return []action.Action{action.Text(' ')}
	case tea.KeyRunes:
		if msg.Alt {
			return nil
		}
		actions := make([]action.Action, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			actions = append(actions, action.Text(r))
		}
		return actions
	}
	return nil
}

func (d *Decoder) decodeCommand(msg tea.KeyMsg) action.Action {
	k := d.Command
	switch {
	case key.Matches(msg, k.Quit):
		return action.Of(action.Quit)
	case key.Matches(msg, k.Refresh):
		return action.Of(action.Refresh)
	case key.Matches(msg, k.Up):
		return action.Of(action.NavigateUp)
	case key.Matches(msg, k.Down):
		return action.Of(action.NavigateDown)
	case key.Matches(msg, k.Left):
		return action.Of(action.NavigateLeft)
	case key.Matches(msg, k.Right):
		return action.Of(action.NavigateRight)
	case key.Matches(msg, k.PageUp):
		return action.Of(action.PageUp)
	case key.Matches(msg, k.PageDown):
		return action.Of(action.PageDown)
	case key.Matches(msg, k.Select):
		return action.Of(action.Select)
	case key.Matches(msg, k.SwitchPanel):
		return action.Of(action.SwitchPanel)
	case key.Matches(msg, k.Deselect):
		return action.Of(action.Deselect)
	case key.Matches(msg, k.CommitWork):
		return action.Of(action.CommitWork)
	case key.Matches(msg, k.CreateBranch):
		return action.Of(action.CreateBranch)
	case key.Matches(msg, k.Help):
		return action.Of(action.ShowKeyGuide)
	case key.Matches(msg, k.MergeBranch):
		return action.Of(action.MergeBranch)
	}
	return action.Of(action.None)
}
