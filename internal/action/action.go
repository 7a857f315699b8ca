// Package action defines the input-device independent user intents consumed
// by the dispatcher.
package action

import "fmt"

// Kind identifies an abstract action.
type Kind uint8

const (
	None Kind = iota
	Quit
	Refresh
	NavigateUp
	NavigateDown
	NavigateLeft
	NavigateRight
	PageUp
	PageDown
	Select
	SwitchPanel
	Deselect
	CommitWork
	CreateBranch
	ShowKeyGuide
	MergeBranch

	// text mode actions
	TextInput
	Backspace
	Confirm
	Cancel
)

var kindNames = map[Kind]string{
	None:          "none",
	Quit:          "quit",
	Refresh:       "refresh",
	NavigateUp:    "navigate-up",
	NavigateDown:  "navigate-down",
	NavigateLeft:  "navigate-left",
	NavigateRight: "navigate-right",
	PageUp:        "page-up",
	PageDown:      "page-down",
	Select:        "select",
	SwitchPanel:   "switch-panel",
	Deselect:      "deselect",
	CommitWork:    "commit-work",
	CreateBranch:  "create-branch",
	ShowKeyGuide:  "show-key-guide",
	MergeBranch:   "merge-branch",
	TextInput:     "text-input",
	Backspace:     "backspace",
	Confirm:       "confirm",
	Cancel:        "cancel",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// TextOnly reports whether the kind is one of the actions that are meaningful
// while text is being entered.
func (k Kind) TextOnly() bool {
	switch k {
	case TextInput, Backspace, Confirm, Cancel:
		return true
	}
	return false
}

// Action is a decoded user intent. Char is only set for TextInput.
type Action struct {
	Kind Kind
	Char rune
}

// Of returns the action of the given kind without payload.
func Of(k Kind) Action {
	return Action{Kind: k}
}

// Text returns a TextInput action carrying c.
func Text(c rune) Action {
	return Action{Kind: TextInput, Char: c}
}

func (a Action) String() string {
	if a.Kind == TextInput {
		return fmt.Sprintf("%s(%q)", a.Kind, a.Char)
	}
	return a.Kind.String()
}
