package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/thorstenhirsch/ezgit/internal/dispatch"
	"github.com/thorstenhirsch/ezgit/internal/keys"
	"github.com/thorstenhirsch/ezgit/internal/load"
	"github.com/thorstenhirsch/ezgit/internal/state"
)

// Model is the bubbletea model. It owns nothing but the terminal size and
// the render styles; everything else lives in the application state.
type Model struct {
	ctx        context.Context
	state      *state.State
	dispatcher *dispatch.Dispatcher
	decoder    *keys.Decoder
	help       help.Model

	width  int
	height int
	ready  bool

	styles *Styles
}

// Styles holds all lipgloss styles for the UI
type Styles struct {
	Title        lipgloss.Style
	StatusBar    lipgloss.Style
	Prompt       lipgloss.Style
	Help         lipgloss.Style
	ListItem     lipgloss.Style
	SelectedItem lipgloss.Style
	CurrentItem  lipgloss.Style
	Panel        lipgloss.Style
	FocusedPanel lipgloss.Style
	PanelTitle   lipgloss.Style
	Dialog       lipgloss.Style
	Error        lipgloss.Style
}

var (
	panelBorderColor   = lipgloss.Color("#874BFD")
	focusedBorderColor = lipgloss.AdaptiveColor{Light: "#FB8C00", Dark: "#FFB74D"}
)

// DefaultStyles returns the default style set
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FFFFFF")),
		Prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		ListItem: lipgloss.NewStyle(),
		SelectedItem: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true),
		CurrentItem: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF")),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(panelBorderColor).
			Padding(0, 1),
		FocusedPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(focusedBorderColor).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFDF5")),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(focusedBorderColor).
			Padding(1, 2),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#C62828")).
			Bold(true),
	}
}

// New creates a new Model from the initial snapshot.
func New(ctx context.Context, snap *load.Snapshot, d *dispatch.Dispatcher) *Model {
	return &Model{
		ctx:        ctx,
		state:      snap.State(),
		dispatcher: d,
		decoder:    keys.NewDecoder(),
		help:       help.New(),
		styles:     DefaultStyles(),
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// State exposes the application state, mostly for tests.
func (m *Model) State() *state.State {
	return m.state
}
