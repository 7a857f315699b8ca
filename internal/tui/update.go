package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/thorstenhirsch/ezgit/internal/dispatch"
)

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.resize()
		return m, nil
	}

	return m, nil
}

// handleKeyPress decodes msg in the current input mode and dispatches every
// resulting action in order. Actions after a termination are dropped.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	for _, a := range m.decoder.Decode(msg, m.state.InputMode()) {
		if m.dispatcher.Dispatch(m.ctx, m.state, a) == dispatch.Terminate {
			return m, tea.Quit
		}
	}
	return m, nil
}
