package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/thorstenhirsch/ezgit/internal/state"
)

const (
	minTerminalWidth  = 40
	minTerminalHeight = 10

	footerHeight         = 2
	panelBorderSize      = 2 // one cell of border on either side
	panelHorizontalFrame = 4 // borders and padding
	panelTitleHeight     = 1

	// share of the body height given to the commit log, in percent
	commitLogShare = 70

	cursorSymbol  = ">"
	currentSymbol = "*"
	ellipsis      = "…"
)

func (m *Model) terminalTooSmall() bool {
	return m.width < minTerminalWidth || m.height < minTerminalHeight
}

func (m *Model) bodyHeight() int {
	return max(0, m.height-footerHeight)
}

// panelHeights splits the body between the commit log and the branch list.
func (m *Model) panelHeights() (commits, branches int) {
	body := m.bodyHeight()
	commits = body * commitLogShare / 100
	return commits, body - commits
}

// panelCapacity is the number of list rows that fit a panel of the given
// outer height.
func panelCapacity(height int) int {
	return max(0, height-panelBorderSize-panelTitleHeight)
}

func (m *Model) innerWidth() int {
	return max(0, m.width-panelHorizontalFrame)
}

// resize hands the current panel capacities to the viewports.
func (m *Model) resize() {
	if !m.ready {
		return
	}
	commits, branches := m.panelHeights()
	m.state.Resize(panelCapacity(commits), panelCapacity(branches), panelCapacity(m.bodyHeight()))
}

// View renders the UI
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.terminalTooSmall() {
		msg := fmt.Sprintf(
			"terminal is too small\nminimum size: width %d, height %d",
			minTerminalWidth,
			minTerminalHeight,
		)
		styled := m.styles.Error.Padding(1, 2).Render(msg)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, styled)
	}

	m.resize()

	var body string
	switch m.state.UIState() {
	case state.CommitDetails:
		body = m.renderDetails()
	case state.KeyGuide:
		body = m.renderDialog("Key guide", m.help.FullHelpView(m.decoder.Command.FullHelp()), m.styles.Dialog)
	case state.Error:
		msg, _ := m.state.LastError()
		body = m.renderDialog("Error", msg+"\n\nesc: back", m.styles.Dialog.BorderForeground(lipgloss.Color("#C62828")))
	default:
		body = m.renderPanels()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar(), m.renderHelp())
}

func (m *Model) renderPanels() string {
	commitHeight, branchHeight := m.panelHeights()
	focused := m.state.FocusedPanel()
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderPanel(m.commitTitle(), m.commitLines(), commitHeight, focused == state.CommitLog),
		m.renderPanel(fmt.Sprintf("Branches (%d)", len(m.state.Branches())), m.branchLines(), branchHeight, focused == state.Branches),
	)
}

func (m *Model) commitTitle() string {
	title := fmt.Sprintf("Commits (%d)", len(m.state.Commits()))
	if off := m.state.HorizontalOffset(); off > 0 {
		title += fmt.Sprintf(" +%d", off)
	}
	return title
}

func (m *Model) renderPanel(title string, lines []string, height int, focused bool) string {
	style := m.styles.Panel
	if focused {
		style = m.styles.FocusedPanel
	}
	width := m.innerWidth()
	content := make([]string, 0, len(lines)+1)
	content = append(content, m.styles.PanelTitle.Render(fitToWidth(title, width)))
	content = append(content, lines...)
	return style.
		Width(m.width - panelBorderSize).
		Height(max(0, height-panelBorderSize)).
		MaxHeight(height).
		Render(strings.Join(content, "\n"))
}

// commitLines renders the visible part of the commit log, shifted by the
// horizontal offset.
func (m *Model) commitLines() []string {
	commits := m.state.Commits()
	if len(commits) == 0 {
		return []string{m.styles.Help.Render("no commits")}
	}
	win := m.state.CommitWindow()
	cursor := m.state.SelectedCommitIndex()
	width := max(0, m.innerWidth()-2)
	off := m.state.HorizontalOffset()

	lines := make([]string, 0, win.End-win.Start)
	for i := win.Start; i < win.End; i++ {
		text := ansi.Cut(commits[i].Display, off, off+width)
		lines = append(lines, m.listItem(text, i == cursor))
	}
	return lines
}

func (m *Model) branchLines() []string {
	branches := m.state.Branches()
	if len(branches) == 0 {
		return []string{m.styles.Help.Render("no branches")}
	}
	win := m.state.BranchWindow()
	cursor := m.state.SelectedBranchIndex()
	width := max(0, m.innerWidth()-2)
	current := m.state.CurrentBranch()

	lines := make([]string, 0, win.End-win.Start)
	for i := win.Start; i < win.End; i++ {
		name := branches[i]
		marker := "  "
		if name == current {
			marker = currentSymbol + " "
		}
		text := fitToWidth(marker+name, width)
		if name == current && i != cursor {
			lines = append(lines, "  "+m.styles.CurrentItem.Render(text))
			continue
		}
		lines = append(lines, m.listItem(text, i == cursor))
	}
	return lines
}

func (m *Model) listItem(text string, selected bool) string {
	if selected {
		return m.styles.SelectedItem.Render(cursorSymbol + " " + text)
	}
	return m.styles.ListItem.Render("  " + text)
}

func (m *Model) renderDetails() string {
	lines := m.state.DetailLines()
	win := m.state.DetailWindow()
	width := m.innerWidth()

	visible := make([]string, 0, win.End-win.Start)
	for _, line := range lines[win.Start:win.End] {
		visible = append(visible, fitToWidth(line, width))
	}

	title := "Commit details"
	if id, ok := m.state.DetailCommitID(); ok {
		title += " " + id
	}
	if len(lines) > 0 {
		title += fmt.Sprintf(" (%d-%d/%d)", win.Start+1, win.End, len(lines))
	}
	return m.renderPanel(title, visible, m.bodyHeight(), true)
}

// renderDialog centers a bordered box in the body area. The box grows with
// its content and wraps once it reaches the terminal width.
func (m *Model) renderDialog(title, content string, style lipgloss.Style) string {
	width := max(lipgloss.Width(title), lipgloss.Width(content)) + style.GetHorizontalPadding()
	width = min(width, m.width-panelBorderSize)
	box := style.Width(width).Render(m.styles.PanelTitle.Render(title) + "\n\n" + content)
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, box)
}

// renderStatusBar renders the first footer line: the pending text or
// confirmation prompt when one is active, the last notice otherwise.
func (m *Model) renderStatusBar() string {
	style := m.styles.StatusBar
	var text string

	switch sc := m.state.Screen().(type) {
	case state.CommitMessageScreen:
		style = m.styles.Prompt
		text = " commit message: " + sc.Message + "█"
	case state.CreateBranchScreen:
		style = m.styles.Prompt
		text = " new branch: " + sc.Name + "█"
	case state.ConfirmCommitScreen:
		style = m.styles.Prompt
		text = fmt.Sprintf(" commit and push %q? enter: confirm | esc: cancel", sc.Message)
	case state.ConfirmMergeScreen:
		style = m.styles.Prompt
		text = fmt.Sprintf(" merge %s into %s? enter: confirm | esc: cancel", m.state.CurrentBranch(), m.state.MergeTarget())
	case state.ConfirmQuitScreen:
		style = m.styles.Prompt
		text = " quit ezgit? enter: confirm | esc: cancel"
	case state.ErrorScreen:
		style = m.styles.Error
		text = " " + singleLine(sc.Message)
	default:
		text = " " + currentSymbol + " " + m.state.CurrentBranch()
		if notice := m.state.Notice(); notice != "" {
			text += " | " + singleLine(notice)
		}
	}

	return style.Width(m.width).Render(fitToWidth(text, m.width))
}

func (m *Model) renderHelp() string {
	var view string
	if m.state.InputMode() == state.Text {
		view = m.help.ShortHelpView(m.decoder.Text.ShortHelp())
	} else {
		view = m.help.ShortHelpView(m.decoder.Command.ShortHelp())
	}
	return m.styles.Help.Render(fitToWidth(" "+view, m.width))
}

func fitToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, ellipsis)
}

func singleLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " " + ellipsis
	}
	return s
}
