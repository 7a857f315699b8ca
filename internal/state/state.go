// Package state holds the application state of the interactive front-end:
// the focused panel, the current UI state with its payload, the commit log
// and branch list and the viewports scrolling over them.
package state

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/thorstenhirsch/ezgit/internal/viewport"
)

// Panel is one of the two primary selectable lists.
type Panel uint8

const (
	CommitLog Panel = iota
	Branches
)

func (p Panel) String() string {
	if p == Branches {
		return "branches"
	}
	return "commit-log"
}

// Window is a read-only copy of a viewport range.
type Window struct {
	Start int
	End   int
}

// State is the single application state. Only the dispatcher mutates it
// after construction; the render pass may call Resize.
type State struct {
	panel  Panel
	screen Screen

	commits  []Commit
	branches []string

	commitView *viewport.Viewport
	branchView *viewport.Viewport
	detailView *viewport.Viewport

	detailLines   []string
	hOffset       int
	currentBranch string
	notice        string
}

// New builds the state from the initial repository snapshot.
func New(commits []Commit, branches []string, currentBranch string) *State {
	return &State{
		panel:         CommitLog,
		screen:        NormalScreen{},
		commits:       commits,
		branches:      branches,
		commitView:    viewport.New(viewport.Paged, len(commits)),
		branchView:    viewport.New(viewport.Centered, len(branches)),
		detailView:    viewport.New(viewport.Free, 0),
		currentBranch: currentBranch,
	}
}

// FocusedPanel returns the panel that receives navigation in Normal state.
func (s *State) FocusedPanel() Panel { return s.panel }

// Screen returns the current UI state with its payload.
func (s *State) Screen() Screen { return s.screen }

// UIState returns the current UI state.
func (s *State) UIState() UIState { return s.screen.UIState() }

// InputMode is derived from the UI state and can never disagree with it.
func (s *State) InputMode() InputMode { return ModeOf(s.screen.UIState()) }

// Commits returns the commit log.
func (s *State) Commits() []Commit { return s.commits }

// Branches returns the branch list.
func (s *State) Branches() []string { return s.branches }

// CurrentBranch returns the name of the checked out branch.
func (s *State) CurrentBranch() string { return s.currentBranch }

// HorizontalOffset returns the horizontal scroll of the commit log.
func (s *State) HorizontalOffset() int { return s.hOffset }

// Notice returns the one-line status message of the last action, if any.
func (s *State) Notice() string { return s.notice }

// SelectedCommitIndex returns the cursor of the commit log.
func (s *State) SelectedCommitIndex() int { return s.commitView.Cursor() }

// SelectedBranchIndex returns the cursor of the branch list.
func (s *State) SelectedBranchIndex() int { return s.branchView.Cursor() }

// SelectedCommit returns the commit under the cursor.
func (s *State) SelectedCommit() (Commit, bool) {
	if len(s.commits) == 0 {
		return Commit{}, false
	}
	return s.commits[s.commitView.Cursor()], true
}

// SelectedBranch returns the branch under the cursor.
func (s *State) SelectedBranch() (string, bool) {
	if len(s.branches) == 0 {
		return "", false
	}
	return s.branches[s.branchView.Cursor()], true
}

// CommitWindow returns the visible range of the commit log.
func (s *State) CommitWindow() Window { return window(s.commitView) }

// BranchWindow returns the visible range of the branch list.
func (s *State) BranchWindow() Window { return window(s.branchView) }

// DetailWindow returns the visible line range of the commit detail text.
func (s *State) DetailWindow() Window { return window(s.detailView) }

// PendingText returns the text being entered, or the message awaiting
// commit confirmation.
func (s *State) PendingText() string {
	switch sc := s.screen.(type) {
	case CommitMessageScreen:
		return sc.Message
	case ConfirmCommitScreen:
		return sc.Message
	case CreateBranchScreen:
		return sc.Name
	}
	return ""
}

// SelectedCommitDetail returns the detail text while CommitDetails is shown.
func (s *State) SelectedCommitDetail() (string, bool) {
	if sc, ok := s.screen.(CommitDetailsScreen); ok {
		return sc.Detail, true
	}
	return "", false
}

// DetailCommitID returns the identifier of the commit shown in
// CommitDetails.
func (s *State) DetailCommitID() (string, bool) {
	if sc, ok := s.screen.(CommitDetailsScreen); ok {
		return sc.ID, true
	}
	return "", false
}

// DetailLines returns the detail text split into lines.
func (s *State) DetailLines() []string { return s.detailLines }

// LastError returns the message while the Error state is shown.
func (s *State) LastError() (string, bool) {
	if sc, ok := s.screen.(ErrorScreen); ok {
		return sc.Message, true
	}
	return "", false
}

// MergeTarget is the main line of the repository: "main" when such a branch
// exists, "master" otherwise.
func (s *State) MergeTarget() string {
	for _, b := range s.branches {
		if b == "main" {
			return "main"
		}
	}
	return "master"
}

// Resize sets the capacity of all three viewports. It is called on every
// render pass.
func (s *State) Resize(commits, branches, detail int) {
	s.commitView.Resize(commits)
	s.branchView.Resize(branches)
	s.detailView.Resize(detail)
}

// Transition moves the state machine to next. Illegal transitions are
// refused and leave the state untouched.
func (s *State) Transition(next Screen) bool {
	from, to := s.screen.UIState(), next.UIState()
	if !CanTransition(from, to) {
		log.Debug("transition refused", "from", from, "to", to)
		return false
	}
	if from == CommitDetails && to != CommitDetails {
		s.detailLines = nil
		s.detailView.Reset(0)
	}
	if sc, ok := next.(CommitDetailsScreen); ok {
		s.detailLines = strings.Split(strings.TrimRight(sc.Detail, "\n"), "\n")
		s.detailView.Reset(len(s.detailLines))
	}
	s.screen = next
	if from != to {
		log.Debug("transition", "from", from, "to", to, "mode", ModeOf(to))
	}
	return true
}

// SwitchPanel toggles the focused panel.
func (s *State) SwitchPanel() {
	if s.panel == CommitLog {
		s.panel = Branches
	} else {
		s.panel = CommitLog
	}
}

// MoveSelection moves the cursor of the focused panel.
func (s *State) MoveSelection(delta int) {
	s.focusedView().MoveCursor(delta)
}

// PageSelection moves the cursor of the focused panel by a full page.
func (s *State) PageSelection(delta int) {
	s.focusedView().Page(delta)
}

// ScrollDetail scrolls the commit detail text by lines.
func (s *State) ScrollDetail(lines int) {
	s.detailView.Step(lines)
}

// PageDetail scrolls the commit detail text by a full page.
func (s *State) PageDetail(delta int) {
	s.detailView.Page(delta)
}

// ScrollLeft decreases the horizontal offset, never below zero.
func (s *State) ScrollLeft() {
	if s.hOffset > 0 {
		s.hOffset--
	}
}

// ScrollRight increases the horizontal offset.
func (s *State) ScrollRight() {
	s.hOffset++
}

// ReplaceCommits swaps in a new commit log and resets its cursor and window.
func (s *State) ReplaceCommits(commits []Commit) {
	s.commits = commits
	s.commitView.Reset(len(commits))
}

// ReplaceBranches swaps in a new branch list and resets its cursor and
// window.
func (s *State) ReplaceBranches(branches []string) {
	s.branches = branches
	s.branchView.Reset(len(branches))
}

// SetCurrentBranch records the checked out branch.
func (s *State) SetCurrentBranch(name string) {
	s.currentBranch = name
}

// SetNotice replaces the status message.
func (s *State) SetNotice(msg string) {
	s.notice = msg
}

func (s *State) focusedView() *viewport.Viewport {
	if s.panel == Branches {
		return s.branchView
	}
	return s.commitView
}

func window(v *viewport.Viewport) Window {
	start, end := v.Range()
	return Window{Start: start, End: end}
}
