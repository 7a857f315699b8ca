// Package dispatch routes abstract actions to state transitions, viewport
// movement and repository operations.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/thorstenhirsch/ezgit/internal/action"
	gerr "github.com/thorstenhirsch/ezgit/internal/errors"
	"github.com/thorstenhirsch/ezgit/internal/load"
	"github.com/thorstenhirsch/ezgit/internal/state"
)

// Repository is the repository layer the dispatcher drives. Every call is
// synchronous and blocks the dispatch that triggered it.
type Repository interface {
	load.Source
	Checkout(ctx context.Context, branch string) error
	CommitDetails(ctx context.Context, id string) (string, error)
	CommitAndPush(ctx context.Context, message string) error
	CreateBranch(ctx context.Context, name string) error
	MergeInto(ctx context.Context, target string) error
}

// Outcome tells the outer loop whether to keep running.
type Outcome uint8

const (
	Continue Outcome = iota
	Terminate
)

func (o Outcome) String() string {
	if o == Terminate {
		return "terminate"
	}
	return "continue"
}

// Dispatcher is the only writer of the application state.
type Dispatcher struct {
	repo   Repository
	logger *log.Logger
}

// New returns a dispatcher driving repo. The logger is taken from ctx.
func New(ctx context.Context, repo Repository) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		logger: log.FromContext(ctx).WithPrefix("dispatch"),
	}
}

// Dispatch applies a single action to s and runs it to completion. Actions
// that mean nothing in the current state are dropped without touching s.
func (d *Dispatcher) Dispatch(ctx context.Context, s *state.State, a action.Action) Outcome {
	if !applies(s, a) {
		d.logger.Debug("ignored", "action", a, "state", s.UIState(), "mode", s.InputMode())
		return Continue
	}
	s.SetNotice("")
	d.logger.Debug("dispatch", "action", a, "state", s.UIState(), "mode", s.InputMode(), "panel", s.FocusedPanel())

	if s.InputMode() == state.Text {
		d.text(ctx, s, a)
		return Continue
	}

	switch a.Kind {
	case action.Quit:
		s.Transition(state.ConfirmQuitScreen{})
	case action.Refresh:
		if err := d.reload(ctx, s); err != nil {
			d.fail(s, err)
			break
		}
		s.SetNotice(fmt.Sprintf("loaded %d commits and %d branches", len(s.Commits()), len(s.Branches())))
	case action.NavigateUp, action.NavigateDown:
		delta := 1
		if a.Kind == action.NavigateUp {
			delta = -1
		}
		if s.UIState() == state.CommitDetails {
			s.ScrollDetail(delta)
		} else {
			s.MoveSelection(delta)
		}
	case action.PageUp, action.PageDown:
		delta := 1
		if a.Kind == action.PageUp {
			delta = -1
		}
		if s.UIState() == state.CommitDetails {
			s.PageDetail(delta)
		} else {
			s.PageSelection(delta)
		}
	case action.NavigateLeft:
		s.ScrollLeft()
	case action.NavigateRight:
		s.ScrollRight()
	case action.SwitchPanel:
		s.SwitchPanel()
	case action.Select, action.Confirm:
		return d.selectItem(ctx, s)
	case action.Deselect, action.Cancel:
		d.deselect(s)
	case action.CommitWork:
		s.Transition(state.CommitMessageScreen{})
	case action.CreateBranch:
		s.Transition(state.CreateBranchScreen{})
	case action.ShowKeyGuide:
		s.Transition(state.KeyGuideScreen{})
	case action.MergeBranch:
		s.Transition(state.ConfirmMergeScreen{})
	}
	return Continue
}

// applies reports whether a has an effect in the current state of s.
func applies(s *state.State, a action.Action) bool {
	ui := s.UIState()
	if s.InputMode() == state.Text {
		return a.Kind.TextOnly()
	}
	switch a.Kind {
	case action.Quit, action.CommitWork, action.CreateBranch, action.ShowKeyGuide, action.MergeBranch:
		return ui == state.Normal
	case action.Refresh, action.SwitchPanel:
		return true
	case action.NavigateUp, action.NavigateDown, action.PageUp, action.PageDown:
		return ui == state.Normal || ui == state.CommitDetails
	case action.NavigateLeft, action.NavigateRight:
		return ui == state.Normal && s.FocusedPanel() == state.CommitLog
	case action.Select, action.Confirm:
		switch ui {
		case state.Normal, state.ConfirmCommit, state.ConfirmMerge, state.ConfirmQuit:
			return true
		}
	case action.Deselect, action.Cancel:
		return ui != state.Normal
	}
	return false
}

func (d *Dispatcher) text(ctx context.Context, s *state.State, a action.Action) {
	switch a.Kind {
	case action.TextInput:
		s.Transition(edit(s.Screen(), func(buf string) string { return buf + string(a.Char) }))
	case action.Backspace:
		s.Transition(edit(s.Screen(), dropLastRune))
	case action.Cancel:
		s.Transition(state.NormalScreen{})
	case action.Confirm:
		switch sc := s.Screen().(type) {
		case state.CommitMessageScreen:
			msg := strings.TrimSpace(sc.Message)
			if msg == "" {
				d.logger.Debug("empty commit message, not confirming")
				return
			}
			s.Transition(state.ConfirmCommitScreen{Message: msg})
		case state.CreateBranchScreen:
			d.createBranch(ctx, s, strings.TrimSpace(sc.Name))
		}
	}
}

// edit applies fn to the buffer carried by a text entry screen.
func edit(sc state.Screen, fn func(string) string) state.Screen {
	switch sc := sc.(type) {
	case state.CommitMessageScreen:
		return state.CommitMessageScreen{Message: fn(sc.Message)}
	case state.CreateBranchScreen:
		return state.CreateBranchScreen{Name: fn(sc.Name)}
	}
	return sc
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

func (d *Dispatcher) selectItem(ctx context.Context, s *state.State) Outcome {
	switch sc := s.Screen().(type) {
	case state.NormalScreen:
		if s.FocusedPanel() == state.Branches {
			d.checkout(ctx, s)
		} else {
			d.showDetails(ctx, s)
		}
	case state.ConfirmCommitScreen:
		d.commit(ctx, s, sc.Message)
	case state.ConfirmMergeScreen:
		d.merge(ctx, s)
	case state.ConfirmQuitScreen:
		d.logger.Debug("quit confirmed")
		return Terminate
	}
	return Continue
}

func (d *Dispatcher) deselect(s *state.State) {
	switch s.UIState() {
	case state.Normal:
		return
	case state.Error:
		msg, _ := s.LastError()
		d.logger.Debug("error dismissed", "err", msg)
	}
	s.Transition(state.NormalScreen{})
}

func (d *Dispatcher) showDetails(ctx context.Context, s *state.State) {
	commit, ok := s.SelectedCommit()
	if !ok {
		return
	}
	id := commit.ID()
	if id == "" {
		d.fail(s, fmt.Errorf("no commit identifier in %q", commit.Display))
		return
	}
	detail, err := d.repo.CommitDetails(ctx, id)
	if err != nil {
		d.fail(s, err)
		return
	}
	s.Transition(state.CommitDetailsScreen{ID: id, Detail: detail})
}

func (d *Dispatcher) checkout(ctx context.Context, s *state.State) {
	branch, ok := s.SelectedBranch()
	if !ok {
		return
	}
	if err := d.repo.Checkout(ctx, branch); err != nil {
		d.fail(s, err)
		return
	}
	if err := d.reload(ctx, s); err != nil {
		d.fail(s, err)
		return
	}
	s.SetCurrentBranch(branch)
	s.SetNotice("switched to " + branch)
}

// commit returns to Normal whether or not the commit succeeds; a failure is
// reported through the notice line. The commit log is reloaded either way.
func (d *Dispatcher) commit(ctx context.Context, s *state.State, message string) {
	err := d.repo.CommitAndPush(ctx, message)
	s.Transition(state.NormalScreen{})
	notice := "committed and pushed"
	if err != nil {
		d.logger.Error("commit and push failed", "err", err)
		notice = "commit failed: " + describe(err)
	}
	// a failed push still leaves the local commit behind
	commits, listErr := d.repo.ListCommits(ctx)
	if listErr != nil {
		d.fail(s, listErr)
		return
	}
	s.ReplaceCommits(commits)
	s.SetNotice(notice)
}

func (d *Dispatcher) createBranch(ctx context.Context, s *state.State, name string) {
	if name == "" {
		d.logger.Debug("empty branch name, not creating")
		return
	}
	err := d.repo.CreateBranch(ctx, name)
	s.Transition(state.NormalScreen{})
	if err != nil {
		d.logger.Error("create branch failed", "branch", name, "err", err)
		s.SetNotice("could not create branch: " + describe(err))
		return
	}
	branches, err := d.repo.ListBranches(ctx)
	if err != nil {
		d.fail(s, err)
		return
	}
	current, err := d.repo.CurrentBranch(ctx)
	if err != nil {
		d.fail(s, err)
		return
	}
	s.ReplaceBranches(branches)
	s.SetCurrentBranch(current)
	s.SetNotice("created branch " + name)
}

func (d *Dispatcher) merge(ctx context.Context, s *state.State) {
	target := s.MergeTarget()
	if err := d.repo.MergeInto(ctx, target); err != nil {
		d.fail(s, err)
		return
	}
	if err := d.reload(ctx, s); err != nil {
		d.fail(s, err)
		return
	}
	s.Transition(state.NormalScreen{})
	s.SetNotice("merged into " + target)
}

// reload replaces the commit log, branch list and current branch with a
// fresh snapshot. The lists are left untouched when loading fails.
func (d *Dispatcher) reload(ctx context.Context, s *state.State) error {
	snap, err := load.Load(ctx, d.repo)
	if err != nil {
		return err
	}
	s.ReplaceCommits(snap.Commits)
	s.ReplaceBranches(snap.Branches)
	s.SetCurrentBranch(snap.CurrentBranch)
	return nil
}

func (d *Dispatcher) fail(s *state.State, err error) {
	logger := d.logger.With("state", s.UIState(), "recoverable", gerr.IsRecoverable(err))
	if code, ok := gerr.ExitCode(err); ok {
		logger = logger.With("exit", code)
	}
	logger.Error("repository operation failed", "err", err)
	s.Transition(state.ErrorScreen{Message: describe(err)})
}

// describe renders err for the user, with a hint when the remote refused
// to talk without credentials.
func describe(err error) string {
	if gerr.RequiresCredentials(err) {
		return err.Error() + ": configure a credential helper or ssh agent for the remote"
	}
	return err.Error()
}
