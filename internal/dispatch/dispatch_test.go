package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thorstenhirsch/ezgit/internal/action"
	gerr "github.com/thorstenhirsch/ezgit/internal/errors"
	"github.com/thorstenhirsch/ezgit/internal/state"
	"pgregory.net/rapid"
)

type fakeRepo struct {
	commits  []state.Commit
	branches []string
	head     string
	details  map[string]string

	checkoutErr error
	commitErr   error
	pushErr     error
	createErr   error
	mergeErr    error
	listErr     error

	calls []string
}

func (f *fakeRepo) ListCommits(ctx context.Context) ([]state.Commit, error) {
	return f.commits, f.listErr
}

func (f *fakeRepo) ListBranches(ctx context.Context) ([]string, error) {
	return f.branches, f.listErr
}

func (f *fakeRepo) CurrentBranch(ctx context.Context) (string, error) {
	return f.head, nil
}

func (f *fakeRepo) Checkout(ctx context.Context, branch string) error {
	f.calls = append(f.calls, "checkout "+branch)
	if f.checkoutErr != nil {
		return f.checkoutErr
	}
	f.head = branch
	return nil
}

func (f *fakeRepo) CommitDetails(ctx context.Context, id string) (string, error) {
	f.calls = append(f.calls, "details "+id)
	detail, ok := f.details[id]
	if !ok {
		return "", errors.New("unknown revision " + id)
	}
	return detail, nil
}

func (f *fakeRepo) CommitAndPush(ctx context.Context, message string) error {
	f.calls = append(f.calls, "commit "+message)
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commits = append([]state.Commit{state.NewCommit("ffff000", message)}, f.commits...)
	return f.pushErr
}

func (f *fakeRepo) CreateBranch(ctx context.Context, name string) error {
	f.calls = append(f.calls, "branch "+name)
	if f.createErr != nil {
		return f.createErr
	}
	f.branches = append(f.branches, name)
	f.head = name
	return nil
}

func (f *fakeRepo) MergeInto(ctx context.Context, target string) error {
	f.calls = append(f.calls, "merge "+target)
	return f.mergeErr
}

func newFixture(t *testing.T, repo *fakeRepo) (*Dispatcher, *state.State) {
	t.Helper()
	s := state.New(repo.commits, repo.branches, repo.head)
	s.Resize(10, 10, 10)
	return New(context.Background(), repo), s
}

func commits(n int) []state.Commit {
	c := make([]state.Commit, n)
	for i := range c {
		c[i] = state.NewCommit("abcd123", "msg")
	}
	return c
}

func run(d *Dispatcher, s *state.State, actions ...action.Action) Outcome {
	out := Continue
	for _, a := range actions {
		out = d.Dispatch(context.Background(), s, a)
	}
	return out
}

func typeText(text string) []action.Action {
	var actions []action.Action
	for _, c := range text {
		actions = append(actions, action.Text(c))
	}
	return actions
}

var (
	up       = action.Of(action.NavigateUp)
	down     = action.Of(action.NavigateDown)
	sel      = action.Of(action.Select)
	deselect = action.Of(action.Deselect)
	confirm  = action.Of(action.Confirm)
	cancel   = action.Of(action.Cancel)
)

func TestNavigateDownWithinShortLog(t *testing.T) {
	d, s := newFixture(t, &fakeRepo{commits: commits(3)})

	run(d, s, down, down)
	require.Equal(t, 2, s.SelectedCommitIndex())
	require.Equal(t, state.Window{Start: 0, End: 3}, s.CommitWindow())

	run(d, s, down, down)
	require.Equal(t, 2, s.SelectedCommitIndex())
}

func TestNavigationOnEmptyLog(t *testing.T) {
	d, s := newFixture(t, &fakeRepo{})
	for _, k := range []action.Kind{
		action.NavigateUp, action.NavigateDown, action.NavigateLeft, action.NavigateRight,
		action.PageUp, action.PageDown, action.Select,
	} {
		require.Equal(t, Continue, d.Dispatch(context.Background(), s, action.Of(k)))
		require.Equal(t, 0, s.SelectedCommitIndex())
	}
	require.Equal(t, state.Normal, s.UIState())
}

func TestFailingCheckoutEntersError(t *testing.T) {
	repo := &fakeRepo{
		commits:     commits(2),
		branches:    []string{"main", "feature"},
		head:        "main",
		checkoutErr: errors.New("your local changes would be overwritten"),
	}
	d, s := newFixture(t, repo)

	run(d, s, action.Of(action.SwitchPanel), down, sel)
	require.Equal(t, state.Error, s.UIState())
	msg, ok := s.LastError()
	require.True(t, ok)
	require.Equal(t, "your local changes would be overwritten", msg)
	require.Equal(t, []string{"main", "feature"}, s.Branches())
	require.Equal(t, "main", s.CurrentBranch())

	run(d, s, deselect)
	require.Equal(t, state.Normal, s.UIState())
	_, ok = s.LastError()
	require.False(t, ok)
}

func TestCheckoutRefreshesLists(t *testing.T) {
	repo := &fakeRepo{commits: commits(5), branches: []string{"main", "feature"}, head: "main"}
	d, s := newFixture(t, repo)

	run(d, s, down, down, action.Of(action.SwitchPanel), down, sel)
	require.Equal(t, state.Normal, s.UIState())
	require.Equal(t, []string{"checkout feature"}, repo.calls)
	require.Equal(t, "feature", s.CurrentBranch())
	require.Equal(t, 0, s.SelectedCommitIndex())
	require.NotEmpty(t, s.Notice())
}

func TestCommitWorkflow(t *testing.T) {
	repo := &fakeRepo{commits: commits(1), branches: []string{"main"}, head: "main"}
	d, s := newFixture(t, repo)

	run(d, s, action.Of(action.CommitWork))
	require.Equal(t, state.CommitMessageEntry, s.UIState())
	require.Equal(t, state.Text, s.InputMode())
	require.Equal(t, "", s.PendingText())

	run(d, s, typeText("fix bug")...)
	require.Equal(t, "fix bug", s.PendingText())

	run(d, s, confirm)
	require.Equal(t, state.ConfirmCommit, s.UIState())
	require.Equal(t, state.Command, s.InputMode())
	require.Empty(t, repo.calls)

	run(d, s, sel)
	require.Equal(t, state.Normal, s.UIState())
	require.Equal(t, []string{"commit fix bug"}, repo.calls)
	require.Len(t, s.Commits(), 2)
}

func TestCommitFailureReturnsToNormal(t *testing.T) {
	repo := &fakeRepo{commits: commits(1), commitErr: errors.New("authentication required")}
	d, s := newFixture(t, repo)

	run(d, s, action.Of(action.CommitWork))
	run(d, s, typeText("wip")...)
	run(d, s, confirm, confirm)
	require.Equal(t, state.Normal, s.UIState())
	require.Contains(t, s.Notice(), "authentication required")
	require.Len(t, s.Commits(), 1)
}

func TestPushFailureReloadsCommitLog(t *testing.T) {
	repo := &fakeRepo{commits: commits(1), pushErr: errors.New("committed, but push to origin failed")}
	d, s := newFixture(t, repo)

	run(d, s, action.Of(action.CommitWork))
	run(d, s, typeText("wip")...)
	run(d, s, confirm, confirm)
	require.Equal(t, state.Normal, s.UIState())
	require.Contains(t, s.Notice(), "push to origin failed")
	require.Len(t, s.Commits(), 2)
	require.Equal(t, "ffff000", s.Commits()[0].ID())
}

func TestIgnoredActionsKeepNotice(t *testing.T) {
	d, s := newFixture(t, &fakeRepo{commits: commits(2), branches: []string{"main"}})

	run(d, s, action.Of(action.Refresh))
	notice := s.Notice()
	require.Equal(t, "loaded 2 commits and 1 branches", notice)

	run(d, s, deselect, cancel, action.Of(action.Backspace), action.Text('x'))
	require.Equal(t, notice, s.Notice())

	run(d, s, action.Of(action.SwitchPanel), action.Of(action.NavigateRight))
	require.Empty(t, s.Notice())
	require.Equal(t, 0, s.HorizontalOffset())
}

func TestCancelCommitMessageAtAnyPoint(t *testing.T) {
	for _, typed := range []string{"", "f", "fix bug"} {
		repo := &fakeRepo{commits: commits(1)}
		d, s := newFixture(t, repo)

		run(d, s, action.Of(action.CommitWork))
		run(d, s, typeText(typed)...)
		run(d, s, cancel)
		require.Equal(t, state.Normal, s.UIState())
		require.Equal(t, state.Command, s.InputMode())
		require.Empty(t, s.PendingText())
		require.Empty(t, repo.calls)
	}
}

func TestEmptyCommitMessageIsNotConfirmed(t *testing.T) {
	d, s := newFixture(t, &fakeRepo{})
	run(d, s, action.Of(action.CommitWork))
	run(d, s, typeText("   ")...)
	run(d, s, confirm)
	require.Equal(t, state.CommitMessageEntry, s.UIState())
}

func TestTextModeIgnoresCommands(t *testing.T) {
	d, s := newFixture(t, &fakeRepo{commits: commits(3)})
	run(d, s, action.Of(action.CommitWork))
	for _, k := range []action.Kind{action.Quit, action.NavigateDown, action.SwitchPanel, action.Select, action.Deselect} {
		run(d, s, action.Of(k))
	}
	require.Equal(t, state.CommitMessageEntry, s.UIState())
	require.Equal(t, 0, s.SelectedCommitIndex())
	require.Equal(t, state.CommitLog, s.FocusedPanel())
}

func TestCreateBranch(t *testing.T) {
	repo := &fakeRepo{commits: commits(1), branches: []string{"main"}, head: "main"}
	d, s := newFixture(t, repo)

	run(d, s, action.Of(action.CreateBranch))
	require.Equal(t, state.CreateBranchEntry, s.UIState())
	require.Equal(t, state.Text, s.InputMode())

	run(d, s, typeText("featx")...)
	run(d, s, action.Of(action.Backspace))
	run(d, s, confirm)
	require.Equal(t, state.Normal, s.UIState())
	require.Equal(t, []string{"branch feat"}, repo.calls)
	require.Equal(t, []string{"main", "feat"}, s.Branches())
	require.Equal(t, "feat", s.CurrentBranch())
}

func TestCreateBranchFailureReturnsToNormal(t *testing.T) {
	repo := &fakeRepo{branches: []string{"main"}, head: "main", createErr: errors.New("reference already exists")}
	d, s := newFixture(t, repo)

	run(d, s, action.Of(action.CreateBranch))
	run(d, s, typeText("main")...)
	run(d, s, confirm)
	require.Equal(t, state.Normal, s.UIState())
	require.Contains(t, s.Notice(), "reference already exists")
	require.Equal(t, []string{"main"}, s.Branches())
}

func TestBlankBranchNameIsNotSubmitted(t *testing.T) {
	repo := &fakeRepo{}
	d, s := newFixture(t, repo)
	run(d, s, action.Of(action.CreateBranch), action.Text(' '), confirm)
	require.Equal(t, state.CreateBranchEntry, s.UIState())
	require.Empty(t, repo.calls)
}

func TestConfirmMergeDeselectHasNoEffect(t *testing.T) {
	repo := &fakeRepo{commits: commits(4), branches: []string{"main", "feature"}, head: "feature"}
	d, s := newFixture(t, repo)
	run(d, s, down)

	run(d, s, action.Of(action.MergeBranch))
	require.Equal(t, state.ConfirmMerge, s.UIState())
	run(d, s, deselect)

	require.Equal(t, state.Normal, s.UIState())
	require.Empty(t, repo.calls)
	require.Equal(t, 1, s.SelectedCommitIndex())
	require.Equal(t, "feature", s.CurrentBranch())
	require.Len(t, s.Commits(), 4)
}

func TestMerge(t *testing.T) {
	var tests = []struct {
		branches []string
		mergeErr error
		target   string
		final    state.UIState
	}{
		{[]string{"feature", "main"}, nil, "main", state.Normal},
		{[]string{"feature", "master"}, nil, "master", state.Normal},
		{[]string{"feature", "main"}, errors.New("conflict while merging"), "main", state.Error},
	}
	for _, test := range tests {
		repo := &fakeRepo{commits: commits(1), branches: test.branches, head: "feature", mergeErr: test.mergeErr}
		d, s := newFixture(t, repo)

		run(d, s, action.Of(action.MergeBranch), sel)
		require.Equal(t, []string{"merge " + test.target}, repo.calls)
		require.Equal(t, test.final, s.UIState())
	}
}

func TestFailureMessages(t *testing.T) {
	var tests = []struct {
		mergeErr error
		message  string
	}{
		{errors.New("boom"), "boom"},
		{gerr.ErrConflictAfterMerge, "conflict while merging"},
		{fmt.Errorf("could not push: %w", gerr.ErrAuthenticationRequired), "could not push: authentication required: configure a credential helper or ssh agent for the remote"},
	}
	for _, test := range tests {
		repo := &fakeRepo{commits: commits(1), branches: []string{"main"}, head: "feature", mergeErr: test.mergeErr}
		d, s := newFixture(t, repo)

		run(d, s, action.Of(action.MergeBranch), sel)
		msg, ok := s.LastError()
		require.True(t, ok)
		require.Equal(t, test.message, msg)
	}
}

func TestSelectCommitShowsDetails(t *testing.T) {
	repo := &fakeRepo{
		commits: []state.Commit{state.NewCommit("a1b2c3d", "first"), {Display: "garbage"}},
		details: map[string]string{"a1b2c3d": "commit a1b2c3d\n\n    first\n"},
	}
	d, s := newFixture(t, repo)

	run(d, s, sel)
	require.Equal(t, state.CommitDetails, s.UIState())
	detail, ok := s.SelectedCommitDetail()
	require.True(t, ok)
	require.Contains(t, detail, "first")
	id, _ := s.DetailCommitID()
	require.Equal(t, "a1b2c3d", id)

	run(d, s, down)
	require.Equal(t, 0, s.SelectedCommitIndex())

	run(d, s, deselect, down, sel)
	require.Equal(t, state.Error, s.UIState())
	require.Equal(t, []string{"details a1b2c3d"}, repo.calls)
}

func TestRefreshKeepsDetailCommitID(t *testing.T) {
	repo := &fakeRepo{
		commits: []state.Commit{state.NewCommit("a1b2c3d", "first"), state.NewCommit("b2c3d4e", "second")},
		details: map[string]string{"b2c3d4e": "commit b2c3d4e\n\n    second\n"},
	}
	d, s := newFixture(t, repo)

	run(d, s, down, sel, action.Of(action.Refresh))
	require.Equal(t, state.CommitDetails, s.UIState())
	require.Equal(t, 0, s.SelectedCommitIndex())
	id, ok := s.DetailCommitID()
	require.True(t, ok)
	require.Equal(t, "b2c3d4e", id)
}

func TestFailedDetailLookupEntersError(t *testing.T) {
	repo := &fakeRepo{commits: []state.Commit{state.NewCommit("deadbeef", "gone")}}
	d, s := newFixture(t, repo)

	run(d, s, sel)
	require.Equal(t, state.Error, s.UIState())
	msg, _ := s.LastError()
	require.Contains(t, msg, "deadbeef")
}

func TestQuit(t *testing.T) {
	d, s := newFixture(t, &fakeRepo{})

	require.Equal(t, Continue, run(d, s, action.Of(action.Quit)))
	require.Equal(t, state.ConfirmQuit, s.UIState())
	require.Equal(t, Continue, run(d, s, deselect))
	require.Equal(t, state.Normal, s.UIState())

	require.Equal(t, Terminate, run(d, s, action.Of(action.Quit), sel))
}

func TestQuitOnlyFromNormal(t *testing.T) {
	d, s := newFixture(t, &fakeRepo{})
	run(d, s, action.Of(action.ShowKeyGuide), action.Of(action.Quit))
	require.Equal(t, state.KeyGuide, s.UIState())
	require.Equal(t, Continue, run(d, s, sel))
}

func TestHorizontalScroll(t *testing.T) {
	d, s := newFixture(t, &fakeRepo{commits: commits(1)})
	left, right := action.Of(action.NavigateLeft), action.Of(action.NavigateRight)

	run(d, s, left)
	require.Equal(t, 0, s.HorizontalOffset())
	run(d, s, right, right, right, left)
	require.Equal(t, 2, s.HorizontalOffset())

	run(d, s, action.Of(action.SwitchPanel), right)
	require.Equal(t, 2, s.HorizontalOffset())
}

func TestRefreshResetsSelection(t *testing.T) {
	repo := &fakeRepo{commits: commits(25), branches: []string{"a", "b", "c"}, head: "a"}
	d, s := newFixture(t, repo)
	run(d, s, action.Of(action.PageDown), action.Of(action.PageDown))
	require.Equal(t, 20, s.SelectedCommitIndex())

	repo.commits = commits(4)
	run(d, s, action.Of(action.Refresh))
	require.Equal(t, 0, s.SelectedCommitIndex())
	require.Equal(t, 0, s.SelectedBranchIndex())
	require.Equal(t, state.Window{Start: 0, End: 4}, s.CommitWindow())

	repo.listErr = errors.New("repository vanished")
	run(d, s, action.Of(action.Refresh))
	require.Equal(t, state.Error, s.UIState())
	require.Len(t, s.Commits(), 4)
}

func TestProperty_NavigationStaysInBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 60).Draw(t, "commits")
		repo := &fakeRepo{commits: commits(n), branches: []string{"main"}}
		s := state.New(repo.commits, repo.branches, "main")
		s.Resize(rapid.IntRange(0, 15).Draw(t, "capacity"), 5, 5)
		d := New(context.Background(), repo)

		kinds := []action.Kind{action.NavigateUp, action.NavigateDown, action.PageUp, action.PageDown}
		steps := rapid.SliceOf(rapid.SampledFrom(kinds)).Draw(t, "steps")
		for _, k := range steps {
			d.Dispatch(context.Background(), s, action.Of(k))
			idx := s.SelectedCommitIndex()
			if n == 0 {
				require.Equal(t, 0, idx)
				continue
			}
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, n)
		}
	})
}

func TestProperty_TextThenBackspaceRestoresBuffer(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := New(context.Background(), &fakeRepo{})
		s := state.New(nil, nil, "")
		entry := rapid.SampledFrom([]action.Kind{action.CommitWork, action.CreateBranch}).Draw(t, "entry")
		d.Dispatch(context.Background(), s, action.Of(entry))

		prefix := rapid.String().Draw(t, "prefix")
		for _, c := range prefix {
			d.Dispatch(context.Background(), s, action.Text(c))
		}
		before := s.PendingText()

		typed := rapid.SliceOf(rapid.Rune()).Draw(t, "typed")
		for _, c := range typed {
			d.Dispatch(context.Background(), s, action.Text(c))
		}
		for range typed {
			d.Dispatch(context.Background(), s, action.Of(action.Backspace))
		}
		require.Equal(t, before, s.PendingText())
	})
}
