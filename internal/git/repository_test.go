package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thorstenhirsch/ezgit/internal/command"
	gerr "github.com/thorstenhirsch/ezgit/internal/errors"
	"github.com/thorstenhirsch/ezgit/internal/gittest"
)

func openTestRepository(t *testing.T, th *gittest.TestHelper, opts Options) *Repository {
	t.Helper()
	r, err := Open(th.RepoPath, opts)
	require.NoError(t, err)
	return r
}

func TestOpen(t *testing.T) {
	th := gittest.InitTestRepository(t)
	defer th.CleanUp(t)

	th.WriteFile(t, "nested/dir/file.txt", "x")
	r, err := Open(th.RepoPath+"/nested/dir", Options{})
	require.NoError(t, err)
	require.Equal(t, "work", r.Name)
	require.Equal(t, DefaultLimit, r.opts.Limit)
	require.Equal(t, "origin", r.opts.Remote)

	_, err = Open(th.NonRepoPath(t), Options{})
	require.Error(t, err)
}

func TestListCommits(t *testing.T) {
	th := gittest.InitTestRepository(t)
	defer th.CleanUp(t)

	var tests = []struct {
		limit    int
		expected int
	}{
		{0, 3},
		{2, 2},
		{10, 3},
	}
	for _, test := range tests {
		r := openTestRepository(t, th, Options{Limit: test.limit})
		commits, err := r.ListCommits(context.Background())
		require.NoError(t, err)
		require.Len(t, commits, test.expected)
		require.Contains(t, commits[0].Display, "describe project")
		require.Contains(t, commits[0].Display, gittest.AuthorName)
		require.Len(t, commits[0].ID(), 7)
	}
}

func TestBranchesAndCheckout(t *testing.T) {
	th := gittest.InitTestRepository(t)
	defer th.CleanUp(t)
	th.Branch(t, "feature")

	ctx := context.Background()
	r := openTestRepository(t, th, Options{})

	branches, err := r.ListBranches(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"feature", "main"}, branches)

	head, err := r.CurrentBranch(ctx)
	require.NoError(t, err)
	require.Equal(t, "main", head)

	require.NoError(t, r.Checkout(ctx, "feature"))
	require.Equal(t, "feature", th.Head(t))

	err = r.Checkout(ctx, "does-not-exist")
	require.Error(t, err)
	require.Equal(t, "feature", th.Head(t))
}

// divergedRepository returns a repository where feature has one more
// commit than main, adding feature.txt, and main is checked out.
func divergedRepository(t *testing.T) *gittest.TestHelper {
	t.Helper()
	th := gittest.InitTestRepository(t)
	th.Branch(t, "feature")
	th.Checkout(t, "feature")
	th.Commit(t, "feature.txt", "feature\n", "add feature")
	th.Checkout(t, "main")
	return th
}

// requireUntouched checks that HEAD, the index and the worktree are exactly
// as left by the local README.md edit.
func requireUntouched(t *testing.T, th *gittest.TestHelper, head string) {
	t.Helper()
	require.Equal(t, head, th.Head(t))

	status, err := command.PlainStatus(context.Background(), th.RepoPath)
	require.NoError(t, err)
	require.Equal(t, " M README.md", status)

	readme, err := os.ReadFile(filepath.Join(th.RepoPath, "README.md"))
	require.NoError(t, err)
	require.Equal(t, "local edit\n", string(readme))
}

func TestCheckoutRefusesDirtyWorktree(t *testing.T) {
	th := divergedRepository(t)
	defer th.CleanUp(t)
	th.WriteFile(t, "README.md", "local edit\n")

	r := openTestRepository(t, th, Options{})
	err := r.Checkout(context.Background(), "feature")
	require.ErrorIs(t, err, gerr.ErrDirtyWorktree)
	requireUntouched(t, th, "main")
	require.NoFileExists(t, filepath.Join(th.RepoPath, "feature.txt"))
}

func TestCheckoutKeepsUntrackedFiles(t *testing.T) {
	th := divergedRepository(t)
	defer th.CleanUp(t)
	th.WriteFile(t, "ezgit.log", "trace\n")

	r := openTestRepository(t, th, Options{})
	require.NoError(t, r.Checkout(context.Background(), "feature"))
	require.Equal(t, "feature", th.Head(t))
	require.FileExists(t, filepath.Join(th.RepoPath, "feature.txt"))
	require.FileExists(t, filepath.Join(th.RepoPath, "ezgit.log"))
}

func TestMergeIntoRefusesDirtyWorktree(t *testing.T) {
	th := divergedRepository(t)
	defer th.CleanUp(t)
	th.Checkout(t, "feature")
	th.WriteFile(t, "README.md", "local edit\n")

	r := openTestRepository(t, th, Options{})
	err := r.MergeInto(context.Background(), "main")
	require.ErrorIs(t, err, gerr.ErrDirtyWorktree)
	requireUntouched(t, th, "feature")
	require.FileExists(t, filepath.Join(th.RepoPath, "feature.txt"))
}

func TestCommitDetails(t *testing.T) {
	th := gittest.InitTestRepository(t)
	defer th.CleanUp(t)

	ctx := context.Background()
	r := openTestRepository(t, th, Options{})
	commits, err := r.ListCommits(ctx)
	require.NoError(t, err)

	detail, err := r.CommitDetails(ctx, commits[0].ID())
	require.NoError(t, err)
	require.Contains(t, detail, "Author: "+gittest.AuthorName)
	require.Contains(t, detail, "    describe project")
	require.Contains(t, detail, "+terminal front-end")

	root, err := r.CommitDetails(ctx, commits[len(commits)-1].ID())
	require.NoError(t, err)
	require.Contains(t, root, "initial commit")
	require.Contains(t, root, "+# ezgit")

	_, err = r.CommitDetails(ctx, "")
	require.Error(t, err)
	_, err = r.CommitDetails(ctx, "0000000")
	require.Error(t, err)
}

func TestCommitAndPush(t *testing.T) {
	th := gittest.InitTestRepository(t)
	defer th.CleanUp(t)

	ctx := context.Background()
	r := openTestRepository(t, th, Options{})

	require.ErrorIs(t, r.CommitAndPush(ctx, "nothing"), gerr.ErrNothingToCommit)

	th.WriteFile(t, "CHANGELOG.md", "v1\n")
	require.NoError(t, r.CommitAndPush(ctx, "add changelog"))

	commits, err := r.ListCommits(ctx)
	require.NoError(t, err)
	require.Len(t, commits, 4)
	require.Contains(t, commits[0].Display, "add changelog")
	require.NotEmpty(t, th.RemoteHead(t, "main"))
}

func TestCommitAndPushUnknownRemote(t *testing.T) {
	th := gittest.InitTestRepository(t)
	defer th.CleanUp(t)

	r := openTestRepository(t, th, Options{Remote: "upstream"})
	th.WriteFile(t, "CHANGELOG.md", "v1\n")
	require.ErrorIs(t, r.CommitAndPush(context.Background(), "add changelog"), gerr.ErrRemoteNotFound)
}

func TestCreateBranch(t *testing.T) {
	th := gittest.InitTestRepository(t)
	defer th.CleanUp(t)

	ctx := context.Background()
	r := openTestRepository(t, th, Options{})

	require.NoError(t, r.CreateBranch(ctx, "feature/login"))
	require.Equal(t, "feature/login", th.Head(t))

	require.Error(t, r.CreateBranch(ctx, "feature/login"))
	require.ErrorIs(t, r.CreateBranch(ctx, "bad..name"), gerr.ErrInvalidBranchName)
}

func TestMergeInto(t *testing.T) {
	th := gittest.InitTestRepository(t)
	defer th.CleanUp(t)

	ctx := context.Background()
	th.Branch(t, "feature")
	th.Checkout(t, "feature")
	th.Commit(t, "feature.txt", "feature\n", "add feature")

	r := openTestRepository(t, th, Options{})
	require.NoError(t, r.MergeInto(ctx, "main"))
	require.Equal(t, "main", th.Head(t))

	commits, err := r.ListCommits(ctx)
	require.NoError(t, err)
	require.Contains(t, commits[0].Display, "add feature")

	require.Error(t, r.MergeInto(ctx, "main"))
}

func TestMergeIntoConflictRestoresBranch(t *testing.T) {
	th := gittest.InitTestRepository(t)
	defer th.CleanUp(t)

	ctx := context.Background()
	th.Branch(t, "feature")
	th.Commit(t, "README.md", "main side\n", "edit on main")
	th.Checkout(t, "feature")
	th.Commit(t, "README.md", "feature side\n", "edit on feature")

	r := openTestRepository(t, th, Options{})
	err := r.MergeInto(ctx, "main")
	require.ErrorIs(t, err, gerr.ErrConflictAfterMerge)
	require.Equal(t, "feature", th.Head(t))

	clean, err := command.IsClean(ctx, th.RepoPath)
	require.NoError(t, err)
	require.True(t, clean)
}
