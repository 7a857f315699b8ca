// Package gittest builds throwaway repositories for tests.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
	"github.com/thorstenhirsch/ezgit/internal/command"
)

const (
	// AuthorName is the identity every test commit is made with.
	AuthorName = "ezgit"
	// AuthorEmail is the email of AuthorName.
	AuthorEmail = "ezgit@example.com"
)

// TestHelper owns a working repository with a bare "origin" next to it.
type TestHelper struct {
	Repo       *gogit.Repository
	RepoPath   string
	RemotePath string

	root string
	now  time.Time
}

// InitTestRepository creates a repository on branch main with three commits
// and an empty bare remote registered as origin.
func InitTestRepository(t *testing.T) *TestHelper {
	t.Helper()
	root, err := os.MkdirTemp("", "ezgit")
	require.NoError(t, err)

	h := &TestHelper{
		RepoPath:   filepath.Join(root, "work"),
		RemotePath: filepath.Join(root, "origin.git"),
		root:       root,
		now:        time.Now().Add(-72 * time.Hour),
	}

	h.Repo, err = gogit.PlainInitWithOptions(h.RepoPath, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.Main},
	})
	require.NoError(t, err)

	cfg, err := h.Repo.Config()
	require.NoError(t, err)
	cfg.User.Name = AuthorName
	cfg.User.Email = AuthorEmail
	require.NoError(t, h.Repo.SetConfig(cfg))

	require.NoError(t, os.MkdirAll(h.RemotePath, 0o755))
	_, err = command.Run(h.RemotePath, "git", []string{"init", "--bare", "--initial-branch=main"})
	require.NoError(t, err)
	_, err = command.Run(h.RepoPath, "git", []string{"remote", "add", "origin", h.RemotePath})
	require.NoError(t, err)

	h.Commit(t, "README.md", "# ezgit\n", "initial commit")
	h.Commit(t, "main.go", "package main\n", "add main")
	h.Commit(t, "README.md", "# ezgit\n\nterminal front-end\n", "describe project")
	return h
}

// CleanUp removes the repository and its remote.
func (h *TestHelper) CleanUp(t *testing.T) {
	require.NoError(t, os.RemoveAll(h.root))
}

// WriteFile writes content to name inside the worktree without staging it.
func (h *TestHelper) WriteFile(t *testing.T, name, content string) {
	t.Helper()
	path := filepath.Join(h.RepoPath, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// Commit writes name and commits it on the current branch. Commits are one
// hour apart so their order is stable.
func (h *TestHelper) Commit(t *testing.T, name, content, message string) plumbing.Hash {
	t.Helper()
	h.WriteFile(t, name, content)

	w, err := h.Repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add(name)
	require.NoError(t, err)

	h.now = h.now.Add(time.Hour)
	hash, err := w.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{Name: AuthorName, Email: AuthorEmail, When: h.now},
	})
	require.NoError(t, err)
	return hash
}

// Branch creates name at HEAD without checking it out.
func (h *TestHelper) Branch(t *testing.T, name string) {
	t.Helper()
	head, err := h.Repo.Head()
	require.NoError(t, err)
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), head.Hash())
	require.NoError(t, h.Repo.Storer.SetReference(ref))
}

// Checkout switches the worktree to branch name.
func (h *TestHelper) Checkout(t *testing.T, name string) {
	t.Helper()
	w, err := h.Repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, w.Checkout(&gogit.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(name)}))
}

// Head returns the short name of the checked out branch.
func (h *TestHelper) Head(t *testing.T) string {
	t.Helper()
	head, err := h.Repo.Head()
	require.NoError(t, err)
	return head.Name().Short()
}

// RemoteHead returns the hash branch points to in the bare remote, or an
// empty string when the remote has no such branch.
func (h *TestHelper) RemoteHead(t *testing.T, branch string) string {
	t.Helper()
	out, err := command.Run(h.RemotePath, "git", []string{"rev-parse", "--verify", "refs/heads/" + branch})
	if err != nil {
		return ""
	}
	return out
}

// NonRepoPath returns a directory that is not inside any repository.
func (h *TestHelper) NonRepoPath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(h.root, "non-repo")
	require.NoError(t, os.MkdirAll(path, 0o755))
	return path
}
