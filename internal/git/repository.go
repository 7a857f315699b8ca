// Package git implements the repository layer of ezgit on top of go-git.
// Operations go-git handles poorly (ref listing, merge, push) run the git
// command line tool through package command.
package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// DefaultLimit is the number of commits listed when Options.Limit is unset.
const DefaultLimit = 100

// Options tune how the repository is read and written.
type Options struct {
	// Limit caps the length of the commit log.
	Limit int
	// Remote is the name of the remote commits are pushed to.
	Remote string
}

// Repository is an opened git repository. The name is the name of the
// worktree folder. Calls are safe for concurrent use; go-git access is
// serialized.
type Repository struct {
	Name    string
	AbsPath string

	repo   *gogit.Repository
	opts   Options
	mu     sync.Mutex
	logger *log.Logger
}

// Open opens the repository containing dir. Parent directories are searched
// for the .git folder.
func Open(dir string, opts Options) (*Repository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	rp, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s is not inside a git repository", abs)
		}
		return nil, err
	}
	w, err := rp.Worktree()
	if err != nil {
		return nil, fmt.Errorf("bare repositories are not supported: %w", err)
	}
	root := w.Filesystem.Root()

	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	return &Repository{
		Name:    filepath.Base(root),
		AbsPath: root,
		repo:    rp,
		opts:    opts,
		logger:  log.WithPrefix("git").With("repo", filepath.Base(root)),
	}, nil
}

// CurrentBranch returns the short name of HEAD. A detached HEAD is shown as
// its abbreviated hash.
func (r *Repository) CurrentBranch(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.headName()
}

func (r *Repository) headName() (string, error) {
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	if head.Type() == plumbing.SymbolicReference {
		return head.Target().Short(), nil
	}
	return shortHash(head.Hash()), nil
}

func (r *Repository) String() string {
	return r.Name
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:7]
}
