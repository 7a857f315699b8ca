package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/thorstenhirsch/ezgit/internal/command"
	gerr "github.com/thorstenhirsch/ezgit/internal/errors"
)

// ListBranches returns the local branch names. It does not take the go-git
// lock, so it can run next to ListCommits.
func (r *Repository) ListBranches(ctx context.Context) ([]string, error) {
	return command.Branches(ctx, r.AbsPath)
}

// Checkout switches the worktree to branch. Modified or staged tracked files
// make the checkout fail before anything is touched.
func (r *Repository) Checkout(ctx context.Context, branch string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.switchTo(ctx, branch); err != nil {
		return fmt.Errorf("checkout %s: %w", branch, err)
	}
	r.logger.Info("checked out", "branch", branch)
	return nil
}

// CreateBranch creates name at HEAD and checks it out, keeping local
// changes.
func (r *Repository) CreateBranch(ctx context.Context, name string) error {
	if err := command.CheckRefFormat(ctx, r.AbsPath, name); err != nil {
		return fmt.Errorf("%q: %w", name, gerr.ErrInvalidBranchName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), false); err == nil {
		return fmt.Errorf("a branch named %q already exists", name)
	}
	w, err := r.repo.Worktree()
	if err != nil {
		return err
	}
	if err := w.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
		Keep:   true,
	}); err != nil {
		return fmt.Errorf("create branch %s: %w", name, err)
	}
	r.logger.Info("created branch", "branch", name)
	return nil
}

// MergeInto merges the checked out branch into target and leaves target
// checked out. On any failure the merge is aborted and the original branch
// is checked out again.
func (r *Repository) MergeInto(ctx context.Context, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	source, err := r.headName()
	if err != nil {
		return err
	}
	if source == target {
		return fmt.Errorf("already on %s, check out the branch to merge first", target)
	}

	if err := r.switchTo(ctx, target); err != nil {
		r.restore(source)
		return fmt.Errorf("checkout %s: %w", target, err)
	}
	summary, err := command.Merge(ctx, r.AbsPath, &command.MergeOptions{BranchName: source, NoStat: true})
	if err != nil {
		if abortErr := command.MergeAbort(ctx, r.AbsPath); abortErr != nil {
			r.logger.Warn("merge abort failed", "err", abortErr)
		}
		r.restore(source)
		return fmt.Errorf("merge %s into %s: %w", source, target, err)
	}
	r.logger.Info("merged", "source", source, "target", target, "summary", summary)
	return nil
}

// switchTo checks out branch if no tracked file is modified or staged.
// go-git moves HEAD and rewrites the index before it reports unstaged
// changes, so they are looked for first.
func (r *Repository) switchTo(ctx context.Context, branch string) error {
	dirty, err := command.HasTrackedChanges(ctx, r.AbsPath)
	if err != nil {
		return err
	}
	if dirty {
		return gerr.ErrDirtyWorktree
	}
	return r.checkout(branch, false)
}

// restore puts HEAD back on branch after a failed operation that started
// from a clean worktree.
func (r *Repository) restore(branch string) {
	if head, err := r.headName(); err == nil && head == branch {
		return
	}
	if err := r.checkout(branch, true); err != nil {
		r.logger.Error("could not return to branch", "branch", branch, "err", err)
	}
}

func (r *Repository) checkout(branch string, force bool) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return err
	}
	err = w.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Force:  force,
	})
	if errors.Is(err, gogit.ErrUnstagedChanges) {
		return gerr.ErrDirtyWorktree
	}
	return err
}
