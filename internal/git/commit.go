package git

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/thorstenhirsch/ezgit/internal/command"
	gerr "github.com/thorstenhirsch/ezgit/internal/errors"
	"github.com/thorstenhirsch/ezgit/internal/state"
)

const dateFormat = "Mon Jan 2 15:04:05 2006 -0700"

// ListCommits walks the history from HEAD, newest first, up to the
// configured limit. A repository without commits yields an empty log.
func (r *Repository) ListCommits(ctx context.Context) ([]state.Commit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return []state.Commit{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read HEAD: %w", err)
	}
	iter, err := r.repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	now := time.Now()
	commits := make([]state.Commit, 0, r.opts.Limit)
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		commits = append(commits, state.NewCommit(
			shortHash(c.Hash),
			humanize.RelTime(c.Author.When, now, "ago", "from now"),
			c.Author.Name,
			summary(c.Message),
		))
		if len(commits) >= r.opts.Limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

// CommitDetails renders the metadata, the file stats and the patch of the
// commit id against its first parent.
func (r *Repository) CommitDetails(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("no commit selected")
	}
	c, err := r.resolveCommit(ctx, id)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tree, err := c.Tree()
	if err != nil {
		return "", err
	}
	var parentTree *object.Tree
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return "", err
		}
		if parentTree, err = parent.Tree(); err != nil {
			return "", err
		}
	}
	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return "", err
	}
	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "commit %s\n", c.Hash)
	if c.NumParents() > 1 {
		parents := make([]string, 0, c.NumParents())
		for _, p := range c.ParentHashes {
			parents = append(parents, shortHash(p))
		}
		fmt.Fprintf(&b, "Merge: %s\n", strings.Join(parents, " "))
	}
	fmt.Fprintf(&b, "Author: %s <%s>\n", c.Author.Name, c.Author.Email)
	fmt.Fprintf(&b, "Date:   %s\n\n", c.Author.When.Format(dateFormat))
	for _, line := range strings.Split(strings.TrimRight(c.Message, "\n"), "\n") {
		fmt.Fprintf(&b, "    %s\n", line)
	}
	if stats := patch.Stats(); len(stats) > 0 {
		fmt.Fprintf(&b, "\n%s", stats.String())
	}
	if p := patch.String(); p != "" {
		fmt.Fprintf(&b, "\n%s", p)
	}
	return b.String(), nil
}

// CommitAndPush stages every change in the worktree, commits it with
// message and pushes the current branch to the configured remote.
func (r *Repository) CommitAndPush(ctx context.Context, message string) error {
	clean, err := command.IsClean(ctx, r.AbsPath)
	if err != nil {
		return err
	}
	if clean {
		return gerr.ErrNothingToCommit
	}
	author, err := r.signature(ctx)
	if err != nil {
		return err
	}
	branch, err := r.CurrentBranch(ctx)
	if err != nil {
		return err
	}

	if err := r.commit(message, author); err != nil {
		return err
	}
	if err := command.Push(ctx, r.AbsPath, &command.PushOptions{
		RemoteName:    r.opts.Remote,
		ReferenceName: branch,
		SetUpstream:   true,
	}); err != nil {
		return fmt.Errorf("committed, but push to %s failed: %w", r.opts.Remote, err)
	}
	r.logger.Info("pushed", "remote", r.opts.Remote, "branch", branch)
	return nil
}

func (r *Repository) commit(message string, author *object.Signature) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.repo.Remote(r.opts.Remote); err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return fmt.Errorf("%s: %w", r.opts.Remote, gerr.ErrRemoteNotFound)
		}
		return err
	}
	w, err := r.repo.Worktree()
	if err != nil {
		return err
	}
	if err := w.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return fmt.Errorf("stage changes: %w", err)
	}
	hash, err := w.Commit(message, &gogit.CommitOptions{Author: author})
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.logger.Info("committed", "hash", shortHash(hash))
	return nil
}

// resolveCommit looks id up with go-git and falls back to git rev-parse for
// revisions go-git cannot resolve.
func (r *Repository) resolveCommit(ctx context.Context, id string) (*object.Commit, error) {
	r.mu.Lock()
	hash, err := r.repo.ResolveRevision(plumbing.Revision(id))
	r.mu.Unlock()
	if err != nil {
		out, cliErr := command.Git(ctx, r.AbsPath, "rev-parse", "--verify", "--quiet", id+"^{commit}")
		if cliErr != nil || !plumbing.IsHash(out) {
			return nil, fmt.Errorf("%s: %w", id, gerr.ErrReferenceBroken)
		}
		h := plumbing.NewHash(out)
		hash = &h
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return c, nil
}

func (r *Repository) signature(ctx context.Context) (*object.Signature, error) {
	name, _ := command.Config(ctx, r.AbsPath, &command.ConfigOptions{Section: "user", Option: "name"})
	email, _ := command.Config(ctx, r.AbsPath, &command.ConfigOptions{Section: "user", Option: "email"})
	if email == "" {
		return nil, gerr.ErrUserEmailNotSet
	}
	if name == "" {
		name = email
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}, nil
}

// summary is the first line of a commit message.
func summary(message string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	return strings.TrimSpace(line)
}
