// Package load reads the repository snapshot the front-end is built from.
package load

import (
	"context"
	"fmt"

	"github.com/thorstenhirsch/ezgit/internal/state"
	"golang.org/x/sync/errgroup"
)

// Source is the read-only part of the repository layer.
type Source interface {
	ListCommits(ctx context.Context) ([]state.Commit, error)
	ListBranches(ctx context.Context) ([]string, error)
	CurrentBranch(ctx context.Context) (string, error)
}

// Snapshot is the commit log, branch list and checked out branch at one
// point in time.
type Snapshot struct {
	Commits       []state.Commit
	Branches      []string
	CurrentBranch string
}

// Load reads the commit log, the branch list and HEAD concurrently. The
// first failure cancels the remaining reads and is returned.
func Load(ctx context.Context, src Source) (*Snapshot, error) {
	if src == nil {
		return nil, fmt.Errorf("no repository to load from")
	}
	g, ctx := errgroup.WithContext(ctx)

	snap := &Snapshot{}
	g.Go(func() (err error) {
		if snap.Commits, err = src.ListCommits(ctx); err != nil {
			return fmt.Errorf("could not list commits: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if snap.Branches, err = src.ListBranches(ctx); err != nil {
			return fmt.Errorf("could not list branches: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if snap.CurrentBranch, err = src.CurrentBranch(ctx); err != nil {
			return fmt.Errorf("could not resolve HEAD: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// State builds a fresh application state from the snapshot.
func (s *Snapshot) State() *state.State {
	return state.New(s.Commits, s.Branches, s.CurrentBranch)
}
