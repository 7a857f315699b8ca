// Package tui is the interactive front-end: a bubbletea program feeding key
// presses through the decoder into the dispatcher and rendering the
// application state after every action.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/thorstenhirsch/ezgit/internal/dispatch"
	"github.com/thorstenhirsch/ezgit/internal/load"
)

// Run loads the initial snapshot of repo and starts the TUI application. It
// returns when the user confirms quitting or ctx is cancelled.
func Run(ctx context.Context, repo dispatch.Repository) error {
	snap, err := load.Load(ctx, repo)
	if err != nil {
		return fmt.Errorf("could not load repository: %w", err)
	}
	log.FromContext(ctx).Info("starting", "commits", len(snap.Commits), "branches", len(snap.Branches), "head", snap.CurrentBranch)

	m := New(ctx, snap, dispatch.New(ctx, repo))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}
