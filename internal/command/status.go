package command

import (
	"context"
	"strings"
)

// PlainStatus returns the short status of the worktree in dir, one file per
// line. An empty result means the worktree is clean.
func PlainStatus(ctx context.Context, dir string) (string, error) {
	out, err := Git(ctx, dir, "status", "--short", "--untracked-files=all")
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(out, "\r\n", "\n"), nil
}

// IsClean reports whether the worktree in dir has no changes.
func IsClean(ctx context.Context, dir string) (bool, error) {
	out, err := PlainStatus(ctx, dir)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "", nil
}

// HasTrackedChanges reports whether tracked files in dir are modified or
// staged. Untracked files are ignored.
func HasTrackedChanges(ctx context.Context, dir string) (bool, error) {
	out, err := Git(ctx, dir, "status", "--short", "--untracked-files=no")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}
