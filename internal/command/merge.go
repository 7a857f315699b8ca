package command

import (
	"context"
	"strings"
)

// MergeOptions defines the rules of a merge operation
type MergeOptions struct {
	// Name of the branch to merge with.
	BranchName string
	// Create a merge commit even when the merge resolves as a fast-forward.
	NoFastForward bool
	// With true do not show a diffstat at the end of the merge.
	NoStat bool
}

// Merge incorporates the named branch into the branch checked out in dir
// and returns a short summary of what changed.
func Merge(ctx context.Context, dir string, options *MergeOptions) (string, error) {
	before, _ := revParse(ctx, dir, "HEAD")

	args := []string{"merge"}
	if options.NoFastForward {
		args = append(args, "--no-ff")
	}
	if options.NoStat {
		args = append(args, "-n")
	}
	if options.BranchName != "" {
		args = append(args, options.BranchName)
	}
	if _, err := Git(ctx, dir, args...); err != nil {
		return "", err
	}

	after, _ := revParse(ctx, dir, "HEAD")
	if before == after {
		return "already up-to-date", nil
	}
	msg, err := DiffStatRefs(ctx, dir, before, after)
	if err != nil || msg == "" {
		return "merged", nil
	}
	return msg, nil
}

// MergeAbort restores the state before a failed merge.
func MergeAbort(ctx context.Context, dir string) error {
	_, err := Git(ctx, dir, "merge", "--abort")
	return err
}

func revParse(ctx context.Context, dir, rev string) (string, error) {
	out, err := Git(ctx, dir, "rev-parse", "--verify", rev)
	return strings.TrimSpace(out), err
}
