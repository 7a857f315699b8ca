package command

import (
	"context"
	"strings"
)

// Branches lists the local branch names of the repository in dir, in the
// order git sorts them.
func Branches(ctx context.Context, dir string) ([]string, error) {
	out, err := Git(ctx, dir, "for-each-ref", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return nil, err
	}
	branches := make([]string, 0)
	for _, line := range strings.Split(out, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			branches = append(branches, name)
		}
	}
	return branches, nil
}

// CheckRefFormat reports whether name is acceptable as a branch name.
func CheckRefFormat(ctx context.Context, dir, name string) error {
	_, err := Git(ctx, dir, "check-ref-format", "--branch", name)
	return err
}
