package command

import (
	"context"
	"strings"
)

// DiffStatRefs returns the summary line of "git diff ref1..ref2 --shortstat".
func DiffStatRefs(ctx context.Context, dir, ref1, ref2 string) (string, error) {
	out, err := Git(ctx, dir, "diff", ref1+".."+ref2, "--shortstat")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.ReplaceAll(out, "\r", "")), nil
}
