package command

import "context"

// PushOptions defines the rules of the push operation
type PushOptions struct {
	// Name of the remote to push to. Defaults to origin.
	RemoteName string
	// ReferenceName identifies the ref to push.
	ReferenceName string
	// SetUpstream records the remote branch as upstream of the local one.
	SetUpstream bool
	// Force toggles --force pushes when required.
	Force bool
}

// Push runs git push in dir.
func Push(ctx context.Context, dir string, options *PushOptions) error {
	if options == nil {
		options = &PushOptions{}
	}
	remote := options.RemoteName
	if remote == "" {
		remote = "origin"
	}

	args := []string{"push"}
	if options.Force {
		args = append(args, "--force")
	}
	if options.SetUpstream {
		args = append(args, "--set-upstream")
	}
	args = append(args, remote)
	if options.ReferenceName != "" {
		args = append(args, options.ReferenceName)
	}
	_, err := Git(ctx, dir, args...)
	return err
}
