package errors

import (
	"errors"
	"fmt"
	"strings"
)

// GitError is a classified failure of a git operation.
type GitError string

const (
	// ErrAuthenticationRequired is returned when the remote asks for
	// credentials. Prompts are disabled, so the push cannot proceed.
	ErrAuthenticationRequired GitError = "authentication required"
	// ErrPermissionDenied is returned when ssh authentication is refused
	ErrPermissionDenied GitError = "permission denied"
	// ErrRemoteNotFound is returned when the remote repository does not exist
	// or cannot be reached
	ErrRemoteNotFound GitError = "remote not found"
	// ErrRemoteBranchNotSpecified means no upstream is configured for the
	// current branch
	ErrRemoteBranchNotSpecified GitError = "upstream not set"
	// ErrPushRejected is returned when the remote refuses a non fast-forward
	// update
	ErrPushRejected GitError = "push rejected, pull first"
	// ErrConflictAfterMerge is returned when a merge stops on conflicts
	ErrConflictAfterMerge GitError = "conflict while merging"
	// ErrMergeAbortedTryCommit is returned when local changes would be
	// overwritten by a merge
	ErrMergeAbortedTryCommit GitError = "stash/commit changes. aborted"
	// ErrOverwrittenByMerge is returned when untracked files block a merge
	ErrOverwrittenByMerge GitError = "move or remove un-tracked files before merge"
	// ErrUnmergedFiles is returned while a previous conflict is unresolved
	ErrUnmergedFiles GitError = "unmerged files detected"
	// ErrDirtyWorktree is returned when a checkout would discard changes
	ErrDirtyWorktree GitError = "worktree contains unstaged changes"
	// ErrNothingToCommit is returned when committing a clean worktree
	ErrNothingToCommit GitError = "nothing to commit"
	// ErrReferenceBroken is returned when a reference cannot be resolved
	ErrReferenceBroken GitError = "unable to resolve reference"
	// ErrInvalidBranchName is returned for names git refuses as a ref
	ErrInvalidBranchName GitError = "invalid branch name"
	// ErrUserEmailNotSet is returned when no committer identity is configured
	ErrUserEmailNotSet GitError = "user email not set"
	// ErrNetworkTimeout is returned when network operations time out
	ErrNetworkTimeout GitError = "network timeout"
	// ErrNetworkUnreachable is returned when the network is unreachable
	ErrNetworkUnreachable GitError = "network unreachable"
	// ErrDNSError is returned when host name resolution fails
	ErrDNSError GitError = "dns resolution failed"
	// ErrSSLError is returned when TLS validation fails
	ErrSSLError GitError = "ssl certificate problem"
)

func (e GitError) Error() string {
	return string(e)
}

// gitErrorWithExitCode keeps the exit status of the git process next to the
// classified error.
type gitErrorWithExitCode struct {
	GitError
	exitCode int
}

func (e gitErrorWithExitCode) ExitCode() int {
	return e.exitCode
}

func (e gitErrorWithExitCode) Unwrap() error {
	return e.GitError
}

type exitCoder interface {
	ExitCode() int
}

// ExitCode returns the exit status carried by err, if any.
func ExitCode(err error) (int, bool) {
	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode(), true
	}
	return 0, false
}

// classifier maps fragments of git output to a GitError. Fragments are
// matched case-insensitively in order; the first hit wins.
type classifier struct {
	kind      GitError
	fragments []string
}

var classifiers = []classifier{
	{ErrAuthenticationRequired, []string{
		"authentication required",
		"authentication failed",
		"could not read username",
		"could not read password",
		"invalid username or password",
		"http basic: access denied",
		"terminal prompts disabled",
	}},
	{ErrPermissionDenied, []string{"permission denied (publickey)", "permission denied (password)"}},
	{ErrMergeAbortedTryCommit, []string{"your local changes to the following files would be overwritten by merge"}},
	{ErrDirtyWorktree, []string{"your local changes to the following files would be overwritten by checkout", "worktree contains unstaged changes"}},
	{ErrOverwrittenByMerge, []string{"untracked working tree files would be overwritten by merge"}},
	{ErrConflictAfterMerge, []string{"automatic merge failed; fix conflicts and then commit the result"}},
	{ErrUnmergedFiles, []string{"you have unmerged files", "you have not concluded your merge"}},
	{ErrRemoteNotFound, []string{"repository not found", "does not appear to be a git repository"}},
	{ErrRemoteBranchNotSpecified, []string{"has no upstream branch", "you must specify a branch on the command line"}},
	{ErrPushRejected, []string{"[rejected]", "failed to push some refs"}},
	{ErrNothingToCommit, []string{"nothing to commit", "cannot create empty commit"}},
	{ErrInvalidBranchName, []string{"is not a valid branch name", "invalid reference name"}},
	{ErrReferenceBroken, []string{"unable to resolve reference", "unknown revision", "reference not found"}},
	{ErrUserEmailNotSet, []string{"please tell me who you are", "git config --global add user.email"}},
	{ErrNetworkTimeout, []string{"operation timed out", "timeout"}},
	{ErrDNSError, []string{"could not resolve hostname", "name or service not known", "nodename nor servname provided"}},
	{ErrNetworkUnreachable, []string{"failed to connect", "network is unreachable", "no route to host"}},
	{ErrSSLError, []string{"ssl certificate problem", "tls handshake failed"}},
}

// ParseGitError classifies the output of a failed git command. Unknown
// failures keep the trimmed output as their message.
func ParseGitError(out string, err error) error {
	trimmed := strings.TrimSpace(out)
	if trimmed == "" && err != nil {
		trimmed = strings.TrimSpace(err.Error())
	}
	exitCode, _ := ExitCode(err)

	lower := strings.ToLower(trimmed)
	for _, c := range classifiers {
		for _, fragment := range c.fragments {
			if !strings.Contains(lower, fragment) {
				continue
			}
			if exitCode > 0 {
				return gitErrorWithExitCode{GitError: c.kind, exitCode: exitCode}
			}
			return c.kind
		}
	}

	if trimmed == "" {
		return fmt.Errorf("unknown error")
	}
	return fmt.Errorf("%s", trimmed)
}

// RequiresCredentials reports whether err means the remote wants credentials.
func RequiresCredentials(err error) bool {
	return errors.Is(err, ErrAuthenticationRequired) || errors.Is(err, ErrPermissionDenied)
}

// IsRecoverable reports whether the user can fix the cause of err from the
// working tree, for example by committing or resolving conflicts.
func IsRecoverable(err error) bool {
	for _, kind := range []GitError{
		ErrRemoteBranchNotSpecified, ErrPushRejected, ErrMergeAbortedTryCommit,
		ErrConflictAfterMerge, ErrUnmergedFiles, ErrOverwrittenByMerge,
		ErrDirtyWorktree, ErrNothingToCommit, ErrInvalidBranchName,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
