// Package command runs the git command line tool for the operations go-git
// does not cover well: listing refs, merging and pushing.
package command

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	gerr "github.com/thorstenhirsch/ezgit/internal/errors"
)

// DefaultTimeout bounds every git invocation that does not carry its own
// deadline.
const DefaultTimeout = 2 * time.Minute

// Run runs the OS command in directory d and returns its combined output.
// A non-zero exit status is returned as an error.
func Run(d string, c string, args []string) (string, error) {
	return RunWithContext(context.Background(), d, c, args)
}

// RunWithContext executes a command honouring the provided context for
// cancellation.
func RunWithContext(ctx context.Context, d string, c string, args []string) (string, error) {
	return RunWithContextTimeout(ctx, d, c, args, 0)
}

// RunWithContextTimeout executes a command with the supplied context and
// optional timeout.
func RunWithContextTimeout(ctx context.Context, d string, c string, args []string, timeout time.Duration) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, c, args...)
	if d != "" {
		cmd.Dir = d
	}
	cmd.Env = enrichGitEnv(os.Environ())
	if runtime.GOOS != "windows" {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	}
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	start := time.Now()
	err := cmd.Run()
	out := trimTrailingNewline(buf.String())
	log.Debug("exec", "cmd", c, "args", args, "dir", d, "took", time.Since(start), "err", err)
	if ctx.Err() != nil {
		return out, ctx.Err()
	}
	return out, err
}

// Git runs git with args in dir and classifies a failure with
// ParseGitError.
func Git(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := RunWithContextTimeout(ctx, dir, "git", args, DefaultTimeout)
	if err != nil {
		return out, gerr.ParseGitError(out, err)
	}
	return out, nil
}

// enrichGitEnv disables every kind of interactive prompt; the terminal
// belongs to the UI.
func enrichGitEnv(base []string) []string {
	env := make([]string, len(base))
	copy(env, base)
	env = ensureEnv(env, "GIT_TERMINAL_PROMPT", "0")
	env = ensureEnv(env, "GIT_SSH_COMMAND", "ssh -o BatchMode=yes -o ConnectTimeout=5 -o ConnectionAttempts=1")
	env = ensureEnv(env, "GIT_HTTP_LOW_SPEED_LIMIT", "1")
	env = ensureEnv(env, "GIT_HTTP_LOW_SPEED_TIME", "10")
	env = ensureEnv(env, "GIT_MERGE_AUTOEDIT", "no")
	env = ensureEnv(env, "LC_ALL", "C")
	return env
}

func ensureEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, entry := range env {
		if strings.HasPrefix(entry, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// trimTrailingNewline removes the trailing new line from the output of a
// command
func trimTrailingNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
