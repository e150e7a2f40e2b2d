package netman

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// waitDelayAfterKill is the grace period for a child process to exit after
// context cancellation before it is forcibly killed.
const waitDelayAfterKill = 500 * time.Millisecond

// maxOutputBytes caps captured stdout/stderr per command.
const maxOutputBytes = 64 * 1024

// Runner executes an external tool and captures its output. Implementations
// must bound execution time so a wedged tool cannot stall the listener.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// execRunner runs commands through os/exec with a per-command timeout.
type execRunner struct {
	timeout time.Duration
}

// NewRunner returns a Runner that executes real commands with the given
// per-command timeout.
func NewRunner(timeout time.Duration) Runner {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &execRunner{timeout: timeout}
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, name, args...)
	cmd.WaitDelay = waitDelayAfterKill

	stdoutW := newLimitedWriter(maxOutputBytes)
	stderrW := newLimitedWriter(maxOutputBytes)
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	runErr := cmd.Run()

	stdout := strings.TrimSpace(stdoutW.String())
	stderr := strings.TrimSpace(stderrW.String())

	if runErr != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			return stdout, stderr, fmt.Errorf("netman: %s %s: timed out after %s", name, args[0], r.timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return stdout, stderr, fmt.Errorf("netman: %s %s: exit status %d: %s", name, args[0], exitErr.ExitCode(), stderr)
		}
		return stdout, stderr, fmt.Errorf("netman: %s %s: %w", name, args[0], runErr)
	}

	return stdout, stderr, nil
}

// limitedWriter discards bytes beyond a maximum, preventing unbounded memory
// use when a command is unexpectedly chatty.
type limitedWriter struct {
	buf []byte
	max int64
}

func newLimitedWriter(max int64) *limitedWriter {
	return &limitedWriter{max: max}
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	remaining := w.max - int64(len(w.buf))
	if remaining > 0 {
		n := int64(len(p))
		if n > remaining {
			n = remaining
		}
		w.buf = append(w.buf, p[:n]...)
	}
	// Always report all bytes as written so the command doesn't stall.
	return len(p), nil
}

func (w *limitedWriter) String() string {
	return string(w.buf)
}
