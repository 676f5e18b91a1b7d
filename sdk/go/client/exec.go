package client

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

// Result is the outcome of one command invocation.
type Result struct {
	// ExitCode of the process, -1 if it was killed on timeout
	ExitCode int
	// Output is STDOUT and STDERR combined
	Output []byte
	// TimedOut is true when the command exceeded its timeout
	TimedOut bool
}

// Success reports whether the command exited zero within its timeout.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && !r.TimedOut
}

// Executor synchronously runs a command with a timeout.
// A non-zero exit or a timeout is reported in the Result, not as an error;
// the error is reserved for commands that could not be started at all.
type Executor interface {
	Run(ctx context.Context, name string, args []string, timeout time.Duration) (*Result, error)
}

// ShellExecutor runs commands as local subprocesses.
type ShellExecutor struct {
	// Env is appended to the parent process environment.
	Env []string
}

// Run implements Executor.
func (e *ShellExecutor) Run(ctx context.Context, name string, args []string, timeout time.Duration) (*Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}
	out, err := cmd.CombinedOutput()
	res := &Result{Output: out}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
		res.ExitCode = -1
		return res, nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, err
	}
	return res, nil
}
