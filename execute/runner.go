/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package execute runs toolchain subprocesses with combined output
// capture, a per-invocation timeout, and cooperative cancellation.
package execute

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/bytedreamer/DotNetFrameworkMCP/logging"
)

// killGracePeriod is how long a process gets to exit after its context
// is cancelled before it is killed outright.
const killGracePeriod = 5 * time.Second

// Command describes one subprocess invocation.
type Command struct {
	Path    string        // executable path
	Args    []string      // arguments, without the executable name
	Dir     string        // working directory ("" inherits)
	Timeout time.Duration // 0 means no timeout
}

// Result carries the outcome of a subprocess invocation. Output is
// always populated with whatever was captured, including on timeout and
// cancellation.
type Result struct {
	ExitCode int
	Output   string // stdout and stderr interleaved in arrival order
	Elapsed  time.Duration
}

// TimeoutError reports that a subprocess exceeded its timeout and was
// terminated.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("process timed out after %s and was terminated", e.After)
}

// Runner starts external processes and captures their output.
type Runner struct {
	logger *logging.Logger
}

// New creates a new Runner
func New(logger *logging.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes the command and returns its exit code and combined
// output. The command's timeout is raced against ctx and natural exit;
// whichever fires first wins, and the process is always terminated
// before Run returns on any non-success path.
//
// Error cases: *TimeoutError on timeout, ctx.Err() on external
// cancellation, and a wrapped launch error when the process could not
// start. A non-zero exit code is not an error; it is reported through
// Result.ExitCode.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	runCtx := ctx
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(runCtx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.WaitDelay = killGracePeriod

	// One buffer for both streams: os/exec serializes writes to a
	// shared writer, preserving arrival order.
	var output bytes.Buffer
	c.Stdout = &output
	c.Stderr = &output

	r.logger.Debugf("Executing: %s %v (dir: %s, timeout: %s)", cmd.Path, cmd.Args, cmd.Dir, cmd.Timeout)

	start := time.Now()
	err := c.Run()

	result := &Result{
		Output:  output.String(),
		Elapsed: time.Since(start),
	}
	if c.ProcessState != nil {
		result.ExitCode = c.ProcessState.ExitCode()
	}

	if err != nil {
		// External cancellation takes precedence over the timeout when
		// both contexts are done.
		if ctx.Err() != nil {
			r.logger.Debugf("Process cancelled after %s", result.Elapsed)
			return result, ctx.Err()
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			r.logger.Warnf("Process %s timed out after %s", cmd.Path, cmd.Timeout)
			return result, &TimeoutError{After: cmd.Timeout}
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// Command couldn't start at all (not found, permission denied)
			r.logger.Errorf("Failed to launch %s: %v", cmd.Path, err)
			return result, fmt.Errorf("failed to launch %s: %w", cmd.Path, err)
		}
		// Ran but exited non-zero: reported via ExitCode, not an error.
	}

	r.logger.Debugf("Process exited with code %d after %s (%d bytes of output)",
		result.ExitCode, result.Elapsed, len(result.Output))

	return result, nil
}
