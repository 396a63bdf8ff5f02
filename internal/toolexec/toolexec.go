// Package toolexec runs the external media tools (ffprobe, ffmpeg) and maps
// their failures onto typed errors.
//
// Both tools are invoked in quiet mode, so anything they write to stderr is a
// diagnostic. A run that produces stderr output fails with
// [ExternalToolError] even when the exit status is zero.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result holds the captured output of a single tool invocation.
type Result struct {
	Stdout   []byte
	Stderr   string
	ExitCode int
}

// ToolNotFoundError is returned when the tool binary cannot be located or
// started.
type ToolNotFoundError struct {
	Tool string
	Err  error
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Tool, e.Err)
}

func (e *ToolNotFoundError) Unwrap() error { return e.Err }

// ExternalToolError is returned when the tool reported diagnostics or exited
// with a non-zero status.
type ExternalToolError struct {
	Tool     string
	Message  string
	ExitCode int
	Err      error
}

func (e *ExternalToolError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.ExitCode != 0 {
		return fmt.Sprintf("%s failed (exit %d): %s", e.Tool, e.ExitCode, msg)
	}
	return fmt.Sprintf("%s failed: %s", e.Tool, msg)
}

func (e *ExternalToolError) Unwrap() error { return e.Err }

// IsToolNotFound reports whether err carries a [ToolNotFoundError].
func IsToolNotFound(err error) bool {
	var e *ToolNotFoundError
	return errors.As(err, &e)
}

// waitDelay bounds how long Wait keeps draining pipes after the process has
// been killed; a grandchild holding stderr open must not hang the worker.
const waitDelay = 5 * time.Second

// LookPath resolves bin like the shell would and reports a missing binary as
// a [ToolNotFoundError].
func LookPath(bin string) error {
	if _, err := exec.LookPath(bin); err != nil {
		return &ToolNotFoundError{Tool: bin, Err: err}
	}
	return nil
}

// Runner executes one tool binary. The zero Timeout means no per-call limit.
type Runner struct {
	Bin     string
	Timeout time.Duration
}

// Run starts bin with args, waits for it, and returns its captured output.
// Cancelling ctx (or hitting the timeout) kills the process.
func (r Runner) Run(ctx context.Context, args ...string) (*Result, error) {
	if err := LookPath(r.Bin); err != nil {
		return nil, err
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.Bin, args...)
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.String(),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return res, &ToolNotFoundError{Tool: r.Bin, Err: err}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return res, &ExternalToolError{Tool: r.Bin, Message: res.Stderr, ExitCode: res.ExitCode, Err: err}
	}
	if strings.TrimSpace(res.Stderr) != "" {
		return res, &ExternalToolError{Tool: r.Bin, Message: res.Stderr}
	}
	return res, nil
}
