package checks

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// detailLines caps how much tool output a check carries into its result.
// Full output still reaches the run log through the command runner caller.
const detailLines = 20

// CommandRunner abstracts external tool execution for testability.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (output string, err error)
}

// ExecRunner executes real commands with combined stdout/stderr capture.
type ExecRunner struct {
	WorkDir string // Working directory for commands (empty = current dir)
}

// NewExecRunner creates a CommandRunner that executes real commands in the
// given working directory.
func NewExecRunner(workDir string) *ExecRunner {
	return &ExecRunner{WorkDir: workDir}
}

// Run executes the command and returns combined stdout/stderr. Arguments
// are passed directly, never through a shell, so file lists stay intact.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if r.WorkDir != "" {
		cmd.Dir = r.WorkDir
	}

	output, err := cmd.CombinedOutput()
	return string(output), err
}

// exited reports whether err is the tool exiting non-zero, as opposed to
// the tool failing to start at all.
func exited(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

// exitCode extracts the exit status from a command error.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

// notInstalled reports whether the command could not be found at all.
func notInstalled(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

// tail returns the last maxLines lines of input.
func tail(input string, maxLines int) string {
	if input == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(input, "\n"), "\n")
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-maxLines:], "\n")
}
