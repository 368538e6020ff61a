package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner runs one package-manager command in dir.
type Runner interface {
	// Run returns an error only when the process could not be started.
	// A non-zero exit is reported through Result.ExitCode.
	Run(ctx context.Context, dir string, args ...string) (*Result, error)
}

// Result captures the outcome of one invocation.
type Result struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	// Err is set when the process never ran (binary missing, bad dir).
	Err error
}

// Failed reports whether the invocation did not complete successfully.
func (r *Result) Failed() bool {
	return r.Err != nil || r.ExitCode != 0
}

// Command returns the invocation as a single display string.
func (r *Result) Command() string {
	return strings.Join(r.Args, " ")
}

// ExecRunner runs Binary as a child process.
type ExecRunner struct {
	Binary string
	// Stdin, Stdout and Stderr default to the process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExec returns an ExecRunner for binary wired to the process streams.
func NewExec(binary string) *ExecRunner {
	return &ExecRunner{Binary: binary}
}

// Run executes `<Binary> args...` in dir and waits for it to exit.
func (e *ExecRunner) Run(ctx context.Context, dir string, args ...string) (*Result, error) {
	bin, err := exec.LookPath(e.Binary)
	if err != nil {
		return nil, fmt.Errorf("%s not found: %w", e.Binary, err)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir

	stdin := e.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := e.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := e.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdin = stdin
	cmd.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	err = cmd.Run()

	result := &Result{
		Args:   append([]string{e.Binary}, args...),
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("executing %s: %w", e.Binary, err)
	}
	return result, nil
}
