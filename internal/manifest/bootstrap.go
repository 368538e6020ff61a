package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/forg-labs/forg/internal/runner"
	"github.com/rs/zerolog"
)

// FileName is the manifest the package manager reads and writes.
const FileName = "pyproject.toml"

// DevGroup is the dependency group development packages are added to.
const DevGroup = "dev"

// State is whether the manifest exists at the project root.
type State int

const (
	Absent State = iota
	Present
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case Present:
		return "present"
	case Absent:
		return "absent"
	default:
		return "unknown"
	}
}

// Detect stats the manifest under root.
func Detect(root string) (State, error) {
	path := filepath.Join(root, FileName)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Absent, nil
		}
		return Absent, fmt.Errorf("checking %s: %w", path, err)
	}
	if info.IsDir() {
		return Absent, fmt.Errorf("%s is a directory", path)
	}
	return Present, nil
}

// Bootstrapper declares or installs the project's dependencies through the
// package manager.
type Bootstrapper struct {
	Runner runner.Runner
	// Binary names the package manager in results the runner could not produce.
	Binary string
	// Python is the interpreter version range passed to init.
	Python string
	Prod   []string
	Dev    []string
	// Strict aborts on the first failed invocation instead of carrying on.
	Strict bool
	Log    zerolog.Logger
}

// Outcome records what the bootstrapper did.
type Outcome struct {
	State   State
	Results []*runner.Result
}

// Failures returns the invocations that did not succeed.
func (o *Outcome) Failures() []*runner.Result {
	var failed []*runner.Result
	for _, r := range o.Results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}

// StepError is returned in strict mode when an invocation fails.
type StepError struct {
	Result *runner.Result
}

func (e *StepError) Error() string {
	if e.Result.Err != nil {
		return fmt.Sprintf("%s: %v", e.Result.Command(), e.Result.Err)
	}
	return fmt.Sprintf("%s exited with status %d", e.Result.Command(), e.Result.ExitCode)
}

func (e *StepError) Unwrap() error { return e.Result.Err }

// Plan returns the argument lists run for state, in order.
func (b *Bootstrapper) Plan(state State, project string) [][]string {
	if state == Present {
		return [][]string{{"install"}}
	}

	steps := make([][]string, 0, 1+len(b.Prod)+len(b.Dev))
	steps = append(steps, []string{"init", "--name", project, "--python", b.Python})
	for _, dep := range b.Prod {
		steps = append(steps, []string{"add", dep})
	}
	for _, dep := range b.Dev {
		steps = append(steps, []string{"add", "--group", DevGroup, dep})
	}
	return steps
}

// Run checks the manifest once and executes the matching plan in root.
func (b *Bootstrapper) Run(ctx context.Context, root, project string) (*Outcome, error) {
	state, err := Detect(root)
	if err != nil {
		return nil, err
	}
	if state == Absent {
		if err := CheckPythonRange(b.Python); err != nil {
			return nil, err
		}
	}

	b.Log.Debug().Str("manifest", state.String()).Str("root", root).Msg("bootstrapping dependencies")

	outcome := &Outcome{State: state}
	for _, args := range b.Plan(state, project) {
		res := b.invoke(ctx, root, args)
		outcome.Results = append(outcome.Results, res)
		if !res.Failed() {
			continue
		}

		b.Log.Warn().Str("command", res.Command()).Int("exit_code", res.ExitCode).AnErr("error", res.Err).
			Msg("package manager step failed")
		if b.Strict {
			return outcome, &StepError{Result: res}
		}
	}
	return outcome, nil
}

// invoke folds start failures into the Result so every step is recorded.
func (b *Bootstrapper) invoke(ctx context.Context, root string, args []string) *runner.Result {
	res, err := b.Runner.Run(ctx, root, args...)
	if res == nil {
		full := args
		if b.Binary != "" {
			full = append([]string{b.Binary}, args...)
		}
		res = &runner.Result{Args: full, ExitCode: -1}
	}
	if err != nil {
		res.Err = err
		if res.ExitCode == 0 {
			res.ExitCode = -1
		}
	}
	return res
}
