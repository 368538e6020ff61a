// Package runnertest provides a Runner that records invocations instead of
// starting processes.
package runnertest

import (
	"context"
	"strings"
	"sync"

	"github.com/forg-labs/forg/internal/runner"
)

// Call is one recorded invocation.
type Call struct {
	Dir  string
	Args []string
}

// Recorder implements runner.Runner in memory.
type Recorder struct {
	mu    sync.Mutex
	Calls []Call
	// ExitCodes maps a joined argument string (e.g. "add pandas") to the exit
	// code reported for it. Unlisted invocations exit 0.
	ExitCodes map[string]int
	// StartErr, when set, is returned for every invocation.
	StartErr error
}

// Run records the call.
func (r *Recorder) Run(_ context.Context, dir string, args ...string) (*runner.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls = append(r.Calls, Call{Dir: dir, Args: append([]string(nil), args...)})
	if r.StartErr != nil {
		return nil, r.StartErr
	}
	return &runner.Result{
		Args:     append([]string{"fake"}, args...),
		ExitCode: r.ExitCodes[strings.Join(args, " ")],
	}, nil
}

// Commands returns each recorded call's arguments joined by spaces.
func (r *Recorder) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = strings.Join(c.Args, " ")
	}
	return out
}
