package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"testing"
)

func TestExecRunner_MissingBinary(t *testing.T) {
	r := &ExecRunner{Binary: "forg-definitely-not-installed"}
	_, err := r.Run(context.Background(), t.TempDir(), "install")
	if err == nil {
		t.Fatal("expected error for missing binary, got nil")
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("error should wrap exec.ErrNotFound, got: %v", err)
	}
}

func TestExecRunner_CapturesOutputAndExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	var stdout, stderr bytes.Buffer
	r := &ExecRunner{Binary: "sh", Stdin: strings.NewReader(""), Stdout: &stdout, Stderr: &stderr}

	res, err := r.Run(context.Background(), t.TempDir(), "-c", "echo hello; echo oops >&2; exit 3")
	if err != nil {
		t.Fatalf("unexpected error (non-zero exit should not be an error): %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if !res.Failed() {
		t.Error("Failed() = false, want true")
	}
	if strings.TrimSpace(res.Stdout) != "hello" {
		t.Errorf("captured Stdout = %q", res.Stdout)
	}
	if strings.TrimSpace(res.Stderr) != "oops" {
		t.Errorf("captured Stderr = %q", res.Stderr)
	}
	// Output is also streamed through.
	if strings.TrimSpace(stdout.String()) != "hello" {
		t.Errorf("streamed stdout = %q", stdout.String())
	}
	if res.Command() != "sh -c echo hello; echo oops >&2; exit 3" {
		t.Errorf("Command() = %q", res.Command())
	}
}

func TestExecRunner_RunsInDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses pwd")
	}
	if _, err := exec.LookPath("pwd"); err != nil {
		t.Skip("pwd not available")
	}
	dir := t.TempDir()
	r := &ExecRunner{Binary: "pwd", Stdin: strings.NewReader(""), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	res, err := r.Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed() {
		t.Fatalf("pwd failed: %+v", res)
	}
	if !strings.HasSuffix(strings.TrimSpace(res.Stdout), strings.TrimPrefix(dir, "/private")) {
		t.Errorf("pwd = %q, want %q", res.Stdout, dir)
	}
}

func TestResultFailed(t *testing.T) {
	tests := []struct {
		name string
		r    Result
		want bool
	}{
		{"success", Result{}, false},
		{"non-zero exit", Result{ExitCode: 1}, true},
		{"start error", Result{Err: errors.New("boom")}, true},
	}
	for _, tt := range tests {
		if got := tt.r.Failed(); got != tt.want {
			t.Errorf("%s: Failed() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
