// Package doctor inspects a scaffolded project and the machine it runs on and
// reports each finding as an [ OK ], [WARN] or [MISS] line.
package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/forg-labs/forg/internal/config"
	"github.com/forg-labs/forg/internal/manifest"
	"github.com/forg-labs/forg/internal/render"
	"github.com/forg-labs/forg/internal/runner"
	"github.com/forg-labs/forg/internal/scaffold"
	"github.com/forg-labs/forg/internal/schema"
	"github.com/go-ini/ini"
	"github.com/tidwall/jsonc"
)

// PythonBinary is the interpreter whose version is checked.
const PythonBinary = "python3"

// Options configures a check run.
type Options struct {
	Root          string
	Settings      *config.Settings
	SchedulerHome string
	// LookPath defaults to exec.LookPath.
	LookPath func(string) (string, error)
	// Python runs the interpreter. Defaults to a silent ExecRunner for PythonBinary.
	Python runner.Runner
}

// Report tallies the findings.
type Report struct {
	OK    int
	Warn  int
	Miss  int
	lines io.Writer
}

// Healthy reports whether nothing was missing or wrong.
func (r *Report) Healthy() bool {
	return r.Warn == 0 && r.Miss == 0
}

func (r *Report) ok(format string, args ...interface{}) {
	r.OK++
	fmt.Fprintf(r.lines, "  [ OK ] "+format+"\n", args...)
}

func (r *Report) warn(format string, args ...interface{}) {
	r.Warn++
	fmt.Fprintf(r.lines, "  [WARN] "+format+"\n", args...)
}

func (r *Report) miss(format string, args ...interface{}) {
	r.Miss++
	fmt.Fprintf(r.lines, "  [MISS] "+format+"\n", args...)
}

// Run performs every check and writes the findings to w.
func Run(ctx context.Context, w io.Writer, opts Options) (*Report, error) {
	if opts.Settings == nil {
		return nil, errors.New("doctor: settings are required")
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Python == nil {
		opts.Python = &runner.ExecRunner{
			Binary: PythonBinary,
			Stdin:  strings.NewReader(""),
			Stdout: io.Discard,
			Stderr: io.Discard,
		}
	}

	project, err := scaffold.NewProject(opts.Root)
	if err != nil {
		return nil, err
	}
	home := opts.SchedulerHome
	if home == "" {
		if home, err = opts.Settings.SchedulerHome(); err != nil {
			return nil, err
		}
	}

	r := &Report{lines: w}

	fmt.Fprintln(w, "Tools:")
	checkTools(ctx, r, opts, project.Root)

	fmt.Fprintf(w, "Project %s:\n", project.Name)
	checkManifest(r, project)
	checkFolders(r, project)

	fmt.Fprintln(w, "Editor:")
	checkEditorFile(r, filepath.Join(project.Root, scaffold.EditorDir, scaffold.SettingsFile), schema.Settings)
	checkEditorFile(r, filepath.Join(project.Root, scaffold.EditorDir, scaffold.LaunchFile), schema.Launch)

	fmt.Fprintln(w, "Scheduler:")
	checkSchedulerConfig(r, filepath.Join(home, render.SchedulerFile))

	return r, nil
}

func checkTools(ctx context.Context, r *Report, opts Options, root string) {
	pm := opts.Settings.PackageManager
	if path, err := opts.LookPath(pm); err != nil {
		r.miss("%s not found on PATH", pm)
	} else {
		r.ok("%s found at %s", pm, path)
	}

	res, err := opts.Python.Run(ctx, root, "--version")
	if err != nil {
		r.miss("%s not found: %v", PythonBinary, err)
		return
	}
	if res.Failed() {
		r.warn("%s --version exited with status %d", PythonBinary, res.ExitCode)
		return
	}
	version := strings.TrimSpace(res.Stdout)
	if version == "" {
		version = strings.TrimSpace(res.Stderr)
	}
	ok, err := manifest.PythonSatisfies(opts.Settings.Python, version)
	switch {
	case err != nil:
		r.warn("cannot compare %q with %s: %v", version, opts.Settings.Python, err)
	case !ok:
		r.warn("%s does not satisfy %s", version, opts.Settings.Python)
	default:
		r.ok("%s satisfies %s", version, opts.Settings.Python)
	}
}

func checkManifest(r *Report, project scaffold.Project) {
	path := filepath.Join(project.Root, manifest.FileName)
	py, err := manifest.ReadPyproject(project.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.miss("%s does not exist", path)
			return
		}
		r.warn("%v", err)
		return
	}
	// Poetry normalises names, so orders_etl and orders-etl are equivalent.
	name := py.Name()
	if normalizeName(name) != normalizeName(project.Name) {
		r.warn("%s names project %q (expected %q)", path, name, project.Name)
		return
	}
	if rng := py.PythonRange(); rng != "" {
		r.ok("%s declares %s (python %s)", path, name, rng)
		return
	}
	r.ok("%s declares %s", path, name)
}

func checkFolders(r *Report, project scaffold.Project) {
	for _, dir := range project.Folders() {
		path := filepath.Join(project.Root, dir)
		info, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			r.miss("%s does not exist", path)
		case err != nil:
			r.warn("%s: %v", path, err)
		case !info.IsDir():
			r.warn("%s exists but is not a directory", path)
		default:
			r.ok("%s exists", path)
		}
	}
	initPath := filepath.Join(project.Root, project.Name, scaffold.InitFile)
	if _, err := os.Stat(initPath); err != nil {
		r.miss("%s does not exist", initPath)
	}
}

// checkEditorFile reads the file the way VS Code does: comments and trailing
// commas are allowed.
func checkEditorFile(r *Report, path string, kind schema.Kind) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.miss("%s does not exist", path)
			return
		}
		r.warn("%s: %v", path, err)
		return
	}

	clean := jsonc.ToJSON(data)
	if !json.Valid(clean) {
		r.warn("%s is not valid JSON", path)
		return
	}
	res, err := schema.Validate(kind, clean)
	if err != nil {
		r.warn("%s: %v", path, err)
		return
	}
	if !res.Valid {
		for _, issue := range res.Issues {
			r.warn("%s: %s", path, issue)
		}
		return
	}
	r.ok("%s is valid", path)
}

func checkSchedulerConfig(r *Report, path string) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		r.miss("%s does not exist (run forg init)", path)
		return
	}
	cfg, err := ini.Load(path)
	if err != nil {
		r.warn("parsing %s: %v", path, err)
		return
	}
	r.ok("%s exists", path)

	ports := []struct{ section, key string }{
		{"webserver", "web_server_port"},
		{"logging", "worker_log_server_port"},
	}
	for _, p := range ports {
		v := cfg.Section(p.section).Key(p.key).String()
		if v == "" {
			r.miss("[%s] %s is not set", p.section, p.key)
			continue
		}
		r.ok("[%s] %s = %s", p.section, p.key, v)
	}
}

func normalizeName(s string) string {
	return strings.ToLower(strings.NewReplacer("-", "_", ".", "_").Replace(s))
}
