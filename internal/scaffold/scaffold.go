package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"

	"github.com/forg-labs/forg/internal/config"
	"github.com/forg-labs/forg/internal/manifest"
	"github.com/forg-labs/forg/internal/materialize"
	"github.com/forg-labs/forg/internal/ports"
	"github.com/forg-labs/forg/internal/render"
	"github.com/forg-labs/forg/internal/runner"
	"github.com/forg-labs/forg/internal/schema"
	"github.com/rs/zerolog"
)

// Folder names created under the project root, besides the package folder.
const (
	EditorDir = ".vscode"
	DataDir   = "data"
)

// Editor file names inside EditorDir.
const (
	SettingsFile = "settings.json"
	LaunchFile   = "launch.json"
)

// InitFile marks the project folder as a Python package.
const InitFile = "__init__.py"

// Project identifies the project being scaffolded.
type Project struct {
	Root string
	Name string
}

// NewProject resolves root to an absolute path and derives the project name
// from its last segment. The name must be usable as a Python module name.
func NewProject(root string) (Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Project{}, fmt.Errorf("resolving project root %s: %w", root, err)
	}
	name := filepath.Base(abs)
	if !render.IsIdentifier(name) {
		return Project{}, fmt.Errorf("project name %q (from %s) is not a valid Python identifier; rename the directory, e.g. %q",
			name, abs, suggestName(name))
	}
	if render.IsReserved(name) || name == DataDir {
		return Project{}, fmt.Errorf("project name %q (from %s) collides with a generated module or folder; rename the directory, e.g. %q",
			name, abs, name+"_project")
	}
	return Project{Root: abs, Name: name}, nil
}

// Folders returns the project folders in creation order.
func (p Project) Folders() []string {
	return []string{EditorDir, render.PipelinesDir, p.Name, DataDir, render.TestsDir}
}

// Options configures a run.
type Options struct {
	// Root is the project directory. It is created when missing.
	Root     string
	Settings *config.Settings
	Runner   runner.Runner
	Ports    ports.Provider
	// SchedulerHome overrides Settings.SchedulerHome when set.
	SchedulerHome string
	// GOOS selects the editor terminal env key. Defaults to runtime.GOOS.
	GOOS string
	Out  io.Writer
	Log  zerolog.Logger
}

// Result summarises what a run produced.
type Result struct {
	Project Project
	// Files lists the regenerated project files, slash-separated and
	// relative to the project root.
	Files    []string
	Manifest *manifest.Outcome
	// SchedulerConfig is the absolute path of the scheduler configuration
	// and SchedulerWritten reports whether this run created it.
	SchedulerConfig  string
	SchedulerWritten bool
	Warnings         []string
}

// Run scaffolds the project described by opts. A filesystem error stops the
// run at the failing step; earlier steps are not undone.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Settings == nil {
		return nil, errors.New("scaffold: settings are required")
	}
	if opts.Runner == nil {
		return nil, errors.New("scaffold: runner is required")
	}
	if opts.Ports == nil {
		return nil, errors.New("scaffold: port provider is required")
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	project, err := NewProject(opts.Root)
	if err != nil {
		return nil, err
	}
	params := render.NewParams(project.Root, goos)
	if err := params.Validate(); err != nil {
		return nil, err
	}

	schedulerHome := opts.SchedulerHome
	if schedulerHome == "" {
		if schedulerHome, err = opts.Settings.SchedulerHome(); err != nil {
			return nil, err
		}
	}

	log := opts.Log.With().Str("project", project.Name).Logger()
	m := materialize.New(out, log)
	result := &Result{Project: project}

	fmt.Fprintf(out, "Scaffolding %s in %s\n", project.Name, project.Root)

	fmt.Fprintln(out, "Folders:")
	if err := ensureLayout(m, project); err != nil {
		return result, err
	}

	fmt.Fprintf(out, "Dependencies (%s):\n", opts.Settings.PackageManager)
	if err := bootstrap(ctx, opts, log, project, result); err != nil {
		return result, err
	}

	fmt.Fprintln(out, "Editor:")
	if err := writeEditorFiles(m, params, result); err != nil {
		return result, err
	}

	fmt.Fprintln(out, "Sources:")
	if err := writeSources(m, params, result); err != nil {
		return result, err
	}

	fmt.Fprintln(out, "Scheduler:")
	if err := writeSchedulerConfig(ctx, m, opts.Ports, schedulerHome, result); err != nil {
		return result, err
	}

	log.Info().Int("files", len(result.Files)).Int("warnings", len(result.Warnings)).
		Bool("scheduler_written", result.SchedulerWritten).Msg("scaffold complete")
	fmt.Fprintf(out, "Project %s is ready.\n", project.Name)
	return result, nil
}

func ensureLayout(m *materialize.Materializer, project Project) error {
	if err := m.EnsureDirectory(project.Root); err != nil {
		return err
	}
	for _, dir := range project.Folders() {
		if err := m.EnsureDirectory(filepath.Join(project.Root, dir)); err != nil {
			return err
		}
	}
	return m.EnsureFile(filepath.Join(project.Root, project.Name, InitFile))
}

func bootstrap(ctx context.Context, opts Options, log zerolog.Logger, project Project, result *Result) error {
	b := &manifest.Bootstrapper{
		Runner: opts.Runner,
		Binary: opts.Settings.PackageManager,
		Python: opts.Settings.Python,
		Prod:   opts.Settings.Dependencies.Prod,
		Dev:    opts.Settings.Dependencies.Dev,
		Strict: opts.Settings.Strict,
		Log:    log,
	}
	outcome, err := b.Run(ctx, project.Root, project.Name)
	result.Manifest = outcome
	if outcome != nil {
		for _, res := range outcome.Failures() {
			result.Warnings = append(result.Warnings, (&manifest.StepError{Result: res}).Error())
		}
	}
	if err != nil {
		return fmt.Errorf("bootstrapping %s: %w", manifest.FileName, err)
	}
	return nil
}

func writeEditorFiles(m *materialize.Materializer, p render.Params, result *Result) error {
	launch, err := render.Launch(p)
	if err != nil {
		return err
	}
	settings, err := render.Settings(p)
	if err != nil {
		return err
	}

	files := []struct {
		name  string
		kind  schema.Kind
		value interface{}
	}{
		{LaunchFile, schema.Launch, launch},
		{SettingsFile, schema.Settings, settings},
	}
	for _, f := range files {
		rel := path.Join(EditorDir, f.name)
		if err := m.WriteStructured(filepath.Join(p.Root, filepath.FromSlash(rel)), f.value); err != nil {
			return err
		}
		result.Files = append(result.Files, rel)
		result.Warnings = append(result.Warnings, schemaWarnings(rel, f.kind, f.value)...)
	}
	return nil
}

func schemaWarnings(rel string, kind schema.Kind, v interface{}) []string {
	res, err := schema.ValidateValue(kind, v)
	if err != nil {
		return []string{fmt.Sprintf("%s: could not validate: %v", rel, err)}
	}
	var warnings []string
	for _, issue := range res.Issues {
		warnings = append(warnings, rel+": "+issue.String())
	}
	return warnings
}

func writeSources(m *materialize.Materializer, p render.Params, result *Result) error {
	for _, id := range render.SourceTemplates {
		text, err := render.Render(id, p)
		if err != nil {
			return err
		}
		rel := render.Destination(id, p)
		if err := m.WriteText(filepath.Join(p.Root, filepath.FromSlash(rel)), text); err != nil {
			return err
		}
		result.Files = append(result.Files, rel)
	}
	return nil
}

// writeSchedulerConfig writes the scheduler file only when it is missing, so
// the port provider is consulted at most once per machine.
func writeSchedulerConfig(ctx context.Context, m *materialize.Materializer, provider ports.Provider, home string, result *Result) error {
	if err := m.EnsureDirectory(home); err != nil {
		return err
	}
	cfgPath := filepath.Join(home, render.SchedulerFile)
	result.SchedulerConfig = cfgPath

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Fprintf(m.W, "  [SKIP] %s already exists\n", cfgPath)
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	sp, err := provider.Ports(ctx)
	if err != nil {
		return fmt.Errorf("reading scheduler ports: %w", err)
	}
	f, err := render.SchedulerConfig(sp)
	if err != nil {
		return err
	}
	if err := m.WriteINI(cfgPath, f); err != nil {
		return err
	}
	result.SchedulerWritten = true
	return nil
}

// suggestName maps characters that are invalid in identifiers to underscores.
func suggestName(name string) string {
	out := []rune(name)
	for i, r := range out {
		isAlnum := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum {
			out[i] = '_'
		}
	}
	s := string(out)
	if s == "" || (s[0] >= '0' && s[0] <= '9') || !render.IsIdentifier(s) {
		s = "_" + s
	}
	return s
}
