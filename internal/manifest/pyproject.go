package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Pyproject is the subset of pyproject.toml forg inspects. Both the PEP 621
// [project] table and the legacy [tool.poetry] table are understood.
type Pyproject struct {
	Project *ProjectTable `toml:"project"`
	Tool    ToolTable     `toml:"tool"`
}

// ProjectTable is the PEP 621 [project] table.
type ProjectTable struct {
	Name           string `toml:"name"`
	RequiresPython string `toml:"requires-python"`
}

// ToolTable is the [tool] table.
type ToolTable struct {
	Poetry *PoetryTable `toml:"poetry"`
}

// PoetryTable is the [tool.poetry] table.
type PoetryTable struct {
	Name         string                 `toml:"name"`
	Dependencies map[string]interface{} `toml:"dependencies"`
}

// ReadPyproject parses the manifest under root.
func ReadPyproject(root string) (*Pyproject, error) {
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var p Pyproject
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &p, nil
}

// Name returns the declared project name.
func (p *Pyproject) Name() string {
	if p.Project != nil && p.Project.Name != "" {
		return p.Project.Name
	}
	if p.Tool.Poetry != nil {
		return p.Tool.Poetry.Name
	}
	return ""
}

// PythonRange returns the declared interpreter constraint, if any.
func (p *Pyproject) PythonRange() string {
	if p.Project != nil && p.Project.RequiresPython != "" {
		return p.Project.RequiresPython
	}
	if p.Tool.Poetry != nil {
		if s, ok := p.Tool.Poetry.Dependencies["python"].(string); ok {
			return s
		}
	}
	return ""
}
