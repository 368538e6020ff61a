package render

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var sources = template.Must(
	template.New("sources").Option("missingkey=error").ParseFS(templateFS, "templates/*.tmpl"),
)

// TemplateID names one of the embedded source templates.
type TemplateID string

const (
	TemplateUtil        TemplateID = "util"
	TemplateDefaultArgs TemplateID = "default_args"
	TemplatePipeline    TemplateID = "pipeline"
)

// SourceTemplates lists the text templates in the order they are written.
var SourceTemplates = []TemplateID{TemplateUtil, TemplateDefaultArgs, TemplatePipeline}

// TaskRequirements is installed into the isolated environment of the
// generated pipeline task.
var TaskRequirements = []string{"pandas", "pyarrow"}

type sourceData struct {
	Params
	TaskRequirements []string
}

// Render executes the source template id with p.
func Render(id TemplateID, p Params) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	tmpl := sources.Lookup(string(id) + ".py.tmpl")
	if tmpl == nil {
		return "", fmt.Errorf("unknown template %q", id)
	}

	var buf bytes.Buffer
	data := sourceData{Params: p, TaskRequirements: TaskRequirements}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", id, err)
	}
	return buf.String(), nil
}

// Destination returns the slash-separated path of the rendered file relative
// to the project root.
func Destination(id TemplateID, p Params) string {
	switch id {
	case TemplatePipeline:
		return path.Join(p.PipelinesDir, p.ProjectName+"_dag.py")
	default:
		return path.Join(p.PipelinesDir, string(id)+".py")
	}
}

// Util renders the stage helper module.
func Util(p Params) (string, error) { return Render(TemplateUtil, p) }

// DefaultArgs renders the shared DAG default arguments module.
func DefaultArgs(p Params) (string, error) { return Render(TemplateDefaultArgs, p) }

// Pipeline renders the DAG skeleton for the project.
func Pipeline(p Params) (string, error) { return Render(TemplatePipeline, p) }
