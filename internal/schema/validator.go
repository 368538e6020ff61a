package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// Kind selects which schema a document is checked against.
type Kind string

const (
	Settings Kind = "settings"
	Launch   Kind = "launch"
)

var kinds = []Kind{Settings, Launch}

var (
	compiled    map[Kind]*jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
	printer     = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue represents a single validation error from the schema.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/configurations/0/request")
	Message string // Human-readable error message
	Keyword string // Schema keyword that failed
}

// String formats the issue as "path: message".
func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// getSchema compiles the embedded schemas once and returns the one for kind.
func getSchema(kind Kind) (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		for _, k := range kinds {
			name := string(k) + ".schema.json"
			raw, err := schemaFS.ReadFile("schemas/" + name)
			if err != nil {
				compileErr = fmt.Errorf("reading schema %s: %w", name, err)
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
			if err != nil {
				compileErr = fmt.Errorf("unmarshaling schema %s: %w", name, err)
				return
			}
			if err := c.AddResource(name, doc); err != nil {
				compileErr = fmt.Errorf("adding schema resource %s: %w", name, err)
				return
			}
		}

		compiled = make(map[Kind]*jsonschema.Schema, len(kinds))
		for _, k := range kinds {
			s, err := c.Compile(string(k) + ".schema.json")
			if err != nil {
				compileErr = fmt.Errorf("compiling schema %s: %w", k, err)
				return
			}
			compiled[k] = s
		}
	})
	if compileErr != nil {
		return nil, compileErr
	}
	s, ok := compiled[kind]
	if !ok {
		return nil, fmt.Errorf("unknown schema kind %q", kind)
	}
	return s, nil
}

// Validate validates raw JSON bytes against the schema for kind.
// The error return is for malformed input or schema compilation failures.
// Validation issues are returned in the ValidationResult.
func Validate(kind Kind, data []byte) (*ValidationResult, error) {
	schema, err := getSchema(kind)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	return &ValidationResult{
		Valid:  false,
		Issues: extractIssues(validationErr),
	}, nil
}

// ValidateValue marshals v to JSON and validates it against the schema for kind.
func ValidateValue(kind Kind, v interface{}) (*ValidationResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	return Validate(kind, data)
}

// extractIssues flattens a validation failure of settings.json or
// launch.json into one issue per offending key. The result is ordered as the
// validator reported it and contains no duplicates.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	seen := make(map[ValidationIssue]bool)
	var issues []ValidationIssue
	for _, leaf := range leaves(ve, nil) {
		issue, ok := toIssue(leaf)
		if !ok || seen[issue] {
			continue
		}
		seen[issue] = true
		issues = append(issues, issue)
	}
	if len(issues) == 0 {
		return []ValidationIssue{{Message: ve.Error()}}
	}
	return issues
}

// leaves appends the errors of ve that have no causes.
func leaves(ve *jsonschema.ValidationError, acc []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return append(acc, ve)
	}
	for _, cause := range ve.Causes {
		acc = leaves(cause, acc)
	}
	return acc
}

// toIssue converts a leaf error. Editor keys contain dots, so the path keeps
// the JSON pointer form ("/python.testing.pytestArgs") rather than a dotted one.
// $ref and allOf leaves only say that a branch failed and are dropped.
func toIssue(leaf *jsonschema.ValidationError) (ValidationIssue, bool) {
	if leaf.ErrorKind == nil {
		return ValidationIssue{}, false
	}
	kwPath := leaf.ErrorKind.KeywordPath()
	if len(kwPath) == 0 {
		return ValidationIssue{}, false
	}
	keyword := kwPath[len(kwPath)-1]
	if keyword == "allOf" || keyword == "$ref" {
		return ValidationIssue{}, false
	}

	var path string
	if len(leaf.InstanceLocation) > 0 {
		path = "/" + strings.Join(leaf.InstanceLocation, "/")
	}
	return ValidationIssue{
		Path:    path,
		Message: leaf.ErrorKind.LocalizedString(printer),
		Keyword: keyword,
	}, true
}
