package render

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Fixed names of the generated layout.
const (
	PipelinesDir = "dags"
	TestsDir     = "tests"
	Platform     = "airflow"
)

// Params is the closed set of values substituted into templates.
type Params struct {
	ProjectName   string `validate:"required,pyident,unreserved"`
	PipelinesDir  string `validate:"required,pyident"`
	Platform      string `validate:"required,pyident"`
	Root          string `validate:"required,abspath"`
	PipelinesPath string `validate:"required,abspath"`
	EnvOS         string `validate:"oneof=linux osx windows"`
}

// NewParams derives the parameter record for a project rooted at root.
// root must already be absolute; goos selects the editor terminal key.
func NewParams(root, goos string) Params {
	return Params{
		ProjectName:   filepath.Base(root),
		PipelinesDir:  PipelinesDir,
		Platform:      Platform,
		Root:          root,
		PipelinesPath: filepath.Join(root, PipelinesDir),
		EnvOS:         EnvOS(goos),
	}
}

// EnvOS maps a GOOS value to the suffix VS Code uses for terminal env keys.
func EnvOS(goos string) string {
	switch goos {
	case "darwin":
		return "osx"
	case "windows":
		return "windows"
	default:
		return "linux"
	}
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true, "assert": true,
	"async": true, "await": true, "break": true, "class": true, "continue": true,
	"def": true, "del": true, "elif": true, "else": true, "except": true,
	"finally": true, "for": true, "from": true, "global": true, "if": true,
	"import": true, "in": true, "is": true, "lambda": true, "nonlocal": true,
	"not": true, "or": true, "pass": true, "raise": true, "return": true,
	"try": true, "while": true, "with": true, "yield": true,
}

// reservedNames would shadow a generated module, the pipelines folder or the
// platform package on the editor's import path.
var reservedNames = map[string]bool{
	string(TemplateUtil):        true,
	string(TemplateDefaultArgs): true,
	PipelinesDir:                true,
	TestsDir:                    true,
	Platform:                    true,
}

// IsReserved reports whether s cannot be used as a project name because it
// collides with a generated module or folder.
func IsReserved(s string) bool {
	return reservedNames[s]
}

// IsIdentifier reports whether s can be used as a Python module name.
func IsIdentifier(s string) bool {
	return identPattern.MatchString(s) && !pythonKeywords[s]
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("pyident", func(fl validator.FieldLevel) bool {
		return IsIdentifier(fl.Field().String())
	})
	_ = v.RegisterValidation("unreserved", func(fl validator.FieldLevel) bool {
		return !IsReserved(fl.Field().String())
	})
	_ = v.RegisterValidation("abspath", func(fl validator.FieldLevel) bool {
		return filepath.IsAbs(fl.Field().String())
	})
	return v
}

// Validate checks every field of the record.
func (p Params) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validating template parameters: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid template parameters: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "pyident":
		return fmt.Sprintf("%s %q is not a valid Python identifier", fe.Field(), fe.Value())
	case "unreserved":
		return fmt.Sprintf("%s %q collides with a generated module or folder", fe.Field(), fe.Value())
	case "abspath":
		return fmt.Sprintf("%s %q is not an absolute path", fe.Field(), fe.Value())
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s %q failed %s", fe.Field(), fe.Value(), fe.Tag())
	}
}
