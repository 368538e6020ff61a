package render

// EditorSettings is the content of .vscode/settings.json. Field order is the
// order keys appear in the written file.
type EditorSettings struct {
	Python          LanguageSettings  `json:"[python]"`
	ImportFormat    string            `json:"python.analysis.importFormat"`
	ExtraPaths      []string          `json:"python.analysis.extraPaths"`
	PytestArgs      []string          `json:"python.testing.pytestArgs"`
	UnittestEnabled bool              `json:"python.testing.unittestEnabled"`
	PytestEnabled   bool              `json:"python.testing.pytestEnabled"`
	TerminalLinux   map[string]string `json:"terminal.integrated.env.linux,omitempty"`
	TerminalOSX     map[string]string `json:"terminal.integrated.env.osx,omitempty"`
	TerminalWindows map[string]string `json:"terminal.integrated.env.windows,omitempty"`
}

// LanguageSettings holds the per-language block of the settings file.
type LanguageSettings struct {
	DefaultFormatter string `json:"editor.defaultFormatter"`
}

// EditorLaunch is the content of .vscode/launch.json.
type EditorLaunch struct {
	Version        string         `json:"version"`
	Configurations []LaunchConfig `json:"configurations"`
}

// LaunchConfig is one debugger entry.
type LaunchConfig struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Request    string `json:"request"`
	Module     string `json:"module"`
	Console    string `json:"console"`
	JustMyCode bool   `json:"justMyCode"`
}

// DagsFolderEnv is the Airflow setting bound to the pipelines folder in the
// editor terminal.
const DagsFolderEnv = "AIRFLOW__CORE__DAGS_FOLDER"

// currentFileModule is resolved by the editor when a debug session starts.
const currentFileModule = "${fileBasenameNoExtension}"

// Settings renders the editor settings for p.
func Settings(p Params) (*EditorSettings, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	env := map[string]string{DagsFolderEnv: p.PipelinesPath}
	s := &EditorSettings{
		Python:          LanguageSettings{DefaultFormatter: "ms-python.black-formatter"},
		ImportFormat:    "absolute",
		ExtraPaths:      []string{p.Root, p.PipelinesPath},
		PytestArgs:      []string{TestsDir},
		UnittestEnabled: false,
		PytestEnabled:   true,
	}
	switch p.EnvOS {
	case "osx":
		s.TerminalOSX = env
	case "windows":
		s.TerminalWindows = env
	default:
		s.TerminalLinux = env
	}
	return s, nil
}

// Launch renders the editor launch configuration for p.
func Launch(p Params) (*EditorLaunch, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &EditorLaunch{
		Version: "0.2.0",
		Configurations: []LaunchConfig{{
			Name:       "Python: Current Module",
			Type:       "debugpy",
			Request:    "launch",
			Module:     p.ProjectName + "." + currentFileModule,
			Console:    "integratedTerminal",
			JustMyCode: false,
		}},
	}, nil
}
