package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forg-labs/forg/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"

	// AirflowHomeEnv is Airflow's own override for its home directory.
	AirflowHomeEnv = "AIRFLOW_HOME"
	// DefaultSchedulerDir is the Airflow home under $HOME when nothing overrides it.
	DefaultSchedulerDir = "airflow"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Settings is the resolved configuration for one run.
type Settings struct {
	PackageManager string       `mapstructure:"package_manager"`
	Python         string       `mapstructure:"python"`
	Dependencies   Dependencies `mapstructure:"dependencies"`
	Scheduler      Scheduler    `mapstructure:"scheduler"`
	Strict         bool         `mapstructure:"strict"`
	LogLevel       string       `mapstructure:"log_level"`
}

// Dependencies lists the requirement strings passed to the package manager's add command.
type Dependencies struct {
	Prod []string `mapstructure:"prod"`
	Dev  []string `mapstructure:"dev"`
}

// Scheduler holds settings for the global scheduler configuration.
type Scheduler struct {
	Home string `mapstructure:"home"`
}

// Dir returns the path to the forg config directory (~/.forg/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.forg/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// newViper builds a Viper instance layered as defaults < config file < env.
func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType(fileType)
	if err := v.ReadConfig(bytes.NewReader(defaultsYAML)); err != nil {
		return nil, fmt.Errorf("reading built-in defaults: %w", err)
	}

	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := FilePath()
	if _, err := os.Stat(configFile); err == nil {
		v.SetConfigFile(configFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}
	return v, nil
}

// Load resolves the settings for the current run.
func Load() (*Settings, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return &s, nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) (string, error) {
	v, err := newViper()
	if err != nil {
		return "", err
	}
	val := v.Get(key)
	if val == nil {
		return "", nil
	}
	if list, ok := val.([]interface{}); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ","), nil
	}
	return fmt.Sprint(val), nil
}

// Set writes a config key-value pair to ~/.forg/config.yaml. Only the user
// file is rewritten; built-in defaults are never copied into it.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType(fileType)

	if _, err := os.Stat(configFile); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	if strings.HasPrefix(key, "dependencies.") {
		v.Set(key, splitList(value))
	} else {
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// SchedulerHome returns the directory holding the global airflow.cfg.
// $AIRFLOW_HOME wins, then the scheduler.home setting, then ~/airflow.
// Relative values resolve against the working directory.
func (s *Settings) SchedulerHome() (string, error) {
	if v := os.Getenv(AirflowHomeEnv); v != "" {
		return absPath(v)
	}
	if s.Scheduler.Home != "" {
		expanded, err := expandHome(s.Scheduler.Home)
		if err != nil {
			return "", err
		}
		return absPath(expanded)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, DefaultSchedulerDir), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving scheduler home %s: %w", path, err)
	}
	return abs, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
