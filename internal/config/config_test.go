package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.PackageManager != "poetry" {
		t.Errorf("PackageManager = %q, want %q", s.PackageManager, "poetry")
	}
	if s.Python != ">=3.10,<3.13" {
		t.Errorf("Python = %q, want %q", s.Python, ">=3.10,<3.13")
	}
	if len(s.Dependencies.Prod) == 0 || !strings.HasPrefix(s.Dependencies.Prod[0], "apache-airflow") {
		t.Errorf("Dependencies.Prod = %v, want apache-airflow first", s.Dependencies.Prod)
	}
	if len(s.Dependencies.Dev) == 0 {
		t.Error("Dependencies.Dev should not be empty")
	}
	if s.Strict {
		t.Error("Strict should default to false")
	}
}

func TestLoadUserFileOverridesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".forg")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "package_manager: /usr/local/bin/poetry\ndependencies:\n  dev:\n    - ruff\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.PackageManager != "/usr/local/bin/poetry" {
		t.Errorf("PackageManager = %q, want override", s.PackageManager)
	}
	if len(s.Dependencies.Dev) != 1 || s.Dependencies.Dev[0] != "ruff" {
		t.Errorf("Dependencies.Dev = %v, want [ruff]", s.Dependencies.Dev)
	}
	// Untouched keys keep their defaults.
	if s.Python != ">=3.10,<3.13" {
		t.Errorf("Python = %q, want default", s.Python)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FORG_STRICT", "true")
	t.Setenv("FORG_PYTHON", "^3.11")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !s.Strict {
		t.Error("Strict = false, want true from FORG_STRICT")
	}
	if s.Python != "^3.11" {
		t.Errorf("Python = %q, want %q", s.Python, "^3.11")
	}
}

func TestSetAndGet(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := Set("package_manager", "pdm"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := Get("package_manager")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "pdm" {
		t.Errorf("Get(package_manager) = %q, want %q", got, "pdm")
	}

	if err := Set("dependencies.dev", "pytest, mypy"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err = Get("dependencies.dev")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "pytest,mypy" {
		t.Errorf("Get(dependencies.dev) = %q, want %q", got, "pytest,mypy")
	}

	data, err := os.ReadFile(FilePath())
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	if strings.Contains(string(data), "log_level") {
		t.Errorf("user config should not contain built-in defaults:\n%s", data)
	}
}

func TestSchedulerHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Run("default under home", func(t *testing.T) {
		t.Setenv(AirflowHomeEnv, "")
		s := &Settings{}
		got, err := s.SchedulerHome()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(home, "airflow"); got != want {
			t.Errorf("SchedulerHome() = %q, want %q", got, want)
		}
	})

	t.Run("setting with tilde", func(t *testing.T) {
		t.Setenv(AirflowHomeEnv, "")
		s := &Settings{Scheduler: Scheduler{Home: "~/af"}}
		got, err := s.SchedulerHome()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(home, "af"); got != want {
			t.Errorf("SchedulerHome() = %q, want %q", got, want)
		}
	})

	t.Run("relative AIRFLOW_HOME is made absolute", func(t *testing.T) {
		wd := t.TempDir()
		chdir(t, wd)
		t.Setenv(AirflowHomeEnv, "af-home")
		got, err := (&Settings{}).SchedulerHome()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(wd, "af-home"); got != want {
			t.Errorf("SchedulerHome() = %q, want %q", got, want)
		}
	})

	t.Run("relative setting is made absolute", func(t *testing.T) {
		wd := t.TempDir()
		chdir(t, wd)
		t.Setenv(AirflowHomeEnv, "")
		got, err := (&Settings{Scheduler: Scheduler{Home: "af"}}).SchedulerHome()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(wd, "af"); got != want {
			t.Errorf("SchedulerHome() = %q, want %q", got, want)
		}
	})

	t.Run("AIRFLOW_HOME wins", func(t *testing.T) {
		t.Setenv(AirflowHomeEnv, "/srv/airflow")
		s := &Settings{Scheduler: Scheduler{Home: "~/af"}}
		got, err := s.SchedulerHome()
		if err != nil {
			t.Fatal(err)
		}
		if got != "/srv/airflow" {
			t.Errorf("SchedulerHome() = %q, want %q", got, "/srv/airflow")
		}
	})
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
