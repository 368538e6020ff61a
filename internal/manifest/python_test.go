package manifest

import "testing"

func TestCheckPythonRange(t *testing.T) {
	valid := []string{">=3.10,<3.13", "^3.11", "~3.12", ">=3.9"}
	for _, r := range valid {
		if err := CheckPythonRange(r); err != nil {
			t.Errorf("CheckPythonRange(%q) error: %v", r, err)
		}
	}
	invalid := []string{"", "   ", "python3", ">=three"}
	for _, r := range invalid {
		if err := CheckPythonRange(r); err == nil {
			t.Errorf("CheckPythonRange(%q) = nil, want error", r)
		}
	}
}

func TestPythonSatisfies(t *testing.T) {
	tests := []struct {
		rng, version string
		want         bool
	}{
		{">=3.10,<3.13", "3.11.4", true},
		{">=3.10,<3.13", "Python 3.12.1", true},
		{">=3.10,<3.13", "3.13.0", false},
		{">=3.10,<3.13", "3.9.18", false},
		{"^3.11", "3.11.0", true},
	}
	for _, tt := range tests {
		got, err := PythonSatisfies(tt.rng, tt.version)
		if err != nil {
			t.Errorf("PythonSatisfies(%q, %q) error: %v", tt.rng, tt.version, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PythonSatisfies(%q, %q) = %v, want %v", tt.rng, tt.version, got, tt.want)
		}
	}

	if _, err := PythonSatisfies(">=3.10", "not-a-version"); err == nil {
		t.Error("expected error for unparseable version")
	}
}
