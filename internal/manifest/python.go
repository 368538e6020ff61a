package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckPythonRange verifies that r is a version constraint the package
// manager will accept, e.g. ">=3.10,<3.13" or "^3.11".
func CheckPythonRange(r string) error {
	if strings.TrimSpace(r) == "" {
		return fmt.Errorf("python version range is empty")
	}
	if _, err := semver.NewConstraint(r); err != nil {
		return fmt.Errorf("invalid python version range %q: %w", r, err)
	}
	return nil
}

// PythonSatisfies reports whether an interpreter version such as "3.11.4"
// (or the "Python 3.11.4" banner) falls inside r.
func PythonSatisfies(r, version string) (bool, error) {
	c, err := semver.NewConstraint(r)
	if err != nil {
		return false, fmt.Errorf("invalid python version range %q: %w", r, err)
	}
	v, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(version), "Python "))
	if err != nil {
		return false, fmt.Errorf("parsing python version %q: %w", version, err)
	}
	return c.Check(v), nil
}
