// Package manifest owns the project's pyproject.toml. It detects whether the
// manifest exists, drives the package manager through init/add or install
// accordingly, and reads the fields forg cares about back out of the file.
// The interpreter version range is checked with semver before any process
// is started.
package manifest
