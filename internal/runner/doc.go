// Package runner executes the external package manager. Each invocation is a
// blocking child process whose stdout and stderr stream through to the
// operator while also being captured into a Result, so callers can decide
// what a non-zero exit means instead of having it decided for them.
package runner
