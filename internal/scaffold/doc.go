// Package scaffold sequences one forg run: it lays out the project folders,
// bootstraps the Poetry manifest, writes the editor integration files and
// pipeline sources, and writes the machine-wide scheduler configuration the
// first time it is missing. Every step is safe to repeat; re-running inside
// an existing project regenerates the generated files and leaves everything
// else alone.
package scaffold
