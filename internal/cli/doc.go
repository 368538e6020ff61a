// Package cli defines the Cobra command tree for the forg CLI. Each file in
// this package registers one top-level command (init, doctor, config,
// version) with the root command. Commands only parse flags and format
// output; the work happens in the internal packages they call.
package cli
