// Package render turns a validated parameter record into the content of every
// file forg generates. Python sources are embedded text/template files;
// editor and scheduler files are returned as in-memory structures so the
// materialize package can serialise them as well-formed JSON and INI.
//
// Nothing in this package touches the filesystem or the environment.
package render
