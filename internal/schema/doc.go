// Package schema validates the editor files forg writes against JSON Schemas
// embedded in the binary. The scaffold uses it on freshly rendered content;
// doctor uses it on files that may since have been edited by hand.
package schema
