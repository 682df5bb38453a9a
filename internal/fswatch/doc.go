// Package fswatch watches a single directory of YAML documents and reports
// debounced per-document changes.
//
// It backs both the package catalog (one manifest per installed package) and
// the layout directory that drives provider redraws. Multiple rapid
// filesystem events for the same document are merged into a single Change
// (Create followed by Write stays Create, anything followed by Remove is
// Delete).
package fswatch
