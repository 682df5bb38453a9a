// Package smartspace turns the rendered tree of a smartspace widget into
// lock-screen rows and keeps them up to date while the widget provider is
// available.
//
// Extract is a pure function over a widgethost.Node tree. It recognises two
// layouts: a flat one with a weather pair and a card, and a list based one
// where only the first list item is read. Reader drives the pipeline: it
// watches the provider package, subscribes to the headless widget while the
// package is enabled and publishes the extracted rows through a Publisher.
package smartspace
