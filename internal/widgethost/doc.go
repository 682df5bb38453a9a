// Package widgethost describes the embedded-widget host that smartspace
// consumes, and ships an in-process implementation of it.
//
// The host side is split the same way the platform splits it:
//
//   - Host allocates widget ids, inflates views and toggles the global
//     listening mode in which provider redraws are delivered.
//   - Binder associates a provider with an allocated id and answers which
//     provider an id currently maps to.
//
// Rendered content is modelled as a tree of tagged nodes (see Node). The tree
// is deliberately small: text leaves, image leaves, list containers and plain
// containers are the only shapes the extraction heuristics look at.
//
// MemoryHost implements both Host and Binder in memory. LayoutWatcher feeds it
// from YAML layout files so that a provider's redraws can be driven from disk.
package widgethost
