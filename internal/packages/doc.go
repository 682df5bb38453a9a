// Package packages answers whether a widget provider package is installed
// and enabled, lists the widgets it offers, and delivers package change
// notifications to registered receivers.
//
// Receivers register with a Filter. Notifications are only triggers: the
// payload carries the action and package name and nothing else, so receivers
// re-query the Source to learn the new state.
//
// Two sources are provided. DirectorySource reads one YAML manifest per
// package from a directory and turns file changes into notifications.
// MemorySource keeps manifests in memory.
package packages
