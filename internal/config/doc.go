// Package config loads the smartspace configuration.
//
// Configuration is read from config.yaml in a single directory. The default
// directory is ~/.config/smartspace; commands accept --config-path to use
// another one. A missing config.yaml is not an error: the defaults describe
// the Google app smartspace widget on an unlocked admin session.
//
// # File Format
//
//	provider:
//	  package: com.google.android.googlequicksearchbox
//	  widgetClass: com.google.android.apps.gsa.staticplugins.smartspace.widget.SmartspaceWidgetProvider
//	  widgetKey: smartspaceWidget
//	host:
//	  hostId: 1028
//	  packagesDir: packages
//	  layoutsDir: layouts
//	  debounce: 200ms
//	  allowBind: true
//	session:
//	  admin: true
//	  unlocked: true
//	keyguard:
//	  dateTemplate: '{{ .Now | date "Mon, Jan 2" }}'
//	  nextAlarm: "Sun 07:00"
//	metrics:
//	  address: ":9090"
//
// Relative packagesDir and layoutsDir are resolved against the configuration
// directory.
//
// # Errors
//
// Read and parse failures are reported as ConfigurationError. Semantic
// problems are collected into ValidationErrors so that all of them can be
// reported at once.
package config
