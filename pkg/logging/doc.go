// Package logging provides subsystem-tagged structured logging for smartspace.
//
// The package is a thin layer over Go's log/slog. Every entry carries a
// subsystem attribute so that the headless widget manager, the smartspace
// reader and the keyguard slice provider can be filtered independently.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stdout)
//
//	logging.Info("SmartspaceReader", "started update job")
//	logging.Debug("HeadlessWidgets", "binding %s", widget)
//	logging.Error("KeyguardSlice", err, "Could not build slice")
//
// Verbose dumps that are costly to format should be guarded:
//
//	if logging.IsDebugEnabled() {
//	    logging.Debug("SmartspaceReader", "texts=%d images=%d", len(texts), len(images))
//	}
//
// Before InitForCLI is called, warnings and errors are written to stderr and
// everything else is dropped.
//
// # Thread Safety
//
// All functions are safe for concurrent use. InitForCLI may be called again
// (for example after the configuration is loaded) to replace the handler.
package logging
