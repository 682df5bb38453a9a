// Package app provides application bootstrap and lifecycle management for
// smartspace.
//
// # Architecture Overview
//
//  1. **Bootstrap (`bootstrap.go`)**: logging setup, configuration loading and
//     service initialization
//  2. **Configuration (`config.go`)**: runtime settings coming from flags
//  3. **Services (`services.go`)**: construction and wiring of the pipeline
//  4. **Modes (`modes.go`)**: the long-running serve loop and the row watcher
//
// # Pipeline
//
// The services form one pipeline:
//
//	LayoutWatcher ──render──▶ MemoryHost ──redraw──▶ headless.Manager
//	                                                       │
//	DirectorySource ──package changes──▶ smartspace.Reader ◀┘
//	                                           │ rows
//	                                           ▼
//	                              keyguard.SliceProvider ──▶ output
//
// Layout files stand in for the widget provider's rendering, package
// manifests for the package manager. The Reader is created lazily by the
// slice provider once the session is unlocked.
//
// # Signals
//
//   - SIGINT, SIGTERM: graceful shutdown
//   - SIGUSR1: unlock the session when it started locked
//
// When started under systemd with Type=notify, readiness and stopping are
// reported through sd_notify.
package app
