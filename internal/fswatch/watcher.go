package fswatch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"smartspace/pkg/logging"
)

// DefaultDebounceInterval is used when no interval is configured.
const DefaultDebounceInterval = 200 * time.Millisecond

// Operation describes what happened to a document.
type Operation string

const (
	OperationCreate Operation = "Create"
	OperationUpdate Operation = "Update"
	OperationDelete Operation = "Delete"
)

// Change is a debounced change of one document in the watched directory.
type Change struct {
	// Name is the file name without its .yaml/.yml extension.
	Name string

	// Path is the full path of the file.
	Path string

	Operation Operation
	Timestamp time.Time
}

// Handler receives changes. It is called from timer goroutines, never while
// the watcher holds its lock.
type Handler func(Change)

// Watcher reports debounced changes of YAML files in one directory.
type Watcher struct {
	mu sync.Mutex

	// subsystem tags log output of this watcher
	subsystem string

	dir      string
	debounce time.Duration
	handler  Handler

	watcher *fsnotify.Watcher

	// pending tracks debounced changes by file name
	pending map[string]*debounceEntry

	stopCh  chan struct{}
	running bool
}

type debounceEntry struct {
	change Change
	timer  *time.Timer
}

// New creates a watcher for dir. The directory is created on Start if it
// does not exist yet.
func New(subsystem, dir string, debounce time.Duration, handler Handler) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounceInterval
	}
	return &Watcher{
		subsystem: subsystem,
		dir:       dir,
		debounce:  debounce,
		handler:   handler,
		pending:   make(map[string]*debounceEntry),
	}
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Start begins watching. Calling Start on a running watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return err
	}

	w.watcher = watcher
	w.stopCh = make(chan struct{})
	w.running = true

	go w.processEvents(ctx, watcher, w.stopCh)

	logging.Info(w.subsystem, "Watching %s for changes", w.dir)
	return nil
}

func (w *Watcher) processEvents(ctx context.Context, watcher *fsnotify.Watcher, stopCh chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			w.cleanupPending()
			return

		case <-stopCh:
			w.cleanupPending()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error(w.subsystem, err, "Filesystem watcher error")
		}
	}
}

func (w *Watcher) handleFsEvent(event fsnotify.Event) {
	if !IsYAMLFile(event.Name) {
		return
	}

	var operation Operation
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		operation = OperationCreate
	case event.Op&fsnotify.Write == fsnotify.Write:
		operation = OperationUpdate
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		operation = OperationDelete
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		// the new name shows up as its own Create
		operation = OperationDelete
	default:
		return
	}

	w.debounceChange(Change{
		Name:      DocumentName(event.Name),
		Path:      event.Name,
		Operation: operation,
		Timestamp: time.Now(),
	})
}

func (w *Watcher) debounceChange(change Change) {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := change.Name
	if entry, ok := w.pending[key]; ok {
		entry.timer.Stop()
		change.Operation = mergeOperations(entry.change.Operation, change.Operation)
	}

	entry := &debounceEntry{change: change}
	entry.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		current, ok := w.pending[key]
		if ok && current == entry {
			delete(w.pending, key)
		}
		w.mu.Unlock()

		if ok && current == entry {
			logging.Debug(w.subsystem, "Change: %s %s", entry.change.Operation, entry.change.Name)
			w.handler(entry.change)
		}
	})
	w.pending[key] = entry
}

// mergeOperations merges two operations into a single logical operation.
func mergeOperations(old, new Operation) Operation {
	if old == OperationCreate {
		if new == OperationDelete {
			return OperationDelete
		}
		return OperationCreate
	}
	if old == OperationUpdate && new == OperationDelete {
		return OperationDelete
	}
	return new
}

func (w *Watcher) cleanupPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, entry := range w.pending {
		entry.timer.Stop()
	}
	w.pending = make(map[string]*debounceEntry)
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.stopCh)

	var err error
	if w.watcher != nil {
		err = w.watcher.Close()
		if err != nil {
			logging.Error(w.subsystem, err, "Error closing filesystem watcher")
		}
		w.watcher = nil
	}

	logging.Info(w.subsystem, "Stopped watching %s", w.dir)
	return err
}

// IsYAMLFile checks if a file path is a YAML file.
func IsYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// DocumentName strips the directory and YAML extension from path.
func DocumentName(path string) string {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if strings.EqualFold(ext, ".yaml") || strings.EqualFold(ext, ".yml") {
		name = name[:len(name)-len(ext)]
	}
	return name
}
