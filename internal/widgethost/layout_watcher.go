package widgethost

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"smartspace/internal/fswatch"
	"smartspace/pkg/logging"
)

// LayoutDocument is the on-disk form of a provider's rendered content.
//
//	provider:
//	  package: com.example.widgets
//	  class: com.example.widgets.ClockProvider
//	root:
//	  kind: container
//	  children:
//	    - kind: text
//	      text: "21°"
type LayoutDocument struct {
	Provider ComponentName `yaml:"provider"`
	Root     *Node         `yaml:"root"`
}

// LoadLayoutDocument reads a layout document from path.
func LoadLayoutDocument(path string) (*LayoutDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLayoutDocument(data)
}

// ParseLayoutDocument decodes a layout document. A document without a root
// renders as an empty container.
func ParseLayoutDocument(data []byte) (*LayoutDocument, error) {
	var doc LayoutDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode layout document: %w", err)
	}
	if doc.Root == nil {
		doc.Root = NewContainer()
	}
	if err := validateNode(doc.Root, "root"); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Renderer receives provider content.
type Renderer interface {
	Render(provider ComponentName, tree *Node)
}

// LayoutWatcher renders layout documents from a directory and re-renders
// them whenever a file changes. Removing a file renders an empty tree for
// the provider it described.
type LayoutWatcher struct {
	mu sync.Mutex

	dir      string
	renderer Renderer
	watcher  *fswatch.Watcher

	// providers maps document names to the provider they last described
	providers map[string]ComponentName
}

// NewLayoutWatcher creates a watcher for dir.
func NewLayoutWatcher(dir string, debounce time.Duration, renderer Renderer) *LayoutWatcher {
	lw := &LayoutWatcher{
		dir:       dir,
		renderer:  renderer,
		providers: make(map[string]ComponentName),
	}
	lw.watcher = fswatch.New("LayoutWatcher", dir, debounce, lw.onChange)
	return lw
}

// Start renders every existing document and starts watching for changes.
func (lw *LayoutWatcher) Start(ctx context.Context) error {
	if err := lw.watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to watch layouts in %s: %w", lw.dir, err)
	}

	entries, err := os.ReadDir(lw.dir)
	if err != nil {
		return fmt.Errorf("failed to list layouts in %s: %w", lw.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !fswatch.IsYAMLFile(entry.Name()) {
			continue
		}
		path := filepath.Join(lw.dir, entry.Name())
		lw.load(fswatch.DocumentName(path), path)
	}
	return nil
}

// Stop stops watching.
func (lw *LayoutWatcher) Stop() error {
	return lw.watcher.Stop()
}

func (lw *LayoutWatcher) onChange(change fswatch.Change) {
	if change.Operation == fswatch.OperationDelete {
		lw.mu.Lock()
		provider, ok := lw.providers[change.Name]
		delete(lw.providers, change.Name)
		lw.mu.Unlock()

		if ok {
			logging.Info("LayoutWatcher", "Layout %s removed, clearing %s", change.Name, provider)
			lw.renderer.Render(provider, NewContainer())
		}
		return
	}
	lw.load(change.Name, change.Path)
}

func (lw *LayoutWatcher) load(name, path string) {
	doc, err := LoadLayoutDocument(path)
	if err != nil {
		logging.Warn("LayoutWatcher", "Ignoring layout %s: %v", path, err)
		return
	}
	if doc.Provider.IsZero() {
		logging.Warn("LayoutWatcher", "Ignoring layout %s: no provider", path)
		return
	}

	lw.mu.Lock()
	lw.providers[name] = doc.Provider
	lw.mu.Unlock()

	logging.Debug("LayoutWatcher", "Rendering %s from %s (%d nodes)", doc.Provider, path, Count(doc.Root))
	lw.renderer.Render(doc.Provider, doc.Root)
}
