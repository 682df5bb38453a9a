package packages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"smartspace/internal/api"
	"smartspace/internal/fswatch"
	"smartspace/internal/widgethost"
	"smartspace/pkg/logging"
)

// DirectorySource is a Source backed by a directory of package manifests,
// one YAML file per package. Creating a manifest installs the package,
// editing it reports a change and deleting it removes the package.
type DirectorySource struct {
	dir       string
	watcher   *fswatch.Watcher
	receivers *receivers

	mu sync.RWMutex
	// manifests by document name
	manifests map[string]Manifest
}

// NewDirectorySource creates a source over dir. Call Start to load the
// manifests and begin watching.
func NewDirectorySource(dir string, debounce time.Duration) *DirectorySource {
	ds := &DirectorySource{
		dir:       dir,
		receivers: newReceivers(),
		manifests: make(map[string]Manifest),
	}
	ds.watcher = fswatch.New("Packages", dir, debounce, ds.onChange)
	return ds
}

// LoadManifest reads one manifest file.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if m.Package == "" {
		m.Package = fswatch.DocumentName(path)
	}
	return m, nil
}

// Load reads every manifest currently in the directory without notifying
// receivers.
func (ds *DirectorySource) Load() error {
	entries, err := os.ReadDir(ds.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to list packages in %s: %w", ds.dir, err)
	}

	loaded := make(map[string]Manifest)
	for _, entry := range entries {
		if entry.IsDir() || !fswatch.IsYAMLFile(entry.Name()) {
			continue
		}
		path := filepath.Join(ds.dir, entry.Name())
		m, err := LoadManifest(path)
		if err != nil {
			logging.Warn("Packages", "Ignoring %v", err)
			continue
		}
		loaded[fswatch.DocumentName(path)] = m
	}

	ds.mu.Lock()
	ds.manifests = loaded
	ds.mu.Unlock()
	logging.Debug("Packages", "Loaded %d package manifests from %s", len(loaded), ds.dir)
	return nil
}

// Start loads the manifests and watches the directory for changes.
func (ds *DirectorySource) Start(ctx context.Context) error {
	if err := ds.watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to watch packages in %s: %w", ds.dir, err)
	}
	return ds.Load()
}

// Stop stops watching.
func (ds *DirectorySource) Stop() error {
	return ds.watcher.Stop()
}

func (ds *DirectorySource) lookup(packageName string) (Manifest, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	for _, m := range ds.manifests {
		if m.Package == packageName {
			return m, true
		}
	}
	return Manifest{}, false
}

// IsEnabled implements Source.
func (ds *DirectorySource) IsEnabled(packageName string) bool {
	m, ok := ds.lookup(packageName)
	return ok && m.IsEnabled()
}

// InstalledProviders implements Source.
func (ds *DirectorySource) InstalledProviders(packageName string) ([]widgethost.ProviderInfo, error) {
	m, ok := ds.lookup(packageName)
	if !ok {
		return nil, api.NewPackageNotFoundError(packageName)
	}
	return m.ProviderInfos(), nil
}

// Watch implements Source.
func (ds *DirectorySource) Watch(filter Filter, handler Handler) (func(), error) {
	if handler == nil {
		return nil, fmt.Errorf("nil package change handler")
	}
	return ds.receivers.register(filter, handler), nil
}

// Packages returns the manifests currently known.
func (ds *DirectorySource) Packages() []Manifest {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	out := make([]Manifest, 0, len(ds.manifests))
	for _, m := range ds.manifests {
		out = append(out, m)
	}
	return out
}

func (ds *DirectorySource) onChange(change fswatch.Change) {
	var ev Event
	switch change.Operation {
	case fswatch.OperationDelete:
		ds.mu.Lock()
		m, ok := ds.manifests[change.Name]
		delete(ds.manifests, change.Name)
		ds.mu.Unlock()
		if !ok {
			return
		}
		ev = Event{Action: ActionRemoved, Scheme: SchemePackage, Package: m.Package}

	default:
		m, err := LoadManifest(change.Path)
		if err != nil {
			logging.Warn("Packages", "Ignoring %v", err)
			return
		}
		ds.mu.Lock()
		_, existed := ds.manifests[change.Name]
		ds.manifests[change.Name] = m
		ds.mu.Unlock()

		action := ActionChanged
		if !existed {
			action = ActionAdded
		}
		ev = Event{Action: action, Scheme: SchemePackage, Package: m.Package}
	}

	logging.Info("Packages", "Package %s: %s", ev.Package, ev.Action)
	ds.receivers.dispatch(ev)
}
