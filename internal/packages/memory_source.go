package packages

import (
	"fmt"
	"sync"

	"smartspace/internal/api"
	"smartspace/internal/widgethost"
)

// MemorySource is a Source holding manifests in memory. Mutations notify
// receivers synchronously.
type MemorySource struct {
	receivers *receivers

	mu        sync.RWMutex
	manifests map[string]Manifest
}

// NewMemorySource returns an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		receivers: newReceivers(),
		manifests: make(map[string]Manifest),
	}
}

// Install adds or replaces a package manifest.
func (ms *MemorySource) Install(m Manifest) {
	ms.mu.Lock()
	_, existed := ms.manifests[m.Package]
	ms.manifests[m.Package] = m
	ms.mu.Unlock()

	action := ActionAdded
	if existed {
		action = ActionChanged
	}
	ms.receivers.dispatch(Event{Action: action, Scheme: SchemePackage, Package: m.Package})
}

// Uninstall removes a package.
func (ms *MemorySource) Uninstall(packageName string) {
	ms.mu.Lock()
	_, existed := ms.manifests[packageName]
	delete(ms.manifests, packageName)
	ms.mu.Unlock()

	if existed {
		ms.receivers.dispatch(Event{Action: ActionRemoved, Scheme: SchemePackage, Package: packageName})
	}
}

// SetEnabled enables or disables an installed package.
func (ms *MemorySource) SetEnabled(packageName string, enabled bool) error {
	ms.mu.Lock()
	m, ok := ms.manifests[packageName]
	if !ok {
		ms.mu.Unlock()
		return api.NewPackageNotFoundError(packageName)
	}
	m.Enabled = &enabled
	ms.manifests[packageName] = m
	ms.mu.Unlock()

	ms.receivers.dispatch(Event{Action: ActionChanged, Scheme: SchemePackage, Package: packageName})
	return nil
}

// IsEnabled implements Source.
func (ms *MemorySource) IsEnabled(packageName string) bool {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	m, ok := ms.manifests[packageName]
	return ok && m.IsEnabled()
}

// InstalledProviders implements Source.
func (ms *MemorySource) InstalledProviders(packageName string) ([]widgethost.ProviderInfo, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	m, ok := ms.manifests[packageName]
	if !ok {
		return nil, api.NewPackageNotFoundError(packageName)
	}
	return m.ProviderInfos(), nil
}

// Watch implements Source.
func (ms *MemorySource) Watch(filter Filter, handler Handler) (func(), error) {
	if handler == nil {
		return nil, fmt.Errorf("nil package change handler")
	}
	return ms.receivers.register(filter, handler), nil
}
