package packages

import (
	"strings"

	"smartspace/internal/widgethost"
)

// SchemePackage is the data scheme of package change notifications.
const SchemePackage = "package"

// Action is the kind of package change.
type Action string

const (
	ActionAdded   Action = "PACKAGE_ADDED"
	ActionRemoved Action = "PACKAGE_REMOVED"
	ActionChanged Action = "PACKAGE_CHANGED"
)

// Event is a package change notification.
type Event struct {
	Action  Action
	Scheme  string
	Package string
}

// Filter selects the notifications a receiver is interested in. Package is
// matched literally. An empty Scheme or Package matches anything.
type Filter struct {
	Actions []Action
	Scheme  string
	Package string
}

// PackageFilter returns the filter for add, remove and change notifications
// of a single package.
func PackageFilter(packageName string) Filter {
	return Filter{
		Actions: []Action{ActionChanged, ActionAdded, ActionRemoved},
		Scheme:  SchemePackage,
		Package: packageName,
	}
}

// Matches reports whether ev passes the filter.
func (f Filter) Matches(ev Event) bool {
	actionOK := false
	for _, a := range f.Actions {
		if a == ev.Action {
			actionOK = true
			break
		}
	}
	if !actionOK {
		return false
	}
	if f.Scheme != "" && f.Scheme != ev.Scheme {
		return false
	}
	return f.Package == "" || f.Package == ev.Package
}

// Handler receives notifications. It may be called from any goroutine.
type Handler func(Event)

// Source is the package state query and notification service.
type Source interface {
	// IsEnabled reports whether the package is installed and enabled. Lookup
	// failures count as not enabled.
	IsEnabled(packageName string) bool

	// InstalledProviders lists the widget providers offered by the package.
	InstalledProviders(packageName string) ([]widgethost.ProviderInfo, error)

	// Watch registers handler for notifications passing filter. The returned
	// function unregisters it.
	Watch(filter Filter, handler Handler) (func(), error)
}

// Manifest describes an installed package.
type Manifest struct {
	Package   string             `yaml:"package"`
	Enabled   *bool              `yaml:"enabled,omitempty"`
	Providers []ProviderManifest `yaml:"providers,omitempty"`
}

// ProviderManifest describes one widget provider of a package.
type ProviderManifest struct {
	// Class is the provider class. A leading dot is relative to the package.
	Class   string            `yaml:"class"`
	Label   string            `yaml:"label,omitempty"`
	Profile widgethost.UserID `yaml:"profile,omitempty"`
}

// IsEnabled reports whether the manifest marks the package enabled. Packages
// are enabled unless stated otherwise.
func (m Manifest) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// ProviderInfos expands the provider manifests to ProviderInfo values.
func (m Manifest) ProviderInfos() []widgethost.ProviderInfo {
	infos := make([]widgethost.ProviderInfo, 0, len(m.Providers))
	for _, p := range m.Providers {
		class := p.Class
		if strings.HasPrefix(class, ".") {
			class = m.Package + class
		}
		infos = append(infos, widgethost.ProviderInfo{
			Provider: widgethost.ComponentName{Package: m.Package, Class: class},
			Profile:  p.Profile,
			Label:    p.Label,
		})
	}
	return infos
}

// FindProvider returns the provider whose class equals className exactly.
func FindProvider(providers []widgethost.ProviderInfo, className string) (widgethost.ProviderInfo, bool) {
	for _, p := range providers {
		if p.Provider.Class == className {
			return p, true
		}
	}
	return widgethost.ProviderInfo{}, false
}
