package config

import (
	"smartspace/internal/fswatch"
	"smartspace/internal/keyguard"
	"smartspace/internal/smartspace"
	"smartspace/internal/widgethost"
)

const (
	// DefaultPackagesDir holds the package manifests, relative to the
	// configuration directory.
	DefaultPackagesDir = "packages"

	// DefaultLayoutsDir holds the widget layouts, relative to the
	// configuration directory.
	DefaultLayoutsDir = "layouts"
)

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() SmartspaceConfig {
	return SmartspaceConfig{
		Provider: ProviderConfig{
			Package:     smartspace.DefaultPackage,
			WidgetClass: smartspace.DefaultWidgetClass,
			WidgetKey:   smartspace.DefaultWidgetKey,
		},
		Host: HostConfig{
			HostID:      widgethost.DefaultHostID,
			PackagesDir: DefaultPackagesDir,
			LayoutsDir:  DefaultLayoutsDir,
			Debounce:    fswatch.DefaultDebounceInterval,
			AllowBind:   true,
		},
		Session: SessionConfig{
			Admin:    true,
			Unlocked: true,
		},
		Keyguard: KeyguardConfig{
			SliceURI:     keyguard.SliceURI,
			DateTemplate: keyguard.DefaultDateTemplate,
		},
	}
}
