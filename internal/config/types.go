package config

import "time"

// SmartspaceConfig is the top-level configuration structure for smartspace.
type SmartspaceConfig struct {
	Provider ProviderConfig `yaml:"provider"`
	Host     HostConfig     `yaml:"host"`
	Session  SessionConfig  `yaml:"session"`
	Keyguard KeyguardConfig `yaml:"keyguard"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ProviderConfig names the widget that is read.
type ProviderConfig struct {
	Package     string `yaml:"package"`
	WidgetClass string `yaml:"widgetClass"`
	WidgetKey   string `yaml:"widgetKey"`
	Profile     int    `yaml:"profile,omitempty"`
}

// HostConfig configures the in-process widget host.
type HostConfig struct {
	HostID      int           `yaml:"hostId"`
	PackagesDir string        `yaml:"packagesDir"`        // package manifests, one <package>.yaml each
	LayoutsDir  string        `yaml:"layoutsDir"`         // rendered widget layouts
	Debounce    time.Duration `yaml:"debounce,omitempty"` // file change debounce interval
	AllowBind   bool          `yaml:"allowBind"`          // whether the user allows binding widgets
}

// SessionConfig describes the user session.
type SessionConfig struct {
	Admin    bool `yaml:"admin"`
	Unlocked bool `yaml:"unlocked"`
}

// KeyguardConfig configures the lock-screen slice.
type KeyguardConfig struct {
	SliceURI     string      `yaml:"sliceUri"`
	DateTemplate string      `yaml:"dateTemplate"`
	Media        MediaConfig `yaml:"media,omitempty"`
	NextAlarm    string      `yaml:"nextAlarm,omitempty"`
	ZenMode      bool        `yaml:"zenMode,omitempty"`
}

// MediaConfig is the initial media playback state.
type MediaConfig struct {
	Playing bool   `yaml:"playing,omitempty"`
	Title   string `yaml:"title,omitempty"`
	Artist  string `yaml:"artist,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint. An empty address
// disables it.
type MetricsConfig struct {
	Address string `yaml:"address,omitempty"`
}
