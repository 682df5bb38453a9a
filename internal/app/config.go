package app

import (
	"io"
	"os"

	"smartspace/internal/config"
	"smartspace/internal/formatting"
)

// Config holds the application configuration
type Config struct {
	// Debug settings
	Debug bool

	// Silent suppresses log output.
	Silent bool

	// ConfigPath is the configuration directory.
	ConfigPath string

	// Output receives rendered rows and slices.
	Output io.Writer

	// Format selects how rows and slices are rendered.
	Format formatting.OutputFormat

	// SmartspaceConfig is loaded during bootstrap unless set beforehand.
	SmartspaceConfig *config.SmartspaceConfig
}

// NewConfig creates a new application configuration
func NewConfig(debug, silent bool, configPath string, format formatting.OutputFormat) *Config {
	return &Config{
		Debug:      debug,
		Silent:     silent,
		ConfigPath: configPath,
		Output:     os.Stdout,
		Format:     format,
	}
}
