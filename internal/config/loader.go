package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"smartspace/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/smartspace"
	configFileName = "config.yaml"
)

func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads configuration from a single specified directory.
// The directory should contain config.yaml; the package and layout
// directories are resolved relative to it.
func LoadConfig(configPath string) (SmartspaceConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		logging.Info("ConfigLoader", "Error loading config.yaml from %s: %s", configFilePath, err)
		return SmartspaceConfig{}, NewConfigurationError(configFilePath, ErrorTypeIO, err.Error())
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			// config malformed
			return SmartspaceConfig{}, NewConfigurationErrorWithDetails(configFilePath, ErrorTypeParse,
				"malformed YAML", err.Error(), []string{"Check indentation and that durations look like 200ms"})
		}
		logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	config.Host.PackagesDir = resolveDir(configPath, config.Host.PackagesDir)
	config.Host.LayoutsDir = resolveDir(configPath, config.Host.LayoutsDir)

	if errs := config.Validate(); errs.HasErrors() {
		return SmartspaceConfig{}, NewConfigurationErrorWithDetails(configFilePath, ErrorTypeValidation,
			"invalid configuration", errs.Error(), nil)
	}
	return config, nil
}

func resolveDir(base, dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}
