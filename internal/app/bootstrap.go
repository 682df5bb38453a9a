package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"smartspace/internal/config"
	"smartspace/internal/formatting"
	"smartspace/internal/smartspace"
	"smartspace/pkg/logging"
)

// Application represents the main application structure that bootstraps and
// runs smartspace.
//
// The Application follows a two-phase initialization pattern:
//  1. Bootstrap phase: Load configuration, initialize logging, setup services
//  2. Execution phase: Serve the slice or watch the rows
type Application struct {
	config    *Config
	services  *Services
	formatter formatting.Formatter
}

// NewApplication creates and initializes a new application instance with the provided configuration.
// This function performs the complete bootstrap sequence:
//
//  1. Configures logging based on debug settings
//  2. Loads the configuration from cfg.ConfigPath unless already present
//  3. Initializes all pipeline services
func NewApplication(cfg *Config) (*Application, error) {
	// Configure logging based on debug flag
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}

	var logOutput io.Writer = os.Stderr
	if cfg.Silent {
		logOutput = io.Discard
	}
	logging.InitForCLI(appLogLevel, logOutput)

	if cfg.SmartspaceConfig == nil {
		configPath := cfg.ConfigPath
		if configPath == "" {
			configPath = config.GetDefaultConfigPathOrPanic()
		}
		sc, err := config.LoadConfig(configPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load smartspace configuration from path: %s", configPath)
			return nil, fmt.Errorf("failed to load smartspace configuration from path %s: %w", configPath, err)
		}
		cfg.SmartspaceConfig = &sc
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:    cfg,
		services:  services,
		formatter: formatting.NewFormatter(formatting.Options{Format: cfg.Format, Color: cfg.Format == formatting.FormatTable}),
	}, nil
}

// Services returns the initialized services.
func (a *Application) Services() *Services {
	return a.services
}

// Run serves the lock-screen slice until ctx is cancelled or a shutdown
// signal arrives.
func (a *Application) Run(ctx context.Context) error {
	return runServe(ctx, a)
}

// Watch prints every row set the Reader publishes. It returns when ctx is
// done or, if until is set, once until returns true for a row set.
func (a *Application) Watch(ctx context.Context, until func([]smartspace.Row) bool) error {
	return runWatch(ctx, a, until)
}
