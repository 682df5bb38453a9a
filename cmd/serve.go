package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"smartspace/internal/app"
	"smartspace/internal/formatting"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveSilent suppresses log output so only the slice is printed.
var serveSilent bool

// serveConfigPath specifies a custom configuration directory path.
// The directory should contain config.yaml and the packages/ and layouts/ subdirectories.
var serveConfigPath string

// serveOutputFormat selects how the slice is printed.
var serveOutputFormat string

// serveCmd defines the serve command structure.
// This is the main command of smartspace: it runs the whole pipeline and
// prints the lock-screen slice whenever it changes.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lock-screen slice and print it whenever it changes.",
	Long: `Starts the widget host, watches package manifests and layouts, and serves
the keyguard slice.

The smartspace widget is bound and read once the session is unlocked. A
session that starts locked can be unlocked by sending SIGUSR1. The slice is
printed on start and after every change.

Configuration:
  smartspace loads config.yaml from the configuration directory
  (default: ~/.config/smartspace). Relative directories inside it resolve
  against that directory:
  - packages/ (package manifests, one per provider package)
  - layouts/  (rendered widget layouts)

When metrics.address is set, Prometheus metrics are served on /metrics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	format, err := formatting.ParseOutputFormat(serveOutputFormat)
	if err != nil {
		return err
	}

	cfg := app.NewConfig(serveDebug, serveSilent, serveConfigPath, format)
	cfg.Output = cmd.OutOrStdout()

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

// init registers the serve command and its flags with the root command.
func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable general debug logging")
	serveCmd.Flags().BoolVar(&serveSilent, "silent", false, "Suppress log output")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Custom configuration directory path")
	serveCmd.Flags().StringVarP(&serveOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
}
