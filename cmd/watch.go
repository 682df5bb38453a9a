package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"smartspace/internal/app"
	"smartspace/internal/formatting"
	"smartspace/internal/smartspace"
)

var (
	watchDebug        bool
	watchConfigPath   string
	watchOutputFormat string
	watchOnce         bool
	watchTimeout      time.Duration
	watchQuiet        bool
)

// watchCmd prints the extracted rows without composing the slice.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the smartspace rows every time the widget redraws",
	Long: `Runs the smartspace reader on its own and prints every row set it
publishes. The session is treated as unlocked.

With --once the command waits for the first non-empty row set, prints it and
exits. --timeout bounds the wait.

Examples:
  smartspace watch
  smartspace watch --once --timeout 30s -o json`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	format, err := formatting.ParseOutputFormat(watchOutputFormat)
	if err != nil {
		return err
	}

	cfg := app.NewConfig(watchDebug, !watchDebug, watchConfigPath, format)
	cfg.Output = cmd.OutOrStdout()

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if watchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, watchTimeout)
		defer cancel()
	}

	if !watchOnce {
		return application.Watch(ctx, nil)
	}

	var s *spinner.Spinner
	if !watchQuiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " Waiting for the widget to render..."
		s.Writer = cmd.ErrOrStderr()
		s.Start()
	}

	found := false
	err = application.Watch(ctx, func(rows []smartspace.Row) bool {
		if len(rows) == 0 {
			return false
		}
		if s != nil {
			s.Stop()
		}
		found = true
		return true
	})
	if s != nil {
		s.Stop()
	}
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no smartspace rows before %s", ctx.Err())
	}
	return nil
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchDebug, "debug", false, "Enable debug logging")
	watchCmd.Flags().StringVar(&watchConfigPath, "config-path", "", "Custom configuration directory path")
	watchCmd.Flags().StringVarP(&watchOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Exit after the first non-empty row set")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 0, "Give up after this long (0 waits forever)")
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Suppress the progress spinner")
}
