// Package cli implements the touchbase command line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/felixgeelhaar/touchbase/pkg/observability"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *slog.Logger
)

type commandStartKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "touchbase",
	Short: "TouchBase - personal check-in scheduling",
	Long: `TouchBase schedules reminders to check in with the people
that matter, working around your calendar and learning from how
you respond to past reminders.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := observability.WithCorrelationID(cmd.Context(), "")
		if app := GetApp(); app != nil {
			ctx = observability.WithUserID(ctx, app.CurrentUserID.String())
		}
		ctx = context.WithValue(ctx, commandStartKey{}, time.Now())
		cmd.SetContext(ctx)
		logger.DebugContext(ctx, "command start", "command", cmd.CommandPath())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := cmd.Context()
		start, ok := ctx.Value(commandStartKey{}).(time.Time)
		if !ok {
			return
		}
		logger.DebugContext(ctx, "command end",
			"command", cmd.CommandPath(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}
