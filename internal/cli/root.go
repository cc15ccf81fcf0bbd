package cli

import (
	"github.com/spf13/cobra"
)

var verbose bool

// NewRootCmd builds the outlay command tree. The app is wired lazily in
// each leaf command so that `--help` works without config or a state
// database.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "outlay",
		Short: "Track personal expenses against an expense-tracker backend",
		Long: `outlay is a terminal client for a personal expense-tracking service.

It keeps your login session on disk, records expenses, and renders
filtered and sorted expense tables and spending analytics.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newAddCmd(),
		newListCmd(),
		newStatsCmd(),
		newExportCmd(),
	)

	return root
}

// Execute runs the command tree.
func Execute() error {
	return NewRootCmd().Execute()
}

// withApp wires the app for a leaf command and tears it down after.
func withApp(run func(cmd *cobra.Command, args []string, app *App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := newApp(verbose)
		if err != nil {
			return err
		}
		defer app.Close()
		return run(cmd, args, app)
	}
}
