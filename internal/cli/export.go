package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"outlay/internal/export"
	"outlay/internal/log"
	"outlay/internal/views"
)

func newExportCmd() *cobra.Command {
	var (
		searchFlag   string
		categoryFlag string
		fromFlag     string
		toFlag       string
		sortFlag     string
		ascFlag      bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Append the expense table to a Google Sheet",
		Long: `Append the current (optionally filtered and sorted) expense table to
the configured Google Sheet. Requires GOOGLE_SPREADSHEET_ID and service
account credentials in the environment.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			state, err := buildViewState(searchFlag, categoryFlag, fromFlag, toFlag, sortFlag, ascFlag)
			if err != nil {
				return err
			}

			exporter, err := export.NewSheetsExporter(cmd.Context(),
				app.cfg.GoogleSpreadsheetID,
				app.cfg.GoogleSheetName,
				app.logger.WithComponent(log.ComponentExport))
			if err != nil {
				return fmt.Errorf("configure export: %w", err)
			}

			if err := app.dash.Load(cmd.Context()); err != nil {
				return fmt.Errorf("fetch expenses: %w", err)
			}

			rows := app.pipeline.Rows(app.dash.Expenses(), state)
			n, err := exporter.Export(cmd.Context(), rows)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to sheet %q\n", n, app.cfg.GoogleSheetName)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&searchFlag, "search", "s", "", "Case-insensitive match against note or category")
	cmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "Only this category")
	cmd.Flags().StringVar(&fromFlag, "from", "", "Start date as YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&toFlag, "to", "", "End date as YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&sortFlag, "sort", string(views.SortDate), "Sort field: date, amount, or category")
	cmd.Flags().BoolVar(&ascFlag, "asc", false, "Sort ascending instead of descending")
	return cmd
}
