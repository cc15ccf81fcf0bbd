package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"outlay/internal/analytics"
)

const barWidth = 40

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show spending analytics",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			if err := app.dash.Load(cmd.Context()); err != nil {
				return fmt.Errorf("fetch analytics: %w", err)
			}

			proj := analytics.Project(app.dash.Report())
			if !proj.HasData {
				fmt.Fprintln(cmd.OutOrStdout(), "No data available. Add some expenses first!")
				return nil
			}

			f := app.pipeline.Formatter()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Total spending: %s across %d categories and %d months\n\n",
				f.Currency(proj.GrandTotal),
				len(proj.Categories.Labels),
				len(proj.Monthly.Labels))

			fmt.Fprintln(out, "By category:")
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for i, share := range proj.Shares {
				fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
					share.Category,
					f.Currency(share.Total),
					f.Percent(share.Percent),
					bar(proj.Categories.Values[i], maxValue(proj.Categories.Values)))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out, "\nBy month:")
			w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			max := maxValue(proj.Monthly.Values)
			for i, label := range proj.Monthly.Labels {
				fmt.Fprintf(w, "  %s\t%s\t%s\n",
					label,
					f.Currency(decimalFromFloat(proj.Monthly.Values[i])),
					bar(proj.Monthly.Values[i], max))
			}
			return w.Flush()
		}),
	}
}

func decimalFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func maxValue(values []float64) float64 {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}

// bar renders a proportional text bar, the terminal's stand-in for the
// chart sink.
func bar(value, max float64) string {
	if max <= 0 || value <= 0 {
		return ""
	}
	n := int(value / max * barWidth)
	if n < 1 {
		n = 1
	}
	return strings.Repeat("█", n)
}
