package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"outlay/internal/core"
	"outlay/internal/views"
)

func newAddCmd() *cobra.Command {
	var (
		amountFlag   string
		categoryFlag string
		noteFlag     string
		dateFlag     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new expense",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			draft, err := buildDraft(amountFlag, categoryFlag, noteFlag, dateFlag)
			if err != nil {
				return err
			}

			if err := app.dash.Add(cmd.Context(), draft); err != nil {
				return fmt.Errorf("add expense: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s)\n",
				app.pipeline.Formatter().Currency(draft.Amount),
				draft.Category,
				draft.Date.Format("2006-01-02"))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&amountFlag, "amount", "a", "", "Amount, e.g. 12.50 (required)")
	cmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "Category: "+strings.Join(core.Categories, ", ")+" (required)")
	cmd.Flags().StringVarP(&noteFlag, "note", "n", "", "Optional note")
	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Date as YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

// buildDraft validates the form input locally; nothing malformed
// reaches the network.
func buildDraft(amount, category, note, date string) (core.Draft, error) {
	var problems []string

	parsedAmount, err := core.ParseAmount(amount)
	if err != nil {
		problems = append(problems, fmt.Sprintf("amount: %v", err))
	}
	if !core.ValidCategory(category) {
		problems = append(problems, fmt.Sprintf("category: %q is not one of %s", category, strings.Join(core.Categories, ", ")))
	}

	when := time.Now().UTC()
	if date != "" {
		when, err = time.Parse("2006-01-02", date)
		if err != nil {
			problems = append(problems, fmt.Sprintf("date: %q is not YYYY-MM-DD", date))
		}
	}

	if len(problems) > 0 {
		return core.Draft{}, errors.New(strings.Join(problems, "; "))
	}

	draft := core.Draft{
		Amount:   parsedAmount,
		Category: category,
		Note:     strings.TrimSpace(note),
		Date:     when,
	}
	if err := draft.Validate(); err != nil {
		return core.Draft{}, err
	}
	return draft, nil
}

func newListCmd() *cobra.Command {
	var (
		searchFlag   string
		categoryFlag string
		fromFlag     string
		toFlag       string
		sortFlag     string
		ascFlag      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the expense table",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			state, err := buildViewState(searchFlag, categoryFlag, fromFlag, toFlag, sortFlag, ascFlag)
			if err != nil {
				return err
			}

			if err := app.dash.Load(cmd.Context()); err != nil {
				return fmt.Errorf("fetch expenses: %w", err)
			}

			rows := app.pipeline.Rows(app.dash.Expenses(), state)
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No expenses found. Add your first expense!")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tCATEGORY\tAMOUNT\tNOTE")
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.Date, row.Category, row.Amount, row.Note)
			}
			return w.Flush()
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

func buildViewState(search, category, from, to, sortField string, asc bool) (views.State, error) {
	state := views.NewState()
	state.Search = search

	if category != "" {
		if !core.ValidCategory(category) {
			return views.State{}, fmt.Errorf("category: %q is not one of %s", category, strings.Join(core.Categories, ", "))
		}
		state.Category = category
	}

	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return views.State{}, fmt.Errorf("from: %q is not YYYY-MM-DD", from)
		}
		state.From = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return views.State{}, fmt.Errorf("to: %q is not YYYY-MM-DD", to)
		}
		// Include the whole end day.
		state.To = t.Add(24*time.Hour - time.Second)
	}

	switch views.SortField(sortField) {
	case views.SortDate, views.SortAmount, views.SortCategory:
		state.Field = views.SortField(sortField)
	default:
		return views.State{}, fmt.Errorf("sort: %q is not date, amount, or category", sortField)
	}
	if asc {
		state.Dir = views.Asc
	}
	return state, nil
}
