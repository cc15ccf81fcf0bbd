// Package views derives the expense table from the raw record cache:
// a pure filter/sort/format chain driven by the ephemeral view state.
package views

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"outlay/internal/core"
)

// Pipeline applies view state to expense records and formats the
// survivors for display. Construction fixes the locale and currency; a
// Pipeline is safe to reuse across renders.
type Pipeline struct {
	collator  *collate.Collator
	formatter *Formatter
}

func NewPipeline(locale, currencyCode string) (*Pipeline, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	formatter, err := NewFormatter(tag, currencyCode)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		collator:  collate.New(tag),
		formatter: formatter,
	}, nil
}

// Formatter exposes the pipeline's formatter for callers that render
// values outside the table (the stats view shares it).
func (p *Pipeline) Formatter() *Formatter {
	return p.formatter
}

// Apply filters and sorts records per the view state. The input slice
// is not modified; ties keep their input order.
func (p *Pipeline) Apply(records []core.Expense, s State) []core.Expense {
	out := make([]core.Expense, 0, len(records))
	for _, r := range records {
		if p.matches(r, s) {
			out = append(out, r)
		}
	}
	p.sortRecords(out, s)
	return out
}

// Rows runs the full chain: filter, sort, format.
func (p *Pipeline) Rows(records []core.Expense, s State) []Row {
	filtered := p.Apply(records, s)
	rows := make([]Row, len(filtered))
	for i, r := range filtered {
		rows[i] = p.formatter.Row(r)
	}
	return rows
}

// matches implements the filter conjunction: free-text search over note
// and category, exact category selection, and an inclusive date range.
// Each clause only applies when its input is set, so the surviving set
// does not depend on evaluation order.
func (p *Pipeline) matches(r core.Expense, s State) bool {
	if search := strings.ToLower(strings.TrimSpace(s.Search)); search != "" {
		note := strings.ToLower(r.Note)
		category := strings.ToLower(r.Category)
		if !strings.Contains(note, search) && !strings.Contains(category, search) {
			return false
		}
	}
	if s.Category != "" && r.Category != s.Category {
		return false
	}
	if !s.From.IsZero() || !s.To.IsZero() {
		when := r.When()
		if when.IsZero() {
			// A record whose date does not parse cannot satisfy a
			// date bound.
			return false
		}
		if !s.From.IsZero() && when.Before(s.From) {
			return false
		}
		if !s.To.IsZero() && when.After(s.To) {
			return false
		}
	}
	return true
}

func (p *Pipeline) sortRecords(records []core.Expense, s State) {
	var less func(a, b core.Expense) bool
	switch s.Field {
	case SortAmount:
		less = func(a, b core.Expense) bool { return a.Amount.LessThan(b.Amount) }
	case SortCategory:
		less = func(a, b core.Expense) bool {
			return p.collator.CompareString(a.Category, b.Category) < 0
		}
	default: // SortDate
		less = func(a, b core.Expense) bool { return a.When().Before(b.When()) }
	}

	sort.SliceStable(records, func(i, j int) bool {
		if s.Dir == Asc {
			return less(records[i], records[j])
		}
		return less(records[j], records[i])
	})
}

// MonthLabel renders a year+month the way the charts label their axis.
func MonthLabel(year, month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("? %d", year)
	}
	return fmt.Sprintf("%s %d", time.Month(month).String()[:3], year)
}
