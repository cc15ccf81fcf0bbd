// Package analytics turns the backend's raw aggregates into
// chart-ready series and the derived share breakdown.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"outlay/internal/core"
	"outlay/internal/views"
)

// Series is prepared chart input: one label per value.
type Series struct {
	Labels []string
	Values []float64
}

// Share is one category's slice of the grand total.
type Share struct {
	Category string
	Total    decimal.Decimal
	Percent  float64
}

// Projection is everything the charts and the breakdown table need.
// HasData is false when the backend reported no aggregates at all, in
// which case the UI shows its empty state instead of blank charts.
type Projection struct {
	Categories Series
	Monthly    Series
	GrandTotal decimal.Decimal
	Shares     []Share
	HasData    bool
}

var hundred = decimal.NewFromInt(100)

// Project maps a raw analytics report into display form. Percentage
// shares are 0 for every category when the grand total is zero; there
// is no division in that case.
func Project(r core.AnalyticsReport) Projection {
	p := Projection{
		GrandTotal: r.SumCategories(),
		HasData:    len(r.CategoryTotals) > 0 || len(r.MonthlyTotals) > 0,
	}

	for _, ct := range r.CategoryTotals {
		p.Categories.Labels = append(p.Categories.Labels, ct.Category)
		p.Categories.Values = append(p.Categories.Values, ct.Total.InexactFloat64())

		share := Share{Category: ct.Category, Total: ct.Total}
		if p.GrandTotal.IsPositive() {
			share.Percent = ct.Total.Div(p.GrandTotal).Mul(hundred).InexactFloat64()
		}
		p.Shares = append(p.Shares, share)
	}

	// The server emits months in chronological order; do not rely on it.
	months := make([]core.MonthlyTotal, len(r.MonthlyTotals))
	copy(months, r.MonthlyTotals)
	sort.SliceStable(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year < months[j].Year
		}
		return months[i].Month < months[j].Month
	})
	for _, mt := range months {
		p.Monthly.Labels = append(p.Monthly.Labels, views.MonthLabel(mt.Year, mt.Month))
		p.Monthly.Values = append(p.Monthly.Values, mt.Total.InexactFloat64())
	}

	return p
}
