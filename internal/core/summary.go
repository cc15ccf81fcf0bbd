package core

import "github.com/shopspring/decimal"

// CategoryTotal is a server-computed amount aggregated by category.
type CategoryTotal struct {
	Category string          `json:"_id"`
	Total    decimal.Decimal `json:"total"`
}

// MonthlyTotal is a server-computed amount for a specific year+month.
type MonthlyTotal struct {
	Year  int             // calendar year
	Month int             // 1-12
	Total decimal.Decimal
}

// AnalyticsReport is the backend's /analytics payload.
type AnalyticsReport struct {
	CategoryTotals []CategoryTotal
	MonthlyTotals  []MonthlyTotal
}

// SumCategories returns the sum of all category totals.
func (r AnalyticsReport) SumCategories() decimal.Decimal {
	sum := decimal.Zero
	for _, ct := range r.CategoryTotals {
		sum = sum.Add(ct.Total)
	}
	return sum
}

// SumMonths returns the sum of all monthly totals.
func (r AnalyticsReport) SumMonths() decimal.Decimal {
	sum := decimal.Zero
	for _, mt := range r.MonthlyTotals {
		sum = sum.Add(mt.Total)
	}
	return sum
}

// Reconciled reports whether both aggregate views and the raw expense
// list agree on the grand total. The server computes all three from the
// same collection, so a mismatch means a stale cache.
func (r AnalyticsReport) Reconciled(expenses []Expense) bool {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(e.Amount)
	}
	return r.SumCategories().Equal(sum) && r.SumMonths().Equal(sum)
}
