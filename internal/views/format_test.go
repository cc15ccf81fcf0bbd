package views

import (
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"outlay/internal/core"
)

func newTestFormatter(t *testing.T) *Formatter {
	t.Helper()
	f, err := NewFormatter(language.AmericanEnglish, "USD")
	if err != nil {
		t.Fatalf("formatter: %v", err)
	}
	return f
}

func TestCurrencyFormatting(t *testing.T) {
	f := newTestFormatter(t)
	cases := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(20), "$20.00"},
		{decimal.NewFromFloat(9.99), "$9.99"},
		{decimal.NewFromFloat(1234.5), "$1,234.50"},
	}
	for _, tc := range cases {
		if got := f.Currency(tc.in); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestDateFormatting(t *testing.T) {
	f := newTestFormatter(t)
	if got := f.Date("2024-01-05T00:00:00Z"); got != "Jan 5, 2024" {
		t.Fatalf("expected Jan 5, 2024, got %q", got)
	}
	if got := f.Date("garbage"); got != InvalidDateMarker {
		t.Fatalf("expected invalid marker, got %q", got)
	}
	if got := f.Date(""); got != InvalidDateMarker {
		t.Fatalf("expected invalid marker for empty, got %q", got)
	}
}

func TestRowNeverPanics(t *testing.T) {
	f := newTestFormatter(t)
	row := f.Row(core.Expense{Date: "not a date", Amount: decimal.Zero})
	if row.Date != InvalidDateMarker {
		t.Fatalf("expected invalid marker, got %q", row.Date)
	}
	if row.Note != "-" {
		t.Fatalf("expected note placeholder, got %q", row.Note)
	}
}

func TestRowFormatting(t *testing.T) {
	f := newTestFormatter(t)
	row := f.Row(core.Expense{
		Date:     "2024-02-10T00:00:00Z",
		Category: core.CategoryTravel,
		Amount:   decimal.NewFromFloat(80.5),
		Note:     "train",
	})
	if row.Date != "Feb 10, 2024" || row.Category != "Travel" || row.Amount != "$80.50" || row.Note != "train" {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestPercentFormatting(t *testing.T) {
	f := newTestFormatter(t)
	if got := f.Percent(20); got != "20.0%" {
		t.Fatalf("expected 20.0%%, got %q", got)
	}
	if got := f.Percent(33.333); got != "33.3%" {
		t.Fatalf("expected 33.3%%, got %q", got)
	}
}
