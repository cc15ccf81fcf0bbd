package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDraftValidate(t *testing.T) {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	good := Draft{
		Amount:   decimal.NewFromFloat(12.50),
		Category: CategoryFood,
		Note:     "lunch",
		Date:     yesterday,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		d    Draft
		want error
	}{
		{"zero amount", Draft{Amount: decimal.Zero, Category: CategoryFood, Date: yesterday}, ErrInvalidAmount},
		{"negative amount", Draft{Amount: decimal.NewFromInt(-5), Category: CategoryFood, Date: yesterday}, ErrInvalidAmount},
		{"bad category", Draft{Amount: decimal.NewFromInt(1), Category: "Groceries", Date: yesterday}, ErrInvalidCategory},
		{"missing date", Draft{Amount: decimal.NewFromInt(1), Category: CategoryFood}, ErrMissingDate},
		{"future date", Draft{Amount: decimal.NewFromInt(1), Category: CategoryFood, Date: time.Now().UTC().AddDate(0, 0, 2)}, ErrFutureDate},
	}
	for _, tc := range cases {
		if err := tc.d.Validate(); err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestDraftValidateToday(t *testing.T) {
	// A date of today is not "in the future".
	d := Draft{
		Amount:   decimal.NewFromInt(1),
		Category: CategoryOther,
		Date:     time.Now().UTC(),
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("expected today to be valid, got %v", err)
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		if !ValidCategory(c) {
			t.Fatalf("%q should be valid", c)
		}
	}
	for _, c := range []string{"", "food", "FOOD", "Misc"} {
		if ValidCategory(c) {
			t.Fatalf("%q should be invalid", c)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"2024-01-05T00:00:00Z", true, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-01-05T10:30:00", true, time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC)},
		{"Sat, 10 Feb 2024 00:00:00 GMT", true, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)},
		{"2024-01-05", true, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"", false, time.Time{}},
		{"not-a-date", false, time.Time{}},
		{"05/01/2024", false, time.Time{}},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q: unexpected error %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("%q: expected %v, got %v", tc.in, tc.want, got)
			}
		} else if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestExpenseWhen(t *testing.T) {
	e := Expense{Date: "2024-02-10T00:00:00Z"}
	if e.When().IsZero() {
		t.Fatal("expected parseable date")
	}
	bad := Expense{Date: "garbage"}
	if !bad.When().IsZero() {
		t.Fatal("expected zero time for unparsable date")
	}
}
