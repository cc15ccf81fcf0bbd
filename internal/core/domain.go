package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// The backend accepts exactly these category values.
const (
	CategoryFood           = "Food"
	CategoryTransportation = "Transportation"
	CategoryHousing        = "Housing"
	CategoryUtilities      = "Utilities"
	CategoryEntertainment  = "Entertainment"
	CategoryShopping       = "Shopping"
	CategoryHealthcare     = "Healthcare"
	CategoryEducation      = "Education"
	CategoryTravel         = "Travel"
	CategoryOther          = "Other"
)

// Categories lists the fixed category set in display order.
var Categories = []string{
	CategoryFood,
	CategoryTransportation,
	CategoryHousing,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryShopping,
	CategoryHealthcare,
	CategoryEducation,
	CategoryTravel,
	CategoryOther,
}

type (
	// Expense is one record as returned by the backend. Date is kept as
	// the raw wire string: the backend has emitted more than one format
	// over time and a record with a bad date must still render.
	Expense struct {
		ID       string          `json:"_id"`
		Amount   decimal.Decimal `json:"amount"`
		Category string          `json:"category"`
		Note     string          `json:"note"`
		Date     string          `json:"date"`
	}

	// Draft is a new expense as entered by the user, validated locally
	// before it is ever sent to the backend.
	Draft struct {
		Amount   decimal.Decimal
		Category string
		Note     string
		Date     time.Time
	}
)

var (
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrInvalidCategory = errors.New("unknown category")
	ErrMissingDate     = errors.New("date is required")
	ErrFutureDate      = errors.New("date cannot be in the future")
)

// ValidCategory reports whether c is one of the fixed category values.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (d Draft) Validate() error {
	if !d.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !ValidCategory(d.Category) {
		return ErrInvalidCategory
	}
	if d.Date.IsZero() {
		return ErrMissingDate
	}
	if d.Date.After(endOfToday()) {
		return ErrFutureDate
	}
	return nil
}

func endOfToday() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}

// dateLayouts covers the formats the backend has been seen to produce:
// RFC 3339 from ISO timestamps, HTTP-date from older serializers, and
// plain calendar dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.RFC1123,
	"Mon, 02 Jan 2006 15:04:05 MST",
	"2006-01-02",
}

// ParseDate parses a wire date string. Callers are expected to degrade
// gracefully on error rather than abort.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format: " + s)
}

// When returns the expense date as an instant, or the zero time when the
// wire value does not parse.
func (e Expense) When() time.Time {
	t, err := ParseDate(e.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}
