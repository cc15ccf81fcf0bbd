package views

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"outlay/internal/core"
)

// InvalidDateMarker is shown for records whose wire date does not
// parse. Rendering must survive such records.
const InvalidDateMarker = "Invalid date"

const emptyNotePlaceholder = "-"

// dateLayout matches the medium date style of the en-family locales,
// e.g. "Jan 5, 2024".
const dateLayout = "Jan 2, 2006"

// Row is one formatted line of the expense table.
type Row struct {
	Date     string
	Category string
	Amount   string
	Note     string
}

// Formatter turns raw record fields into localized display strings.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

func NewFormatter(tag language.Tag, currencyCode string) (*Formatter, error) {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", currencyCode, err)
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		unit:    unit,
	}, nil
}

// Row formats one record. It never fails: malformed fields degrade to
// placeholders.
func (f *Formatter) Row(e core.Expense) Row {
	return Row{
		Date:     f.Date(e.Date),
		Category: e.Category,
		Amount:   f.Currency(e.Amount),
		Note:     f.Note(e.Note),
	}
}

// Currency renders an amount with the locale's digits and grouping and
// the currency's symbol.
func (f *Formatter) Currency(d decimal.Decimal) string {
	sym := f.printer.Sprint(currency.Symbol(f.unit))
	num := f.printer.Sprint(number.Decimal(d.InexactFloat64(),
		number.Scale(2)))
	return sym + num
}

// Date renders a wire date string, or InvalidDateMarker when it does
// not parse.
func (f *Formatter) Date(s string) string {
	t, err := core.ParseDate(s)
	if err != nil {
		return InvalidDateMarker
	}
	return t.Format(dateLayout)
}

// Note renders the optional note with a placeholder for empty values.
func (f *Formatter) Note(s string) string {
	if s == "" {
		return emptyNotePlaceholder
	}
	return s
}

// Percent renders a percentage share with one decimal, e.g. "20.0%".
func (f *Formatter) Percent(v float64) string {
	return f.printer.Sprintf("%.1f%%", v)
}
