package internal

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NotApplicable is shown for window averages without data
const NotApplicable = "n/a"

// NumberFormat renders amounts with a fixed number of decimals and locale grouping
type NumberFormat struct {
	Tag       language.Tag
	Precision int
	Unit      string // optional suffix, e.g. "BTC"
	printer   *message.Printer
}

// NewNumberFormat builds a formatter for the given locale.
// An empty locale falls back to the system locale, then English.
func NewNumberFormat(locale string, precision int, unit string) (NumberFormat, error) {
	if precision < 0 {
		return NumberFormat{}, fmt.Errorf("invalid precision %d", precision)
	}

	tag := language.English
	if locale != "" {
		t, err := ParseLocale(locale)
		if err != nil {
			return NumberFormat{}, fmt.Errorf("invalid locale %q: %w", locale, err)
		}
		tag = t
	} else if detected := detectSystemLocale(); detected != "" {
		// A broken environment shouldn't stop the report, keep English
		if t, err := ParseLocale(detected); err == nil {
			tag = t
		}
	}

	return NumberFormat{
		Tag:       tag,
		Precision: precision,
		Unit:      unit,
		printer:   message.NewPrinter(tag),
	}, nil
}

// Amount formats a number with grouping and the configured precision
func (f NumberFormat) Amount(v float64) string {
	s := f.printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(f.Precision),
		number.MaxFractionDigits(f.Precision)))
	if f.Unit != "" {
		return s + " " + f.Unit
	}
	return s
}

// Window formats a window average, or NotApplicable when it has no data
func (f NumberFormat) Window(w WindowAverage) string {
	if !w.Valid {
		return NotApplicable
	}
	return f.Amount(w.Value)
}

// Count formats an integer with locale grouping
func (f NumberFormat) Count(n int) string {
	return f.printer.Sprint(number.Decimal(n))
}
