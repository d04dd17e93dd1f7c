// Package money normalizes locale-formatted monetary input into
// fixed-point decimals. Attendants type amounts the Brazilian way
// ("1.234,56"); everything that is not a digit or the decimal comma is
// stripped before parsing, and unparseable or empty input is zero.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts locale-formatted text into a decimal amount. Thousands
// separators and currency symbols are discarded, the decimal comma
// becomes a dot, and anything that still fails to parse yields zero.
func Parse(value string) decimal.Decimal {
	var b strings.Builder
	for _, r := range value {
		if (r >= '0' && r <= '9') || r == ',' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	// More than one comma makes the input ambiguous; keep digits only.
	if strings.Count(clean, ",") > 1 {
		clean = strings.ReplaceAll(clean, ",", "")
	} else {
		clean = strings.Replace(clean, ",", ".", 1)
	}
	if clean == "" || clean == "." {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Format renders an amount with two decimal places and a comma separator,
// matching what the mobile form displays.
func Format(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
