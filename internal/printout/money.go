package printout

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount the way Spanish receipts print it: dot for
// thousands, comma for decimals and a trailing euro sign ("1.234,56 €").
func FormatMoney(amount decimal.Decimal) string {
	return FormatNumber(amount, 2) + " €"
}

// FormatNumber renders amount with the given number of decimals using
// Spanish separators.
func FormatNumber(amount decimal.Decimal, places int32) string {
	fixed := amount.Round(places).StringFixed(places)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	whole, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}
