// Package money formats minor-unit amounts as display strings.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency is used when the upstream omits a currency code.
const DefaultCurrency = "USD"

// symbols mirrors the en-US narrow display for the currencies we expect to see.
var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "CA$",
	"AUD": "A$",
}

// Format renders amount (in minor units) in the given ISO 4217 currency, for
// example Format(999999, "USD") == "$9,999.99". An empty or unknown code falls
// back to USD.
func Format(amount int64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	iso := unit.String()

	scale, _ := currency.Standard.Rounding(unit)

	value := decimal.New(amount, int32(-scale))
	neg := value.IsNegative()
	digits := value.Abs().StringFixed(int32(scale))

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	if sym, ok := symbols[iso]; ok {
		b.WriteString(sym)
	} else {
		b.WriteString(iso)
		b.WriteByte(' ')
	}
	b.WriteString(group(digits))
	return b.String()
}

// group inserts thousands separators into the integer part of s.
func group(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
