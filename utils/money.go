package utils

import (
	"math"
	"strconv"
	"strings"
)

// DefaultCurrency is the currency prefix used when the rate table does not name one
const DefaultCurrency = "Rs."

// FormatPrice formats an amount like "Rs. 1,250" or "Rs. 12.50".
// Whole amounts are printed without decimals, fractional ones with two.
// Uses comma as thousands separator.
func FormatPrice(currency string, amount float64) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return currency + " -"
	}

	neg := amount < 0
	if neg {
		amount = -amount
	}

	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	frac := cents % 100

	s := strconv.FormatInt(whole, 10)

	var b strings.Builder
	// Pre-allocate: digits + separators + currency + decimals
	b.Grow(len(s) + len(s)/3 + len(currency) + 5)
	if neg {
		b.WriteString("-")
	}
	b.WriteString(currency)
	b.WriteByte(' ')

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}

	if frac != 0 {
		b.WriteByte('.')
		if frac < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.FormatInt(frac, 10))
	}

	return b.String()
}
