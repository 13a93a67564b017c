package utils

import (
	"github.com/shopspring/decimal"
)

// FormatCents renders an amount in cents as a fixed two-decimal string,
// e.g. 2000 -> "20.00" and -150 -> "-1.50"
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
