package models

import "github.com/shopspring/decimal"

// Amounts carry at most MaxAmountScale fractional digits and stay below
// MaxAmount in magnitude. Decimal arithmetic cost grows with the exponent,
// so values outside these bounds are refused before any math runs on them.
const MaxAmountScale = 8

var MaxAmount = decimal.New(1, 15)

// AmountInRange reports whether d fits the amount bounds. The exponent is
// checked first so huge exponents are never rescaled.
func AmountInRange(d decimal.Decimal) bool {
	if d.IsZero() {
		return true
	}
	exp := d.Exponent()
	if exp < -MaxAmountScale || exp > 15 {
		return false
	}
	return d.Abs().LessThan(MaxAmount)
}
