package currency

import "github.com/shopspring/decimal"

// Converter converts amounts between currencies for one bill.
type Converter struct {
	// Default is the bill's currency; CustomRate only applies when converting out of it.
	Default string

	// CustomRate, when valid and positive, replaces the table conversion
	// from Default to any other currency.
	CustomRate decimal.NullDecimal
}

// NewConverter returns a converter for a bill in the given currency.
func NewConverter(defaultCode string, customRate decimal.NullDecimal) Converter {
	return Converter{Default: Normalize(defaultCode), CustomRate: customRate}
}

// Convert converts amount from one currency to another. It is the identity
// when to is empty or equal to from. Otherwise the custom rate is applied
// directly when converting out of the default currency, and everything else
// goes through the reference unit: amount / rate[from] × rate[to].
func (c Converter) Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	from, to = Normalize(from), Normalize(to)
	if to == "" || from == to {
		return amount
	}
	if from == c.Default && c.hasCustomRate() {
		return amount.Mul(c.CustomRate.Decimal)
	}
	return amount.Div(Rate(from)).Mul(Rate(to))
}

func (c Converter) hasCustomRate() bool {
	return c.CustomRate.Valid && c.CustomRate.Decimal.IsPositive()
}

// EffectiveRate returns the multiplier Convert applies for from → to.
func (c Converter) EffectiveRate(from, to string) decimal.Decimal {
	return c.Convert(decimal.NewFromInt(1), from, to)
}
