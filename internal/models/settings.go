package models

import "github.com/shopspring/decimal"

// DiscountType selects how Settings.DiscountValue is interpreted.
type DiscountType string

const (
	// DiscountPercentage treats the value as a percentage of the subtotal.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed treats the value as an absolute amount.
	DiscountFixed DiscountType = "fixed"
)

// DefaultCurrency is the currency new bills start in.
const DefaultCurrency = "MVR"

// Surcharge is a percentage applied on top of a running amount.
type Surcharge struct {
	Enabled bool            `json:"enabled"`
	Rate    decimal.Decimal `json:"rate"` // percent, e.g. 10 for 10%
}

// Settings holds the bill-level adjustments and currency choices.
type Settings struct {
	// DiscountType is percentage-of-subtotal or fixed-amount.
	DiscountType DiscountType `json:"discount_type"`

	// DiscountValue is never negative. No upper bound is enforced: a fixed
	// discount above the subtotal, or a percentage above 100, is allowed.
	DiscountValue decimal.Decimal `json:"discount_value"`

	// ServiceCharge is applied after the discount.
	ServiceCharge Surcharge `json:"service_charge"`

	// Tax (GST) is applied after the service charge.
	Tax Surcharge `json:"tax"`

	// Currency is the code every amount on the bill is entered in.
	Currency string `json:"currency"`

	// ConvertTo is an optional target currency code for displaying converted totals.
	ConvertTo string `json:"convert_to,omitempty"`

	// CustomRate overrides the table rate when converting out of Currency.
	// Only used when valid and greater than zero.
	CustomRate decimal.NullDecimal `json:"custom_rate"`
}

// DefaultSettings returns the settings a new bill starts with.
func DefaultSettings() Settings {
	return Settings{
		DiscountType:  DiscountPercentage,
		DiscountValue: decimal.Zero,
		ServiceCharge: Surcharge{Enabled: false, Rate: decimal.NewFromInt(10)},
		Tax:           Surcharge{Enabled: false, Rate: decimal.NewFromInt(8)},
		Currency:      DefaultCurrency,
	}
}

// HasConversion reports whether a distinct conversion target is set.
func (s Settings) HasConversion() bool {
	return s.ConvertTo != "" && s.ConvertTo != s.Currency
}
