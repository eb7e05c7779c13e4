// Package currency holds the static currency table and the conversion and
// formatting rules applied on top of apportioned amounts.
package currency

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ReferenceCode is the currency every table rate is expressed against.
const ReferenceCode = "USD"

// Currency describes one entry of the table.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`

	// Rate is units of this currency per one unit of ReferenceCode.
	Rate decimal.Decimal `json:"rate"`

	// WholeUnits marks currencies displayed without a fractional part.
	WholeUnits bool `json:"whole_units"`
}

var table = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar", Rate: decimal.RequireFromString("1.0")},
	{Code: "EUR", Symbol: "€", Name: "Euro", Rate: decimal.RequireFromString("0.92")},
	{Code: "GBP", Symbol: "£", Name: "British Pound", Rate: decimal.RequireFromString("0.79")},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar", Rate: decimal.RequireFromString("1.36")},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar", Rate: decimal.RequireFromString("1.52")},
	{Code: "SGD", Symbol: "S$", Name: "Singapore Dollar", Rate: decimal.RequireFromString("1.34")},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee", Rate: decimal.RequireFromString("83.12")},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Rate: decimal.RequireFromString("149.5"), WholeUnits: true},
	{Code: "CNY", Symbol: "¥", Name: "Chinese Yuan", Rate: decimal.RequireFromString("7.23")},
	{Code: "KRW", Symbol: "₩", Name: "South Korean Won", Rate: decimal.RequireFromString("1320.0"), WholeUnits: true},
	{Code: "MYR", Symbol: "RM", Name: "Malaysian Ringgit", Rate: decimal.RequireFromString("4.67")},
	{Code: "THB", Symbol: "฿", Name: "Thai Baht", Rate: decimal.RequireFromString("35.8")},
	{Code: "PHP", Symbol: "₱", Name: "Philippine Peso", Rate: decimal.RequireFromString("56.5")},
	{Code: "VND", Symbol: "₫", Name: "Vietnamese Dong", Rate: decimal.RequireFromString("24500.0"), WholeUnits: true},
	{Code: "MVR", Symbol: "RF", Name: "Maldivian Rufiyaa", Rate: decimal.RequireFromString("15.42")},
}

var byCode = func() map[string]Currency {
	m := make(map[string]Currency, len(table))
	for _, c := range table {
		m[c.Code] = c
	}
	return m
}()

// List returns the currency table in display order.
func List() []Currency {
	out := make([]Currency, len(table))
	copy(out, table)
	return out
}

// Lookup returns the table entry for code.
func Lookup(code string) (Currency, bool) {
	c, ok := byCode[Normalize(code)]
	return c, ok
}

// Known reports whether code is in the table.
func Known(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// Normalize trims and upper-cases a currency code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Symbol returns the display symbol for code, or the code itself when unknown.
func Symbol(code string) string {
	if c, ok := Lookup(code); ok {
		return c.Symbol
	}
	return code
}

// Rate returns units of code per reference unit. Unknown codes fall back to 1.
func Rate(code string) decimal.Decimal {
	if c, ok := Lookup(code); ok && c.Rate.IsPositive() {
		return c.Rate
	}
	return decimal.NewFromInt(1)
}

// Format renders amount as symbol + value. Whole-unit currencies are rounded
// to the nearest unit with grouped digits; all others get two decimals.
func Format(amount decimal.Decimal, code string) string {
	return Symbol(code) + formatValue(amount, code)
}

// FormatCode renders amount as "CODE value", for outputs limited to Latin-1.
func FormatCode(amount decimal.Decimal, code string) string {
	return code + " " + formatValue(amount, code)
}

func formatValue(amount decimal.Decimal, code string) string {
	if c, ok := Lookup(code); ok && c.WholeUnits {
		return humanize.Comma(amount.Round(0).IntPart())
	}
	return amount.StringFixed(2)
}
