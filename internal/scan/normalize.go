package scan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplitter/internal/models"
)

// RawItem is one untrusted entry of classifier output. Fields are kept raw
// because the classifier may send any JSON type for any of them.
type RawItem struct {
	Name       json.RawMessage `json:"name"`
	Price      json.RawMessage `json:"price"`
	Quantity   json.RawMessage `json:"quantity"`
	Confidence json.RawMessage `json:"confidence"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// ErrInvalidItem is returned by ValidateItems.
var ErrInvalidItem = errors.New("invalid scanned item")

// ValidateItems checks items a client sends back after a scan, before they
// are added to a bill.
func ValidateItems(items []Item) error {
	for i, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("%w %d: name is empty", ErrInvalidItem, i)
		}
		if err := validate.Struct(it); err != nil {
			return fmt.Errorf("%w %d: %w", ErrInvalidItem, i, err)
		}
	}
	return nil
}

// Normalize converts raw classifier entries into validated items.
//
// Entries without a non-empty name or a numeric price are dropped, as are
// negative prices. Quantity becomes a positive integer (default 1) and
// confidence one of high, medium or low (default medium). Order is kept.
func Normalize(raw []RawItem) []Item {
	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		name, ok := parseName(r.Name)
		if !ok {
			continue
		}
		price, ok := parseNumber(r.Price)
		if !ok || price.IsNegative() || !models.AmountInRange(price) {
			continue
		}

		item := Item{
			Name:       name,
			Price:      price,
			Quantity:   parseQuantity(r.Quantity),
			Confidence: parseConfidence(r.Confidence),
		}
		if err := validate.Struct(item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items
}

func parseName(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}

	var name string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &name); err != nil {
			return "", false
		}
	default:
		// A bare number such as a table or menu code still names a line.
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", false
		}
		name = n.String()
	}

	name = strings.TrimSpace(name)
	return name, name != ""
}

// parseNumber accepts a JSON number or a string holding one.
func parseNumber(raw json.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return decimal.Zero, false
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, false
		}
		text = strings.TrimSpace(s)
	} else {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return decimal.Zero, false
		}
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func parseQuantity(raw json.RawMessage) int {
	d, ok := parseNumber(raw)
	if !ok || !models.AmountInRange(d) {
		return 1
	}
	q := d.Truncate(0)
	if q.LessThan(decimal.NewFromInt(1)) || q.GreaterThan(decimal.NewFromInt(maxQuantity)) {
		return 1
	}
	return int(q.IntPart())
}

// maxQuantity bounds quantities to something a receipt line can plausibly carry.
const maxQuantity = 10000

func parseConfidence(raw json.RawMessage) Confidence {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ConfidenceMedium
	}
	switch c := Confidence(strings.ToLower(strings.TrimSpace(s))); c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return c
	}
	return ConfidenceMedium
}
