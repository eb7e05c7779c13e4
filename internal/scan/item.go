// Package scan turns a receipt photo into validated line items.
//
// The classifier (a vision model) is untrusted: its output is parsed
// strictly and every entry passes through Normalize before anything can
// reach a bill.
package scan

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Errors returned by the scan flow. Their text is shown to users as is.
var (
	ErrUnsupportedMediaType  = errors.New("Invalid media type. Supported: JPEG, PNG, GIF, WebP")
	ErrMissingImage          = errors.New("Missing required fields: image and mediaType")
	ErrImageTooLarge         = errors.New("Image is too large. Please use a photo under the size limit.")
	ErrUnparseable           = errors.New("Failed to parse bill items. Please try a clearer photo.")
	ErrRateLimited           = errors.New("Too many requests. Please wait a moment and try again.")
	ErrClassifierAuth        = errors.New("API key not configured. Please check server configuration.")
	ErrClassifierUnavailable = errors.New("AI service temporarily unavailable. Please try again.")
)

// Confidence is the classifier's certainty about one extracted line.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Item is a validated line item extracted from a receipt.
type Item struct {
	Name string `json:"name" validate:"required"`

	// Price is the line total as printed on the receipt, not a unit price.
	Price decimal.Decimal `json:"price" validate:"gte=0"`

	Quantity   int        `json:"quantity" validate:"min=1"`
	Confidence Confidence `json:"confidence" validate:"oneof=high medium low"`
}

// Result is a parsed and normalized classifier response.
type Result struct {
	Items    []Item   `json:"items"`
	Warnings []string `json:"warnings"`
}

// Total sums the line totals of the items.
func (r Result) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range r.Items {
		total = total.Add(it.Price)
	}
	return total
}
