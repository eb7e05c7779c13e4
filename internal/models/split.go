package models

import "github.com/shopspring/decimal"

// BillState is the whole in-memory bill: participants, items and settings.
// It is the unit of computation; the calculator is a pure function of it.
type BillState struct {
	// Participants is the list of people splitting the bill, in insertion order.
	Participants []Participant `json:"participants"`

	// Items are the line items on the bill.
	// Each item can be assigned to zero or more participants.
	Items []LineItem `json:"items"`

	// Settings holds the discount, service charge, tax and currency settings.
	Settings Settings `json:"settings"`
}

// NewBillState returns an empty bill with default settings.
func NewBillState() BillState {
	return BillState{
		Participants: []Participant{},
		Items:        []LineItem{},
		Settings:     DefaultSettings(),
	}
}

// Participant represents a person splitting the bill.
type Participant struct {
	// ID is the unique identifier of the participant within the bill (UUID format).
	ID string `json:"id"`

	// Name is the display name. Never empty after trimming.
	Name string `json:"name"`
}

// LineItem represents a single line item on a bill.
// Items can be shared among multiple participants.
type LineItem struct {
	// ID is the unique identifier of the item within the bill (UUID format).
	ID string `json:"id"`

	// Name is the name or description of the item (e.g., "Pizza", "Beer").
	Name string `json:"name"`

	// UnitPrice is the pre-adjustment price of one unit. Never negative.
	UnitPrice decimal.Decimal `json:"unit_price"`

	// Quantity is the number of units. Always at least 1.
	Quantity int `json:"quantity"`

	// AssignedTo is the set of participant IDs who split this item.
	// If multiple people are assigned, the line total is split equally.
	// An empty set means the item counts towards the subtotal but
	// towards nobody's personal total.
	AssignedTo []string `json:"assigned_to"`
}

// LineTotal returns unit price × quantity.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsAssignedTo reports whether the participant is in the item's assignment set.
func (i LineItem) IsAssignedTo(participantID string) bool {
	for _, id := range i.AssignedTo {
		if id == participantID {
			return true
		}
	}
	return false
}

// ShareCount returns the number of distinct participants assigned to the item.
func (i LineItem) ShareCount() int {
	if len(i.AssignedTo) < 2 {
		return len(i.AssignedTo)
	}
	seen := make(map[string]struct{}, len(i.AssignedTo))
	for _, id := range i.AssignedTo {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// Totals holds every stage of the bill-level computation.
// It is derived from a BillState and never stored.
type Totals struct {
	Subtotal            decimal.Decimal `json:"subtotal"`
	DiscountAmount      decimal.Decimal `json:"discount_amount"`
	AfterDiscount       decimal.Decimal `json:"after_discount"`
	ServiceChargeAmount decimal.Decimal `json:"service_charge_amount"`
	AfterServiceCharge  decimal.Decimal `json:"after_service_charge"`
	TaxAmount           decimal.Decimal `json:"tax_amount"`
	Total               decimal.Decimal `json:"total"`
}

// PersonItem represents an item's share for one person.
type PersonItem struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"` // This person's share of the line total
}

// PersonShare represents one person's calculated share of a bill.
// This is the output of the split calculation algorithm.
type PersonShare struct {
	// ParticipantID and Name identify the person.
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`

	// RawShare is the sum of this person's item shares before adjustments.
	RawShare decimal.Decimal `json:"raw_share"`

	// Ratio is RawShare divided by the bill subtotal (zero when the subtotal is zero).
	Ratio decimal.Decimal `json:"ratio"`

	// Discount is this person's proportional share of the bill discount.
	Discount decimal.Decimal `json:"discount"`

	// ServiceCharge and Tax are computed on the person's running amount
	// using the bill's rates.
	ServiceCharge decimal.Decimal `json:"service_charge"`
	Tax           decimal.Decimal `json:"tax"`

	// Total is the final amount this person owes.
	Total decimal.Decimal `json:"total"`

	// Items are the specific items assigned to this person with their share amounts.
	Items []PersonItem `json:"items"`
}

// Transfer represents a suggested payment between participants to settle a bill.
type Transfer struct {
	// From is the participant who owes money.
	From string `json:"from"`

	// To is the participant who is owed money.
	To string `json:"to"`

	Amount decimal.Decimal `json:"amount"`
}
