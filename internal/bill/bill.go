// Package bill implements the structural edits of a bill.
//
// Every mutator is a pure function: it takes a BillState and returns a new
// one, never modifying its input. When an edit is rejected the returned
// state equals the input and the error says why, so callers can show a
// message while keeping the bill unchanged.
package bill

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplitter/internal/currency"
	"github.com/mmynk/billsplitter/internal/models"
)

var (
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrMissingPrice       = errors.New("price is required")
	ErrNegativePrice      = errors.New("price cannot be negative")
	ErrNoParticipants     = errors.New("add at least one person before adding items")
	ErrUnknownItem        = errors.New("item not found")
	ErrUnknownParticipant = errors.New("participant not found")
	ErrInvalidSettings    = errors.New("invalid bill settings")
	ErrAmountOutOfRange   = errors.New("amount out of range")
)

// NewID generates identifiers for new participants and items.
var NewID = func() string {
	return uuid.NewString()
}

// AddParticipant appends a participant with a fresh ID.
func AddParticipant(state models.BillState, name string) (models.BillState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return state, ErrEmptyName
	}

	next := clone(state)
	next.Participants = append(next.Participants, models.Participant{ID: NewID(), Name: name})
	return next, nil
}

// RemoveParticipant removes a participant and strips them from every item's
// assignment set.
func RemoveParticipant(state models.BillState, participantID string) (models.BillState, error) {
	if indexOfParticipant(state, participantID) < 0 {
		return state, ErrUnknownParticipant
	}

	next := clone(state)
	participants := next.Participants[:0]
	for _, p := range next.Participants {
		if p.ID != participantID {
			participants = append(participants, p)
		}
	}
	next.Participants = participants

	for i := range next.Items {
		next.Items[i].AssignedTo = without(next.Items[i].AssignedTo, participantID)
	}
	return next, nil
}

// AddItem appends an unassigned item. The name must be non-empty, the price
// present and non-negative, and the bill must have at least one participant.
// Quantities below 1 become 1.
func AddItem(state models.BillState, name string, unitPrice decimal.NullDecimal, quantity int) (models.BillState, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return state, ErrEmptyName
	case !unitPrice.Valid:
		return state, ErrMissingPrice
	case unitPrice.Decimal.IsNegative():
		return state, ErrNegativePrice
	case CheckAmount(unitPrice.Decimal) != nil:
		return state, ErrAmountOutOfRange
	case len(state.Participants) == 0:
		return state, ErrNoParticipants
	}

	next := clone(state)
	next.Items = append(next.Items, newItem(name, unitPrice.Decimal, quantity))
	return next, nil
}

// RemoveItem deletes an item from the bill.
func RemoveItem(state models.BillState, itemID string) (models.BillState, error) {
	if indexOfItem(state, itemID) < 0 {
		return state, ErrUnknownItem
	}

	next := clone(state)
	items := next.Items[:0]
	for _, it := range next.Items {
		if it.ID != itemID {
			items = append(items, it)
		}
	}
	next.Items = items
	return next, nil
}

// UpdateItem replaces an item's name, unit price and quantity, keeping its
// assignments.
func UpdateItem(state models.BillState, itemID, name string, unitPrice decimal.NullDecimal, quantity int) (models.BillState, error) {
	idx := indexOfItem(state, itemID)
	if idx < 0 {
		return state, ErrUnknownItem
	}
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return state, ErrEmptyName
	case !unitPrice.Valid:
		return state, ErrMissingPrice
	case unitPrice.Decimal.IsNegative():
		return state, ErrNegativePrice
	case CheckAmount(unitPrice.Decimal) != nil:
		return state, ErrAmountOutOfRange
	}

	next := clone(state)
	next.Items[idx].Name = name
	next.Items[idx].UnitPrice = unitPrice.Decimal
	next.Items[idx].Quantity = max(quantity, 1)
	return next, nil
}

// ToggleAssignment adds the participant to the item if absent, or removes
// them if present.
func ToggleAssignment(state models.BillState, itemID, participantID string) (models.BillState, error) {
	idx := indexOfItem(state, itemID)
	if idx < 0 {
		return state, ErrUnknownItem
	}
	if indexOfParticipant(state, participantID) < 0 {
		return state, ErrUnknownParticipant
	}

	next := clone(state)
	it := &next.Items[idx]
	if it.IsAssignedTo(participantID) {
		it.AssignedTo = without(it.AssignedTo, participantID)
	} else {
		it.AssignedTo = append(it.AssignedTo, participantID)
	}
	return next, nil
}

// SetAllAssigned clears the item's assignments when every participant is
// already assigned, and assigns everyone otherwise.
func SetAllAssigned(state models.BillState, itemID string) (models.BillState, error) {
	idx := indexOfItem(state, itemID)
	if idx < 0 {
		return state, ErrUnknownItem
	}

	next := clone(state)
	it := &next.Items[idx]

	allAssigned := len(next.Participants) > 0
	for _, p := range next.Participants {
		if !it.IsAssignedTo(p.ID) {
			allAssigned = false
			break
		}
	}

	if allAssigned {
		it.AssignedTo = []string{}
		return next, nil
	}
	it.AssignedTo = make([]string, 0, len(next.Participants))
	for _, p := range next.Participants {
		it.AssignedTo = append(it.AssignedTo, p.ID)
	}
	return next, nil
}

// UpdateSettings replaces the bill's adjustment and currency settings.
// Negative values are rejected; currency codes are normalized.
func UpdateSettings(state models.BillState, settings models.Settings) (models.BillState, error) {
	if err := validateSettings(settings); err != nil {
		return state, err
	}

	settings.Currency = currency.Normalize(settings.Currency)
	if settings.Currency == "" {
		settings.Currency = models.DefaultCurrency
	}
	settings.ConvertTo = currency.Normalize(settings.ConvertTo)
	if settings.DiscountType == "" {
		settings.DiscountType = models.DiscountPercentage
	}

	next := clone(state)
	next.Settings = settings
	return next, nil
}

func newItem(name string, unitPrice decimal.Decimal, quantity int) models.LineItem {
	return models.LineItem{
		ID:         NewID(),
		Name:       name,
		UnitPrice:  unitPrice,
		Quantity:   max(quantity, 1),
		AssignedTo: []string{},
	}
}

// clone deep-copies the slices of a state so edits never alias the input.
func clone(state models.BillState) models.BillState {
	next := models.BillState{
		Participants: make([]models.Participant, len(state.Participants)),
		Items:        make([]models.LineItem, len(state.Items)),
		Settings:     state.Settings,
	}
	copy(next.Participants, state.Participants)
	for i, it := range state.Items {
		assigned := make([]string, len(it.AssignedTo))
		copy(assigned, it.AssignedTo)
		it.AssignedTo = assigned
		next.Items[i] = it
	}
	return next
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func indexOfItem(state models.BillState, itemID string) int {
	for i, it := range state.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

func indexOfParticipant(state models.BillState, participantID string) int {
	for i, p := range state.Participants {
		if p.ID == participantID {
			return i
		}
	}
	return -1
}
