// Package calculator implements the bill apportionment engine.
//
// Every function here is a pure, total function of a models.BillState:
// no I/O, no errors, and identical results for identical input.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplitter/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Split is the full result of apportioning a bill.
type Split struct {
	Totals models.Totals

	// Shares holds one entry per participant, in insertion order.
	Shares []models.PersonShare

	// UnassignedTotal is the sum of line totals of items assigned to nobody.
	// That value is excluded from every personal total.
	UnassignedTotal decimal.Decimal

	// Reconciled is true when every item has at least one assignee, which
	// is exactly when the personal totals add up to Totals.Total.
	Reconciled bool
}

// CalculateSplit computes the bill totals and every participant's share.
func CalculateSplit(state models.BillState) Split {
	totals := ComputeTotals(state)

	shares := make([]models.PersonShare, 0, len(state.Participants))
	for _, p := range state.Participants {
		shares = append(shares, personShare(state, totals, p))
	}

	unassigned := decimal.Zero
	reconciled := true
	for _, item := range state.Items {
		if item.ShareCount() == 0 {
			unassigned = unassigned.Add(item.LineTotal())
			reconciled = false
		}
	}

	return Split{
		Totals:          totals,
		Shares:          shares,
		UnassignedTotal: unassigned,
		Reconciled:      reconciled,
	}
}

// ComputeTotals computes every stage of the bill-level total:
// subtotal → discount → service charge → tax.
func ComputeTotals(state models.BillState) models.Totals {
	s := state.Settings
	subtotal := Subtotal(state.Items)

	// No floor: an over-sized discount yields a negative amount after discount.
	discount := s.DiscountValue
	if s.DiscountType != models.DiscountFixed {
		discount = s.DiscountValue.Mul(subtotal).Div(hundred)
	}
	afterDiscount := subtotal.Sub(discount)

	service := surcharge(afterDiscount, s.ServiceCharge)
	afterService := afterDiscount.Add(service)

	tax := surcharge(afterService, s.Tax)

	return models.Totals{
		Subtotal:            subtotal,
		DiscountAmount:      discount,
		AfterDiscount:       afterDiscount,
		ServiceChargeAmount: service,
		AfterServiceCharge:  afterService,
		TaxAmount:           tax,
		Total:               afterService.Add(tax),
	}
}

// ComputePersonTotal returns the amount one participant owes.
// Unknown participants owe zero.
func ComputePersonTotal(state models.BillState, participantID string) decimal.Decimal {
	return ComputePersonShare(state, participantID).Total
}

// ComputePersonShare returns one participant's share of every stage.
//
// Each item contributes line total / share count to every assignee. The
// person then absorbs the bill discount in proportion to their raw share of
// the subtotal, and service charge and tax are applied to their running
// amount at the bill's rates.
func ComputePersonShare(state models.BillState, participantID string) models.PersonShare {
	p := models.Participant{ID: participantID}
	for _, candidate := range state.Participants {
		if candidate.ID == participantID {
			p = candidate
			break
		}
	}
	return personShare(state, ComputeTotals(state), p)
}

func personShare(state models.BillState, totals models.Totals, p models.Participant) models.PersonShare {
	share := models.PersonShare{
		ParticipantID: p.ID,
		Name:          p.Name,
		RawShare:      decimal.Zero,
		Ratio:         decimal.Zero,
		Discount:      decimal.Zero,
		ServiceCharge: decimal.Zero,
		Tax:           decimal.Zero,
		Total:         decimal.Zero,
		Items:         []models.PersonItem{},
	}

	for _, item := range state.Items {
		if !item.IsAssignedTo(p.ID) {
			continue
		}
		amount := item.LineTotal().Div(decimal.NewFromInt(int64(item.ShareCount())))
		share.RawShare = share.RawShare.Add(amount)
		share.Items = append(share.Items, models.PersonItem{
			ItemID:   item.ID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Amount:   amount,
		})
	}

	if totals.Subtotal.IsZero() {
		return share
	}

	share.Ratio = share.RawShare.Div(totals.Subtotal)
	share.Discount = totals.DiscountAmount.Mul(share.Ratio)
	afterDiscount := share.RawShare.Sub(share.Discount)

	share.ServiceCharge = surcharge(afterDiscount, state.Settings.ServiceCharge)
	afterService := afterDiscount.Add(share.ServiceCharge)

	share.Tax = surcharge(afterService, state.Settings.Tax)
	share.Total = afterService.Add(share.Tax)
	return share
}

// Subtotal returns Σ unit price × quantity over all items.
func Subtotal(items []models.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

func surcharge(amount decimal.Decimal, s models.Surcharge) decimal.Decimal {
	if !s.Enabled {
		return decimal.Zero
	}
	return amount.Mul(s.Rate).Div(hundred)
}
