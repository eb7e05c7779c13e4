package bill

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplitter/internal/models"
	"github.com/mmynk/billsplitter/internal/scan"
)

// AddScannedItems appends normalized scan results as unassigned items.
//
// Scanned prices are line totals, so the unit price is the line total divided
// by the quantity. A total that does not divide evenly is rounded to
// MaxAmountScale places, so 10.00 for 3 becomes 3.33333333 each and the line
// total drifts by far less than a cent. Unlike AddItem this does not require
// participants: people are often added after a receipt has been scanned.
func AddScannedItems(state models.BillState, items []scan.Item) (models.BillState, error) {
	if len(items) == 0 {
		return state, nil
	}

	next := clone(state)
	for _, it := range items {
		if it.Price.IsNegative() {
			return state, ErrNegativePrice
		}
		if err := CheckAmount(it.Price); err != nil {
			return state, err
		}
		qty := max(it.Quantity, 1)
		unit := it.Price
		if qty > 1 {
			unit = it.Price.DivRound(decimal.NewFromInt(int64(qty)), MaxAmountScale)
		}
		next.Items = append(next.Items, newItem(it.Name, unit, qty))
	}
	return next, nil
}
