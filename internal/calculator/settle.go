package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplitter/internal/models"
)

// settleEpsilon is the smallest amount worth a transfer.
var settleEpsilon = decimal.RequireFromString("0.01")

type balance struct {
	id     string
	amount decimal.Decimal
}

// SettleUp suggests transfers that settle a bill given what each participant
// actually paid towards it.
//
// Algorithm:
//   - net = paid - owed for every participant
//   - creditors (net > 0) and debtors (net < 0) are sorted by amount, largest first
//   - greedily match the largest debt with the largest credit
//
// Payments by unknown participants are ignored. Amounts below one cent are
// treated as settled.
func SettleUp(state models.BillState, payments map[string]decimal.Decimal) []models.Transfer {
	split := CalculateSplit(state)

	var creditors, debtors []balance
	for _, share := range split.Shares {
		paid, ok := payments[share.ParticipantID]
		if !ok {
			paid = decimal.Zero
		}
		net := paid.Sub(share.Total)
		switch {
		case net.GreaterThan(settleEpsilon):
			creditors = append(creditors, balance{id: share.ParticipantID, amount: net})
		case net.LessThan(settleEpsilon.Neg()):
			debtors = append(debtors, balance{id: share.ParticipantID, amount: net.Neg()})
		}
	}
	sortBalances(creditors)
	sortBalances(debtors)

	transfers := []models.Transfer{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := &debtors[i], &creditors[j]

		// Amount to settle is the minimum of what the debtor owes and the creditor is owed
		amount := decimal.Min(debtor.amount, creditor.amount)
		if amount.GreaterThanOrEqual(settleEpsilon) {
			transfers = append(transfers, models.Transfer{
				From:   debtor.id,
				To:     creditor.id,
				Amount: amount,
			})
		}

		debtor.amount = debtor.amount.Sub(amount)
		creditor.amount = creditor.amount.Sub(amount)

		if debtor.amount.LessThan(settleEpsilon) {
			i++
		}
		if creditor.amount.LessThan(settleEpsilon) {
			j++
		}
	}

	return transfers
}

func sortBalances(b []balance) {
	sort.SliceStable(b, func(i, j int) bool {
		if !b[i].amount.Equal(b[j].amount) {
			return b[i].amount.GreaterThan(b[j].amount)
		}
		return b[i].id < b[j].id
	})
}
