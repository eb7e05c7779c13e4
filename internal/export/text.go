// Package export renders a bill breakdown for people: a plain-text file, a
// short chat-friendly summary, and a PDF.
//
// Every renderer derives its numbers from the calculator on the spot, so the
// same BillState always produces the same bytes.
package export

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplitter/internal/calculator"
	"github.com/mmynk/billsplitter/internal/currency"
	"github.com/mmynk/billsplitter/internal/models"
)

// TextFilename is the suggested download name for Text output.
const TextFilename = "bill-breakdown.txt"

// Text renders the full breakdown: items, every adjustment stage, the grand
// total with an optional converted total, and per-person totals.
func Text(state models.BillState) string {
	split := calculator.CalculateSplit(state)
	s := state.Settings
	conv := currency.NewConverter(s.Currency, s.CustomRate)
	money := func(d decimal.Decimal) string { return currency.Format(d, s.Currency) }

	var b strings.Builder
	b.WriteString("Bill Breakdown\n")
	b.WriteString("================\n\n")

	b.WriteString("Items:\n")
	for _, item := range state.Items {
		fmt.Fprintf(&b, "%s%s - %s", quantityPrefix(item.Quantity), item.Name, money(item.LineTotal()))
		if len(item.AssignedTo) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(assigneeNames(state, item), ", "))
		}
		b.WriteString("\n")
	}

	t := split.Totals
	fmt.Fprintf(&b, "\nSubtotal: %s", money(t.Subtotal))
	if t.DiscountAmount.IsPositive() {
		fmt.Fprintf(&b, "\nDiscount: -%s", money(t.DiscountAmount))
		fmt.Fprintf(&b, "\nAfter Discount: %s", money(t.AfterDiscount))
	}
	if s.ServiceCharge.Enabled && t.ServiceChargeAmount.IsPositive() {
		fmt.Fprintf(&b, "\nService Charge (%s%%): %s", s.ServiceCharge.Rate.String(), money(t.ServiceChargeAmount))
		fmt.Fprintf(&b, "\nAfter Service Charge: %s", money(t.AfterServiceCharge))
	}
	if s.Tax.Enabled {
		fmt.Fprintf(&b, "\nGST (%s%%): %s", s.Tax.Rate.String(), money(t.TaxAmount))
	}
	fmt.Fprintf(&b, "\nTotal: %s", money(t.Total))
	if s.HasConversion() {
		fmt.Fprintf(&b, "\nTotal in %s: %s", s.ConvertTo,
			currency.Format(conv.Convert(t.Total, s.Currency, s.ConvertTo), s.ConvertTo))
	}

	b.WriteString("\n\nPer Person:\n")
	for _, share := range split.Shares {
		fmt.Fprintf(&b, "%s: %s", share.Name, money(share.Total))
		if s.HasConversion() {
			fmt.Fprintf(&b, " (%s)", currency.Format(conv.Convert(share.Total, s.Currency, s.ConvertTo), s.ConvertTo))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// ShareText renders the short summary meant for pasting into a chat:
// items with line totals, the grand total and each person's amount.
func ShareText(state models.BillState) string {
	split := calculator.CalculateSplit(state)
	code := state.Settings.Currency

	var b strings.Builder
	b.WriteString("🧾 Bill Breakdown\n\n")

	b.WriteString("📋 Items:\n")
	for _, item := range state.Items {
		fmt.Fprintf(&b, "• %s%s - %s\n", quantityPrefix(item.Quantity), item.Name, currency.Format(item.LineTotal(), code))
	}

	fmt.Fprintf(&b, "\n💰 Total: %s\n", currency.Format(split.Totals.Total, code))

	b.WriteString("\n👥 Per Person:\n")
	for _, share := range split.Shares {
		fmt.Fprintf(&b, "• %s: %s\n", share.Name, currency.Format(share.Total, code))
	}

	return b.String()
}

func quantityPrefix(qty int) string {
	if qty > 1 {
		return fmt.Sprintf("%dx ", qty)
	}
	return ""
}

func assigneeNames(state models.BillState, item models.LineItem) []string {
	names := make([]string, 0, len(item.AssignedTo))
	for _, id := range item.AssignedTo {
		name := "Unknown"
		for _, p := range state.Participants {
			if p.ID == id {
				name = p.Name
				break
			}
		}
		names = append(names, name)
	}
	return names
}
