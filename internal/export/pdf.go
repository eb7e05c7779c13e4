package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/mmynk/billsplitter/internal/calculator"
	"github.com/mmynk/billsplitter/internal/currency"
	"github.com/mmynk/billsplitter/internal/models"
)

// PDFFilename is the suggested download name for PDF output.
const PDFFilename = "bill-breakdown.pdf"

// PDF writes the breakdown as a one-table A4 document. Amounts use currency
// codes rather than symbols because the core PDF fonts are Latin-1 only.
// generated is printed in the footer; pass a zero time to omit it.
func PDF(w io.Writer, state models.BillState, generated time.Time) error {
	split := calculator.CalculateSplit(state)
	s := state.Settings
	conv := currency.NewConverter(s.Currency, s.CustomRate)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bill Breakdown", true)
	pdf.SetCreator("billsplitter", true)
	if !generated.IsZero() {
		pdf.SetCreationDate(generated)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Bill Breakdown", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// Items
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(90, 8, "Item", "B", 0, "L", true, 0, "")
	pdf.CellFormat(15, 8, "Qty", "B", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "B", 0, "R", true, 0, "")
	pdf.CellFormat(50, 8, "Split", "B", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range state.Items {
		who := "-"
		if len(item.AssignedTo) > 0 {
			who = strings.Join(assigneeNames(state, item), ", ")
		}
		pdf.CellFormat(90, 7, tr(item.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(15, 7, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, currency.FormatCode(item.LineTotal(), s.Currency), "", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, tr(who), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Totals
	t := split.Totals
	row := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(105, 7, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, value, "", 1, "R", false, 0, "")
	}
	row("Subtotal", currency.FormatCode(t.Subtotal, s.Currency), false)
	if t.DiscountAmount.IsPositive() {
		row("Discount", "-"+currency.FormatCode(t.DiscountAmount, s.Currency), false)
		row("After Discount", currency.FormatCode(t.AfterDiscount, s.Currency), false)
	}
	if s.ServiceCharge.Enabled && t.ServiceChargeAmount.IsPositive() {
		row(fmt.Sprintf("Service Charge (%s%%)", s.ServiceCharge.Rate.String()), currency.FormatCode(t.ServiceChargeAmount, s.Currency), false)
	}
	if s.Tax.Enabled {
		row(fmt.Sprintf("GST (%s%%)", s.Tax.Rate.String()), currency.FormatCode(t.TaxAmount, s.Currency), false)
	}
	row("Total", currency.FormatCode(t.Total, s.Currency), true)
	if s.HasConversion() {
		row("Total in "+s.ConvertTo, currency.FormatCode(conv.Convert(t.Total, s.Currency, s.ConvertTo), s.ConvertTo), false)
	}
	pdf.Ln(4)

	// Per person
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, "Person", "B", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Owes", "B", 1, "R", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, share := range split.Shares {
		owes := currency.FormatCode(share.Total, s.Currency)
		if s.HasConversion() {
			owes += " / " + currency.FormatCode(conv.Convert(share.Total, s.Currency, s.ConvertTo), s.ConvertTo)
		}
		pdf.CellFormat(90, 7, tr(share.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, owes, "", 1, "R", false, 0, "")
	}

	if !split.Reconciled {
		pdf.Ln(3)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, fmt.Sprintf("Unassigned items worth %s are not included in any person's total.",
			currency.FormatCode(split.UnassignedTotal, s.Currency)), "", "L", false)
	}

	if !generated.IsZero() {
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(0, 5, "Generated "+generated.Format("Jan 2, 2006 3:04 PM"), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
