package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplitter/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// dinner is a two-person bill in MVR with every adjustment enabled:
// subtotal 25, 10% discount, 10% service charge, 8% GST → 26.73.
func dinner() models.BillState {
	s := models.NewBillState()
	s.Participants = []models.Participant{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}}
	s.Items = []models.LineItem{
		{ID: "i1", Name: "Pizza", UnitPrice: d("10"), Quantity: 2, AssignedTo: []string{"a", "b"}},
		{ID: "i2", Name: "Beer", UnitPrice: d("5"), Quantity: 1, AssignedTo: []string{"b"}},
	}
	s.Settings.DiscountValue = d("10")
	s.Settings.ServiceCharge.Enabled = true
	s.Settings.Tax.Enabled = true
	return s
}

func TestText(t *testing.T) {
	state := dinner()
	state.Settings.ConvertTo = "USD"
	state.Settings.CustomRate = decimal.NewNullDecimal(d("0.065"))

	want := `Bill Breakdown
================

Items:
2x Pizza - RF20.00 (Alice, Bob)
Beer - RF5.00 (Bob)

Subtotal: RF25.00
Discount: -RF2.50
After Discount: RF22.50
Service Charge (10%): RF2.25
After Service Charge: RF24.75
GST (8%): RF1.98
Total: RF26.73
Total in USD: $1.74

Per Person:
Alice: RF10.69 ($0.69)
Bob: RF16.04 ($1.04)
`

	got := Text(state)
	if got != want {
		t.Errorf("Text mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
	if again := Text(state); again != got {
		t.Error("Text is not reproducible")
	}
}

func TestTextOmitsInactiveStages(t *testing.T) {
	state := models.NewBillState()
	state.Participants = []models.Participant{{ID: "a", Name: "Alice"}}
	state.Items = []models.LineItem{
		{ID: "i1", Name: "Tea", UnitPrice: d("3.5"), Quantity: 1, AssignedTo: []string{"a"}},
		{ID: "i2", Name: "Cake", UnitPrice: d("4"), Quantity: 1, AssignedTo: []string{}},
	}

	want := `Bill Breakdown
================

Items:
Tea - RF3.50 (Alice)
Cake - RF4.00

Subtotal: RF7.50
Total: RF7.50

Per Person:
Alice: RF3.50
`
	if got := Text(state); got != want {
		t.Errorf("Text mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestTextShowsEnabledZeroTax(t *testing.T) {
	state := models.NewBillState()
	state.Settings.Tax = models.Surcharge{Enabled: true, Rate: d("0")}
	state.Settings.ServiceCharge = models.Surcharge{Enabled: true, Rate: d("0")}

	got := Text(state)
	if !strings.Contains(got, "\nGST (0%): RF0.00") {
		t.Errorf("Enabled GST should be listed even at zero:\n%s", got)
	}
	if strings.Contains(got, "Service Charge") {
		t.Errorf("Zero service charge should be omitted:\n%s", got)
	}
}

func TestTextWholeUnitCurrency(t *testing.T) {
	state := models.NewBillState()
	state.Settings.Currency = "JPY"
	state.Participants = []models.Participant{{ID: "a", Name: "Aiko"}}
	state.Items = []models.LineItem{
		{ID: "i1", Name: "Omakase", UnitPrice: d("12345.6"), Quantity: 1, AssignedTo: []string{"a"}},
	}

	got := Text(state)
	if !strings.Contains(got, "Omakase - ¥12,346 (Aiko)") {
		t.Errorf("Expected whole-unit grouped yen, got:\n%s", got)
	}
}

func TestShareText(t *testing.T) {
	want := "🧾 Bill Breakdown\n\n" +
		"📋 Items:\n" +
		"• 2x Pizza - RF20.00\n" +
		"• Beer - RF5.00\n" +
		"\n💰 Total: RF26.73\n" +
		"\n👥 Per Person:\n" +
		"• Alice: RF10.69\n" +
		"• Bob: RF16.04\n"

	if got := ShareText(dinner()); got != want {
		t.Errorf("ShareText mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestPDF(t *testing.T) {
	state := dinner()
	state.Settings.ConvertTo = "EUR"
	state.Items = append(state.Items, models.LineItem{ID: "i3", Name: "Crème brûlée", UnitPrice: d("6"), Quantity: 1, AssignedTo: []string{}})

	var buf bytes.Buffer
	if err := PDF(&buf, state, time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC)); err != nil {
		t.Fatalf("PDF failed: %v", err)
	}

	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("Output is not a PDF: %q", out[:min(len(out), 16)])
	}
	if !bytes.Contains(out, []byte("%%EOF")) {
		t.Error("PDF is missing its trailer")
	}
}

func TestPDFEmptyBill(t *testing.T) {
	var buf bytes.Buffer
	if err := PDF(&buf, models.NewBillState(), time.Time{}); err != nil {
		t.Fatalf("PDF failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Expected a document for an empty bill")
	}
}
