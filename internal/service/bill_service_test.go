package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplitter/internal/metrics"
	"github.com/mmynk/billsplitter/internal/models"
	"github.com/mmynk/billsplitter/internal/scan"
	"github.com/mmynk/billsplitter/pkg/api"
	"github.com/mmynk/billsplitter/pkg/api/apiconnect"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// setupBillServer creates a test server for the bill service.
func setupBillServer(t *testing.T, m *metrics.Metrics) apiconnect.BillServiceClient {
	t.Helper()

	path, handler := apiconnect.NewBillServiceHandler(NewBillService("MVR", m))
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return apiconnect.NewBillServiceClient(http.DefaultClient, server.URL)
}

// dinner is a two-person bill: subtotal 25, 10% discount, 10% service
// charge, 8% GST → 26.73.
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

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}

func TestCalculateSplit_Dinner(t *testing.T) {
	client := setupBillServer(t, nil)

	resp, err := client.CalculateSplit(context.Background(), connect.NewRequest(&api.CalculateSplitRequest{Bill: dinner()}))
	if err != nil {
		t.Fatalf("CalculateSplit failed: %v", err)
	}

	split := resp.Msg.Split
	if !split.Totals.Total.Equal(d("26.73")) {
		t.Errorf("expected total 26.73, got %s", split.Totals.Total)
	}
	if split.Formatted.Total != "RF26.73" {
		t.Errorf("expected formatted total RF26.73, got %q", split.Formatted.Total)
	}
	if split.Formatted.Discount != "RF2.50" {
		t.Errorf("expected formatted discount RF2.50, got %q", split.Formatted.Discount)
	}
	if !split.Reconciled {
		t.Error("expected split to be reconciled")
	}
	if split.ConvertedTotal.Valid {
		t.Error("expected no conversion")
	}

	want := map[string]string{"Alice": "RF10.69", "Bob": "RF16.04"}
	if len(split.People) != 2 {
		t.Fatalf("expected 2 people, got %d", len(split.People))
	}
	for _, p := range split.People {
		if p.Formatted != want[p.Name] {
			t.Errorf("%s: expected %s, got %s", p.Name, want[p.Name], p.Formatted)
		}
	}
}

func TestCalculateSplit_Conversion(t *testing.T) {
	client := setupBillServer(t, nil)

	state := dinner()
	state.Settings.ConvertTo = "usd"
	state.Settings.CustomRate = decimal.NewNullDecimal(d("0.065"))

	resp, err := client.CalculateSplit(context.Background(), connect.NewRequest(&api.CalculateSplitRequest{Bill: state}))
	if err != nil {
		t.Fatalf("CalculateSplit failed: %v", err)
	}

	split := resp.Msg.Split
	if split.ConvertTo != "USD" {
		t.Errorf("expected convert_to USD, got %q", split.ConvertTo)
	}
	if split.ConvertedTotalFormatted != "$1.74" {
		t.Errorf("expected converted total $1.74, got %q", split.ConvertedTotalFormatted)
	}
	if got := split.People[0].ConvertedFormatted; got != "$0.69" {
		t.Errorf("expected Alice converted $0.69, got %q", got)
	}
}

func TestCalculateSplit_DefaultsCurrency(t *testing.T) {
	client := setupBillServer(t, nil)

	resp, err := client.CalculateSplit(context.Background(), connect.NewRequest(&api.CalculateSplitRequest{}))
	if err != nil {
		t.Fatalf("CalculateSplit on empty bill failed: %v", err)
	}
	if resp.Msg.Split.Formatted.Total != "RF0.00" {
		t.Errorf("expected RF0.00, got %q", resp.Msg.Split.Formatted.Total)
	}
	if len(resp.Msg.Split.People) != 0 {
		t.Errorf("expected no people, got %d", len(resp.Msg.Split.People))
	}
}

func TestCalculateSplit_RejectsInvalidBill(t *testing.T) {
	client := setupBillServer(t, nil)

	state := dinner()
	state.Items[1].AssignedTo = []string{"ghost"}

	_, err := client.CalculateSplit(context.Background(), connect.NewRequest(&api.CalculateSplitRequest{Bill: state}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestCalculateSplit_RejectsOutOfRangeAmounts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.BillState)
	}{
		{"too precise price", func(s *models.BillState) { s.Items[0].UnitPrice = d("1e-12") }},
		{"too large price", func(s *models.BillState) { s.Items[0].UnitPrice = d("1e20") }},
		{"too precise tax", func(s *models.BillState) { s.Settings.Tax.Rate = d("0.0000000001") }},
		{"too large discount", func(s *models.BillState) { s.Settings.DiscountValue = d("1000000000000000") }},
	}

	client := setupBillServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := dinner()
			tt.mutate(&state)
			_, err := client.CalculateSplit(context.Background(), connect.NewRequest(&api.CalculateSplitRequest{Bill: state}))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestCalculateSplit_RecordsMetric(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	client := setupBillServer(t, m)

	for range 3 {
		if _, err := client.CalculateSplit(context.Background(), connect.NewRequest(&api.CalculateSplitRequest{Bill: dinner()})); err != nil {
			t.Fatalf("CalculateSplit failed: %v", err)
		}
	}
	if got := testutil.ToFloat64(m.SplitCalculations); got != 3 {
		t.Errorf("expected 3 calculations, got %v", got)
	}
}

func TestMutations_BuildBill(t *testing.T) {
	client := setupBillServer(t, nil)
	ctx := context.Background()
	state := models.NewBillState()

	// Items need someone to be assigned to.
	_, err := client.AddItem(ctx, connect.NewRequest(&api.AddItemRequest{
		Bill: state, Name: "Pizza", UnitPrice: decimal.NewNullDecimal(d("12")), Quantity: 1,
	}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	resp, err := client.AddParticipant(ctx, connect.NewRequest(&api.AddParticipantRequest{Bill: state, Name: "  Alice "}))
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	state = resp.Msg.Bill
	if len(state.Participants) != 1 || state.Participants[0].Name != "Alice" {
		t.Fatalf("unexpected participants: %+v", state.Participants)
	}
	alice := state.Participants[0].ID

	resp, err = client.AddItem(ctx, connect.NewRequest(&api.AddItemRequest{
		Bill: state, Name: "Pizza", UnitPrice: decimal.NewNullDecimal(d("12")), Quantity: 2,
	}))
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	state = resp.Msg.Bill
	item := state.Items[0].ID
	if resp.Msg.Split.Reconciled {
		t.Error("a new item is unassigned, split must not be reconciled")
	}
	if !resp.Msg.Split.UnassignedTotal.Equal(d("24")) {
		t.Errorf("expected unassigned 24, got %s", resp.Msg.Split.UnassignedTotal)
	}

	resp, err = client.ToggleAssignment(ctx, connect.NewRequest(&api.ToggleAssignmentRequest{Bill: state, ItemID: item, ParticipantID: alice}))
	if err != nil {
		t.Fatalf("ToggleAssignment failed: %v", err)
	}
	state = resp.Msg.Bill
	if got := resp.Msg.Split.People[0].Total; !got.Equal(d("24")) {
		t.Errorf("expected Alice to owe 24, got %s", got)
	}

	resp, err = client.AddParticipant(ctx, connect.NewRequest(&api.AddParticipantRequest{Bill: state, Name: "Bob"}))
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	state = resp.Msg.Bill

	resp, err = client.SetAllAssigned(ctx, connect.NewRequest(&api.SetAllAssignedRequest{Bill: state, ItemID: item}))
	if err != nil {
		t.Fatalf("SetAllAssigned failed: %v", err)
	}
	state = resp.Msg.Bill
	for _, p := range resp.Msg.Split.People {
		if !p.Total.Equal(d("12")) {
			t.Errorf("%s: expected 12, got %s", p.Name, p.Total)
		}
	}

	resp, err = client.UpdateItem(ctx, connect.NewRequest(&api.UpdateItemRequest{
		Bill: state, ItemID: item, Name: "Large Pizza", UnitPrice: decimal.NewNullDecimal(d("15")), Quantity: 2,
	}))
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	state = resp.Msg.Bill
	if len(state.Items[0].AssignedTo) != 2 {
		t.Errorf("UpdateItem dropped assignments: %v", state.Items[0].AssignedTo)
	}

	resp, err = client.RemoveParticipant(ctx, connect.NewRequest(&api.RemoveParticipantRequest{Bill: state, ParticipantID: alice}))
	if err != nil {
		t.Fatalf("RemoveParticipant failed: %v", err)
	}
	state = resp.Msg.Bill
	if got := resp.Msg.Split.People[0].Total; !got.Equal(d("30")) {
		t.Errorf("expected Bob to owe 30 alone, got %s", got)
	}

	resp, err = client.RemoveItem(ctx, connect.NewRequest(&api.RemoveItemRequest{Bill: state, ItemID: item}))
	if err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if len(resp.Msg.Bill.Items) != 0 {
		t.Errorf("expected no items, got %d", len(resp.Msg.Bill.Items))
	}
}

func TestMutations_Errors(t *testing.T) {
	client := setupBillServer(t, nil)
	ctx := context.Background()

	_, err := client.AddParticipant(ctx, connect.NewRequest(&api.AddParticipantRequest{Bill: dinner(), Name: "   "}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = client.RemoveItem(ctx, connect.NewRequest(&api.RemoveItemRequest{Bill: dinner(), ItemID: "nope"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = client.ToggleAssignment(ctx, connect.NewRequest(&api.ToggleAssignmentRequest{Bill: dinner(), ItemID: "i1", ParticipantID: "nope"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = client.AddItem(ctx, connect.NewRequest(&api.AddItemRequest{Bill: dinner(), Name: "Soup", Quantity: 1}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = client.AddItem(ctx, connect.NewRequest(&api.AddItemRequest{
		Bill: dinner(), Name: "Soup", UnitPrice: decimal.NewNullDecimal(d("-1")), Quantity: 1,
	}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestUpdateSettings(t *testing.T) {
	client := setupBillServer(t, nil)
	ctx := context.Background()

	settings := models.DefaultSettings()
	settings.Currency = ""
	settings.ConvertTo = "eur"
	settings.DiscountType = models.DiscountFixed
	settings.DiscountValue = d("5")

	resp, err := client.UpdateSettings(ctx, connect.NewRequest(&api.UpdateSettingsRequest{Bill: dinner(), Settings: settings}))
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	got := resp.Msg.Bill.Settings
	if got.Currency != "MVR" || got.ConvertTo != "EUR" {
		t.Errorf("unexpected currencies: %q → %q", got.Currency, got.ConvertTo)
	}
	if !resp.Msg.Split.Totals.AfterDiscount.Equal(d("20")) {
		t.Errorf("expected after discount 20, got %s", resp.Msg.Split.Totals.AfterDiscount)
	}

	settings.DiscountValue = d("-1")
	_, err = client.UpdateSettings(ctx, connect.NewRequest(&api.UpdateSettingsRequest{Bill: dinner(), Settings: settings}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestAddScannedItems(t *testing.T) {
	client := setupBillServer(t, nil)
	ctx := context.Background()

	items := []scan.Item{
		{Name: "Fries", Price: d("13"), Quantity: 2, Confidence: scan.ConfidenceHigh},
		{Name: "Cola", Price: d("4.5"), Quantity: 1, Confidence: scan.ConfidenceMedium},
	}
	resp, err := client.AddScannedItems(ctx, connect.NewRequest(&api.AddScannedItemsRequest{Bill: models.NewBillState(), Items: items}))
	if err != nil {
		t.Fatalf("AddScannedItems failed: %v", err)
	}
	got := resp.Msg.Bill.Items
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if !got[0].UnitPrice.Equal(d("6.5")) || got[0].Quantity != 2 {
		t.Errorf("Fries: expected 2 x 6.5, got %d x %s", got[0].Quantity, got[0].UnitPrice)
	}
	if !resp.Msg.Split.Totals.Subtotal.Equal(d("17.5")) {
		t.Errorf("expected subtotal 17.5, got %s", resp.Msg.Split.Totals.Subtotal)
	}

	items[1].Confidence = "sure"
	_, err = client.AddScannedItems(ctx, connect.NewRequest(&api.AddScannedItemsRequest{Bill: models.NewBillState(), Items: items}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestExportBreakdown(t *testing.T) {
	client := setupBillServer(t, nil)
	ctx := context.Background()

	tests := []struct {
		format      string
		contentType string
		filename    string
		prefix      string
	}{
		{api.ExportFormatText, "text/plain; charset=utf-8", "bill-breakdown.txt", "Bill Breakdown\n"},
		{"", "text/plain; charset=utf-8", "bill-breakdown.txt", "Bill Breakdown\n"},
		{api.ExportFormatPDF, "application/pdf", "bill-breakdown.pdf", "%PDF-"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, err := client.ExportBreakdown(ctx, connect.NewRequest(&api.ExportBreakdownRequest{Bill: dinner(), Format: tt.format}))
			if err != nil {
				t.Fatalf("ExportBreakdown failed: %v", err)
			}
			if resp.Msg.ContentType != tt.contentType {
				t.Errorf("expected content type %q, got %q", tt.contentType, resp.Msg.ContentType)
			}
			if resp.Msg.Filename != tt.filename {
				t.Errorf("expected filename %q, got %q", tt.filename, resp.Msg.Filename)
			}
			if !bytes.HasPrefix(resp.Msg.Content, []byte(tt.prefix)) {
				t.Errorf("content does not start with %q", tt.prefix)
			}
		})
	}

	resp, err := client.ExportBreakdown(ctx, connect.NewRequest(&api.ExportBreakdownRequest{Bill: dinner(), Format: api.ExportFormatShare}))
	if err != nil {
		t.Fatalf("share export failed: %v", err)
	}
	if !strings.Contains(string(resp.Msg.Content), "Alice") {
		t.Errorf("share text missing participant: %q", resp.Msg.Content)
	}

	_, err = client.ExportBreakdown(ctx, connect.NewRequest(&api.ExportBreakdownRequest{Bill: dinner(), Format: "docx"}))
	assertCode(t, err, connect.CodeInvalidArgument)
	var connectErr *connect.Error
	if errors.As(err, &connectErr) && !strings.Contains(connectErr.Message(), ErrUnknownExportFormat.Error()) {
		t.Errorf("unexpected message %q", connectErr.Message())
	}
}

func TestSettleUp(t *testing.T) {
	client := setupBillServer(t, nil)
	ctx := context.Background()

	resp, err := client.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{
		Bill:     dinner(),
		Payments: map[string]decimal.Decimal{"a": d("26.73")},
	}))
	if err != nil {
		t.Fatalf("SettleUp failed: %v", err)
	}

	transfers := resp.Msg.Transfers
	if len(transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %d", len(transfers))
	}
	tr := transfers[0]
	if tr.FromName != "Bob" || tr.ToName != "Alice" {
		t.Errorf("expected Bob → Alice, got %s → %s", tr.FromName, tr.ToName)
	}
	if tr.Formatted != "RF16.04" {
		t.Errorf("expected RF16.04, got %q", tr.Formatted)
	}

	_, err = client.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{
		Bill:     dinner(),
		Payments: map[string]decimal.Decimal{"ghost": d("5")},
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = client.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{
		Bill:     dinner(),
		Payments: map[string]decimal.Decimal{"a": d("-5")},
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = client.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{
		Bill:     dinner(),
		Payments: map[string]decimal.Decimal{"a": d("0.000000001")},
	}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestListCurrencies(t *testing.T) {
	client := setupBillServer(t, nil)

	resp, err := client.ListCurrencies(context.Background(), connect.NewRequest(&api.ListCurrenciesRequest{}))
	if err != nil {
		t.Fatalf("ListCurrencies failed: %v", err)
	}
	if resp.Msg.Default != "MVR" {
		t.Errorf("expected default MVR, got %q", resp.Msg.Default)
	}
	if len(resp.Msg.Currencies) != 15 {
		t.Errorf("expected 15 currencies, got %d", len(resp.Msg.Currencies))
	}
}
