// Package api defines the request and response messages of the billsplit.v1
// services. Messages are plain Go structs carried as JSON; money fields are
// decimal strings.
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplitter/internal/currency"
	"github.com/mmynk/billsplitter/internal/models"
	"github.com/mmynk/billsplitter/internal/scan"
)

// BillResponse is returned by every bill mutation: the new state plus its
// recomputed split, so the client never has to ask twice.
type BillResponse struct {
	Bill  models.BillState `json:"bill"`
	Split SplitResult      `json:"split"`
}

// SplitResult is the computed apportionment of a bill, with display strings
// in the bill currency and, when a conversion target is set, in that too.
type SplitResult struct {
	Totals          models.Totals   `json:"totals"`
	People          []PersonResult  `json:"people"`
	UnassignedTotal decimal.Decimal `json:"unassigned_total"`
	Reconciled      bool            `json:"reconciled"`
	Formatted       FormattedTotals `json:"formatted"`

	// ConvertTo and ConvertedTotal are set only when a conversion is active.
	ConvertTo               string              `json:"convert_to,omitempty"`
	ConvertedTotal          decimal.NullDecimal `json:"converted_total"`
	ConvertedTotalFormatted string              `json:"converted_total_formatted,omitempty"`
}

// FormattedTotals holds display strings for each stage of the bill total.
type FormattedTotals struct {
	Subtotal           string `json:"subtotal"`
	Discount           string `json:"discount"`
	AfterDiscount      string `json:"after_discount"`
	ServiceCharge      string `json:"service_charge"`
	AfterServiceCharge string `json:"after_service_charge"`
	Tax                string `json:"tax"`
	Total              string `json:"total"`
}

// PersonResult is one participant's share with display strings.
type PersonResult struct {
	models.PersonShare
	Formatted          string              `json:"formatted"`
	Converted          decimal.NullDecimal `json:"converted"`
	ConvertedFormatted string              `json:"converted_formatted,omitempty"`
}

type CalculateSplitRequest struct {
	Bill models.BillState `json:"bill"`
}

type CalculateSplitResponse struct {
	Split SplitResult `json:"split"`
}

type AddParticipantRequest struct {
	Bill models.BillState `json:"bill"`
	Name string           `json:"name"`
}

type RemoveParticipantRequest struct {
	Bill          models.BillState `json:"bill"`
	ParticipantID string           `json:"participant_id"`
}

type AddItemRequest struct {
	Bill      models.BillState    `json:"bill"`
	Name      string              `json:"name"`
	UnitPrice decimal.NullDecimal `json:"unit_price"`
	Quantity  int                 `json:"quantity"`
}

type RemoveItemRequest struct {
	Bill   models.BillState `json:"bill"`
	ItemID string           `json:"item_id"`
}

type UpdateItemRequest struct {
	Bill      models.BillState    `json:"bill"`
	ItemID    string              `json:"item_id"`
	Name      string              `json:"name"`
	UnitPrice decimal.NullDecimal `json:"unit_price"`
	Quantity  int                 `json:"quantity"`
}

type ToggleAssignmentRequest struct {
	Bill          models.BillState `json:"bill"`
	ItemID        string           `json:"item_id"`
	ParticipantID string           `json:"participant_id"`
}

type SetAllAssignedRequest struct {
	Bill   models.BillState `json:"bill"`
	ItemID string           `json:"item_id"`
}

type UpdateSettingsRequest struct {
	Bill     models.BillState `json:"bill"`
	Settings models.Settings  `json:"settings"`
}

type AddScannedItemsRequest struct {
	Bill  models.BillState `json:"bill"`
	Items []scan.Item      `json:"items"`
}

// Export formats accepted by ExportBreakdown.
const (
	ExportFormatText  = "text"
	ExportFormatShare = "share"
	ExportFormatPDF   = "pdf"
)

type ExportBreakdownRequest struct {
	Bill   models.BillState `json:"bill"`
	Format string           `json:"format"`
}

type ExportBreakdownResponse struct {
	Format      string `json:"format"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type"`
	// Content is base64 in JSON.
	Content []byte `json:"content"`
}

type SettleUpRequest struct {
	Bill models.BillState `json:"bill"`

	// Payments maps participant IDs to the amount each actually paid.
	Payments map[string]decimal.Decimal `json:"payments"`
}

type SettleUpResponse struct {
	Transfers []TransferResult `json:"transfers"`
}

// TransferResult is a suggested payment with display names and amount.
type TransferResult struct {
	models.Transfer
	FromName  string `json:"from_name"`
	ToName    string `json:"to_name"`
	Formatted string `json:"formatted"`
}

type ListCurrenciesRequest struct{}

type ListCurrenciesResponse struct {
	Currencies []currency.Currency `json:"currencies"`
	Default    string              `json:"default"`
}

type VerifyAccessRequest struct {
	Code string `json:"code"`
}

type VerifyAccessResponse struct {
	Valid     bool      `json:"valid"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

type ScanBillRequest struct {
	// Image is the decoded image; base64 in JSON.
	Image     []byte `json:"image"`
	MediaType string `json:"media_type"`
}

type ScanBillResponse struct {
	Items    []scan.Item `json:"items"`
	Warnings []string    `json:"warnings"`
}

type ListScansRequest struct {
	Limit int `json:"limit"`
}

type ListScansResponse struct {
	Scans []ScanSummary `json:"scans"`
}

// ScanSummary is one journaled scan attempt.
type ScanSummary struct {
	ID         string          `json:"id"`
	Outcome    string          `json:"outcome"`
	MediaType  string          `json:"media_type"`
	ImageBytes int             `json:"image_bytes"`
	ItemCount  int             `json:"item_count"`
	ItemsTotal decimal.Decimal `json:"items_total"`
	DurationMs int64           `json:"duration_ms"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
