package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplitter/internal/bill"
	"github.com/mmynk/billsplitter/internal/calculator"
	"github.com/mmynk/billsplitter/internal/currency"
	"github.com/mmynk/billsplitter/internal/export"
	"github.com/mmynk/billsplitter/internal/metrics"
	"github.com/mmynk/billsplitter/internal/models"
	"github.com/mmynk/billsplitter/internal/scan"
	"github.com/mmynk/billsplitter/pkg/api"
	"github.com/mmynk/billsplitter/pkg/api/apiconnect"
)

// ErrUnknownExportFormat is returned for an unsupported export format.
var ErrUnknownExportFormat = errors.New("unknown export format")

// BillService implements the Connect BillService. It holds no bill state:
// every request carries the whole bill and gets the new one back.
type BillService struct {
	defaultCurrency string
	metrics         *metrics.Metrics
	now             func() time.Time
}

// Ensure BillService implements the handler interface
var _ apiconnect.BillServiceHandler = (*BillService)(nil)

// NewBillService creates a BillService. defaultCurrency fills bills that
// arrive without a currency; m may be nil.
func NewBillService(defaultCurrency string, m *metrics.Metrics) *BillService {
	code := currency.Normalize(defaultCurrency)
	if code == "" {
		code = models.DefaultCurrency
	}
	return &BillService{defaultCurrency: code, metrics: m, now: time.Now}
}

// CalculateSplit handles bill split calculation.
func (s *BillService) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	state, err := s.prepare(req.Msg.Bill)
	if err != nil {
		return nil, err
	}

	split := s.split(state)
	slog.Debug("Split calculated",
		"participants", len(state.Participants),
		"items", len(state.Items),
		"total", split.Totals.Total.String(),
		"reconciled", split.Reconciled,
	)
	return connect.NewResponse(&api.CalculateSplitResponse{Split: split}), nil
}

// AddParticipant appends a participant to the bill.
func (s *BillService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.BillResponse], error) {
	return s.mutate("AddParticipant", req.Msg.Bill, func(state models.BillState) (models.BillState, error) {
		return bill.AddParticipant(state, req.Msg.Name)
	})
}

// RemoveParticipant removes a participant and their assignments.
func (s *BillService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.BillResponse], error) {
	return s.mutate("RemoveParticipant", req.Msg.Bill, func(state models.BillState) (models.BillState, error) {
		return bill.RemoveParticipant(state, req.Msg.ParticipantID)
	})
}

// AddItem appends an unassigned line item.
func (s *BillService) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.BillResponse], error) {
	return s.mutate("AddItem", req.Msg.Bill, func(state models.BillState) (models.BillState, error) {
		return bill.AddItem(state, req.Msg.Name, req.Msg.UnitPrice, req.Msg.Quantity)
	})
}

// RemoveItem removes a line item.
func (s *BillService) RemoveItem(ctx context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.BillResponse], error) {
	return s.mutate("RemoveItem", req.Msg.Bill, func(state models.BillState) (models.BillState, error) {
		return bill.RemoveItem(state, req.Msg.ItemID)
	})
}

// UpdateItem edits a line item in place, keeping its assignments.
func (s *BillService) UpdateItem(ctx context.Context, req *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.BillResponse], error) {
	return s.mutate("UpdateItem", req.Msg.Bill, func(state models.BillState) (models.BillState, error) {
		return bill.UpdateItem(state, req.Msg.ItemID, req.Msg.Name, req.Msg.UnitPrice, req.Msg.Quantity)
	})
}

// ToggleAssignment flips one participant's membership on an item.
func (s *BillService) ToggleAssignment(ctx context.Context, req *connect.Request[api.ToggleAssignmentRequest]) (*connect.Response[api.BillResponse], error) {
	return s.mutate("ToggleAssignment", req.Msg.Bill, func(state models.BillState) (models.BillState, error) {
		return bill.ToggleAssignment(state, req.Msg.ItemID, req.Msg.ParticipantID)
	})
}

// SetAllAssigned assigns everyone to an item, or nobody if everyone already is.
func (s *BillService) SetAllAssigned(ctx context.Context, req *connect.Request[api.SetAllAssignedRequest]) (*connect.Response[api.BillResponse], error) {
	return s.mutate("SetAllAssigned", req.Msg.Bill, func(state models.BillState) (models.BillState, error) {
		return bill.SetAllAssigned(state, req.Msg.ItemID)
	})
}

// UpdateSettings replaces the bill settings.
func (s *BillService) UpdateSettings(ctx context.Context, req *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.BillResponse], error) {
	settings := req.Msg.Settings
	if currency.Normalize(settings.Currency) == "" {
		settings.Currency = s.defaultCurrency
	}
	return s.mutate("UpdateSettings", req.Msg.Bill, func(state models.BillState) (models.BillState, error) {
		return bill.UpdateSettings(state, settings)
	})
}

// AddScannedItems appends items confirmed from a receipt scan.
func (s *BillService) AddScannedItems(ctx context.Context, req *connect.Request[api.AddScannedItemsRequest]) (*connect.Response[api.BillResponse], error) {
	if err := scan.ValidateItems(req.Msg.Items); err != nil {
		slog.Warn("AddScannedItems rejected", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return s.mutate("AddScannedItems", req.Msg.Bill, func(state models.BillState) (models.BillState, error) {
		return bill.AddScannedItems(state, req.Msg.Items)
	})
}

// ExportBreakdown renders the bill as plain text, share text or PDF.
func (s *BillService) ExportBreakdown(ctx context.Context, req *connect.Request[api.ExportBreakdownRequest]) (*connect.Response[api.ExportBreakdownResponse], error) {
	state, err := s.prepare(req.Msg.Bill)
	if err != nil {
		return nil, err
	}

	format := req.Msg.Format
	if format == "" {
		format = api.ExportFormatText
	}

	resp := &api.ExportBreakdownResponse{Format: format}
	switch format {
	case api.ExportFormatText:
		resp.Filename = export.TextFilename
		resp.ContentType = "text/plain; charset=utf-8"
		resp.Content = []byte(export.Text(state))
	case api.ExportFormatShare:
		resp.ContentType = "text/plain; charset=utf-8"
		resp.Content = []byte(export.ShareText(state))
	case api.ExportFormatPDF:
		var buf bytes.Buffer
		if err := export.PDF(&buf, state, s.now()); err != nil {
			slog.Error("PDF export failed", "error", err)
			return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to render PDF: %w", err))
		}
		resp.Filename = export.PDFFilename
		resp.ContentType = "application/pdf"
		resp.Content = buf.Bytes()
	default:
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: %q", ErrUnknownExportFormat, format))
	}

	slog.Info("Breakdown exported", "format", format, "bytes", len(resp.Content))
	return connect.NewResponse(resp), nil
}

// SettleUp suggests transfers given what each participant paid.
func (s *BillService) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	state, err := s.prepare(req.Msg.Bill)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(state.Participants))
	for _, p := range state.Participants {
		names[p.ID] = p.Name
	}
	for id, amount := range req.Msg.Payments {
		if _, ok := names[id]; !ok {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("payment by %q: %w", id, bill.ErrUnknownParticipant))
		}
		if amount.IsNegative() {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("payment by %q cannot be negative", id))
		}
		if err := bill.CheckAmount(amount); err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("payment by %q: %w", id, err))
		}
	}

	transfers := calculator.SettleUp(state, req.Msg.Payments)
	code := state.Settings.Currency
	results := make([]api.TransferResult, 0, len(transfers))
	for _, t := range transfers {
		results = append(results, api.TransferResult{
			Transfer:  t,
			FromName:  names[t.From],
			ToName:    names[t.To],
			Formatted: currency.Format(t.Amount, code),
		})
	}

	slog.Info("Settle-up computed", "participants", len(state.Participants), "transfers", len(results))
	return connect.NewResponse(&api.SettleUpResponse{Transfers: results}), nil
}

// ListCurrencies returns the supported currencies and the server default.
func (s *BillService) ListCurrencies(ctx context.Context, req *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error) {
	return connect.NewResponse(&api.ListCurrenciesResponse{
		Currencies: currency.List(),
		Default:    s.defaultCurrency,
	}), nil
}

// mutate validates the incoming bill, applies one edit and returns the new
// bill with its split.
func (s *BillService) mutate(op string, in models.BillState, apply func(models.BillState) (models.BillState, error)) (*connect.Response[api.BillResponse], error) {
	state, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	next, err := apply(state)
	if err != nil {
		slog.Warn(op+" rejected", "error", err)
		return nil, connect.NewError(mutationCode(err), err)
	}

	slog.Debug(op+" applied", "participants", len(next.Participants), "items", len(next.Items))
	return connect.NewResponse(&api.BillResponse{Bill: next, Split: s.split(next)}), nil
}

// prepare validates a client-supplied bill and fills defaults the client may
// have left out.
func (s *BillService) prepare(state models.BillState) (models.BillState, error) {
	if err := bill.Validate(state); err != nil {
		slog.Warn("Invalid bill received", "error", err)
		return state, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if state.Participants == nil {
		state.Participants = []models.Participant{}
	}
	if state.Items == nil {
		state.Items = []models.LineItem{}
	}
	state.Settings.Currency = currency.Normalize(state.Settings.Currency)
	if state.Settings.Currency == "" {
		state.Settings.Currency = s.defaultCurrency
	}
	state.Settings.ConvertTo = currency.Normalize(state.Settings.ConvertTo)
	if state.Settings.DiscountType == "" {
		state.Settings.DiscountType = models.DiscountPercentage
	}
	return state, nil
}

func mutationCode(err error) connect.Code {
	switch {
	case errors.Is(err, bill.ErrUnknownItem), errors.Is(err, bill.ErrUnknownParticipant):
		return connect.CodeNotFound
	case errors.Is(err, bill.ErrNoParticipants):
		return connect.CodeFailedPrecondition
	default:
		return connect.CodeInvalidArgument
	}
}

// split computes the apportionment and its display strings.
func (s *BillService) split(state models.BillState) api.SplitResult {
	s.metrics.ObserveCalculation()

	result := calculator.CalculateSplit(state)
	code := state.Settings.Currency
	t := result.Totals

	out := api.SplitResult{
		Totals:          t,
		People:          make([]api.PersonResult, 0, len(result.Shares)),
		UnassignedTotal: result.UnassignedTotal,
		Reconciled:      result.Reconciled,
		Formatted: api.FormattedTotals{
			Subtotal:           currency.Format(t.Subtotal, code),
			Discount:           currency.Format(t.DiscountAmount, code),
			AfterDiscount:      currency.Format(t.AfterDiscount, code),
			ServiceCharge:      currency.Format(t.ServiceChargeAmount, code),
			AfterServiceCharge: currency.Format(t.AfterServiceCharge, code),
			Tax:                currency.Format(t.TaxAmount, code),
			Total:              currency.Format(t.Total, code),
		},
	}

	converting := state.Settings.HasConversion()
	conv := currency.NewConverter(code, state.Settings.CustomRate)
	target := state.Settings.ConvertTo
	if converting {
		total := conv.Convert(t.Total, code, target)
		out.ConvertTo = target
		out.ConvertedTotal = decimal.NewNullDecimal(total)
		out.ConvertedTotalFormatted = currency.Format(total, target)
	}

	for _, share := range result.Shares {
		p := api.PersonResult{
			PersonShare: share,
			Formatted:   currency.Format(share.Total, code),
		}
		if converting {
			amount := conv.Convert(share.Total, code, target)
			p.Converted = decimal.NewNullDecimal(amount)
			p.ConvertedFormatted = currency.Format(amount, target)
		}
		out.People = append(out.People, p)
	}
	return out
}
