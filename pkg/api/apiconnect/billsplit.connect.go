// Package apiconnect wires the billsplit.v1 services to Connect: procedure
// names, HTTP handlers and clients. Every handler and client speaks JSON
// through api.JSONCodec.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/billsplitter/pkg/api"
)

const (
	// BillServiceName is the fully-qualified name of the BillService service.
	BillServiceName = "billsplit.v1.BillService"
	// ScanServiceName is the fully-qualified name of the ScanService service.
	ScanServiceName = "billsplit.v1.ScanService"
)

// These constants are the fully-qualified names of the RPCs defined in this
// package. They're exposed at runtime as Spec.Procedure and as the final two
// segments of the HTTP route.
const (
	// BillServiceCalculateSplitProcedure is the fully-qualified name of the BillService's CalculateSplit RPC.
	BillServiceCalculateSplitProcedure = "/billsplit.v1.BillService/CalculateSplit"
	// BillServiceAddParticipantProcedure is the fully-qualified name of the BillService's AddParticipant RPC.
	BillServiceAddParticipantProcedure = "/billsplit.v1.BillService/AddParticipant"
	// BillServiceRemoveParticipantProcedure is the fully-qualified name of the BillService's RemoveParticipant RPC.
	BillServiceRemoveParticipantProcedure = "/billsplit.v1.BillService/RemoveParticipant"
	// BillServiceAddItemProcedure is the fully-qualified name of the BillService's AddItem RPC.
	BillServiceAddItemProcedure = "/billsplit.v1.BillService/AddItem"
	// BillServiceRemoveItemProcedure is the fully-qualified name of the BillService's RemoveItem RPC.
	BillServiceRemoveItemProcedure = "/billsplit.v1.BillService/RemoveItem"
	// BillServiceUpdateItemProcedure is the fully-qualified name of the BillService's UpdateItem RPC.
	BillServiceUpdateItemProcedure = "/billsplit.v1.BillService/UpdateItem"
	// BillServiceToggleAssignmentProcedure is the fully-qualified name of the BillService's ToggleAssignment RPC.
	BillServiceToggleAssignmentProcedure = "/billsplit.v1.BillService/ToggleAssignment"
	// BillServiceSetAllAssignedProcedure is the fully-qualified name of the BillService's SetAllAssigned RPC.
	BillServiceSetAllAssignedProcedure = "/billsplit.v1.BillService/SetAllAssigned"
	// BillServiceUpdateSettingsProcedure is the fully-qualified name of the BillService's UpdateSettings RPC.
	BillServiceUpdateSettingsProcedure = "/billsplit.v1.BillService/UpdateSettings"
	// BillServiceAddScannedItemsProcedure is the fully-qualified name of the BillService's AddScannedItems RPC.
	BillServiceAddScannedItemsProcedure = "/billsplit.v1.BillService/AddScannedItems"
	// BillServiceExportBreakdownProcedure is the fully-qualified name of the BillService's ExportBreakdown RPC.
	BillServiceExportBreakdownProcedure = "/billsplit.v1.BillService/ExportBreakdown"
	// BillServiceSettleUpProcedure is the fully-qualified name of the BillService's SettleUp RPC.
	BillServiceSettleUpProcedure = "/billsplit.v1.BillService/SettleUp"
	// BillServiceListCurrenciesProcedure is the fully-qualified name of the BillService's ListCurrencies RPC.
	BillServiceListCurrenciesProcedure = "/billsplit.v1.BillService/ListCurrencies"
	// ScanServiceVerifyAccessProcedure is the fully-qualified name of the ScanService's VerifyAccess RPC.
	ScanServiceVerifyAccessProcedure = "/billsplit.v1.ScanService/VerifyAccess"
	// ScanServiceScanBillProcedure is the fully-qualified name of the ScanService's ScanBill RPC.
	ScanServiceScanBillProcedure = "/billsplit.v1.ScanService/ScanBill"
	// ScanServiceListScansProcedure is the fully-qualified name of the ScanService's ListScans RPC.
	ScanServiceListScansProcedure = "/billsplit.v1.ScanService/ListScans"
)

// BillServiceClient is a client for the billsplit.v1.BillService service.
type BillServiceClient interface {
	CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.BillResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.BillResponse], error)
	AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.BillResponse], error)
	RemoveItem(context.Context, *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.BillResponse], error)
	UpdateItem(context.Context, *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.BillResponse], error)
	ToggleAssignment(context.Context, *connect.Request[api.ToggleAssignmentRequest]) (*connect.Response[api.BillResponse], error)
	SetAllAssigned(context.Context, *connect.Request[api.SetAllAssignedRequest]) (*connect.Response[api.BillResponse], error)
	UpdateSettings(context.Context, *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.BillResponse], error)
	AddScannedItems(context.Context, *connect.Request[api.AddScannedItemsRequest]) (*connect.Response[api.BillResponse], error)
	ExportBreakdown(context.Context, *connect.Request[api.ExportBreakdownRequest]) (*connect.Response[api.ExportBreakdownResponse], error)
	SettleUp(context.Context, *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error)
	ListCurrencies(context.Context, *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error)
}

// NewBillServiceClient constructs a client for the billsplit.v1.BillService service.
//
// The URL supplied here should be the base URL for the Connect server
// (for example, http://api.acme.com or https://acme.com/grpc).
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &billServiceClient{
		calculateSplit: connect.NewClient[api.CalculateSplitRequest, api.CalculateSplitResponse](
			httpClient,
			baseURL+BillServiceCalculateSplitProcedure,
			opts...,
		),
		addParticipant: connect.NewClient[api.AddParticipantRequest, api.BillResponse](
			httpClient,
			baseURL+BillServiceAddParticipantProcedure,
			opts...,
		),
		removeParticipant: connect.NewClient[api.RemoveParticipantRequest, api.BillResponse](
			httpClient,
			baseURL+BillServiceRemoveParticipantProcedure,
			opts...,
		),
		addItem: connect.NewClient[api.AddItemRequest, api.BillResponse](
			httpClient,
			baseURL+BillServiceAddItemProcedure,
			opts...,
		),
		removeItem: connect.NewClient[api.RemoveItemRequest, api.BillResponse](
			httpClient,
			baseURL+BillServiceRemoveItemProcedure,
			opts...,
		),
		updateItem: connect.NewClient[api.UpdateItemRequest, api.BillResponse](
			httpClient,
			baseURL+BillServiceUpdateItemProcedure,
			opts...,
		),
		toggleAssignment: connect.NewClient[api.ToggleAssignmentRequest, api.BillResponse](
			httpClient,
			baseURL+BillServiceToggleAssignmentProcedure,
			opts...,
		),
		setAllAssigned: connect.NewClient[api.SetAllAssignedRequest, api.BillResponse](
			httpClient,
			baseURL+BillServiceSetAllAssignedProcedure,
			opts...,
		),
		updateSettings: connect.NewClient[api.UpdateSettingsRequest, api.BillResponse](
			httpClient,
			baseURL+BillServiceUpdateSettingsProcedure,
			opts...,
		),
		addScannedItems: connect.NewClient[api.AddScannedItemsRequest, api.BillResponse](
			httpClient,
			baseURL+BillServiceAddScannedItemsProcedure,
			opts...,
		),
		exportBreakdown: connect.NewClient[api.ExportBreakdownRequest, api.ExportBreakdownResponse](
			httpClient,
			baseURL+BillServiceExportBreakdownProcedure,
			opts...,
		),
		settleUp: connect.NewClient[api.SettleUpRequest, api.SettleUpResponse](
			httpClient,
			baseURL+BillServiceSettleUpProcedure,
			opts...,
		),
		listCurrencies: connect.NewClient[api.ListCurrenciesRequest, api.ListCurrenciesResponse](
			httpClient,
			baseURL+BillServiceListCurrenciesProcedure,
			opts...,
		),
	}
}

// billServiceClient implements BillServiceClient.
type billServiceClient struct {
	calculateSplit    *connect.Client[api.CalculateSplitRequest, api.CalculateSplitResponse]
	addParticipant    *connect.Client[api.AddParticipantRequest, api.BillResponse]
	removeParticipant *connect.Client[api.RemoveParticipantRequest, api.BillResponse]
	addItem           *connect.Client[api.AddItemRequest, api.BillResponse]
	removeItem        *connect.Client[api.RemoveItemRequest, api.BillResponse]
	updateItem        *connect.Client[api.UpdateItemRequest, api.BillResponse]
	toggleAssignment  *connect.Client[api.ToggleAssignmentRequest, api.BillResponse]
	setAllAssigned    *connect.Client[api.SetAllAssignedRequest, api.BillResponse]
	updateSettings    *connect.Client[api.UpdateSettingsRequest, api.BillResponse]
	addScannedItems   *connect.Client[api.AddScannedItemsRequest, api.BillResponse]
	exportBreakdown   *connect.Client[api.ExportBreakdownRequest, api.ExportBreakdownResponse]
	settleUp          *connect.Client[api.SettleUpRequest, api.SettleUpResponse]
	listCurrencies    *connect.Client[api.ListCurrenciesRequest, api.ListCurrenciesResponse]
}

// CalculateSplit calls billsplit.v1.BillService.CalculateSplit.
func (c *billServiceClient) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	return c.calculateSplit.CallUnary(ctx, req)
}

// AddParticipant calls billsplit.v1.BillService.AddParticipant.
func (c *billServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.BillResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

// RemoveParticipant calls billsplit.v1.BillService.RemoveParticipant.
func (c *billServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.BillResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

// AddItem calls billsplit.v1.BillService.AddItem.
func (c *billServiceClient) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.BillResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

// RemoveItem calls billsplit.v1.BillService.RemoveItem.
func (c *billServiceClient) RemoveItem(ctx context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.BillResponse], error) {
	return c.removeItem.CallUnary(ctx, req)
}

// UpdateItem calls billsplit.v1.BillService.UpdateItem.
func (c *billServiceClient) UpdateItem(ctx context.Context, req *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.BillResponse], error) {
	return c.updateItem.CallUnary(ctx, req)
}

// ToggleAssignment calls billsplit.v1.BillService.ToggleAssignment.
func (c *billServiceClient) ToggleAssignment(ctx context.Context, req *connect.Request[api.ToggleAssignmentRequest]) (*connect.Response[api.BillResponse], error) {
	return c.toggleAssignment.CallUnary(ctx, req)
}

// SetAllAssigned calls billsplit.v1.BillService.SetAllAssigned.
func (c *billServiceClient) SetAllAssigned(ctx context.Context, req *connect.Request[api.SetAllAssignedRequest]) (*connect.Response[api.BillResponse], error) {
	return c.setAllAssigned.CallUnary(ctx, req)
}

// UpdateSettings calls billsplit.v1.BillService.UpdateSettings.
func (c *billServiceClient) UpdateSettings(ctx context.Context, req *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.BillResponse], error) {
	return c.updateSettings.CallUnary(ctx, req)
}

// AddScannedItems calls billsplit.v1.BillService.AddScannedItems.
func (c *billServiceClient) AddScannedItems(ctx context.Context, req *connect.Request[api.AddScannedItemsRequest]) (*connect.Response[api.BillResponse], error) {
	return c.addScannedItems.CallUnary(ctx, req)
}

// ExportBreakdown calls billsplit.v1.BillService.ExportBreakdown.
func (c *billServiceClient) ExportBreakdown(ctx context.Context, req *connect.Request[api.ExportBreakdownRequest]) (*connect.Response[api.ExportBreakdownResponse], error) {
	return c.exportBreakdown.CallUnary(ctx, req)
}

// SettleUp calls billsplit.v1.BillService.SettleUp.
func (c *billServiceClient) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	return c.settleUp.CallUnary(ctx, req)
}

// ListCurrencies calls billsplit.v1.BillService.ListCurrencies.
func (c *billServiceClient) ListCurrencies(ctx context.Context, req *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error) {
	return c.listCurrencies.CallUnary(ctx, req)
}

// BillServiceHandler is an implementation of the billsplit.v1.BillService service.
type BillServiceHandler interface {
	CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.BillResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.BillResponse], error)
	AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.BillResponse], error)
	RemoveItem(context.Context, *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.BillResponse], error)
	UpdateItem(context.Context, *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.BillResponse], error)
	ToggleAssignment(context.Context, *connect.Request[api.ToggleAssignmentRequest]) (*connect.Response[api.BillResponse], error)
	SetAllAssigned(context.Context, *connect.Request[api.SetAllAssignedRequest]) (*connect.Response[api.BillResponse], error)
	UpdateSettings(context.Context, *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.BillResponse], error)
	AddScannedItems(context.Context, *connect.Request[api.AddScannedItemsRequest]) (*connect.Response[api.BillResponse], error)
	ExportBreakdown(context.Context, *connect.Request[api.ExportBreakdownRequest]) (*connect.Response[api.ExportBreakdownResponse], error)
	SettleUp(context.Context, *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error)
	ListCurrencies(context.Context, *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error)
}

// NewBillServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	billServiceCalculateSplitHandler := connect.NewUnaryHandler(
		BillServiceCalculateSplitProcedure,
		svc.CalculateSplit,
		opts...,
	)
	billServiceAddParticipantHandler := connect.NewUnaryHandler(
		BillServiceAddParticipantProcedure,
		svc.AddParticipant,
		opts...,
	)
	billServiceRemoveParticipantHandler := connect.NewUnaryHandler(
		BillServiceRemoveParticipantProcedure,
		svc.RemoveParticipant,
		opts...,
	)
	billServiceAddItemHandler := connect.NewUnaryHandler(
		BillServiceAddItemProcedure,
		svc.AddItem,
		opts...,
	)
	billServiceRemoveItemHandler := connect.NewUnaryHandler(
		BillServiceRemoveItemProcedure,
		svc.RemoveItem,
		opts...,
	)
	billServiceUpdateItemHandler := connect.NewUnaryHandler(
		BillServiceUpdateItemProcedure,
		svc.UpdateItem,
		opts...,
	)
	billServiceToggleAssignmentHandler := connect.NewUnaryHandler(
		BillServiceToggleAssignmentProcedure,
		svc.ToggleAssignment,
		opts...,
	)
	billServiceSetAllAssignedHandler := connect.NewUnaryHandler(
		BillServiceSetAllAssignedProcedure,
		svc.SetAllAssigned,
		opts...,
	)
	billServiceUpdateSettingsHandler := connect.NewUnaryHandler(
		BillServiceUpdateSettingsProcedure,
		svc.UpdateSettings,
		opts...,
	)
	billServiceAddScannedItemsHandler := connect.NewUnaryHandler(
		BillServiceAddScannedItemsProcedure,
		svc.AddScannedItems,
		opts...,
	)
	billServiceExportBreakdownHandler := connect.NewUnaryHandler(
		BillServiceExportBreakdownProcedure,
		svc.ExportBreakdown,
		opts...,
	)
	billServiceSettleUpHandler := connect.NewUnaryHandler(
		BillServiceSettleUpProcedure,
		svc.SettleUp,
		opts...,
	)
	billServiceListCurrenciesHandler := connect.NewUnaryHandler(
		BillServiceListCurrenciesProcedure,
		svc.ListCurrencies,
		opts...,
	)
	return "/billsplit.v1.BillService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BillServiceCalculateSplitProcedure:
			billServiceCalculateSplitHandler.ServeHTTP(w, r)
		case BillServiceAddParticipantProcedure:
			billServiceAddParticipantHandler.ServeHTTP(w, r)
		case BillServiceRemoveParticipantProcedure:
			billServiceRemoveParticipantHandler.ServeHTTP(w, r)
		case BillServiceAddItemProcedure:
			billServiceAddItemHandler.ServeHTTP(w, r)
		case BillServiceRemoveItemProcedure:
			billServiceRemoveItemHandler.ServeHTTP(w, r)
		case BillServiceUpdateItemProcedure:
			billServiceUpdateItemHandler.ServeHTTP(w, r)
		case BillServiceToggleAssignmentProcedure:
			billServiceToggleAssignmentHandler.ServeHTTP(w, r)
		case BillServiceSetAllAssignedProcedure:
			billServiceSetAllAssignedHandler.ServeHTTP(w, r)
		case BillServiceUpdateSettingsProcedure:
			billServiceUpdateSettingsHandler.ServeHTTP(w, r)
		case BillServiceAddScannedItemsProcedure:
			billServiceAddScannedItemsHandler.ServeHTTP(w, r)
		case BillServiceExportBreakdownProcedure:
			billServiceExportBreakdownHandler.ServeHTTP(w, r)
		case BillServiceSettleUpProcedure:
			billServiceSettleUpHandler.ServeHTTP(w, r)
		case BillServiceListCurrenciesProcedure:
			billServiceListCurrenciesHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// ScanServiceClient is a client for the billsplit.v1.ScanService service.
type ScanServiceClient interface {
	VerifyAccess(context.Context, *connect.Request[api.VerifyAccessRequest]) (*connect.Response[api.VerifyAccessResponse], error)
	ScanBill(context.Context, *connect.Request[api.ScanBillRequest]) (*connect.Response[api.ScanBillResponse], error)
	ListScans(context.Context, *connect.Request[api.ListScansRequest]) (*connect.Response[api.ListScansResponse], error)
}

// NewScanServiceClient constructs a client for the billsplit.v1.ScanService service.
//
// The URL supplied here should be the base URL for the Connect server
// (for example, http://api.acme.com or https://acme.com/grpc).
func NewScanServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ScanServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &scanServiceClient{
		verifyAccess: connect.NewClient[api.VerifyAccessRequest, api.VerifyAccessResponse](
			httpClient,
			baseURL+ScanServiceVerifyAccessProcedure,
			opts...,
		),
		scanBill: connect.NewClient[api.ScanBillRequest, api.ScanBillResponse](
			httpClient,
			baseURL+ScanServiceScanBillProcedure,
			opts...,
		),
		listScans: connect.NewClient[api.ListScansRequest, api.ListScansResponse](
			httpClient,
			baseURL+ScanServiceListScansProcedure,
			opts...,
		),
	}
}

// scanServiceClient implements ScanServiceClient.
type scanServiceClient struct {
	verifyAccess *connect.Client[api.VerifyAccessRequest, api.VerifyAccessResponse]
	scanBill     *connect.Client[api.ScanBillRequest, api.ScanBillResponse]
	listScans    *connect.Client[api.ListScansRequest, api.ListScansResponse]
}

// VerifyAccess calls billsplit.v1.ScanService.VerifyAccess.
func (c *scanServiceClient) VerifyAccess(ctx context.Context, req *connect.Request[api.VerifyAccessRequest]) (*connect.Response[api.VerifyAccessResponse], error) {
	return c.verifyAccess.CallUnary(ctx, req)
}

// ScanBill calls billsplit.v1.ScanService.ScanBill.
func (c *scanServiceClient) ScanBill(ctx context.Context, req *connect.Request[api.ScanBillRequest]) (*connect.Response[api.ScanBillResponse], error) {
	return c.scanBill.CallUnary(ctx, req)
}

// ListScans calls billsplit.v1.ScanService.ListScans.
func (c *scanServiceClient) ListScans(ctx context.Context, req *connect.Request[api.ListScansRequest]) (*connect.Response[api.ListScansResponse], error) {
	return c.listScans.CallUnary(ctx, req)
}

// ScanServiceHandler is an implementation of the billsplit.v1.ScanService service.
type ScanServiceHandler interface {
	VerifyAccess(context.Context, *connect.Request[api.VerifyAccessRequest]) (*connect.Response[api.VerifyAccessResponse], error)
	ScanBill(context.Context, *connect.Request[api.ScanBillRequest]) (*connect.Response[api.ScanBillResponse], error)
	ListScans(context.Context, *connect.Request[api.ListScansRequest]) (*connect.Response[api.ListScansResponse], error)
}

// NewScanServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewScanServiceHandler(svc ScanServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	scanServiceVerifyAccessHandler := connect.NewUnaryHandler(
		ScanServiceVerifyAccessProcedure,
		svc.VerifyAccess,
		opts...,
	)
	scanServiceScanBillHandler := connect.NewUnaryHandler(
		ScanServiceScanBillProcedure,
		svc.ScanBill,
		opts...,
	)
	scanServiceListScansHandler := connect.NewUnaryHandler(
		ScanServiceListScansProcedure,
		svc.ListScans,
		opts...,
	)
	return "/billsplit.v1.ScanService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ScanServiceVerifyAccessProcedure:
			scanServiceVerifyAccessHandler.ServeHTTP(w, r)
		case ScanServiceScanBillProcedure:
			scanServiceScanBillHandler.ServeHTTP(w, r)
		case ScanServiceListScansProcedure:
			scanServiceListScansHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
