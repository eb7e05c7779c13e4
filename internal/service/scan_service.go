package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/billsplitter/internal/auth"
	"github.com/mmynk/billsplitter/internal/metrics"
	"github.com/mmynk/billsplitter/internal/middleware"
	"github.com/mmynk/billsplitter/internal/scan"
	"github.com/mmynk/billsplitter/internal/storage"
	"github.com/mmynk/billsplitter/pkg/api"
	"github.com/mmynk/billsplitter/pkg/api/apiconnect"
)

// Access check results recorded in metrics.
const (
	accessGranted       = "granted"
	accessDenied        = "denied"
	accessNotConfigured = "not_configured"
)

const maxListLimit = 200

// Scanner runs one receipt scan.
type Scanner interface {
	Scan(ctx context.Context, req scan.Request) (scan.Result, error)
}

// ScanLister reads the scan journal.
type ScanLister interface {
	ListScans(ctx context.Context, limit int) ([]storage.ScanRecord, error)
}

// ScanService implements the Connect ScanService.
type ScanService struct {
	gate       auth.Gate
	jwtManager *auth.JWTManager
	scanner    Scanner
	journal    ScanLister
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// Ensure ScanService implements the handler interface
var _ apiconnect.ScanServiceHandler = (*ScanService)(nil)

// NewScanService creates a scan service. journal and m may be nil.
func NewScanService(gate auth.Gate, jwtManager *auth.JWTManager, scanner Scanner, journal ScanLister, m *metrics.Metrics, logger *slog.Logger) *ScanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanService{
		gate:       gate,
		jwtManager: jwtManager,
		scanner:    scanner,
		journal:    journal,
		metrics:    m,
		logger:     logger,
	}
}

// VerifyAccess checks the scan access code. A wrong code is a normal answer
// (valid=false), not an error; a correct one returns a session token for the
// other scan calls.
func (s *ScanService) VerifyAccess(ctx context.Context, req *connect.Request[api.VerifyAccessRequest]) (*connect.Response[api.VerifyAccessResponse], error) {
	err := s.gate.Verify(ctx, req.Msg.Code)
	switch {
	case errors.Is(err, auth.ErrAccessNotConfigured):
		s.metrics.ObserveAccessCheck(accessNotConfigured)
		s.logger.Error("Scan access requested but no access code is configured")
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, auth.ErrInvalidAccessCode):
		s.metrics.ObserveAccessCheck(accessDenied)
		s.logger.Warn("Invalid scan access code")
		return connect.NewResponse(&api.VerifyAccessResponse{Valid: false}), nil
	case err != nil:
		s.logger.Error("Access check failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, claims, err := s.jwtManager.Generate()
	if err != nil {
		s.logger.Error("Failed to generate session token", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.metrics.ObserveAccessCheck(accessGranted)
	s.logger.Info("Scan access granted", "session_id", claims.SessionID)
	return connect.NewResponse(&api.VerifyAccessResponse{
		Valid:     true,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}), nil
}

// ScanBill extracts line items from a receipt photo.
func (s *ScanService) ScanBill(ctx context.Context, req *connect.Request[api.ScanBillRequest]) (*connect.Response[api.ScanBillResponse], error) {
	res, err := s.scanner.Scan(ctx, scan.Request{
		Image:     req.Msg.Image,
		MediaType: req.Msg.MediaType,
	})
	if err != nil {
		code, userErr := scanError(err)
		return nil, connect.NewError(code, userErr)
	}

	s.logger.Info("ScanBill completed",
		"session_id", middleware.GetSessionID(ctx),
		"items", len(res.Items),
	)
	return connect.NewResponse(&api.ScanBillResponse{
		Items:    res.Items,
		Warnings: res.Warnings,
	}), nil
}

// ListScans returns the most recent journaled scans.
func (s *ScanService) ListScans(ctx context.Context, req *connect.Request[api.ListScansRequest]) (*connect.Response[api.ListScansResponse], error) {
	summaries := []api.ScanSummary{}
	if s.journal == nil {
		return connect.NewResponse(&api.ListScansResponse{Scans: summaries}), nil
	}

	limit := min(max(req.Msg.Limit, 0), maxListLimit)
	records, err := s.journal.ListScans(ctx, limit)
	if err != nil {
		s.logger.Error("ListScans failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	for _, rec := range records {
		summaries = append(summaries, api.ScanSummary{
			ID:         rec.ID,
			Outcome:    rec.Outcome,
			MediaType:  rec.MediaType,
			ImageBytes: rec.ImageBytes,
			ItemCount:  rec.ItemCount,
			ItemsTotal: rec.ItemsTotal,
			DurationMs: rec.Duration.Milliseconds(),
			Error:      rec.Error,
			CreatedAt:  rec.CreatedAt,
		})
	}
	return connect.NewResponse(&api.ListScansResponse{Scans: summaries}), nil
}

// scanError maps a scan failure to its RPC code and the message the client
// shows. Classifier details stay in the server log.
func scanError(err error) (connect.Code, error) {
	switch {
	case errors.Is(err, scan.ErrRateLimited):
		return connect.CodeResourceExhausted, scan.ErrRateLimited
	case errors.Is(err, scan.ErrClassifierAuth):
		return connect.CodeInternal, scan.ErrClassifierAuth
	case errors.Is(err, scan.ErrClassifierUnavailable):
		return connect.CodeUnavailable, scan.ErrClassifierUnavailable
	case errors.Is(err, scan.ErrUnparseable):
		return connect.CodeInvalidArgument, scan.ErrUnparseable
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled, err
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded, err
	default:
		return connect.CodeInvalidArgument, err
	}
}
