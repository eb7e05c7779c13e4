package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmynk/billsplitter/internal/metrics"
	"github.com/mmynk/billsplitter/internal/storage"
)

// DefaultMaxImageBytes is the decoded image size ceiling.
const DefaultMaxImageBytes = 5 << 20

// DefaultNotifyTimeout bounds a single notification delivery.
const DefaultNotifyTimeout = 10 * time.Second

var supportedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Classifier extracts receipt lines from an image. It returns the model's
// raw text reply; parsing is done by ParseClassifierOutput.
//
// Implementations map provider failures onto ErrRateLimited,
// ErrClassifierAuth and ErrClassifierUnavailable.
type Classifier interface {
	Classify(ctx context.Context, image []byte, mediaType string) (string, error)
}

// Notifier announces a successful scan. Delivery is best effort.
type Notifier interface {
	NotifyScan(ctx context.Context, items []Item) error
}

// Journal records scan attempts.
type Journal interface {
	RecordScan(ctx context.Context, rec *storage.ScanRecord) error
}

// Request is a single image to scan. Image holds the decoded bytes.
type Request struct {
	Image     []byte
	MediaType string
}

// Config tunes a Service. Zero values select the defaults.
type Config struct {
	MaxImageBytes int
	NotifyTimeout time.Duration
}

// Service runs the scan flow: validate the upload, call the classifier,
// parse and normalize its reply, journal the attempt and notify.
type Service struct {
	classifier Classifier
	notifier   Notifier
	journal    Journal
	metrics    *metrics.Metrics
	logger     *slog.Logger
	cfg        Config

	wg sync.WaitGroup
}

// NewService creates a scan service. notifier and journal may be nil.
func NewService(classifier Classifier, notifier Notifier, journal Journal, m *metrics.Metrics, logger *slog.Logger, cfg Config) *Service {
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = DefaultMaxImageBytes
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = DefaultNotifyTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		classifier: classifier,
		notifier:   notifier,
		journal:    journal,
		metrics:    m,
		logger:     logger,
		cfg:        cfg,
	}
}

// MaxImageBytes returns the configured decoded image ceiling.
func (s *Service) MaxImageBytes() int {
	return s.cfg.MaxImageBytes
}

// Scan extracts validated items from a receipt image.
func (s *Service) Scan(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	req.MediaType = strings.ToLower(strings.TrimSpace(req.MediaType))

	res, err := s.scan(ctx, req)
	elapsed := time.Since(start)
	outcome := Outcome(err)

	s.metrics.ObserveScan(outcome, elapsed, len(res.Items))
	s.record(ctx, req, res, outcome, elapsed, err)

	if err != nil {
		s.logger.Warn("Bill scan failed", "outcome", outcome, "media_type", req.MediaType, "duration", elapsed, "error", err)
		return Result{}, err
	}

	s.logger.Info("Bill scanned", "items", len(res.Items), "warnings", len(res.Warnings), "duration", elapsed)
	for _, it := range res.Items {
		s.logger.Debug("Scanned item", "name", it.Name, "price", it.Price.String(), "quantity", it.Quantity, "confidence", it.Confidence)
	}

	s.notify(ctx, res.Items)
	return res, nil
}

func (s *Service) scan(ctx context.Context, req Request) (Result, error) {
	if len(req.Image) == 0 || req.MediaType == "" {
		return Result{}, ErrMissingImage
	}
	if !supportedMediaTypes[req.MediaType] {
		return Result{}, ErrUnsupportedMediaType
	}
	if len(req.Image) > s.cfg.MaxImageBytes {
		return Result{}, ErrImageTooLarge
	}

	text, err := s.classifier.Classify(ctx, req.Image, req.MediaType)
	if err != nil {
		return Result{}, classifierError(ctx, err)
	}

	res, err := ParseClassifierOutput(text)
	if err != nil {
		s.logger.Error("Failed to parse classifier output", "error", err, "output", truncate(text, 500))
		return Result{}, err
	}
	return res, nil
}

// classifierError keeps known classifier errors and folds anything else
// into ErrClassifierUnavailable, unless the caller went away.
func classifierError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrRateLimited), errors.Is(err, ErrClassifierAuth), errors.Is(err, ErrClassifierUnavailable):
		return err
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
}

// Outcome classifies a scan error for the journal and metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return storage.OutcomeOK
	case errors.Is(err, ErrUnparseable):
		return storage.OutcomeUnparseable
	case errors.Is(err, ErrRateLimited):
		return storage.OutcomeRateLimited
	case errors.Is(err, ErrClassifierAuth):
		return storage.OutcomeAuthFailed
	case errors.Is(err, ErrClassifierUnavailable):
		return storage.OutcomeUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return storage.OutcomeCanceled
	default:
		return storage.OutcomeRejected
	}
}

func (s *Service) record(ctx context.Context, req Request, res Result, outcome string, elapsed time.Duration, scanErr error) {
	if s.journal == nil {
		return
	}

	rec := &storage.ScanRecord{
		Outcome:    outcome,
		MediaType:  req.MediaType,
		ImageBytes: len(req.Image),
		ItemCount:  len(res.Items),
		ItemsTotal: res.Total(),
		Warnings:   res.Warnings,
		Duration:   elapsed,
	}
	if scanErr != nil {
		rec.Error = scanErr.Error()
	}
	for _, it := range res.Items {
		rec.Items = append(rec.Items, storage.ScannedItem{
			Name:       it.Name,
			Price:      it.Price,
			Quantity:   it.Quantity,
			Confidence: string(it.Confidence),
		})
	}

	if err := s.journal.RecordScan(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Error("Failed to journal scan", "outcome", outcome, "error", err)
	}
}

// notify delivers the scan notification in the background. Failures are
// logged and never reach the caller.
func (s *Service) notify(ctx context.Context, items []Item) {
	if s.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTimeout)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Scan notification panicked", "panic", r)
			}
		}()

		if err := s.notifier.NotifyScan(ctx, items); err != nil {
			s.logger.Warn("Failed to send scan notification", "error", err)
		}
	}()
}

// Wait blocks until in-flight notifications finish or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
