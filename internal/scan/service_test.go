package scan

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/billsplitter/internal/storage"
)

type fakeClassifier struct {
	text  string
	err   error
	calls int
	block chan struct{}
}

func (f *fakeClassifier) Classify(ctx context.Context, image []byte, mediaType string) (string, error) {
	f.calls++
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

type fakeNotifier struct {
	mu    sync.Mutex
	items [][]Item
	err   error
	panic bool
	ctxOK bool
}

func (f *fakeNotifier) NotifyScan(ctx context.Context, items []Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panic {
		panic("boom")
	}
	f.items = append(f.items, items)
	f.ctxOK = ctx.Err() == nil
	return f.err
}

type fakeJournal struct {
	mu      sync.Mutex
	records []storage.ScanRecord
	err     error
}

func (f *fakeJournal) RecordScan(ctx context.Context, rec *storage.ScanRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *rec)
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func jpeg() Request {
	return Request{Image: []byte{0xff, 0xd8, 0xff, 0xe0}, MediaType: "image/jpeg"}
}

func waitNotifications(t *testing.T, svc *Service) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := svc.Wait(ctx); err != nil {
		t.Fatalf("notifications did not drain: %v", err)
	}
}

func TestScanSuccess(t *testing.T) {
	classifier := &fakeClassifier{text: `{"items":[{"name":"Pizza","price":24,"quantity":2,"confidence":"high"},{"name":"","price":3}],"warnings":["check tea"]}`}
	notifier := &fakeNotifier{}
	journal := &fakeJournal{}
	svc := NewService(classifier, notifier, journal, nil, discardLogger(), Config{})

	ctx, cancel := context.WithCancel(context.Background())
	res, err := svc.Scan(ctx, jpeg())
	cancel()
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	waitNotifications(t, svc)

	if len(res.Items) != 1 || res.Items[0].Name != "Pizza" || res.Items[0].Quantity != 2 {
		t.Errorf("Unexpected items: %+v", res.Items)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("Expected 1 warning, got %v", res.Warnings)
	}

	if len(notifier.items) != 1 || len(notifier.items[0]) != 1 {
		t.Fatalf("Expected one notification with one item, got %+v", notifier.items)
	}
	if !notifier.ctxOK {
		t.Error("Notification context should outlive the request")
	}

	if len(journal.records) != 1 {
		t.Fatalf("Expected 1 journal record, got %d", len(journal.records))
	}
	rec := journal.records[0]
	if rec.Outcome != storage.OutcomeOK || rec.ItemCount != 1 || rec.ImageBytes != 4 {
		t.Errorf("Unexpected journal record: %+v", rec)
	}
	if rec.ItemsTotal.String() != "24" {
		t.Errorf("ItemsTotal = %s, want 24", rec.ItemsTotal)
	}
}

func TestScanRejectsBadUploads(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"missing image", Request{MediaType: "image/png"}, ErrMissingImage},
		{"missing media type", Request{Image: []byte{1}}, ErrMissingImage},
		{"unsupported media type", Request{Image: []byte{1}, MediaType: "application/pdf"}, ErrUnsupportedMediaType},
		{"heic", Request{Image: []byte{1}, MediaType: "image/heic"}, ErrUnsupportedMediaType},
		{"too large", Request{Image: make([]byte, 11), MediaType: "image/png"}, ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := &fakeClassifier{text: `{"items":[]}`}
			journal := &fakeJournal{}
			svc := NewService(classifier, nil, journal, nil, discardLogger(), Config{MaxImageBytes: 10})

			_, err := svc.Scan(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if classifier.calls != 0 {
				t.Error("Classifier should not be called for a rejected upload")
			}
			if len(journal.records) != 1 || journal.records[0].Outcome != storage.OutcomeRejected {
				t.Errorf("Expected a rejected journal record, got %+v", journal.records)
			}
		})
	}
}

func TestScanMediaTypeIsNormalized(t *testing.T) {
	classifier := &fakeClassifier{text: `{"items":[]}`}
	svc := NewService(classifier, nil, nil, nil, discardLogger(), Config{})

	if _, err := svc.Scan(context.Background(), Request{Image: []byte{1}, MediaType: " Image/WEBP "}); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
}

func TestScanClassifierErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantErr     error
		wantOutcome string
	}{
		{"rate limited", ErrRateLimited, ErrRateLimited, storage.OutcomeRateLimited},
		{"auth", ErrClassifierAuth, ErrClassifierAuth, storage.OutcomeAuthFailed},
		{"unavailable", ErrClassifierUnavailable, ErrClassifierUnavailable, storage.OutcomeUnavailable},
		{"unknown error is unavailable", errors.New("connection reset"), ErrClassifierUnavailable, storage.OutcomeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &fakeNotifier{}
			journal := &fakeJournal{}
			svc := NewService(&fakeClassifier{err: tt.err}, notifier, journal, nil, discardLogger(), Config{})

			_, err := svc.Scan(context.Background(), jpeg())
			waitNotifications(t, svc)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if len(notifier.items) != 0 {
				t.Error("Failed scans must not notify")
			}
			if journal.records[0].Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %q, want %q", journal.records[0].Outcome, tt.wantOutcome)
			}
		})
	}
}

func TestScanUnparseable(t *testing.T) {
	journal := &fakeJournal{}
	svc := NewService(&fakeClassifier{text: "Sorry, I can't read that."}, nil, journal, nil, discardLogger(), Config{})

	_, err := svc.Scan(context.Background(), jpeg())
	if !errors.Is(err, ErrUnparseable) {
		t.Fatalf("Expected ErrUnparseable, got %v", err)
	}
	if journal.records[0].Outcome != storage.OutcomeUnparseable {
		t.Errorf("Outcome = %q", journal.records[0].Outcome)
	}
}

func TestScanCanceled(t *testing.T) {
	classifier := &fakeClassifier{block: make(chan struct{})}
	svc := NewService(classifier, nil, nil, nil, discardLogger(), Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Scan(ctx, jpeg())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if Outcome(err) != storage.OutcomeCanceled {
		t.Errorf("Outcome = %q", Outcome(err))
	}
}

func TestScanNotificationFailuresAreSwallowed(t *testing.T) {
	tests := []struct {
		name     string
		notifier *fakeNotifier
	}{
		{"error", &fakeNotifier{err: errors.New("telegram down")}},
		{"panic", &fakeNotifier{panic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeClassifier{text: `{"items":[{"name":"Tea","price":3}]}`}, tt.notifier, nil, nil, discardLogger(), Config{})

			res, err := svc.Scan(context.Background(), jpeg())
			waitNotifications(t, svc)

			if err != nil {
				t.Fatalf("Scan should succeed despite notification failure: %v", err)
			}
			if len(res.Items) != 1 {
				t.Errorf("Expected 1 item, got %d", len(res.Items))
			}
		})
	}
}

func TestScanJournalFailureIsSwallowed(t *testing.T) {
	journal := &fakeJournal{err: errors.New("disk full")}
	svc := NewService(&fakeClassifier{text: `{"items":[{"name":"Tea","price":3}]}`}, nil, journal, nil, discardLogger(), Config{})

	if _, err := svc.Scan(context.Background(), jpeg()); err != nil {
		t.Fatalf("Scan should succeed despite journal failure: %v", err)
	}
}
