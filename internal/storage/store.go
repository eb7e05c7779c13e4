// Package storage provides abstractions for persistent data storage.
//
// Bills themselves are never persisted: they live in the client and travel
// with every request. What is stored is the scan journal, an operational log
// of receipt scans and what the classifier returned.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Scan outcomes recorded in the journal.
const (
	OutcomeOK          = "ok"
	OutcomeRejected    = "rejected"
	OutcomeUnparseable = "unparseable"
	OutcomeRateLimited = "rate_limited"
	OutcomeAuthFailed  = "auth_failed"
	OutcomeUnavailable = "unavailable"
	OutcomeCanceled    = "canceled"
)

// ScanRecord is one journaled scan attempt.
type ScanRecord struct {
	ID         string
	Outcome    string
	MediaType  string
	ImageBytes int
	ItemCount  int
	// ItemsTotal is the sum of the returned line totals.
	ItemsTotal decimal.Decimal
	Warnings   []string
	Duration   time.Duration
	Error      string
	CreatedAt  time.Time
	Items      []ScannedItem
}

// ScannedItem is a validated line item as returned to the client.
type ScannedItem struct {
	Name       string
	Price      decimal.Decimal
	Quantity   int
	Confidence string
}

// ScanStore defines the interface for the scan journal.
// This abstraction allows swapping storage backends without changing the
// scan flow.
type ScanStore interface {
	// RecordScan persists a scan attempt. ID and CreatedAt are populated
	// by the store when empty.
	RecordScan(ctx context.Context, rec *ScanRecord) error

	// GetScan retrieves one record with its items.
	// Returns ErrNotFound if the record does not exist.
	GetScan(ctx context.Context, id string) (*ScanRecord, error)

	// ListScans returns the most recent records first, without items.
	ListScans(ctx context.Context, limit int) ([]ScanRecord, error)

	// Close releases any resources held by the store.
	Close() error
}
