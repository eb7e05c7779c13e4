// Package sqlite provides a SQLite-backed implementation of the storage.ScanStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/billsplitter/internal/storage"
)

// Ensure SQLiteStore implements storage.ScanStore
var _ storage.ScanStore = (*SQLiteStore)(nil)

// defaultListLimit caps ListScans when no positive limit is given.
const defaultListLimit = 50

// SQLiteStore implements storage.ScanStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
// The special path ":memory:" opens an in-memory database.
func New(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordScan persists a scan attempt and its items in one transaction.
func (s *SQLiteStore) RecordScan(ctx context.Context, rec *storage.ScanRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	warnings, err := encodeWarnings(rec.Warnings)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scan_records
		    (id, outcome, media_type, image_bytes, item_count, items_total, warnings, duration_ms, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Outcome, rec.MediaType, rec.ImageBytes, rec.ItemCount,
		rec.ItemsTotal.String(), warnings, rec.Duration.Milliseconds(), rec.Error,
		rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert scan record: %w", err)
	}

	for i, item := range rec.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO scan_items (scan_id, position, name, price, quantity, confidence) VALUES (?, ?, ?, ?, ?, ?)",
			rec.ID, i, item.Name, item.Price.String(), item.Quantity, item.Confidence,
		)
		if err != nil {
			return fmt.Errorf("failed to insert scan item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetScan retrieves a scan record by ID, including its items.
func (s *SQLiteStore) GetScan(ctx context.Context, id string) (*storage.ScanRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, outcome, media_type, image_bytes, item_count, items_total, warnings, duration_ms, error, created_at
		 FROM scan_records WHERE id = ?`,
		id,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scan %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, price, quantity, confidence FROM scan_items WHERE scan_id = ? ORDER BY position",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item  storage.ScannedItem
			price string
		)
		if err := rows.Scan(&item.Name, &price, &item.Quantity, &item.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("failed to parse item price %q: %w", price, err)
		}
		rec.Items = append(rec.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scan items: %w", err)
	}

	return &rec, nil
}

// ListScans returns the most recent scan records, newest first.
func (s *SQLiteStore) ListScans(ctx context.Context, limit int) ([]storage.ScanRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, outcome, media_type, image_bytes, item_count, items_total, warnings, duration_ms, error, created_at
		 FROM scan_records ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	records := []storage.ScanRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scans: %w", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (storage.ScanRecord, error) {
	var (
		rec        storage.ScanRecord
		total      string
		warnings   string
		durationMs int64
		createdAt  int64
	)
	err := row.Scan(&rec.ID, &rec.Outcome, &rec.MediaType, &rec.ImageBytes, &rec.ItemCount,
		&total, &warnings, &durationMs, &rec.Error, &createdAt)
	if err != nil {
		return rec, err
	}

	if rec.ItemsTotal, err = decimal.NewFromString(total); err != nil {
		return rec, fmt.Errorf("failed to parse items total %q: %w", total, err)
	}
	if rec.Warnings, err = decodeWarnings(warnings); err != nil {
		return rec, err
	}
	rec.Duration = time.Duration(durationMs) * time.Millisecond
	rec.CreatedAt = time.UnixMilli(createdAt)
	return rec, nil
}

func encodeWarnings(warnings []string) (string, error) {
	if len(warnings) == 0 {
		return "", nil
	}
	b, err := json.Marshal(warnings)
	if err != nil {
		return "", fmt.Errorf("failed to encode warnings: %w", err)
	}
	return string(b), nil
}

func decodeWarnings(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var warnings []string
	if err := json.Unmarshal([]byte(s), &warnings); err != nil {
		return nil, fmt.Errorf("failed to decode warnings: %w", err)
	}
	return warnings, nil
}
