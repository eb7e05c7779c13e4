package sqlite

import "database/sql"

// schema sets up the scan journal. It runs on startup to ensure tables exist.
// Money is stored as TEXT so decimals round-trip exactly.
const schema = `
CREATE TABLE IF NOT EXISTS scan_records (
    id TEXT PRIMARY KEY,
    outcome TEXT NOT NULL,
    media_type TEXT NOT NULL,
    image_bytes INTEGER NOT NULL,
    item_count INTEGER NOT NULL,
    items_total TEXT NOT NULL,
    warnings TEXT NOT NULL DEFAULT '',
    duration_ms INTEGER NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS scan_items (
    scan_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    price TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    confidence TEXT NOT NULL,
    PRIMARY KEY (scan_id, position),
    FOREIGN KEY (scan_id) REFERENCES scan_records(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_scan_records_created_at ON scan_records(created_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
