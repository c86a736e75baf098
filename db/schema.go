// ABOUTME: Database schema definitions
// ABOUTME: Customer documents, workspace metadata and the analyzer message log
package db

import (
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	last_edited TEXT NOT NULL,
	position INTEGER NOT NULL,
	data TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_customers_position ON customers(position);
CREATE INDEX IF NOT EXISTS idx_customers_name ON customers(name);

CREATE TABLE IF NOT EXISTS workspace (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS analyzer_sync_log (
	id TEXT PRIMARY KEY,
	customer_id TEXT NOT NULL,
	message_type TEXT NOT NULL,
	seq INTEGER,
	outcome TEXT NOT NULL,
	received_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyzer_sync_log_customer ON analyzer_sync_log(customer_id);
CREATE INDEX IF NOT EXISTS idx_analyzer_sync_log_received ON analyzer_sync_log(received_at);
`

// InitSchema creates every table and index that does not exist yet.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
