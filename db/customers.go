// ABOUTME: Stores the customer document in SQLite, one row per record
// ABOUTME: Every save rewrites all rows in a single transaction, matching the whole-document model
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/store"
)

const lastSavedKey = "last_saved"

// SaveDocument replaces every stored customer with doc.Customers.
func SaveDocument(ctx context.Context, db *sql.DB, doc store.Document) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM customers`); err != nil {
		return fmt.Errorf("failed to clear customers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO customers (id, name, last_edited, position, data)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare customer insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, c := range doc.Customers {
		data, err := json.Marshal(c.Data)
		if err != nil {
			return fmt.Errorf("failed to encode customer %s: %w", c.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, c.ID.String(), c.Name, c.LastEdited, i, string(data)); err != nil {
			return fmt.Errorf("failed to insert customer %s: %w", c.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO workspace (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, lastSavedKey, doc.LastSaved.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to record save time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit customers: %w", err)
	}
	return nil
}

// LoadDocument reads every stored customer in saved order.
func LoadDocument(ctx context.Context, db *sql.DB) (store.Document, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, last_edited, data
		FROM customers
		ORDER BY position
	`)
	if err != nil {
		return store.Document{}, fmt.Errorf("failed to query customers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	doc := store.Document{Customers: []models.CustomerRecord{}}
	for rows.Next() {
		var (
			c    models.CustomerRecord
			id   string
			data string
		)
		if err := rows.Scan(&id, &c.Name, &c.LastEdited, &data); err != nil {
			return store.Document{}, fmt.Errorf("failed to scan customer: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &c.Data); err != nil {
			return store.Document{}, fmt.Errorf("failed to decode customer %s: %w", id, err)
		}
		c.ID = models.RecordID(id)
		doc.Customers = append(doc.Customers, c)
	}
	if err := rows.Err(); err != nil {
		return store.Document{}, fmt.Errorf("failed to read customers: %w", err)
	}

	var saved string
	err = db.QueryRowContext(ctx, `SELECT value FROM workspace WHERE key = ?`, lastSavedKey).Scan(&saved)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return store.Document{}, fmt.Errorf("failed to read save time: %w", err)
	default:
		if t, perr := time.Parse(time.RFC3339Nano, saved); perr == nil {
			doc.LastSaved = t
		}
	}

	return doc, nil
}

// Persister adapts a database handle to store.Persister.
type Persister struct {
	DB *sql.DB
}

// NewPersister wraps db.
func NewPersister(db *sql.DB) *Persister {
	return &Persister{DB: db}
}

func (p *Persister) Load(ctx context.Context) (store.Document, error) {
	return LoadDocument(ctx, p.DB)
}

func (p *Persister) Save(ctx context.Context, doc store.Document) error {
	return SaveDocument(ctx, p.DB, doc)
}
