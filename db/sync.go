// ABOUTME: Database operations for the analyzer_sync_log table
// ABOUTME: Records every inbound analyzer message with its outcome under a ULID key
package db

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/harperreed/acctnotes/analyzer"
	"github.com/harperreed/acctnotes/models"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

func newLogID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// LogAnalyzerMessage appends one entry to the analyzer log.
func LogAnalyzerMessage(ctx context.Context, db *sql.DB, entry analyzer.LogEntry) error {
	var seq sql.NullInt64
	if entry.Seq != nil {
		seq = sql.NullInt64{Int64: int64(*entry.Seq), Valid: true}
	}
	received := entry.ReceivedAt
	if received.IsZero() {
		received = time.Now()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO analyzer_sync_log (id, customer_id, message_type, seq, outcome, received_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, newLogID(received), entry.CustomerID.String(), entry.Type, seq, string(entry.Outcome), received.UTC())
	if err != nil {
		return fmt.Errorf("failed to log analyzer message: %w", err)
	}
	return nil
}

// RecentAnalyzerMessages returns up to limit entries, newest first.
// An empty customerID returns entries for every customer.
func RecentAnalyzerMessages(ctx context.Context, db *sql.DB, customerID models.RecordID, limit int) ([]analyzer.LogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT customer_id, message_type, seq, outcome, received_at
		FROM analyzer_sync_log
	`
	args := []interface{}{}
	if customerID != "" {
		query += ` WHERE customer_id = ?`
		args = append(args, customerID.String())
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyzer log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []analyzer.LogEntry
	for rows.Next() {
		var (
			e        analyzer.LogEntry
			customer string
			seq     sql.NullInt64
			outcome  string
		)
		if err := rows.Scan(&customer, &e.Type, &seq, &outcome, &e.ReceivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analyzer log: %w", err)
		}
		e.CustomerID = models.RecordID(customer)
		e.Outcome = analyzer.Outcome(outcome)
		if seq.Valid {
			v := uint64(seq.Int64)
			e.Seq = &v
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MessageLog adapts a database handle to analyzer.MessageLog.
type MessageLog struct {
	DB *sql.DB
}

func (l *MessageLog) LogAnalyzerMessage(ctx context.Context, entry analyzer.LogEntry) error {
	return LogAnalyzerMessage(ctx, l.DB, entry)
}
