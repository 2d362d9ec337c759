package highlight

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// OutboxEntry is one stored summary awaiting delivery.
type OutboxEntry struct {
	Seq       int64
	Summary   Summary
	CreatedAt time.Time
}

// SQLiteOutbox is a Publisher that appends summaries to an outbox table
// for a downstream consumer to collect.
type SQLiteOutbox struct {
	db     *sql.DB
	format Format
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteOutbox opens (or creates) an outbox at path.
// The path should be a file path or ":memory:" for testing.
func NewSQLiteOutbox(path string, format Format) (*SQLiteOutbox, error) {
	if format == "" {
		format = FormatJSON
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open outbox: %w", err)
	}
	// One connection: SQLite has a single writer and ":memory:" databases
	// are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS highlight_outbox (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			race_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			driver_id TEXT NOT NULL,
			format TEXT NOT NULL,
			payload BLOB NOT NULL,
			created_at TEXT NOT NULL,
			delivered_at TEXT
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_highlight_outbox_pending
		ON highlight_outbox(delivered_at, seq)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteOutbox{db: db, format: format}, nil
}

// Publish implements Publisher.
func (o *SQLiteOutbox) Publish(ctx context.Context, s Summary) error {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		return ErrClosed
	}

	payload, err := Encode(s, o.format)
	if err != nil {
		return fmt.Errorf("encode highlight: %w", err)
	}

	_, err = o.db.ExecContext(ctx, `
		INSERT INTO highlight_outbox (race_id, event_type, driver_id, format, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.RaceID, string(s.Type), s.DriverID, string(o.format), payload,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store highlight: %w", err)
	}
	return nil
}

// Pending returns up to limit undelivered entries, oldest first.
// A limit <= 0 returns all of them.
func (o *SQLiteOutbox) Pending(ctx context.Context, limit int) ([]OutboxEntry, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := o.db.QueryContext(ctx, `
		SELECT seq, format, payload, created_at
		FROM highlight_outbox
		WHERE delivered_at IS NULL
		ORDER BY seq
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending highlights: %w", err)
	}
	defer rows.Close()

	var entries []OutboxEntry
	for rows.Next() {
		var (
			entry     OutboxEntry
			format    string
			payload   []byte
			createdAt string
		)
		if err := rows.Scan(&entry.Seq, &format, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan highlight: %w", err)
		}
		entry.Summary, err = Decode(payload, Format(format))
		if err != nil {
			return nil, fmt.Errorf("highlight %d: %w", entry.Seq, err)
		}
		entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate highlights: %w", err)
	}
	return entries, nil
}

// MarkDelivered flags the given entries as delivered.
func (o *SQLiteOutbox) MarkDelivered(ctx context.Context, seqs ...int64) error {
	if len(seqs) == 0 {
		return nil
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		return ErrClosed
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(seqs)), ",")
	args := make([]any, 0, len(seqs)+1)
	args = append(args, time.Now().UTC().Format(time.RFC3339Nano))
	for _, seq := range seqs {
		args = append(args, seq)
	}

	_, err := o.db.ExecContext(ctx,
		`UPDATE highlight_outbox SET delivered_at = ? WHERE seq IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return fmt.Errorf("mark highlights delivered: %w", err)
	}
	return nil
}

// PendingCount returns the number of undelivered entries.
func (o *SQLiteOutbox) PendingCount(ctx context.Context) (int, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		return 0, ErrClosed
	}

	var n int
	err := o.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM highlight_outbox WHERE delivered_at IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending highlights: %w", err)
	}
	return n, nil
}

// Close releases the database.
func (o *SQLiteOutbox) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true
	return o.db.Close()
}
