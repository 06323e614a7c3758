// sqlite_ops.go provides SQLite connection management and low-level operations.
//
// Separated to isolate SQLite-specific concerns (pragmas, connection pooling,
// driver registration, constraint error decoding) from business logic. This
// is the only file in the package that imports the SQLite driver.
//
// Design: WAL mode with busy timeout balances concurrency and durability.
// WAL allows concurrent readers during writes (a search while another process
// edits). The 5-second busy timeout queues writers instead of failing with
// "database is locked".

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteStore implements Store using SQLite with WAL mode for concurrent access.
type SQLiteStore struct {
	db     *sql.DB
	limits Limits
}

// Compile-time interface compliance check.
var _ Store = (*SQLiteStore)(nil)

// Open opens the SQLite database file at `path` and returns a configured
// SQLiteStore. The caller should call Close on the returned store.
func Open(path string) (*SQLiteStore, error) {
	// busy_timeout and synchronous are per-connection settings, so they go in
	// the DSN where the driver applies them to every pooled connection.
	// Busy timeout: how long a writer waits for the lock held by another
	// connection before giving up. Synchronous NORMAL is corruption-safe
	// under WAL; only the last transaction can be lost on an OS crash.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// WAL mode: readers do not block the single writer and vice versa.
	// Persisted in the database file, so once is enough.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Init creates tables and indexes if they don't exist. Safe to call multiple
// times; uses IF NOT EXISTS to avoid errors on existing databases.
func (s *SQLiteStore) Init() error {
	return execSchema(s.db)
}

// SetLimits configures field size limits enforced on writes.
func (s *SQLiteStore) SetLimits(l Limits) {
	s.limits = l
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for maintenance and tests.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// noteColumns is the column list every note query selects, in scanNote order.
const noteColumns = `id, owner, display_id, title, body, tags, created_at, updated_at`

// scanner abstracts sql.Row and sql.Rows, enabling a single scan function
// to handle both single-row and multi-row queries.
type scanner interface {
	Scan(dest ...any) error
}

// scanNote extracts a Note from a database row. A NULL tags column decodes
// to the empty set.
func scanNote(sc scanner) (Note, error) {
	var n Note
	var tags sql.NullString
	var created, updated string

	err := sc.Scan(&n.ID, &n.Owner, &n.DisplayID, &n.Title, &n.Body, &tags, &created, &updated)
	if err != nil {
		return n, err
	}

	n.Tags = DecodeTags(tags.String)
	if n.CreatedAt, err = parseTime(created); err != nil {
		return n, fmt.Errorf("created_at: %w", err)
	}
	if n.UpdatedAt, err = parseTime(updated); err != nil {
		return n, fmt.Errorf("updated_at: %w", err)
	}
	return n, nil
}

// scanOne converts sql.ErrNoRows to ErrNotFound for consistent error handling.
func scanOne(row *sql.Row) (*Note, error) {
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan note: %w", err)
	}
	return &n, nil
}

// scanNotes iterates over query results, collecting notes into a slice.
func scanNotes(rows *sql.Rows) ([]Note, error) {
	var notes []Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Tx executes fn within a database transaction, handling Begin/Commit/Rollback
// automatically. If fn returns an error the transaction is rolled back and the
// error is returned unchanged, so sentinels survive for errors.Is.
func (s *SQLiteStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// uniqueViolation reports whether err is a UNIQUE constraint failure on the
// given column (e.g. "notes.title_key").
func uniqueViolation(err error, column string) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return false
	}
	msg := se.Error()
	return strings.Contains(msg, "UNIQUE") && strings.Contains(msg, column)
}

// genID creates a globally unique note identifier.
func genID() string {
	return uuid.NewString()
}

// timeLayout is RFC3339 with a fixed nine-digit fraction. RFC3339Nano trims
// trailing zeros, so ".5Z" would sort after ".51Z"; padded text in UTC sorts
// lexically in time order, which ORDER BY created_at relies on.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime encodes a timestamp for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
