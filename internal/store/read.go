// read.go implements read-only note queries for SQLiteStore.

package store

import (
	"context"
	"fmt"
)

// Get retrieves a note by its global ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Note, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	n, err := scanOne(row)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return n, nil
}

// GetByDisplayID retrieves an owner's note by its per-owner number.
func (s *SQLiteStore) GetByDisplayID(ctx context.Context, owner string, displayID int64) (*Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE owner = ? AND display_id = ?`,
		owner, displayID)
	n, err := scanOne(row)
	if err != nil {
		return nil, fmt.Errorf("get #%d: %w", displayID, err)
	}
	return n, nil
}

// ListByOwner returns the owner's notes, newest first. Notes created in the
// same instant fall back to display ID so the order is total.
func (s *SQLiteStore) ListByOwner(ctx context.Context, owner string) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE owner = ?
		ORDER BY created_at DESC, display_id DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

// Recent returns up to limit of the owner's notes by display ID descending.
func (s *SQLiteStore) Recent(ctx context.Context, owner string, limit int) ([]Note, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE owner = ?
		ORDER BY display_id DESC LIMIT ?`, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("recent notes: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

// Tags returns the distinct tags across the owner's notes. Tags are stored
// joined in a single column, so the split happens here rather than in SQL.
func (s *SQLiteStore) Tags(ctx context.Context, owner string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT tags FROM notes WHERE owner = ? AND tags IS NOT NULL AND tags != ''`, owner)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var all []string
	for rows.Next() {
		var joined string
		if err := rows.Scan(&joined); err != nil {
			return nil, fmt.Errorf("scan tags: %w", err)
		}
		all = append(all, DecodeTags(joined)...)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NormaliseTags(all), nil
}
