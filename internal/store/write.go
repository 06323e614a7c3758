// write.go implements note mutations for SQLiteStore.
//
// Every mutation is a single atomic write. Title uniqueness and display ID
// allocation are enforced by unique indexes, so a concurrent writer racing
// for the same title or number fails at commit rather than slipping past a
// prior check.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jpl-au/pim/internal/validate"
)

// maxCreateAttempts bounds retries when two writers race for the same
// display ID.
const maxCreateAttempts = 5

const (
	titleIndex   = "notes.title_key"
	displayIndex = "notes.display_id"
)

// Create inserts a note for owner. The display ID is computed inside the
// INSERT so allocation and write are one statement.
func (s *SQLiteStore) Create(ctx context.Context, owner, title, body string, tags []string) (*Note, error) {
	if err := s.limits.CheckNew(owner, title, body, tags); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	now := Now()
	n := Note{
		ID:        genID(),
		Owner:     owner,
		Title:     title,
		Body:      body,
		Tags:      NormaliseTags(tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	for range maxCreateAttempts {
		err := s.db.QueryRowContext(ctx,
			`INSERT INTO notes (id, owner, display_id, title, title_key, body, body_key, tags, created_at, updated_at)
			SELECT ?, ?, COALESCE(MAX(display_id), 0) + 1, ?, ?, ?, ?, ?, ?, ?
			FROM notes WHERE owner = ?
			RETURNING display_id`,
			n.ID, n.Owner, n.Title, validate.TitleKey(n.Title), n.Body, strings.ToLower(n.Body),
			nullTags(n.Tags), formatTime(n.CreatedAt), formatTime(n.UpdatedAt), n.Owner,
		).Scan(&n.DisplayID)

		switch {
		case err == nil:
			return &n, nil
		case uniqueViolation(err, titleIndex):
			return nil, fmt.Errorf("create %q: %w", title, ErrConflict)
		case uniqueViolation(err, displayIndex):
			continue
		default:
			return nil, fmt.Errorf("create %q: %w", title, err)
		}
	}
	return nil, fmt.Errorf("create %q: display id allocation kept colliding", title)
}

// UpdateTitle renames a note. A title already used by another of the owner's
// notes is both a conflict and a validation failure.
func (s *SQLiteStore) UpdateTitle(ctx context.Context, owner, id, title string) (*Note, error) {
	if err := validate.Title(title, s.limits.MaxTitle); err != nil {
		return nil, fmt.Errorf("update title: %w", err)
	}
	return s.mutate(ctx, owner, id, func(n Note, at time.Time) Note {
		return n.WithTitle(title, at)
	})
}

// UpdateBody replaces a note's body.
func (s *SQLiteStore) UpdateBody(ctx context.Context, owner, id, body string) (*Note, error) {
	if err := validate.Body(body, s.limits.MaxBody); err != nil {
		return nil, fmt.Errorf("update body: %w", err)
	}
	return s.mutate(ctx, owner, id, func(n Note, at time.Time) Note {
		return n.WithBody(body, at)
	})
}

// AddTags unions tags into the note's tag set.
func (s *SQLiteStore) AddTags(ctx context.Context, owner, id string, tags []string) (*Note, error) {
	if err := validate.Tags(tags, s.limits.MaxTag); err != nil {
		return nil, fmt.Errorf("add tags: %w", err)
	}
	return s.mutate(ctx, owner, id, func(n Note, at time.Time) Note {
		return n.WithTags(UnionTags(n.Tags, tags), at)
	})
}

// RemoveTags removes tags from the note's tag set.
func (s *SQLiteStore) RemoveTags(ctx context.Context, owner, id string, tags []string) (*Note, error) {
	if err := validate.Tags(tags, s.limits.MaxTag); err != nil {
		return nil, fmt.Errorf("remove tags: %w", err)
	}
	return s.mutate(ctx, owner, id, func(n Note, at time.Time) Note {
		return n.WithTags(DiffTags(n.Tags, tags), at)
	})
}

// Delete removes a note. A note that does not exist is reported as deleted.
func (s *SQLiteStore) Delete(ctx context.Context, owner, id string) (bool, error) {
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		var current string
		err := tx.QueryRowContext(ctx, `SELECT owner FROM notes WHERE id = ?`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if current != owner {
			return ErrPermission
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND owner = ?`, id, owner)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", id, err)
	}
	return true, nil
}

// mutate loads a note, checks ownership, applies fn and writes the result
// back within one transaction.
func (s *SQLiteStore) mutate(ctx context.Context, owner, id string, fn func(Note, time.Time) Note) (*Note, error) {
	var out Note
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		cur, err := scanOne(tx.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))
		if err != nil {
			return err
		}
		if cur.Owner != owner {
			return ErrPermission
		}

		next := fn(*cur, Now())
		_, err = tx.ExecContext(ctx,
			`UPDATE notes SET title = ?, title_key = ?, body = ?, body_key = ?, tags = ?, updated_at = ?
			WHERE id = ? AND owner = ?`,
			next.Title, validate.TitleKey(next.Title), next.Body, strings.ToLower(next.Body),
			nullTags(next.Tags), formatTime(next.UpdatedAt), id, owner)
		if uniqueViolation(err, titleIndex) {
			return fmt.Errorf("title %q: %w: %w", next.Title, ErrConflict, ErrValidation)
		}
		if err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", id, err)
	}
	return &out, nil
}

// nullTags stores the empty tag set as NULL.
func nullTags(tags []string) any {
	if len(tags) == 0 {
		return nil
	}
	return EncodeTags(tags)
}
