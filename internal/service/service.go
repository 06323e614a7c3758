// Package service defines the shared interface for note operations.
// The CLI and the MCP server depend on this interface rather than the
// concrete notes.Service, so either can be driven by a test double.
package service

import (
	"context"

	"github.com/jpl-au/pim/internal/diff"
	"github.com/jpl-au/pim/internal/search"
	"github.com/jpl-au/pim/internal/store"
)

// Service defines all note operations.
//
// Use notes.New() to obtain an implementation and always call Close() when
// done (use defer).
//
// Every operation takes the acting owner. Notes are addressed by a ref,
// which is either the note's UUID or its per-owner display number written
// as "3" or "#3". Display numbers are always resolved within the owner.
//
// Example:
//
//	svc, err := notes.New("")
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//	n, err := svc.Create(ctx, "alice", "Groceries", "eggs, milk", nil)
type Service interface {
	// Close releases the store. Always defer this after New().
	Close() error

	// Create adds a note for owner. Returns store.ErrValidation for bad
	// input and store.ErrConflict when owner already has a note with the
	// same title, ignoring case.
	Create(ctx context.Context, owner, title, body string, tags []string) (*store.Note, error)

	// Get returns one of owner's notes. A ref naming another owner's note
	// returns store.ErrPermission.
	Get(ctx context.Context, owner, ref string) (*store.Note, error)

	// List returns all of owner's notes, most recently created first.
	List(ctx context.Context, owner string) ([]store.Note, error)

	// Tags returns the distinct tags across owner's notes.
	Tags(ctx context.Context, owner string) ([]string, error)

	// UpdateTitle renames a note. A title already used by another of the
	// owner's notes fails with an error matching both store.ErrConflict and
	// store.ErrValidation.
	UpdateTitle(ctx context.Context, owner, ref, title string) (*store.Note, error)

	// UpdateBody replaces a note's body and reports what changed.
	UpdateBody(ctx context.Context, owner, ref, body string) (*store.Note, diff.Body, error)

	// AddTags unions tags into the note's tag set.
	AddTags(ctx context.Context, owner, ref string, tags []string) (*store.Note, error)

	// RemoveTags removes tags from the note's tag set. Tags the note does
	// not carry are ignored.
	RemoveTags(ctx context.Context, owner, ref string, tags []string) (*store.Note, error)

	// Delete removes a note permanently. Deleting a note that does not exist
	// succeeds; deleting another owner's note returns store.ErrPermission.
	Delete(ctx context.Context, owner, ref string) (bool, error)

	// Search returns owner's notes matching query, best first. Keywords must
	// all match; "quoted phrases" must match exactly. An empty query lists
	// the most recent notes. limit <= 0 uses the configured default.
	Search(ctx context.Context, owner, query string, limit int) ([]search.Hit, error)

	// Vacuum compacts the store, reclaiming space held by deleted notes.
	Vacuum(ctx context.Context) error
}
