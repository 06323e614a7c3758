// interfaces.go defines the storage abstraction for note persistence.
//
// Separated from the SQLite implementation so the Badger backend (internal/kv)
// and test doubles can satisfy the same contract. The interfaces are granular
// (Reader, Writer, Searcher) so consumers only depend on what they use: the
// search engine needs a Searcher and nothing else.
//
// Design: every mutating operation is owner-scoped and enforces the store
// invariants itself. Uniqueness of (owner, title) and (owner, display id) is
// authoritative at the storage layer rather than checked by a prior read.

package store

import "context"

// Reader defines read-only operations. No authorisation is applied here;
// callers exposing notes to an external actor check ownership themselves.
type Reader interface {
	// Get retrieves a note by its global ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Note, error)

	// GetByDisplayID retrieves an owner's note by its per-owner number.
	GetByDisplayID(ctx context.Context, owner string, displayID int64) (*Note, error)

	// ListByOwner returns all of an owner's notes, most recently created first.
	ListByOwner(ctx context.Context, owner string) ([]Note, error)

	// Tags returns the distinct tags used across an owner's notes, sorted.
	Tags(ctx context.Context, owner string) ([]string, error)
}

// Writer defines operations that modify notes. Each successful call writes
// exactly one record version atomically.
type Writer interface {
	// Create allocates the next display ID and a fresh global ID for owner.
	// Returns ErrValidation for bad input and ErrConflict for a duplicate title.
	Create(ctx context.Context, owner, title, body string, tags []string) (*Note, error)

	// UpdateTitle renames a note. A duplicate title yields an error matching
	// both ErrConflict and ErrValidation.
	UpdateTitle(ctx context.Context, owner, id, title string) (*Note, error)

	// UpdateBody replaces a note's body.
	UpdateBody(ctx context.Context, owner, id, body string) (*Note, error)

	// AddTags unions tags into the note's tag set.
	AddTags(ctx context.Context, owner, id string, tags []string) (*Note, error)

	// RemoveTags removes tags from the note's tag set. Absent tags are ignored.
	RemoveTags(ctx context.Context, owner, id string, tags []string) (*Note, error)

	// Delete removes a note. Deleting a missing note succeeds; deleting
	// another owner's note returns ErrPermission.
	Delete(ctx context.Context, owner, id string) (bool, error)
}

// Searcher defines the retrieval operations used by the search engine.
type Searcher interface {
	// Candidates returns every owner note in which at least one term occurs
	// as a substring of the lower-cased title or body. Terms must already be
	// lower-cased. This is a high-recall filter; precise matching happens in
	// the scorer.
	Candidates(ctx context.Context, owner string, terms []string) ([]Note, error)

	// Recent returns up to limit of an owner's notes by display ID descending.
	Recent(ctx context.Context, owner string, limit int) ([]Note, error)
}

// Store defines the full persistence interface for notes.
type Store interface {
	Reader
	Writer
	Searcher

	// Close releases the underlying engine.
	Close() error
}
