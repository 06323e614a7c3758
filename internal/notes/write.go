// write.go implements note mutations for the Service layer.
//
// Refs are resolved to UUIDs here; the store re-checks existence and
// ownership inside its own transaction, so a note deleted or reassigned
// between resolution and write is still caught.

package notes

import (
	"context"
	"errors"

	"github.com/jpl-au/pim/internal/diff"
	"github.com/jpl-au/pim/internal/store"
)

// Create adds a note for owner.
func (s *Service) Create(ctx context.Context, owner, title, body string, tags []string) (*store.Note, error) {
	return s.store.Create(ctx, owner, title, body, tags)
}

// UpdateTitle renames a note.
func (s *Service) UpdateTitle(ctx context.Context, owner, ref, title string) (*store.Note, error) {
	id, err := s.resolve(ctx, owner, ref)
	if err != nil {
		return nil, err
	}
	return s.store.UpdateTitle(ctx, owner, id, title)
}

// UpdateBody replaces a note's body and returns a diff of old against new.
func (s *Service) UpdateBody(ctx context.Context, owner, ref, body string) (*store.Note, diff.Body, error) {
	before, err := s.Get(ctx, owner, ref)
	if err != nil {
		return nil, diff.Body{}, err
	}
	after, err := s.store.UpdateBody(ctx, owner, before.ID, body)
	if err != nil {
		return nil, diff.Body{}, err
	}
	label := Ref{DisplayID: after.DisplayID}.String()
	return after, diff.Bodies(label, before.Body, after.Body), nil
}

// AddTags unions tags into the note's tag set.
func (s *Service) AddTags(ctx context.Context, owner, ref string, tags []string) (*store.Note, error) {
	id, err := s.resolve(ctx, owner, ref)
	if err != nil {
		return nil, err
	}
	return s.store.AddTags(ctx, owner, id, tags)
}

// RemoveTags removes tags from the note's tag set.
func (s *Service) RemoveTags(ctx context.Context, owner, ref string, tags []string) (*store.Note, error) {
	id, err := s.resolve(ctx, owner, ref)
	if err != nil {
		return nil, err
	}
	return s.store.RemoveTags(ctx, owner, id, tags)
}

// Delete removes a note. A display number with no note behind it counts as
// already deleted, matching the store's behaviour for unknown UUIDs.
func (s *Service) Delete(ctx context.Context, owner, ref string) (bool, error) {
	id, err := s.resolve(ctx, owner, ref)
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return s.store.Delete(ctx, owner, id)
}
