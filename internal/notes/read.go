package notes

import (
	"context"
	"fmt"

	"github.com/jpl-au/pim/internal/search"
	"github.com/jpl-au/pim/internal/store"
)

// Get returns one of owner's notes. The store itself applies no
// authorisation on reads; this is the layer that stops one owner reading
// another's note by UUID.
func (s *Service) Get(ctx context.Context, owner, ref string) (*store.Note, error) {
	n, err := s.lookup(ctx, owner, ref)
	if err != nil {
		return nil, err
	}
	if n.Owner != owner {
		return nil, fmt.Errorf("get %s: %w", ref, store.ErrPermission)
	}
	return n, nil
}

// List returns all of owner's notes, most recently created first.
func (s *Service) List(ctx context.Context, owner string) ([]store.Note, error) {
	return s.store.ListByOwner(ctx, owner)
}

// Tags returns the distinct tags across owner's notes.
func (s *Service) Tags(ctx context.Context, owner string) ([]string, error) {
	return s.store.Tags(ctx, owner)
}

// Search returns owner's notes matching query, best first.
func (s *Service) Search(ctx context.Context, owner, query string, limit int) ([]search.Hit, error) {
	return s.engine.Search(ctx, owner, query, limit)
}
