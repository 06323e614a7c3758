package kv

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/jpl-au/pim/internal/store"
)

// Candidates returns the owner's notes containing at least one term in the
// lower-cased title or body. Badger has no secondary text index, so this
// scans the owner's notes; the owner prefix keeps other owners out of it.
func (s *Store) Candidates(ctx context.Context, owner string, terms []string) ([]store.Note, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	var notes []store.Note
	err := s.view(ctx, func(txn *badger.Txn) error {
		return scanOwner(txn, owner, true, func(n store.Note) bool {
			if matchesAny(n, terms) {
				notes = append(notes, n)
			}
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("candidates: %w", err)
	}
	return notes, nil
}

func matchesAny(n store.Note, terms []string) bool {
	title := strings.ToLower(n.Title)
	body := strings.ToLower(n.Body)
	for _, t := range terms {
		if strings.Contains(title, t) || strings.Contains(body, t) {
			return true
		}
	}
	return false
}
