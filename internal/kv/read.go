package kv

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/jpl-au/pim/internal/store"
)

// getNote loads the note stored under id.
func getNote(txn *badger.Txn, id string) (store.Note, error) {
	item, err := txn.Get(noteKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return store.Note{}, store.ErrNotFound
	}
	if err != nil {
		return store.Note{}, err
	}
	var n store.Note
	err = item.Value(func(val []byte) error {
		n, err = decode(val)
		return err
	})
	return n, err
}

// lookup resolves an index key to the note id it points at.
func lookup(txn *badger.Txn, key []byte) (string, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	return string(val), nil
}

// scanOwner walks an owner's display index, newest first when reverse is
// set, calling fn with each note until fn returns false.
func scanOwner(txn *badger.Txn, owner string, reverse bool, fn func(store.Note) bool) error {
	prefix := ownerScan(owner)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.Reverse = reverse
	it := txn.NewIterator(opts)
	defer it.Close()

	start := prefix
	if reverse {
		start = append(bytes.Clone(prefix), 0xff)
	}
	for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
		id, err := it.Item().ValueCopy(nil)
		if err != nil {
			return err
		}
		n, err := getNote(txn, string(id))
		if err != nil {
			return fmt.Errorf("index entry %d: %w", displayFromKey(it.Item().Key()), err)
		}
		if !fn(n) {
			return nil
		}
	}
	return nil
}

// Get retrieves a note by its global ID.
func (s *Store) Get(ctx context.Context, id string) (*store.Note, error) {
	var n store.Note
	err := s.view(ctx, func(txn *badger.Txn) error {
		var err error
		n, err = getNote(txn, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return &n, nil
}

// GetByDisplayID retrieves an owner's note by its per-owner number.
func (s *Store) GetByDisplayID(ctx context.Context, owner string, displayID int64) (*store.Note, error) {
	var n store.Note
	err := s.view(ctx, func(txn *badger.Txn) error {
		id, err := lookup(txn, displayKey(owner, displayID))
		if err != nil {
			return err
		}
		n, err = getNote(txn, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get #%d: %w", displayID, err)
	}
	return &n, nil
}

// ListByOwner returns the owner's notes, newest first, with display ID as
// the tie-break for notes created in the same instant.
func (s *Store) ListByOwner(ctx context.Context, owner string) ([]store.Note, error) {
	var notes []store.Note
	err := s.view(ctx, func(txn *badger.Txn) error {
		return scanOwner(txn, owner, true, func(n store.Note) bool {
			notes = append(notes, n)
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	slices.SortStableFunc(notes, func(a, b store.Note) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.DisplayID, a.DisplayID)
	})
	return notes, nil
}

// Recent returns up to limit of the owner's notes by display ID descending.
func (s *Store) Recent(ctx context.Context, owner string, limit int) ([]store.Note, error) {
	if limit <= 0 {
		return nil, nil
	}
	var notes []store.Note
	err := s.view(ctx, func(txn *badger.Txn) error {
		return scanOwner(txn, owner, true, func(n store.Note) bool {
			notes = append(notes, n)
			return len(notes) < limit
		})
	})
	if err != nil {
		return nil, fmt.Errorf("recent notes: %w", err)
	}
	return notes, nil
}

// Tags returns the distinct tags across the owner's notes.
func (s *Store) Tags(ctx context.Context, owner string) ([]string, error) {
	var all []string
	err := s.view(ctx, func(txn *badger.Txn) error {
		return scanOwner(txn, owner, false, func(n store.Note) bool {
			all = append(all, n.Tags...)
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return store.NormaliseTags(all), nil
}
