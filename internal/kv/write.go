package kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/jpl-au/pim/internal/store"
	"github.com/jpl-au/pim/internal/validate"
)

// claim reads key and reports whether it is free or already holds id.
// The read registers key with the transaction so a concurrent writer of the
// same key causes a commit conflict.
func claim(txn *badger.Txn, key []byte, id string) (bool, error) {
	current, err := lookup(txn, key)
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return current == id, nil
}

// nextDisplayID returns one past the owner's highest display ID.
func nextDisplayID(txn *badger.Txn, owner string) int64 {
	prefix := ownerScan(owner)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.Reverse = true
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	it.Seek(append(bytes.Clone(prefix), 0xff))
	if !it.ValidForPrefix(prefix) {
		return 1
	}
	return displayFromKey(it.Item().Key()) + 1
}

// put writes the note record and its display index entry.
func put(txn *badger.Txn, n store.Note) error {
	val, err := encode(n)
	if err != nil {
		return err
	}
	if err := txn.Set(noteKey(n.ID), val); err != nil {
		return err
	}
	return txn.Set(displayKey(n.Owner, n.DisplayID), []byte(n.ID))
}

// Create inserts a note for owner.
func (s *Store) Create(ctx context.Context, owner, title, body string, tags []string) (*store.Note, error) {
	if err := s.limits.CheckNew(owner, title, body, tags); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	now := store.Now()
	n := store.Note{
		ID:        uuid.NewString(),
		Owner:     owner,
		Title:     title,
		Body:      body,
		Tags:      store.NormaliseTags(tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.update(ctx, func(txn *badger.Txn) error {
		tk := titleKey(owner, title)
		free, err := claim(txn, tk, n.ID)
		if err != nil {
			return err
		}
		if !free {
			return store.ErrConflict
		}

		n.DisplayID = nextDisplayID(txn, owner)
		// Registers the display key as read for conflict detection.
		if free, err := claim(txn, displayKey(owner, n.DisplayID), n.ID); err != nil || !free {
			if err == nil {
				err = fmt.Errorf("display id %d already allocated", n.DisplayID)
			}
			return err
		}

		if err := txn.Set(tk, []byte(n.ID)); err != nil {
			return err
		}
		return put(txn, n)
	})
	if err != nil {
		return nil, fmt.Errorf("create %q: %w", title, err)
	}
	return &n, nil
}

// UpdateTitle renames a note. A title already used by another of the owner's
// notes is both a conflict and a validation failure.
func (s *Store) UpdateTitle(ctx context.Context, owner, id, title string) (*store.Note, error) {
	if err := validate.Title(title, s.limits.MaxTitle); err != nil {
		return nil, fmt.Errorf("update title: %w", err)
	}
	return s.mutate(ctx, owner, id, func(n store.Note, at time.Time) store.Note {
		return n.WithTitle(title, at)
	})
}

// UpdateBody replaces a note's body.
func (s *Store) UpdateBody(ctx context.Context, owner, id, body string) (*store.Note, error) {
	if err := validate.Body(body, s.limits.MaxBody); err != nil {
		return nil, fmt.Errorf("update body: %w", err)
	}
	return s.mutate(ctx, owner, id, func(n store.Note, at time.Time) store.Note {
		return n.WithBody(body, at)
	})
}

// AddTags unions tags into the note's tag set.
func (s *Store) AddTags(ctx context.Context, owner, id string, tags []string) (*store.Note, error) {
	if err := validate.Tags(tags, s.limits.MaxTag); err != nil {
		return nil, fmt.Errorf("add tags: %w", err)
	}
	return s.mutate(ctx, owner, id, func(n store.Note, at time.Time) store.Note {
		return n.WithTags(store.UnionTags(n.Tags, tags), at)
	})
}

// RemoveTags removes tags from the note's tag set.
func (s *Store) RemoveTags(ctx context.Context, owner, id string, tags []string) (*store.Note, error) {
	if err := validate.Tags(tags, s.limits.MaxTag); err != nil {
		return nil, fmt.Errorf("remove tags: %w", err)
	}
	return s.mutate(ctx, owner, id, func(n store.Note, at time.Time) store.Note {
		return n.WithTags(store.DiffTags(n.Tags, tags), at)
	})
}

// Delete removes a note and its index entries. A note that does not exist
// is reported as deleted.
func (s *Store) Delete(ctx context.Context, owner, id string) (bool, error) {
	err := s.update(ctx, func(txn *badger.Txn) error {
		n, err := getNote(txn, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if n.Owner != owner {
			return store.ErrPermission
		}
		for _, k := range [][]byte{noteKey(id), displayKey(owner, n.DisplayID), titleKey(owner, n.Title)} {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", id, err)
	}
	return true, nil
}

// mutate loads a note, checks ownership, applies fn and writes the result
// back in one transaction, moving the title index entry if the title changed.
func (s *Store) mutate(ctx context.Context, owner, id string, fn func(store.Note, time.Time) store.Note) (*store.Note, error) {
	var out store.Note
	err := s.update(ctx, func(txn *badger.Txn) error {
		cur, err := getNote(txn, id)
		if err != nil {
			return err
		}
		if cur.Owner != owner {
			return store.ErrPermission
		}

		next := fn(cur, store.Now())
		oldKey, newKey := titleKey(owner, cur.Title), titleKey(owner, next.Title)
		if !bytes.Equal(oldKey, newKey) {
			free, err := claim(txn, newKey, id)
			if err != nil {
				return err
			}
			if !free {
				return fmt.Errorf("title %q: %w: %w", next.Title, store.ErrConflict, store.ErrValidation)
			}
			if err := txn.Delete(oldKey); err != nil {
				return err
			}
			if err := txn.Set(newKey, []byte(id)); err != nil {
				return err
			}
		}

		val, err := encode(next)
		if err != nil {
			return err
		}
		if err := txn.Set(noteKey(id), val); err != nil {
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
