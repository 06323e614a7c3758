package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpl-au/pim/internal/store"
	"github.com/jpl-au/pim/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupStore creates a temporary SQLite store for testing.
func setupStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Init())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return setupStore(t)
	})
}

func TestSQLiteStore_InitIdempotent(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.Init())
	require.NoError(t, s.Init())
}

func TestSQLiteStore_NullTagsDecodeEmpty(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	n, err := s.Create(ctx, "alice", "Legacy", "body", []string{"x"})
	require.NoError(t, err)

	// Rows written before tags existed carry NULL or an empty string.
	for _, v := range []any{nil, ""} {
		_, err = s.DB().Exec(`UPDATE notes SET tags = ? WHERE id = ?`, v, n.ID)
		require.NoError(t, err)

		got, err := s.Get(ctx, n.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Tags)
	}
}

func TestSQLiteStore_EmptyTagsStoredAsNull(t *testing.T) {
	s := setupStore(t)
	n, err := s.Create(context.Background(), "alice", "Plain", "body", nil)
	require.NoError(t, err)

	var isNull bool
	err = s.DB().QueryRow(`SELECT tags IS NULL FROM notes WHERE id = ?`, n.ID).Scan(&isNull)
	require.NoError(t, err)
	assert.True(t, isNull)
}

func TestSQLiteStore_Checkpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Init())
	t.Cleanup(func() { s.Close() })

	_, err = s.Create(context.Background(), "alice", "t", "b", nil)
	require.NoError(t, err)
	require.NoError(t, s.Checkpoint(context.Background()))

	// TRUNCATE mode leaves the log present but empty.
	info, err := os.Stat(path + "-wal")
	if err == nil {
		assert.Zero(t, info.Size())
	} else {
		assert.True(t, os.IsNotExist(err))
	}
}

func TestSQLiteStore_Vacuum(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	keep, err := s.Create(ctx, "alice", "Keep", "body", nil)
	require.NoError(t, err)
	gone, err := s.Create(ctx, "alice", "Gone", "body", nil)
	require.NoError(t, err)
	ok, err := s.Delete(ctx, "alice", gone.ID)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Vacuum(ctx))

	got, err := s.Get(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep", got.Title)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Init())
	n, err := s.Create(ctx, "alice", "Persisted", "body", []string{"keep"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = store.Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persisted", got.Title)
	assert.Equal(t, []string{"keep"}, got.Tags)
	assert.True(t, n.CreatedAt.Equal(got.CreatedAt))
}
