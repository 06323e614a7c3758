package kv_test

import (
	"context"
	"testing"

	"github.com/jpl-au/pim/internal/kv"
	"github.com/jpl-au/pim/internal/store"
	"github.com/jpl-au/pim/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *kv.Store {
	t.Helper()
	s, err := kv.Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return openMemory(t)
	})
}

func TestStore_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := kv.Open(dir, false)
	require.NoError(t, err)
	n, err := s.Create(ctx, "alice", "Persisted", "body", []string{"keep"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = kv.Open(dir, false)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persisted", got.Title)
	assert.Equal(t, []string{"keep"}, got.Tags)
	assert.True(t, n.CreatedAt.Equal(got.CreatedAt))

	// Allocation continues from the persisted maximum.
	next, err := s.Create(ctx, "alice", "Second", "body", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.DisplayID)
}

func TestStore_OwnerPrefixIsolation(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	// "al" is a byte prefix of "alice"; their keyspaces must not overlap.
	_, err := s.Create(ctx, "alice", "Mine", "shared word", nil)
	require.NoError(t, err)
	n, err := s.Create(ctx, "al", "Mine", "shared word", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.DisplayID)

	list, err := s.ListByOwner(ctx, "al")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := s.Candidates(ctx, "al", []string{"shared"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStore_ContextCancelled(t *testing.T) {
	s := openMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Create(ctx, "alice", "t", "b", nil)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.ListByOwner(ctx, "alice")
	assert.ErrorIs(t, err, context.Canceled)
}
