package notes_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jpl-au/pim/internal/config"
	"github.com/jpl-au/pim/internal/kv"
	"github.com/jpl-au/pim/internal/notes"
	"github.com/jpl-au/pim/internal/repo"
	"github.com/jpl-au/pim/internal/service"
	"github.com/jpl-au/pim/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupService creates a service over a fresh repository in a temp dir.
func setupService(t *testing.T, backend string) service.Service {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Setenv(repo.EnvDir, "")
	t.Chdir(dir)

	_, err := notes.Init(false, backend, false, "")
	require.NoError(t, err, "init repository")

	svc, err := notes.New(backend)
	require.NoError(t, err, "creating service")
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestService_Backends(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendBadger} {
		t.Run(backend, func(t *testing.T) {
			svc := setupService(t, backend)
			ctx := context.Background()

			n, err := svc.Create(ctx, "alice", "Groceries", "eggs and milk", []string{"home"})
			require.NoError(t, err)
			assert.Equal(t, int64(1), n.DisplayID)

			got, err := svc.Get(ctx, "alice", "#1")
			require.NoError(t, err)
			assert.Equal(t, n.ID, got.ID)

			hits, err := svc.Search(ctx, "alice", "milk", 0)
			require.NoError(t, err)
			require.Len(t, hits, 1)
			assert.Equal(t, n.ID, hits[0].ID)
		})
	}
}

func TestService_NotInitialised(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Setenv(repo.EnvDir, "")
	t.Chdir(dir)

	_, err := notes.New("")
	assert.ErrorIs(t, err, repo.ErrNotInitialised)
}

func TestService_RefForms(t *testing.T) {
	svc := setupService(t, "")
	ctx := context.Background()

	n, err := svc.Create(ctx, "alice", "Refs", "body", nil)
	require.NoError(t, err)

	for _, ref := range []string{"1", "#1", n.ID, " #1 "} {
		got, err := svc.Get(ctx, "alice", ref)
		require.NoError(t, err, ref)
		assert.Equal(t, n.ID, got.ID, ref)
	}

	_, err = svc.Get(ctx, "alice", "not-a-ref")
	assert.ErrorIs(t, err, notes.ErrInvalidRef)
	assert.ErrorIs(t, err, store.ErrValidation)

	_, err = svc.Get(ctx, "alice", "#0")
	assert.ErrorIs(t, err, notes.ErrInvalidRef)

	_, err = svc.Get(ctx, "alice", "#9")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_OwnerScopedGet(t *testing.T) {
	svc := setupService(t, "")
	ctx := context.Background()

	n, err := svc.Create(ctx, "alice", "Private", "body", nil)
	require.NoError(t, err)

	// By UUID another owner is refused.
	_, err = svc.Get(ctx, "bob", n.ID)
	assert.ErrorIs(t, err, store.ErrPermission)

	// By number, bob's "#1" is bob's own (nonexistent) note.
	_, err = svc.Get(ctx, "bob", "#1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_Mutations(t *testing.T) {
	svc := setupService(t, "")
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", "Taken", "body", nil)
	require.NoError(t, err)
	n, err := svc.Create(ctx, "alice", "Draft", "first line\nsecond line", nil)
	require.NoError(t, err)

	u, err := svc.UpdateTitle(ctx, "alice", "#2", "Final")
	require.NoError(t, err)
	assert.Equal(t, "Final", u.Title)

	_, err = svc.UpdateTitle(ctx, "alice", "#2", "taken")
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.ErrorIs(t, err, store.ErrValidation)

	u, d, err := svc.UpdateBody(ctx, "alice", n.ID, "first line\nsecond LINE")
	require.NoError(t, err)
	assert.Equal(t, "first line\nsecond LINE", u.Body)
	assert.True(t, d.Changed())
	assert.Equal(t, "#2", d.Note)
	assert.Positive(t, d.Added)

	u, err = svc.AddTags(ctx, "alice", "2", []string{"work", "draft"})
	require.NoError(t, err)
	assert.Equal(t, []string{"draft", "work"}, u.Tags)

	u, err = svc.RemoveTags(ctx, "alice", "2", []string{"draft", "absent"})
	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, u.Tags)

	tags, err := svc.Tags(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, tags)

	_, _, err = svc.UpdateBody(ctx, "bob", n.ID, "hijack")
	assert.ErrorIs(t, err, store.ErrPermission)
	_, err = svc.AddTags(ctx, "bob", n.ID, []string{"x"})
	assert.ErrorIs(t, err, store.ErrPermission)
}

func TestService_Delete(t *testing.T) {
	svc := setupService(t, "")
	ctx := context.Background()

	n, err := svc.Create(ctx, "alice", "Doomed", "body", nil)
	require.NoError(t, err)

	ok, err := svc.Delete(ctx, "bob", n.ID)
	assert.ErrorIs(t, err, store.ErrPermission)
	assert.False(t, ok)

	ok, err = svc.Delete(ctx, "alice", "#1")
	require.NoError(t, err)
	assert.True(t, ok)

	// Already gone, by either form of ref.
	ok, err = svc.Delete(ctx, "alice", "#1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.Delete(ctx, "alice", n.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_ConfigLimits(t *testing.T) {
	mem, err := kv.Open("", true)
	require.NoError(t, err)

	cfg := &config.Config{}
	require.NoError(t, cfg.Set("limits.max_title", "4"))
	require.NoError(t, cfg.Set("search.limit", "1"))
	require.NoError(t, cfg.Set("search.snippet", "3"))

	svc, err := notes.NewWithStore(mem, cfg)
	require.NoError(t, err)
	defer svc.Close()
	ctx := context.Background()

	_, err = svc.Create(ctx, "alice", "too long", "body", nil)
	assert.ErrorIs(t, err, store.ErrValidation)

	for _, title := range []string{"a", "b"} {
		_, err := svc.Create(ctx, "alice", title, "abcdef", nil)
		require.NoError(t, err)
	}
	hits, err := svc.Search(ctx, "alice", "", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "abc...", hits[0].Snippet)
}

func TestParseRef(t *testing.T) {
	r, err := notes.ParseRef("#12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), r.DisplayID)
	assert.Equal(t, "#12", r.String())

	const id = "6f1c7f4e-2b3d-4c5a-9e8f-0a1b2c3d4e5f"
	r, err = notes.ParseRef(id)
	require.NoError(t, err)
	assert.Equal(t, id, r.ID)
	assert.Equal(t, id, r.String())

	_, err = notes.ParseRef("-3")
	assert.ErrorIs(t, err, notes.ErrInvalidRef)
	_, err = notes.ParseRef("")
	assert.ErrorIs(t, err, notes.ErrInvalidRef)
}
