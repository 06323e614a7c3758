// Package storetest is a conformance suite for store.Store implementations.
//
// Each backend's tests call Run with a factory returning a fresh, empty
// store. The suite covers the invariants every backend must enforce: unique
// IDs, per-owner display numbering, case-insensitive title uniqueness,
// owner-scoped mutation and idempotent delete.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jpl-au/pim/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. It should register its own cleanup.
type Factory func(t *testing.T) store.Store

// limiter is implemented by backends that accept field size limits.
type limiter interface {
	SetLimits(store.Limits)
}

// Run executes the full suite against stores produced by open.
func Run(t *testing.T, open Factory) {
	tests := []struct {
		name string
		fn   func(*testing.T, store.Store)
	}{
		{"CreateAndGet", testCreateAndGet},
		{"DisplayIDSequence", testDisplayIDSequence},
		{"DisplayIDAfterDelete", testDisplayIDAfterDelete},
		{"TitleConflict", testTitleConflict},
		{"TitleConflictOtherOwner", testTitleConflictOtherOwner},
		{"Validation", testValidation},
		{"EmptyDocumentBody", testEmptyDocumentBody},
		{"UpdateTitle", testUpdateTitle},
		{"UpdateTitleDuplicate", testUpdateTitleDuplicate},
		{"UpdateTitleCaseOnly", testUpdateTitleCaseOnly},
		{"UpdateBody", testUpdateBody},
		{"Tags", testTags},
		{"Permission", testPermission},
		{"NotFound", testNotFound},
		{"Delete", testDelete},
		{"ListByOwner", testListByOwner},
		{"GetByDisplayID", testGetByDisplayID},
		{"OwnerTags", testOwnerTags},
		{"Candidates", testCandidates},
		{"Recent", testRecent},
		{"ConcurrentCreate", testConcurrentCreate},
		{"ConcurrentSameTitle", testConcurrentSameTitle},
		{"Limits", testLimits},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, open(t))
		})
	}
}

func mustCreate(t *testing.T, s store.Store, owner, title, body string, tags ...string) *store.Note {
	t.Helper()
	n, err := s.Create(context.Background(), owner, title, body, tags)
	require.NoError(t, err)
	return n
}

func testCreateAndGet(t *testing.T, s store.Store) {
	ctx := context.Background()

	n, err := s.Create(ctx, "alice", "Shopping", "eggs and milk", []string{"home", "errands", "home"})
	require.NoError(t, err)

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "alice", n.Owner)
	assert.Equal(t, int64(1), n.DisplayID)
	assert.Equal(t, []string{"errands", "home"}, n.Tags)
	assert.Equal(t, n.CreatedAt, n.UpdatedAt)

	got, err := s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.ID, got.ID)
	assert.Equal(t, "Shopping", got.Title)
	assert.Equal(t, "eggs and milk", got.Body)
	assert.Equal(t, []string{"errands", "home"}, got.Tags)
	assert.Equal(t, int64(1), got.DisplayID)
	assert.True(t, n.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, n.UpdatedAt.Equal(got.UpdatedAt))

	bare := mustCreate(t, s, "alice", "Bare", "no tags")
	got, err = s.Get(ctx, bare.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
	assert.NotEqual(t, n.ID, bare.ID)
}

func testDisplayIDSequence(t *testing.T, s store.Store) {
	for i := 1; i <= 3; i++ {
		n := mustCreate(t, s, "alice", fmt.Sprintf("a%d", i), "body")
		assert.Equal(t, int64(i), n.DisplayID)
	}
	// Numbering is independent per owner.
	b := mustCreate(t, s, "bob", "b1", "body")
	assert.Equal(t, int64(1), b.DisplayID)
	a := mustCreate(t, s, "alice", "a4", "body")
	assert.Equal(t, int64(4), a.DisplayID)
}

func testDisplayIDAfterDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustCreate(t, s, "alice", "one", "body")
	two := mustCreate(t, s, "alice", "two", "body")
	mustCreate(t, s, "alice", "three", "body")

	_, err := s.Delete(ctx, "alice", two.ID)
	require.NoError(t, err)

	// Gaps are left in place; allocation continues from the maximum.
	n := mustCreate(t, s, "alice", "four", "body")
	assert.Equal(t, int64(4), n.DisplayID)
}

func testTitleConflict(t *testing.T, s store.Store) {
	mustCreate(t, s, "alice", "Foo", "body")

	_, err := s.Create(context.Background(), "alice", "foo", "other", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrConflict)

	list, err := s.ListByOwner(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func testTitleConflictOtherOwner(t *testing.T, s store.Store) {
	a := mustCreate(t, s, "alice", "Foo", "body")
	b := mustCreate(t, s, "bob", "Foo", "body")
	assert.Equal(t, int64(1), b.DisplayID)
	assert.NotEqual(t, a.ID, b.ID)
}

func testValidation(t *testing.T, s store.Store) {
	ctx := context.Background()
	cases := []struct {
		name               string
		owner, title, body string
		tags               []string
	}{
		{"empty title", "alice", "", "body", nil},
		{"blank title", "alice", "   ", "body", nil},
		{"empty body", "alice", "t", "", nil},
		{"blank body", "alice", "t", " \n\t", nil},
		{"comma tag", "alice", "t", "body", []string{"a,b"}},
		{"empty tag", "alice", "t", "body", []string{""}},
		{"empty owner", "", "t", "body", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Create(ctx, tc.owner, tc.title, tc.body, tc.tags)
			assert.ErrorIs(t, err, store.ErrValidation)
			assert.NotErrorIs(t, err, store.ErrConflict)
		})
	}

	list, err := s.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testEmptyDocumentBody(t *testing.T, s store.Store) {
	n := mustCreate(t, s, "alice", "Blank page", "<p><br></p>")
	assert.Equal(t, "<p><br></p>", n.Body)
}

func testUpdateTitle(t *testing.T, s store.Store) {
	ctx := context.Background()
	n := mustCreate(t, s, "alice", "Old", "body")

	u, err := s.UpdateTitle(ctx, "alice", n.ID, "New")
	require.NoError(t, err)
	assert.Equal(t, "New", u.Title)
	assert.Equal(t, n.DisplayID, u.DisplayID)
	assert.False(t, u.UpdatedAt.Before(n.UpdatedAt))
	assert.True(t, n.CreatedAt.Equal(u.CreatedAt))

	got, err := s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)

	// The old title is free again.
	mustCreate(t, s, "alice", "old", "body")

	_, err = s.UpdateTitle(ctx, "alice", n.ID, " ")
	assert.ErrorIs(t, err, store.ErrValidation)
}

func testUpdateTitleDuplicate(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustCreate(t, s, "alice", "Taken", "body")
	n := mustCreate(t, s, "alice", "Free", "body")

	_, err := s.UpdateTitle(ctx, "alice", n.ID, "TAKEN")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.ErrorIs(t, err, store.ErrValidation)

	got, err := s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Free", got.Title)
}

func testUpdateTitleCaseOnly(t *testing.T, s store.Store) {
	n := mustCreate(t, s, "alice", "readme", "body")
	u, err := s.UpdateTitle(context.Background(), "alice", n.ID, "README")
	require.NoError(t, err)
	assert.Equal(t, "README", u.Title)
}

func testUpdateBody(t *testing.T, s store.Store) {
	ctx := context.Background()
	n := mustCreate(t, s, "alice", "Title", "first")

	u, err := s.UpdateBody(ctx, "alice", n.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, "second", u.Body)

	got, err := s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Body)

	_, err = s.UpdateBody(ctx, "alice", n.ID, "")
	assert.ErrorIs(t, err, store.ErrValidation)
}

func testTags(t *testing.T, s store.Store) {
	ctx := context.Background()
	n := mustCreate(t, s, "alice", "Tagged", "body", "b")

	u, err := s.AddTags(ctx, "alice", n.ID, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, u.Tags)

	u, err = s.RemoveTags(ctx, "alice", n.ID, []string{"b", "missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, u.Tags)

	u, err = s.RemoveTags(ctx, "alice", n.ID, []string{"a", "c"})
	require.NoError(t, err)
	assert.Empty(t, u.Tags)

	got, err := s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	_, err = s.AddTags(ctx, "alice", n.ID, []string{"x,y"})
	assert.ErrorIs(t, err, store.ErrValidation)
}

func testPermission(t *testing.T, s store.Store) {
	ctx := context.Background()
	n := mustCreate(t, s, "alice", "Mine", "body", "t")

	_, err := s.UpdateTitle(ctx, "bob", n.ID, "Stolen")
	assert.ErrorIs(t, err, store.ErrPermission)
	_, err = s.UpdateBody(ctx, "bob", n.ID, "stolen")
	assert.ErrorIs(t, err, store.ErrPermission)
	_, err = s.AddTags(ctx, "bob", n.ID, []string{"x"})
	assert.ErrorIs(t, err, store.ErrPermission)
	_, err = s.RemoveTags(ctx, "bob", n.ID, []string{"t"})
	assert.ErrorIs(t, err, store.ErrPermission)
	ok, err := s.Delete(ctx, "bob", n.ID)
	assert.ErrorIs(t, err, store.ErrPermission)
	assert.False(t, ok)

	got, err := s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)
	assert.Equal(t, "body", got.Body)
	assert.Equal(t, []string{"t"}, got.Tags)
}

func testNotFound(t *testing.T, s store.Store) {
	ctx := context.Background()
	const id = "00000000-0000-4000-8000-000000000000"

	_, err := s.Get(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.UpdateTitle(ctx, "alice", id, "x")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.UpdateBody(ctx, "alice", id, "x")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.AddTags(ctx, "alice", id, []string{"x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.RemoveTags(ctx, "alice", id, []string{"x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	n := mustCreate(t, s, "alice", "Doomed", "body")

	ok, err := s.Delete(ctx, "alice", n.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Get(ctx, n.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Deleting again, or deleting something that never existed, succeeds.
	ok, err = s.Delete(ctx, "alice", n.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Delete(ctx, "bob", "never-existed")
	require.NoError(t, err)
	assert.True(t, ok)

	// The title is reusable after delete.
	mustCreate(t, s, "alice", "doomed", "body")
}

func testListByOwner(t *testing.T, s store.Store) {
	ctx := context.Background()
	first := mustCreate(t, s, "alice", "first", "body")
	mustCreate(t, s, "bob", "other", "body")
	second := mustCreate(t, s, "alice", "second", "body")
	third := mustCreate(t, s, "alice", "third", "body")

	list, err := s.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, third.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, first.ID, list[2].ID)

	list, err = s.ListByOwner(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testGetByDisplayID(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustCreate(t, s, "alice", "one", "body")
	two := mustCreate(t, s, "alice", "two", "body")
	mustCreate(t, s, "bob", "bob one", "body")

	got, err := s.GetByDisplayID(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Equal(t, two.ID, got.ID)

	_, err = s.GetByDisplayID(ctx, "bob", 2)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testOwnerTags(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustCreate(t, s, "alice", "one", "body", "work", "go")
	mustCreate(t, s, "alice", "two", "body", "go", "home")
	mustCreate(t, s, "alice", "three", "body")
	mustCreate(t, s, "bob", "four", "body", "secret")

	tags, err := s.Tags(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "home", "work"}, tags)
}

func testCandidates(t *testing.T, s store.Store) {
	ctx := context.Background()
	fox := mustCreate(t, s, "alice", "The Fox", "a quick brown animal")
	dog := mustCreate(t, s, "alice", "Dogs", "Lazy DOGS sleep")
	mustCreate(t, s, "alice", "Cats", "nothing here")
	mustCreate(t, s, "bob", "fox too", "bob's fox")

	got, err := s.Candidates(ctx, "alice", []string{"fox"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, fox.ID, got[0].ID)

	// Any term is enough, and matching ignores case.
	got, err = s.Candidates(ctx, "alice", []string{"fox", "lazy dogs"})
	require.NoError(t, err)
	ids := []string{}
	for _, n := range got {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{fox.ID, dog.ID}, ids)

	// Terms are literal substrings.
	got, err = s.Candidates(ctx, "alice", []string{"%"})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Candidates(ctx, "alice", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testRecent(t *testing.T, s store.Store) {
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		mustCreate(t, s, "alice", fmt.Sprintf("n%d", i), "body")
	}
	mustCreate(t, s, "bob", "b", "body")

	got, err := s.Recent(ctx, "alice", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{5, 4, 3}, []int64{got[0].DisplayID, got[1].DisplayID, got[2].DisplayID})

	got, err = s.Recent(ctx, "alice", 50)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func testConcurrentCreate(t *testing.T, s store.Store) {
	const workers = 8
	var wg sync.WaitGroup
	ids := make([]int64, workers)
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := s.Create(context.Background(), "alice", fmt.Sprintf("note %d", i), "body", nil)
			errs[i] = err
			if err == nil {
				ids[i] = n.DisplayID
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5, 6, 7, 8}, ids)
}

func testConcurrentSameTitle(t *testing.T, s store.Store) {
	const workers = 6
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.Create(context.Background(), "alice", "Same", "body", nil)
		}()
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, store.ErrConflict):
			conflict++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflict)
}

func testLimits(t *testing.T, s store.Store) {
	l, ok := s.(limiter)
	if !ok {
		t.Skip("backend does not accept limits")
	}
	l.SetLimits(store.Limits{MaxTitle: 5, MaxBody: 10, MaxTag: 3})
	ctx := context.Background()

	_, err := s.Create(ctx, "alice", "toolong", "body", nil)
	assert.ErrorIs(t, err, store.ErrValidation)
	_, err = s.Create(ctx, "alice", "ok", "this body is too long", nil)
	assert.ErrorIs(t, err, store.ErrValidation)
	_, err = s.Create(ctx, "alice", "ok", "body", []string{"long"})
	assert.ErrorIs(t, err, store.ErrValidation)

	n, err := s.Create(ctx, "alice", "ok", "body", []string{"abc"})
	require.NoError(t, err)
	_, err = s.UpdateTitle(ctx, "alice", n.ID, "way too long")
	assert.ErrorIs(t, err, store.ErrValidation)
}
