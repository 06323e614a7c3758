package store_test

import (
	"testing"
	"time"

	"github.com/jpl-au/pim/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestNote_WithMethodsCopy(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := at.Add(time.Hour)
	n := store.Note{Title: "a", Body: "b", Tags: []string{"x"}, CreatedAt: at, UpdatedAt: at}

	u := n.WithTitle("c", later)
	assert.Equal(t, "a", n.Title)
	assert.Equal(t, "c", u.Title)
	assert.Equal(t, later, u.UpdatedAt)
	assert.Equal(t, at, u.CreatedAt)

	u = n.WithTags([]string{"z", "y", "z"}, later)
	assert.Equal(t, []string{"y", "z"}, u.Tags)
	assert.Equal(t, []string{"x"}, n.Tags)
	assert.True(t, u.HasTag("y"))
	assert.False(t, u.HasTag("x"))
}

func TestTagSetOps(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, store.UnionTags([]string{"c", "a"}, []string{"b", "a"}))
	assert.Equal(t, []string{"a"}, store.DiffTags([]string{"a", "b"}, []string{"b", "q"}))
	assert.Nil(t, store.DiffTags([]string{"a"}, []string{"a"}))
	assert.Nil(t, store.NormaliseTags([]string{}))
}

func TestTagEncoding(t *testing.T) {
	assert.Equal(t, "a,b", store.EncodeTags([]string{"b", "a", "b"}))
	assert.Equal(t, "", store.EncodeTags(nil))
	assert.Equal(t, []string{"a", "b"}, store.DecodeTags("b,a"))
	assert.Nil(t, store.DecodeTags(""))
	assert.Equal(t, []string{"a"}, store.DecodeTags("a,,"))
}

func TestNote_ToJSON(t *testing.T) {
	at := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	n := store.Note{ID: "id", DisplayID: 3, Owner: "alice", Title: "T", Body: "B", CreatedAt: at, UpdatedAt: at}

	j := n.ToJSON(false)
	assert.Equal(t, "", j.Body)
	assert.Equal(t, []string{}, j.Tags)
	assert.Equal(t, "2024-03-04T05:06:07Z", j.CreatedAt)

	j = n.ToJSON(true)
	assert.Equal(t, "B", j.Body)
}
