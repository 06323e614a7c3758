package format

import (
	"bytes"
	"testing"
	"time"

	"github.com/jpl-au/pim/internal/search"
	"github.com/jpl-au/pim/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "12B", humanSize(12))
	assert.Equal(t, "1.5K", humanSize(1536))
	assert.Equal(t, "2.0M", humanSize(2<<20))
	assert.Equal(t, "1.0G", humanSize(1<<30))
}

func TestList(t *testing.T) {
	notes := []store.Note{
		{DisplayID: 10, Title: "Ten", Tags: []string{"a", "b"}},
		{DisplayID: 2, Title: "Two"},
	}
	var buf bytes.Buffer
	assert.NoError(t, List(&buf, notes))
	assert.Equal(t, "#10  Ten  [a, b]\n#2   Two\n", buf.String())
}

func TestLong(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Long(&buf, nil))
	assert.Empty(t, buf.String())

	at := time.Date(2026, 1, 2, 3, 4, 0, 0, time.Local)
	notes := []store.Note{{ID: "6f1c7f4e-2b3d-4c5a-9e8f-0a1b2c3d4e5f", DisplayID: 1, Title: "One", Body: "hello", UpdatedAt: at}}
	assert.NoError(t, Long(&buf, notes))
	out := buf.String()
	assert.Contains(t, out, "SIZE")
	assert.Contains(t, out, "2026-01-02 03:04")
	assert.Contains(t, out, "5B")
	assert.Contains(t, out, "6f1c7f4e-2b3d-4c5a-9e8f-0a1b2c3d4e5f  One")
}

func TestNote(t *testing.T) {
	n := &store.Note{ID: "x", DisplayID: 3, Title: "Three", Body: "body", Tags: []string{"t"}}
	var buf bytes.Buffer
	assert.NoError(t, Note(&buf, n))
	out := buf.String()
	assert.Contains(t, out, "#3  Three\n")
	assert.Contains(t, out, "tags:    t\n")
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\nbody\n")))
}

func TestSearchResults(t *testing.T) {
	hits := []search.Hit{
		{DisplayID: 4, Score: 25, Title: "Chickens", Snippet: "line one\nline   two"},
		{DisplayID: 12, Score: 7, Title: "Eggs"},
	}
	var buf bytes.Buffer
	assert.NoError(t, SearchResults(&buf, hits))
	assert.Equal(t, "#4    25  Chickens\n          line one line two\n#12    7  Eggs\n", buf.String())
}

func TestTagsAndTitles(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Tags(&buf, []string{"a", "b"}))
	assert.NoError(t, Titles(&buf, []store.Note{{Title: "T"}}))
	assert.Equal(t, "a\nb\nT\n", buf.String())
}
