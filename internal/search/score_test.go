package search_test

import (
	"strings"
	"testing"

	"github.com/jpl-au/pim/internal/search"
	"github.com/jpl-au/pim/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	n := store.Note{Title: "Another Clever Story", Body: "This story is about a clever fox."}

	tests := []struct {
		name  string
		query string
		score int
		ok    bool
	}{
		{"keyword title and body", "clever", 7, true},
		{"keyword body only", "fox", 2, true},
		{"keyword title only", "another", 5, true},
		{"case-insensitive", "CLEVER", 7, true},
		{"substring", "clev", 7, true},
		{"and logic", "clever fox", 9, true},
		{"and logic fails", "clever dog", 0, false},
		{"phrase body", `"clever fox"`, 10, true},
		{"phrase title", `"clever story"`, 20, true},
		{"phrase order matters", `"fox clever"`, 0, false},
		{"phrase plus keyword", `"clever fox" another`, 15, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, ok := search.Score(n, search.Parse(tt.query))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.score, score)
		})
	}
}

func TestRank(t *testing.T) {
	mk := func(display int64, score int) search.Scored {
		return search.Scored{Note: store.Note{DisplayID: display}, Score: score}
	}
	in := []search.Scored{mk(1, 5), mk(2, 9), mk(3, 5), mk(4, 1)}

	got := search.Rank(in, 0)
	var order []int64
	for _, s := range got {
		order = append(order, s.Note.DisplayID)
	}
	// Equal scores fall back to the higher display ID.
	assert.Equal(t, []int64{2, 3, 1, 4}, order)

	// Input is not reordered in place.
	assert.Equal(t, int64(1), in[0].Note.DisplayID)

	assert.Len(t, search.Rank(in, 2), 2)
	assert.Len(t, search.Rank(in, -1), 4)
}

func TestRank_DefaultLimit(t *testing.T) {
	in := make([]search.Scored, 30)
	for i := range in {
		in[i] = search.Scored{Note: store.Note{DisplayID: int64(i)}, Score: 1}
	}
	assert.Len(t, search.Rank(in, 0), search.DefaultLimit)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", search.Snippet("short", 0))
	assert.Equal(t, "", search.Snippet("", 0))

	exact := strings.Repeat("a", 120)
	assert.Equal(t, exact, search.Snippet(exact, 0))

	long := strings.Repeat("a", 121)
	assert.Equal(t, strings.Repeat("a", 120)+"...", search.Snippet(long, 0))

	// Counted in characters, not bytes.
	assert.Equal(t, "ééé...", search.Snippet("éééé", 3))
	assert.Equal(t, "日本", search.Snippet("日本", 2))
}
