package search

import (
	"cmp"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/jpl-au/pim/internal/store"
)

// DefaultLimit is the result count used when the caller gives none.
const DefaultLimit = 20

// DefaultSnippet is the snippet length in characters.
const DefaultSnippet = 120

// Ellipsis marks a truncated snippet.
const Ellipsis = "..."

// Hit is one search result.
type Hit struct {
	ID        string    `json:"id"`
	DisplayID int64     `json:"display_id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Score     int       `json:"score"`
	Snippet   string    `json:"snippet"`
}

// Scored pairs a note with its relevance score.
type Scored struct {
	Note  store.Note
	Score int
}

// Rank orders results by score, highest first, breaking ties by display ID
// descending so equal scores favour the newer note. At most limit results
// are returned; limit <= 0 means DefaultLimit.
func Rank(results []Scored, limit int) []Scored {
	if limit <= 0 {
		limit = DefaultLimit
	}
	out := slices.Clone(results)
	slices.SortStableFunc(out, func(a, b Scored) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(b.Note.DisplayID, a.Note.DisplayID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Snippet returns the first n characters of body, with Ellipsis appended
// when anything was cut. n <= 0 means DefaultSnippet.
func Snippet(body string, n int) string {
	if n <= 0 {
		n = DefaultSnippet
	}
	if utf8.RuneCountInString(body) <= n {
		return body
	}
	i := 0
	for pos := range body {
		if i == n {
			return body[:pos] + Ellipsis
		}
		i++
	}
	return body
}

// hit builds the result projection of a scored note.
func hit(s Scored, snippetLen int) Hit {
	return Hit{
		ID:        s.Note.ID,
		DisplayID: s.Note.DisplayID,
		CreatedAt: s.Note.CreatedAt,
		Title:     s.Note.Title,
		Score:     s.Score,
		Snippet:   Snippet(s.Note.Body, snippetLen),
	}
}
