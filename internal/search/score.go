package search

import (
	"strings"

	"github.com/jpl-au/pim/internal/store"
)

// Term weights. A phrase is worth more than a keyword and a title hit more
// than a body hit; a term found in both collects both weights.
const (
	KeywordTitle = 5
	KeywordBody  = 2
	PhraseTitle  = 20
	PhraseBody   = 10
)

// Score rates n against q. It returns false if any keyword or phrase is
// missing from both the title and body. Matching is substring-based and
// case-insensitive.
func Score(n store.Note, q Query) (int, bool) {
	title := strings.ToLower(n.Title)
	body := strings.ToLower(n.Body)

	total := 0
	for _, kw := range q.Keywords {
		s, ok := weigh(title, body, kw, KeywordTitle, KeywordBody)
		if !ok {
			return 0, false
		}
		total += s
	}
	for _, ph := range q.Phrases {
		s, ok := weigh(title, body, ph, PhraseTitle, PhraseBody)
		if !ok {
			return 0, false
		}
		total += s
	}
	return total, true
}

func weigh(title, body, term string, inTitle, inBody int) (int, bool) {
	s := 0
	found := false
	if strings.Contains(title, term) {
		s += inTitle
		found = true
	}
	if strings.Contains(body, term) {
		s += inBody
		found = true
	}
	return s, found
}
