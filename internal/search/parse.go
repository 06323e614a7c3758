// Package search turns a free-text query into a ranked list of an owner's
// notes.
//
// The pipeline is Parse → store.Searcher.Candidates → Score → Rank. The
// store does a cheap high-recall substring filter (any term matches); the
// scorer then applies the precise rule (every term must match) and weights
// title hits above body hits and phrases above single words.
package search

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Query is a parsed search query. All terms are lower-cased.
type Query struct {
	Keywords []string
	Phrases  []string
}

// Empty reports whether the query has no terms at all.
func (q Query) Empty() bool {
	return len(q.Keywords) == 0 && len(q.Phrases) == 0
}

// Terms returns keywords followed by phrases, for candidate retrieval.
func (q Query) Terms() []string {
	out := make([]string, 0, len(q.Keywords)+len(q.Phrases))
	out = append(out, q.Keywords...)
	return append(out, q.Phrases...)
}

// Parse splits raw into keywords and quoted phrases.
//
// A double quote opens a phrase that runs to the next double quote, or to
// the end of input if none follows. Outside quotes, each run of
// non-whitespace characters is a keyword; a quote ends the run and opens a
// phrase. Phrases keep their inner spacing. Empty phrases and repeated
// terms are dropped; the first occurrence fixes a term's position.
func Parse(raw string) Query {
	var q Query
	s := strings.ToLower(raw)

	for len(s) > 0 {
		r, _ := utf8.DecodeRuneInString(s)
		switch {
		case unicode.IsSpace(r):
			s = strings.TrimLeftFunc(s, unicode.IsSpace)

		case r == '"':
			s = s[1:]
			end := strings.IndexByte(s, '"')
			var phrase string
			if end < 0 {
				phrase, s = s, ""
			} else {
				phrase, s = s[:end], s[end+1:]
			}
			if strings.TrimSpace(phrase) != "" && !slices.Contains(q.Phrases, phrase) {
				q.Phrases = append(q.Phrases, phrase)
			}

		default:
			end := strings.IndexFunc(s, func(r rune) bool {
				return r == '"' || unicode.IsSpace(r)
			})
			if end < 0 {
				end = len(s)
			}
			if kw := s[:end]; !slices.Contains(q.Keywords, kw) {
				q.Keywords = append(q.Keywords, kw)
			}
			s = s[end:]
		}
	}
	return q
}
