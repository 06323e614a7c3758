// search.go implements candidate retrieval for the search engine.
//
// The lower-cased title_key and body_key columns are written alongside the
// originals so substring matching here agrees with the scorer's case folding.
// instr is used instead of LIKE so terms containing % or _ match literally.

package store

import (
	"context"
	"fmt"
	"strings"
)

// Candidates returns the owner's notes containing at least one term in the
// title or body. An empty term list matches nothing.
func (s *SQLiteStore) Candidates(ctx context.Context, owner string, terms []string) ([]Note, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	conds := make([]string, 0, len(terms))
	args := make([]any, 0, 1+2*len(terms))
	args = append(args, owner)
	for _, t := range terms {
		conds = append(conds, `instr(title_key, ?) > 0 OR instr(body_key, ?) > 0`)
		args = append(args, t, t)
	}

	q := `SELECT ` + noteColumns + ` FROM notes WHERE owner = ? AND (` +
		strings.Join(conds, " OR ") + `) ORDER BY display_id DESC`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("candidates: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}
