/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// search.go implements the "pim search" command.
//
// All arguments form one query. Every keyword must appear in a note's title
// or body, and "quoted phrases" must appear exactly. With no arguments the
// most recent notes are listed.

package cmd

import (
	"fmt"
	"strings"

	"github.com/jpl-au/pim/internal/format"
	"github.com/jpl-au/pim/internal/log"
	"github.com/jpl-au/pim/internal/search"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]...",
	Short: "Search notes",
	Long: `Search your notes. Keywords must all match; quote phrases for exact matches.

  pim search chicken eggs
  pim search 'chicken "free range"'
  pim search -n 5 recipe

Title matches outrank body matches and phrases outrank keywords.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntP(FlagLimit, "n", 0, "Maximum results (default: search.limit config)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(c *cobra.Command, args []string) error {
	limit, _ := c.Flags().GetInt(FlagLimit)
	query := strings.Join(args, " ")

	hits, err := Service().Search(c.Context(), Owner(), query, limit)
	log.Event("notes:search", "search").
		Owner(Owner()).
		Detail("query", query).
		Detail("limit", limit).
		Detail("hits", len(hits)).
		Write(err)
	if err != nil {
		return PrintJSONError(fmt.Errorf("search: %w", err))
	}

	if JSON() {
		if hits == nil {
			hits = []search.Hit{}
		}
		return PrintJSON(hits)
	}
	if len(hits) == 0 {
		fmt.Fprintln(Out(), "No matches")
		return nil
	}
	return format.SearchResults(Out(), hits)
}
