/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// update.go implements "pim title" and "pim body", which replace a note's
// title or body in place.
//
// body prints what changed as a line diff, coloured on a terminal.

package cmd

import (
	"fmt"
	"os"

	"github.com/jpl-au/pim/internal/diff"
	"github.com/jpl-au/pim/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var titleCmd = &cobra.Command{
	Use:   "title <ref> <new-title>",
	Short: "Rename a note",
	Args:  cobra.ExactArgs(2),
	RunE:  runTitle,
}

var bodyCmd = &cobra.Command{
	Use:   "body <ref>",
	Short: "Replace a note's body",
	Long: `Replace a note's body with --body or stdin and show the change.

  pim body 3 -b "eggs, milk, flour"
  cat draft.md | pim body 3`,
	Args: cobra.ExactArgs(1),
	RunE: runBody,
}

func init() {
	bodyCmd.Flags().StringP(FlagBody, "b", "", "New body (default: read from stdin)")
	rootCmd.AddCommand(titleCmd, bodyCmd)
}

func runTitle(c *cobra.Command, args []string) error {
	ctx := c.Context()
	ref, title := args[0], args[1]

	n, err := Service().UpdateTitle(ctx, Owner(), ref, title)

	b := log.Event("notes:title", "update").Owner(Owner()).Note(ref).Detail("title", title)
	if n != nil {
		b = b.Result(n.ID, n.DisplayID)
	}
	b.Write(err)

	if err != nil {
		return PrintJSONError(fmt.Errorf("title %q: %w", ref, err))
	}

	if JSON() {
		return PrintJSON(n.ToJSON(false))
	}
	fmt.Fprintf(Out(), "Renamed #%d to %s\n", n.DisplayID, n.Title)
	return nil
}

func runBody(c *cobra.Command, args []string) error {
	ctx := c.Context()
	ref := args[0]

	body, err := readBody(c)
	if err != nil {
		return PrintJSONError(err)
	}

	n, d, err := Service().UpdateBody(ctx, Owner(), ref, body)

	b := log.Event("notes:body", "update").Owner(Owner()).Note(ref)
	if n != nil {
		b = b.Result(n.ID, n.DisplayID).Detail("bytes", len(body))
	}
	b.Write(err)

	if err != nil {
		return PrintJSONError(fmt.Errorf("body %q: %w", ref, err))
	}

	if JSON() {
		return PrintJSON(struct {
			ID   string    `json:"id"`
			Diff diff.Body `json:"diff"`
		}{n.ID, d})
	}
	if !d.Changed() {
		fmt.Fprintf(Out(), "No changes to #%d\n", n.DisplayID)
		return nil
	}
	return d.Write(Out(), term.IsTerminal(int(os.Stdout.Fd())))
}
