/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// new.go implements the "pim new" command for creating notes.
//
// The body comes from --body or, when absent, from stdin so notes can be
// piped in: "pbpaste | pim new Groceries".

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jpl-au/pim/internal/log"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a note",
	Long: `Create a note with a title, a body and optional tags.

  pim new "Groceries" -b "eggs, milk"
  echo "eggs, milk" | pim new "Groceries" -t shopping -t home

Titles are unique per owner, ignoring case.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringP(FlagBody, "b", "", "Note body (default: read from stdin)")
	newCmd.Flags().StringSliceP(FlagTag, "t", nil, "Tag to attach (repeatable)")
	rootCmd.AddCommand(newCmd)
}

// readBody returns the --body flag value, or stdin when the flag is unset.
func readBody(c *cobra.Command) (string, error) {
	if c.Flags().Changed(FlagBody) {
		return c.Flags().GetString(FlagBody)
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSuffix(string(b), "\n"), nil
}

func runNew(c *cobra.Command, args []string) error {
	ctx := c.Context()
	tags, _ := c.Flags().GetStringSlice(FlagTag)
	title := args[0]

	body, err := readBody(c)
	if err != nil {
		return PrintJSONError(err)
	}

	n, err := Service().Create(ctx, Owner(), title, body, tags)

	b := log.Event("notes:new", "create").Owner(Owner()).Detail("title", title)
	if n != nil {
		b = b.Result(n.ID, n.DisplayID)
	}
	b.Write(err)

	if err != nil {
		return PrintJSONError(fmt.Errorf("new %q: %w", title, err))
	}

	if JSON() {
		return PrintJSON(n.ToJSON(false))
	}
	fmt.Fprintf(Out(), "Created #%d %s\n", n.DisplayID, n.Title)
	return nil
}
