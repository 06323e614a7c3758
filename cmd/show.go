/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// show.go implements the "pim show" command for reading notes.
//
// Terminal output gets glamour markdown rendering; pipe/redirect gets the
// plain header and body. --raw skips rendering on a terminal too.

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/pim/internal/format"
	"github.com/jpl-au/pim/internal/log"
	"github.com/jpl-au/pim/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var showCmd = &cobra.Command{
	Use:   "show <ref>...",
	Short: "Show notes",
	Long: `Print one or more notes.

A ref is a note number ("3" or "#3") or a note UUID.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().Bool(FlagRaw, false, "Output raw body without rendering")
	rootCmd.AddCommand(showCmd)
}

func runShow(c *cobra.Command, args []string) error {
	ctx := c.Context()
	raw, _ := c.Flags().GetBool(FlagRaw)

	var found []*store.Note
	for _, ref := range args {
		n, err := Service().Get(ctx, Owner(), ref)

		b := log.Event("notes:show", "read").Owner(Owner()).Note(ref)
		if n != nil {
			b = b.Result(n.ID, n.DisplayID)
		}
		b.Write(err)

		if err != nil {
			return PrintJSONError(fmt.Errorf("show %q: %w", ref, err))
		}
		found = append(found, n)
	}

	if JSON() {
		if len(found) == 1 {
			return PrintJSON(found[0].ToJSON(true))
		}
		js := make([]store.NoteJSON, len(found))
		for i, n := range found {
			js[i] = n.ToJSON(true)
		}
		return PrintJSON(js)
	}

	render := !raw && term.IsTerminal(int(os.Stdout.Fd()))
	for i, n := range found {
		if i > 0 {
			fmt.Fprintln(Out())
		}
		if err := printNote(Out(), n, render); err != nil {
			return err
		}
	}
	return nil
}

// printNote writes n, rendering the body as markdown when render is set and
// falling back to plain text if rendering fails.
func printNote(w io.Writer, n *store.Note, render bool) error {
	if render {
		rendered, err := glamour.Render(n.Body, "dark")
		if err == nil {
			var head bytes.Buffer
			plain := *n
			plain.Body = ""
			if err := format.Note(&head, &plain); err != nil {
				return err
			}
			fmt.Fprint(w, head.String())
			fmt.Fprint(w, rendered)
			return nil
		}
	}
	return format.Note(w, n)
}
