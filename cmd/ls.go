/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// ls.go implements the "pim ls" command for listing an owner's notes.

package cmd

import (
	"fmt"
	"time"

	"github.com/jpl-au/pim/internal/duration"
	"github.com/jpl-au/pim/internal/format"
	"github.com/jpl-au/pim/internal/log"
	"github.com/jpl-au/pim/internal/store"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List notes",
	Long: `List your notes, most recently created first.

  pim ls            # number, title and tags
  pim ls -l         # with size, update time and UUID
  pim ls -t work    # only notes tagged "work"
  pim ls --since 2w # only notes updated in the last two weeks`,
	Args: cobra.NoArgs,
	RunE: runLs,
}

func init() {
	lsCmd.Flags().BoolP(FlagLong, "l", false, "Long format")
	lsCmd.Flags().StringP(FlagTag, "t", "", "Only notes with this tag")
	lsCmd.Flags().String(FlagSince, "", "Only notes updated within this age (12h, 7d, 2w, 3m)")
	rootCmd.AddCommand(lsCmd)
}

func runLs(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	long, _ := c.Flags().GetBool(FlagLong)
	tag, _ := c.Flags().GetString(FlagTag)
	since, _ := c.Flags().GetString(FlagSince)

	var cutoff time.Time
	if since != "" {
		var err error
		if cutoff, err = duration.Since(since, time.Now()); err != nil {
			return PrintJSONError(err)
		}
	}

	all, err := Service().List(ctx, Owner())
	log.Event("notes:ls", "list").Owner(Owner()).Detail("tag", tag).Detail("since", since).Write(err)
	if err != nil {
		return PrintJSONError(fmt.Errorf("ls: %w", err))
	}

	list := make([]store.Note, 0, len(all))
	for _, n := range all {
		if tag != "" && !n.HasTag(tag) {
			continue
		}
		if !cutoff.IsZero() && n.UpdatedAt.Before(cutoff) {
			continue
		}
		list = append(list, n)
	}

	if JSON() {
		js := make([]store.NoteJSON, len(list))
		for i := range list {
			js[i] = list[i].ToJSON(false)
		}
		return PrintJSON(js)
	}
	if long {
		return format.Long(Out(), list)
	}
	return format.List(Out(), list)
}
