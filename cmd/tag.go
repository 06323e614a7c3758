/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// tag.go implements the "pim tag" command group.
//
// Tags are a set: adding a tag the note already has and removing one it
// lacks are both no-ops.

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jpl-au/pim/internal/format"
	"github.com/jpl-au/pim/internal/log"
	"github.com/jpl-au/pim/internal/service"
	"github.com/jpl-au/pim/internal/store"
	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage note tags",
	Long: `Manage note tags.

  pim tag add 3 work urgent
  pim tag rm 3 urgent
  pim tag ls          # every tag in use`,
}

var tagAddCmd = &cobra.Command{
	Use:   "add <ref> <tag>...",
	Short: "Add tags to a note",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		return runRetag(c.Context(), "add", service.Service.AddTags, args)
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <ref> <tag>...",
	Short: "Remove tags from a note",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		return runRetag(c.Context(), "remove", service.Service.RemoveTags, args)
	},
}

var tagLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List tags in use",
	Args:  cobra.NoArgs,
	RunE:  runTagLs,
}

func init() {
	tagCmd.AddCommand(tagAddCmd, tagRmCmd, tagLsCmd)
	rootCmd.AddCommand(tagCmd)
}

type retagFunc func(service.Service, context.Context, string, string, []string) (*store.Note, error)

func runRetag(ctx context.Context, action string, fn retagFunc, args []string) error {
	ref, tags := args[0], args[1:]

	n, err := fn(Service(), ctx, Owner(), ref, tags)

	b := log.Event("notes:tag", "tag").Owner(Owner()).Note(ref).Detail("op", action).Detail("tags", tags)
	if n != nil {
		b = b.Result(n.ID, n.DisplayID)
	}
	b.Write(err)

	if err != nil {
		return PrintJSONError(fmt.Errorf("tag %s %q: %w", action, ref, err))
	}

	if JSON() {
		return PrintJSON(n.ToJSON(false))
	}
	fmt.Fprintf(Out(), "#%d tags: [%s]\n", n.DisplayID, strings.Join(n.Tags, ", "))
	return nil
}

func runTagLs(c *cobra.Command, _ []string) error {
	tags, err := Service().Tags(c.Context(), Owner())
	log.Event("notes:tag", "list").Owner(Owner()).Write(err)
	if err != nil {
		return PrintJSONError(fmt.Errorf("tag ls: %w", err))
	}

	if JSON() {
		if tags == nil {
			tags = []string{}
		}
		return PrintJSON(tags)
	}
	return format.Tags(Out(), tags)
}
