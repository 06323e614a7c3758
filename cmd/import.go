/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// import.go implements the "pim import" command for bulk note creation
// from markdown files.

package cmd

import (
	"fmt"
	"io"

	"github.com/jpl-au/pim/internal/importer"
	"github.com/jpl-au/pim/internal/log"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import markdown files as notes",
	Long: `Import a markdown file, or every markdown file below a directory.

The note title comes from the file's frontmatter "title:" or, without one,
from the file name. Frontmatter "tags:" become note tags.

  pim import ~/notes
  pim import ~/notes --pattern 'recipes/**/*.md' -t cooking
  pim import draft.md --dry-run

Files whose title already exists are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().String(FlagPattern, importer.DefaultPattern, "Glob selecting files below a directory")
	importCmd.Flags().StringSliceP(FlagTag, "t", nil, "Tag added to every imported note (repeatable)")
	importCmd.Flags().Bool(FlagHidden, false, "Include hidden files and directories")
	importCmd.Flags().BoolP(FlagDryRun, "n", false, "Show what would be imported")
	rootCmd.AddCommand(importCmd)
}

func runImport(c *cobra.Command, args []string) error {
	pattern, _ := c.Flags().GetString(FlagPattern)
	tags, _ := c.Flags().GetStringSlice(FlagTag)
	hidden, _ := c.Flags().GetBool(FlagHidden)
	dryRun, _ := c.Flags().GetBool(FlagDryRun)
	src := args[0]

	w := Out()
	if JSON() {
		w = io.Discard
	}

	res, err := importer.Run(c.Context(), w, Service(), src, importer.Options{
		Owner:   Owner(),
		Pattern: pattern,
		Tags:    tags,
		Hidden:  hidden,
		DryRun:  dryRun,
	})

	log.Event("notes:import", "import").
		Owner(Owner()).
		Detail("src", src).
		Detail("pattern", pattern).
		Detail("dry_run", dryRun).
		Detail("imported", res.Imported).
		Detail("skipped", len(res.Skipped)).
		Write(err)

	if err != nil {
		return PrintJSONError(fmt.Errorf("import %q: %w", src, err))
	}

	if JSON() {
		return PrintJSON(map[string]any{
			"imported": res.Imported,
			"titles":   nonNil(res.Titles),
			"skipped":  nonNil(res.Skipped),
			"dry_run":  dryRun,
		})
	}
	return nil
}

// nonNil keeps JSON arrays from encoding as null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
