/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// export.go implements the "pim export" command, writing notes out as
// markdown files with YAML frontmatter that "pim import" reads back.

package cmd

import (
	"fmt"
	"io"

	"github.com/jpl-au/pim/internal/exporter"
	"github.com/jpl-au/pim/internal/log"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <dir> [ref]...",
	Short: "Export notes to markdown files",
	Long: `Export notes into a directory as "<number>-<title>.md" files.

  pim export ./backup          # every note
  pim export ./backup 3 7      # just #3 and #7
  pim export ./backup --force  # overwrite existing files`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolP(FlagForce, "f", false, "Overwrite existing files")
	rootCmd.AddCommand(exportCmd)
}

func runExport(c *cobra.Command, args []string) error {
	force, _ := c.Flags().GetBool(FlagForce)
	dst, refs := args[0], args[1:]

	w := Out()
	if JSON() {
		w = io.Discard
	}

	res, err := exporter.Run(c.Context(), w, Service(), dst, exporter.Options{
		Owner: Owner(),
		Refs:  refs,
		Force: force,
	})

	log.Event("notes:export", "export").
		Owner(Owner()).
		Detail("dst", dst).
		Detail("refs", refs).
		Detail("exported", res.Exported).
		Write(err)

	if err != nil {
		return PrintJSONError(fmt.Errorf("export: %w", err))
	}

	return PrintJSON(map[string]any{
		"exported": res.Exported,
		"paths":    nonNil(res.Paths),
	})
}
