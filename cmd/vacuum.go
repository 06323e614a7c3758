/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// vacuum.go implements the "pim vacuum" command for reclaiming disk space.

package cmd

import (
	"fmt"
	"io"

	"github.com/jpl-au/pim/internal/log"
	"github.com/jpl-au/pim/internal/vacuum"
	"github.com/spf13/cobra"
)

var vacuumCmd = &cobra.Command{
	Use:   "vacuum",
	Short: "Reclaim disk space from deleted notes",
	Long: `Compact the store so space held by deleted notes is returned to the
filesystem. Affects every owner's notes; no note content changes.`,
	Args: cobra.NoArgs,
	RunE: runVacuum,
}

func init() {
	rootCmd.AddCommand(vacuumCmd)
}

func runVacuum(c *cobra.Command, _ []string) error {
	w := Out()
	if JSON() {
		w = io.Discard
	}

	loc := svc.Location()
	res, err := vacuum.Run(c.Context(), w, Service(), loc.Path)

	log.Event("notes:vacuum", "vacuum").
		Detail("backend", loc.Backend).
		Detail("before", res.Before).
		Detail("after", res.After).
		Write(err)

	if err != nil {
		return PrintJSONError(fmt.Errorf("vacuum: %w", err))
	}
	return PrintJSON(res)
}
