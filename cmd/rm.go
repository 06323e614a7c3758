/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// rm.go implements the "pim rm" command for deleting notes.
//
// Deletion is permanent. Removing a note that does not exist succeeds, so
// repeating an rm is harmless.

package cmd

import (
	"fmt"

	"github.com/jpl-au/pim/internal/log"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <ref>...",
	Short: "Delete notes permanently",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(c *cobra.Command, args []string) error {
	ctx := c.Context()

	var deleted []string
	for _, ref := range args {
		_, err := Service().Delete(ctx, Owner(), ref)
		log.Event("notes:rm", "delete").Owner(Owner()).Note(ref).Write(err)
		if err != nil {
			return PrintJSONError(fmt.Errorf("rm %q: %w", ref, err))
		}
		deleted = append(deleted, ref)
		if !JSON() {
			fmt.Fprintf(Out(), "Deleted %s\n", ref)
		}
	}

	return PrintJSON(map[string]any{"deleted": deleted})
}
