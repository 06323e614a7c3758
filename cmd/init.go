/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// init.go implements the "pim init" command for repository initialisation.
//
// Init runs before a store exists, so it is listed in noStoreCommands and
// creates the store itself. It does not write config; that is "pim config".

package cmd

import (
	"fmt"

	"github.com/jpl-au/pim/internal/config"
	"github.com/jpl-au/pim/internal/log"
	"github.com/jpl-au/pim/internal/notes"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialise a new pim store",
	Long: `Creates a .pim/ store in the current directory.

The store engine is SQLite (.pim/pim.db) unless --backend or the
store.backend config key selects Badger (.pim/pim.badger/):
  pim init --backend badger

Use --dir to create in a different directory:
  pim init --dir /path/to/project

Use --local to exclude the store from git:
  pim init --local

Note: init does not create config. Use "pim config" to set the owner.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolP(FlagLocal, "l", false, "Mark store as local (gitignored)")
	initCmd.Flags().BoolP(FlagForce, "f", false, "Reinitialise an existing store (removes its notes)")
	rootCmd.AddCommand(initCmd)
}

func runInit(c *cobra.Command, _ []string) error {
	local, _ := c.Flags().GetBool(FlagLocal)
	force, _ := c.Flags().GetBool(FlagForce)

	// --local edits this project's .gitignore; a store created elsewhere
	// with --dir is not part of this project.
	if local && dir != "" {
		return PrintJSONError(fmt.Errorf("cannot use --local with --dir: --local modifies the current project's .gitignore, but --dir creates the store elsewhere"))
	}

	b := Backend()
	if b == "" {
		if cfg, err := config.Load(); err == nil {
			b = cfg.Backend()
		}
	}

	loc, err := notes.Init(force, b, local, dir)

	log.Event("notes:init", "init").
		Owner(Owner()).
		Detail("backend", b).
		Detail("dir", dir).
		Detail("local", local).
		Write(err)

	if err != nil {
		return PrintJSONError(fmt.Errorf("init: %w", err))
	}

	if JSON() {
		return PrintJSON(map[string]string{"backend": loc.Backend, "path": loc.Path})
	}
	fmt.Fprintf(Out(), "Initialised pim store (%s) in %s\n", loc.Backend, loc.Path)
	return nil
}
