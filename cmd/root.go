/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// root.go defines the root command and CLI execution entry point.
//
// PersistentPreRunE opens the store lazily: only commands that need it
// trigger discovery, so bootstrap commands (init, config, version, serve)
// work without a store existing.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/jpl-au/pim/internal/log"
	"github.com/jpl-au/pim/internal/repo"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pim",
	Short: "Personal note store with free-text search",
	Long: `Stores short notes ("particles") per owner and finds them again.

Every note has a title unique to its owner, a body and optional tags.
Notes are numbered per owner (#1, #2, ...) and can be addressed by that
number or by their UUID. Search matches all keywords and "exact phrases".`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if output != "" && !slices.Contains(validOutputFormats, output) {
			return fmt.Errorf("invalid output format: %s (valid: %v)", output, validOutputFormats)
		}

		// --dir is handed to the repo package through its environment
		// variable so discovery, init and the MCP server all see it.
		if dir != "" {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolve --dir: %w", err)
			}
			if err := os.Setenv(repo.EnvDir, abs); err != nil {
				return err
			}
		}

		// Bare "pim" only prints help.
		if !cmd.HasParent() {
			return nil
		}

		name := topLevelCmdName(cmd)
		if ownerRequiredCommands[name] && Owner() == "" {
			return jsonFail(cmd, fmt.Errorf("owner not configured (checked --owner, $%s and config)\n\nRun: pim config owner \"your-name\"", EnvOwner))
		}

		if !noStoreCommands[name] {
			if err := openService(); err != nil {
				return jsonFail(cmd, err)
			}
		}
		return nil
	},
}

// jsonFail reports err as JSON when requested and silences cobra's own
// printing in that case.
func jsonFail(cmd *cobra.Command, err error) error {
	if JSON() {
		_ = PrintJSON(map[string]string{"error": err.Error()})
		cmd.SilenceErrors = true
	}
	return err
}

// topLevelCmdName returns the name of the top-level command (direct child of root).
// For "pim show 3", returns "show".
// For "pim tag add 3 work", returns "tag".
func topLevelCmdName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// Execute runs the root command and handles process lifecycle.
// Opens audit logging, executes the command, and closes the note service
// before exit. Exit code 1 indicates error.
func Execute() {
	// Initialise audit logger (warn if it fails, but continue)
	if err := log.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}
	defer log.Close()

	err := rootCmd.Execute()

	if closeErr := closeService(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "warning: closing service: %v\n", closeErr)
	}

	if err != nil {
		log.Close()
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}
