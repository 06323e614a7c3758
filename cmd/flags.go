/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// flags.go defines global CLI flags, flag name constants and accessors for
// shared state.
//
// Flags are package-level variables bound to the root command. The JSON()
// helper simplifies output format detection across all commands.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/pim/internal/config"
	"github.com/spf13/cobra"
)

// Environment variables consulted when the matching flag is not given.
const (
	EnvOwner   = "PIM_OWNER"
	EnvBackend = "PIM_BACKEND"
)

// Flag name constants, so definitions and GetType() calls cannot drift.
const (
	FlagBody    = "body"    // Body text instead of stdin
	FlagDryRun  = "dry-run" // Preview without making changes
	FlagForce   = "force"   // Overwrite / reinitialise
	FlagHidden  = "hidden"  // Include hidden files/directories
	FlagLimit   = "limit"   // Limit number of results
	FlagLocal   = "local"   // Use local scope (gitignored)
	FlagLong    = "long"    // Long format output
	FlagPattern = "pattern" // Glob pattern
	FlagRaw     = "raw"     // Raw output without rendering
	FlagSince   = "since"   // Age filter (12h, 7d, 2w, 3m)
	FlagTag     = "tag"     // Tag filter/value
)

var validOutputFormats = []string{"json"}

var (
	output  string
	owner   string
	dir     string
	backend string
)

// out is the output writer for commands. Defaults to os.Stdout.
var out io.Writer = os.Stdout

// in is the input reader for commands that accept a body on stdin.
var in io.Reader = os.Stdin

// Out returns the output writer.
func Out() io.Writer { return out }

// SetOut sets the output writer (for testing).
func SetOut(w io.Writer) { out = w }

// SetIn sets the input reader (for testing).
func SetIn(r io.Reader) { in = r }

// Output returns the output format flag value.
func Output() string { return output }

// Owner returns the acting owner.
// Priority: --owner flag > PIM_OWNER env var > config owner.
func Owner() string {
	if owner != "" {
		return owner
	}
	if v := os.Getenv(EnvOwner); v != "" {
		return v
	}
	if cfg, err := config.Load(); err == nil {
		return cfg.Owner
	}
	return ""
}

// Backend returns the store engine to use, empty meaning whichever exists.
// Priority: --backend flag > PIM_BACKEND env var > empty (config/discovery).
func Backend() string {
	if backend != "" {
		return backend
	}
	return os.Getenv(EnvBackend)
}

// Dir returns the explicit repository directory if set. The repo package
// reads PIM_DIR itself; --dir is exported into it in PersistentPreRunE.
func Dir() string {
	return dir
}

// JSON returns true if JSON output is requested.
func JSON() bool { return output == "json" }

// PrintJSON marshals v to JSON and writes it to the output writer.
// Returns nil if output format is not JSON.
func PrintJSON(v any) error {
	if output != "json" {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(out, string(b))
	return nil
}

// PrintJSONError prints an error in JSON format if output is JSON.
// Returns nil if error was printed (suppressing Cobra error), or the original error if not.
func PrintJSONError(err error) error {
	if output != "json" || err == nil {
		return err
	}
	// If the error itself cannot be printed there is nothing better to do;
	// returning nil still suppresses Cobra's duplicate printing.
	_ = PrintJSON(map[string]string{"error": err.Error()})
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format: json")
	rootCmd.PersistentFlags().StringVar(&owner, "owner", "", "Owner to act as (default: $PIM_OWNER, then config owner)")
	rootCmd.PersistentFlags().StringVar(&dir, "dir", "", "Repository directory (skip discovery, use explicit path)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Store engine: sqlite or badger")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return validOutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("backend", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.BackendSQLite, config.BackendBadger}, cobra.ShellCompDirectiveNoFileComp
	})
}
