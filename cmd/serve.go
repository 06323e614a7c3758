/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// serve.go implements the "pim serve" command for MCP server operation.
//
// Unlike other commands that run and exit, serve blocks handling MCP
// requests over stdio. It manages its own service so it can start before
// "pim init" has been run and pick up config changes made through its tools.

package cmd

import (
	"github.com/jpl-au/pim/internal/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server",
	Long: `Start an MCP (Model Context Protocol) server over stdio.

Tools act for --owner (or $PIM_OWNER, or the config owner) unless a call
names an owner explicitly.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.Serve(Backend(), Owner())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
