// tools_import_export.go implements MCP tools for filesystem integration.
//
// Import and export touch the external filesystem, unlike other tools that
// work purely with the store, so they have different failure modes
// (permissions, existing files). Import supports dry-run mode so an LLM
// can preview what would be created.

package mcp

import (
	"bytes"
	"context"

	"github.com/jpl-au/pim/internal/exporter"
	"github.com/jpl-au/pim/internal/importer"
	"github.com/jpl-au/pim/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// importFiles handles pim_import tool calls.
func (h *handlers) importFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, done, res := h.acquire()
	if res != nil {
		return res, nil
	}
	defer done()

	owner, res := h.ownerOf(req)
	if res != nil {
		return res, nil
	}
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil //nolint:nilerr
	}

	opts := importer.Options{
		Owner:   owner,
		Pattern: getString(req, "pattern", ""),
		Tags:    getStrings(req, "tags"),
		Hidden:  getBool(req, "hidden", false),
		DryRun:  getBool(req, "dry_run", false),
	}

	var buf bytes.Buffer
	result, err := importer.Run(ctx, &buf, svc, path, opts)

	log.Event("mcp:import", "import").Owner(owner).Detail("source", path).Detail("count", result.Imported).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"imported": result.Imported,
		"titles":   result.Titles,
		"skipped":  result.Skipped,
		"dry_run":  opts.DryRun,
	})
}

// exportFiles handles pim_export tool calls.
func (h *handlers) exportFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, done, res := h.acquire()
	if res != nil {
		return res, nil
	}
	defer done()

	owner, res := h.ownerOf(req)
	if res != nil {
		return res, nil
	}
	dest, err := req.RequireString("dest")
	if err != nil {
		return mcp.NewToolResultError("dest is required"), nil //nolint:nilerr
	}

	opts := exporter.Options{
		Owner: owner,
		Refs:  getStrings(req, "refs"),
		Force: getBool(req, "force", false),
	}

	var buf bytes.Buffer
	result, err := exporter.Run(ctx, &buf, svc, dest, opts)

	log.Event("mcp:export", "export").Owner(owner).Detail("dest", dest).Detail("count", result.Exported).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"exported": result.Exported,
		"paths":    result.Paths,
	})
}
