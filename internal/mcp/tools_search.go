// tools_search.go implements the MCP search tool.
//
// Hits carry a snippet rather than the full body so an LLM can triage
// results cheaply and fetch the notes it cares about with pim_get.

package mcp

import (
	"context"

	"github.com/jpl-au/pim/internal/log"
	"github.com/jpl-au/pim/internal/search"
	"github.com/mark3labs/mcp-go/mcp"
)

// searchNotes handles pim_search tool calls.
func (h *handlers) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, done, res := h.acquire()
	if res != nil {
		return res, nil
	}
	defer done()

	owner, res := h.ownerOf(req)
	if res != nil {
		return res, nil
	}
	query := getString(req, "query", "")
	limit := getInt(req, "limit", 0)

	hits, err := svc.Search(ctx, owner, query, limit)

	log.Event("mcp:search", "search").Owner(owner).Detail("query", query).Detail("count", len(hits)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if hits == nil {
		hits = []search.Hit{}
	}
	return jsonResult(hits)
}
