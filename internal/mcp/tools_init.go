// tools_init.go implements the MCP tool for initialising a new store.
//
// This tool works without an existing store, allowing LLMs to bootstrap
// a new pim repository. Other tools require initialisation first.

package mcp

import (
	"context"
	"log/slog"

	"github.com/jpl-au/pim/internal/log"
	"github.com/jpl-au/pim/internal/notes"
	"github.com/mark3labs/mcp-go/mcp"
)

// initStore handles pim_init tool calls.
func (h *handlers) initStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx for future use
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.svc != nil {
		return mcp.NewToolResultError("store already initialised"), nil
	}

	local := getBool(req, "local", false)

	loc, err := notes.Init(false, h.backend, local, "")

	log.Event("mcp:init", "init").Detail("local", local).Detail("backend", loc.Backend).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, err := notes.New(loc.Backend)
	if err != nil {
		return mcp.NewToolResultError("init succeeded but failed to open store: " + err.Error()), nil
	}
	h.svc = svc

	slog.Info("store initialised", "path", loc.Path, "backend", loc.Backend, "local", local)

	if local {
		return mcp.NewToolResultText("store initialised (local - gitignored)"), nil
	}
	return mcp.NewToolResultText("store initialised"), nil
}
