// tools_config.go implements MCP tools for configuration management.
//
// Config changes reopen the service so the running server picks up new
// search and limit settings immediately instead of after a restart.

package mcp

import (
	"context"
	"fmt"

	"github.com/jpl-au/pim/internal/config"
	"github.com/jpl-au/pim/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// configGet handles pim_config_get tool calls.
func (h *handlers) configGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx for future use
	cfg, err := config.Load()
	if err != nil {
		log.Event("mcp:config_get", "get").Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	key := getString(req, "key", "")
	if key == "" {
		log.Event("mcp:config_get", "list").Write(nil)
		return jsonResult(cfg.All())
	}

	v, err := cfg.Get(key)

	log.Event("mcp:config_get", "get").Detail("key", key).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{key: v})
}

// configSet handles pim_config_set tool calls.
func (h *handlers) configSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx for future use
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil //nolint:nilerr
	}
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("value is required"), nil //nolint:nilerr
	}
	scope := config.ScopeGlobal
	if getBool(req, "local", false) {
		scope = config.ScopeLocal
	}

	l := log.Event("mcp:config_set", "set").Detail("key", key).Detail("value", value)

	cfg, err := config.LoadScope(scope)
	if err != nil {
		l.Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := cfg.Set(key, value); err != nil {
		l.Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	err = cfg.SaveScope(scope)
	l.Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if key == "owner" {
		h.mu.Lock()
		h.owner = value
		h.mu.Unlock()
	}

	h.mu.RLock()
	initialised := h.svc != nil
	h.mu.RUnlock()
	if initialised {
		if err := h.reopen(); err != nil {
			log.Event("mcp:config_set", "reload").Write(err)
			// Config was saved successfully, but reload failed - warn in response
			return mcp.NewToolResultText(fmt.Sprintf("%s = %s (warning: reload failed, restart server to apply: %v)", key, value, err)), nil
		}
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s = %s", key, value)), nil
}
