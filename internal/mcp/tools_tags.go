// tools_tags.go implements MCP tools for tag management.

package mcp

import (
	"context"

	"github.com/jpl-au/pim/internal/log"
	"github.com/jpl-au/pim/internal/service"
	"github.com/jpl-au/pim/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// tagOp is the shape shared by Service.AddTags and Service.RemoveTags.
type tagOp func(svc service.Service, ctx context.Context, owner, ref string, tags []string) (*store.Note, error)

// tagAdd handles pim_tag_add tool calls.
func (h *handlers) tagAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.retag(ctx, req, "mcp:tag_add", "tag", service.Service.AddTags)
}

// tagRemove handles pim_tag_remove tool calls.
func (h *handlers) tagRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.retag(ctx, req, "mcp:tag_remove", "untag", service.Service.RemoveTags)
}

func (h *handlers) retag(ctx context.Context, req mcp.CallToolRequest, source, action string, op tagOp) (*mcp.CallToolResult, error) {
	svc, done, res := h.acquire()
	if res != nil {
		return res, nil
	}
	defer done()

	owner, res := h.ownerOf(req)
	if res != nil {
		return res, nil
	}
	ref, err := req.RequireString("ref")
	if err != nil {
		return mcp.NewToolResultError("ref is required"), nil //nolint:nilerr
	}
	tags := getStrings(req, "tags")
	if len(tags) == 0 {
		return mcp.NewToolResultError("tags is required"), nil
	}

	n, err := op(svc, ctx, owner, ref, tags)

	log.Event(source, action).Owner(owner).Note(ref).Detail("tags", tags).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(n.ToJSON(false))
}

// listTags handles pim_tags tool calls.
func (h *handlers) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, done, res := h.acquire()
	if res != nil {
		return res, nil
	}
	defer done()

	owner, res := h.ownerOf(req)
	if res != nil {
		return res, nil
	}

	tags, err := svc.Tags(ctx, owner)

	log.Event("mcp:tags", "list_tags").Owner(owner).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if tags == nil {
		tags = []string{}
	}
	return jsonResult(tags)
}
