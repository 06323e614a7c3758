// tools_notes.go implements MCP tools for note CRUD operations.
//
// These tools mirror the CLI commands (new, show, ls, title, body, rm) but
// return structured JSON for LLM consumption rather than human-readable text.
//
// Errors return MCP tool error results rather than Go errors, so the LLM
// receives feedback it can act on instead of a protocol-level failure.
// Notes are addressed by ref: the per-owner number ("3" or "#3") shown in
// listings, or the UUID.

package mcp

import (
	"context"
	"fmt"

	"github.com/jpl-au/pim/internal/diff"
	"github.com/jpl-au/pim/internal/log"
	"github.com/jpl-au/pim/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// createNote handles pim_create tool calls.
func (h *handlers) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, done, res := h.acquire()
	if res != nil {
		return res, nil
	}
	defer done()

	owner, res := h.ownerOf(req)
	if res != nil {
		return res, nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required"), nil //nolint:nilerr
	}
	body, err := req.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError("body is required"), nil //nolint:nilerr
	}
	tags := getStrings(req, "tags")

	n, err := svc.Create(ctx, owner, title, body, tags)

	l := log.Event("mcp:create", "create").Owner(owner).Detail("title", title)
	if n != nil {
		l.Result(n.ID, n.DisplayID)
	}
	l.Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(n.ToJSON(true))
}

// getNotes handles pim_get tool calls.
//
// A single ref returns a plain object and several return an array, the same
// convention the CLI's JSON output uses. The first failing ref aborts the
// call so the LLM never mistakes a partial result for a complete one.
func (h *handlers) getNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, done, res := h.acquire()
	if res != nil {
		return res, nil
	}
	defer done()

	owner, res := h.ownerOf(req)
	if res != nil {
		return res, nil
	}
	refs := getStrings(req, "refs")
	if len(refs) == 0 {
		// Accept a lone "ref" too; LLMs reach for the singular.
		if ref := getString(req, "ref", ""); ref != "" {
			refs = []string{ref}
		}
	}
	if len(refs) == 0 {
		return mcp.NewToolResultError("refs is required"), nil
	}

	out := make([]store.NoteJSON, 0, len(refs))
	for _, ref := range refs {
		n, err := svc.Get(ctx, owner, ref)
		log.Event("mcp:get", "get").Owner(owner).Note(ref).Write(err)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", ref, err)), nil
		}
		out = append(out, n.ToJSON(true))
	}

	if len(out) == 1 {
		return jsonResult(out[0])
	}
	return jsonResult(out)
}

// listNotes handles pim_list tool calls.
func (h *handlers) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc, done, res := h.acquire()
	if res != nil {
		return res, nil
	}
	defer done()

	owner, res := h.ownerOf(req)
	if res != nil {
		return res, nil
	}
	tag := getString(req, "tag", "")

	list, err := svc.List(ctx, owner)

	out := make([]store.NoteJSON, 0, len(list))
	for i := range list {
		if tag != "" && !list[i].HasTag(tag) {
			continue
		}
		out = append(out, list[i].ToJSON(false))
	}

	log.Event("mcp:list", "list").Owner(owner).Detail("tag", tag).Detail("count", len(out)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(out)
}

// updateTitle handles pim_update_title tool calls.
func (h *handlers) updateTitle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required"), nil //nolint:nilerr
	}

	n, err := svc.UpdateTitle(ctx, owner, ref, title)

	log.Event("mcp:update_title", "update_title").Owner(owner).Note(ref).Detail("title", title).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(n.ToJSON(false))
}

// updateBody handles pim_update_body tool calls.
func (h *handlers) updateBody(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	body, err := req.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError("body is required"), nil //nolint:nilerr
	}

	n, d, err := svc.UpdateBody(ctx, owner, ref, body)

	log.Event("mcp:update_body", "update_body").Owner(owner).Note(ref).Detail("bytes", len(body)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(struct {
		Note store.NoteJSON `json:"note"`
		Diff diff.Body      `json:"diff"`
	}{n.ToJSON(false), d})
}

// deleteNote handles pim_delete tool calls.
func (h *handlers) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	ok, err := svc.Delete(ctx, owner, ref)

	log.Event("mcp:delete", "delete").Owner(owner).Note(ref).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"deleted": ok, "ref": ref})
}

// readNote handles pim://notes/{owner}/{ref} resource requests.
func (h *handlers) readNote(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	owner, ref, err := parseNoteURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.svc == nil {
		return nil, errNotInitialised
	}

	n, err := h.svc.Get(ctx, owner, ref)
	log.Event("mcp:resource", "get").Owner(owner).Note(ref).Write(err)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     n.Body,
		},
	}, nil
}
