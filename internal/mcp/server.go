// Package mcp implements the Model Context Protocol server, exposing pim
// note operations to LLMs. This enables AI assistants to create, read,
// search and manage an owner's notes through a standardised protocol.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/jpl-au/pim/internal/notes"
	"github.com/jpl-au/pim/internal/repo"
	"github.com/jpl-au/pim/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// ErrNotInitialised is returned by tools when the store has not been initialised.
// The LLM should call pim_init to create a store before using other tools.
const ErrNotInitialised = "store not initialised - call pim_init first"

// Serve starts the MCP server over stdio, enabling LLM integration.
// owner is used for tool calls that do not name one; backend forces a
// store engine as for the CLI's --backend flag.
//
// The server starts successfully even if no store exists, so an LLM can
// call pim_init rather than failing with an opaque error.
func Serve(backend, owner string) error {
	// Log to stderr; stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	h := &handlers{backend: backend, owner: owner}

	// Try to open existing store; nil service is OK (uninitialised mode)
	svc, err := notes.New(backend)
	if err != nil && !errors.Is(err, repo.ErrNotInitialised) {
		slog.Error("failed to open store", "error", err)
		return err
	}
	if err == nil {
		h.svc = svc
		defer h.close()
	} else {
		slog.Info("pim not initialised, starting in uninitialised mode - call pim_init to create store")
	}

	s := newServer(h)

	slog.Info("pim MCP server ready", "version", Version, "transport", "stdio", "owner", owner)

	err = server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// newServer builds the MCP server with every resource and tool registered.
func newServer(h *handlers) *server.MCPServer {
	s := server.NewMCPServer(
		"pim",
		Version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)
	registerResources(s, h)
	registerTools(s, h)
	return s
}

// handlers provides MCP request handlers with access to the note service.
// svc is nil until the store is initialised and is replaced when config
// changes, so access goes through acquire.
type handlers struct {
	backend string // store engine for init and reopen
	owner   string // default owner

	mu  sync.RWMutex
	svc service.Service
}

// acquire returns the current service and a release func, or an error
// result if the store is not initialised. The service stays valid until
// release is called.
func (h *handlers) acquire() (service.Service, func(), *mcp.CallToolResult) {
	h.mu.RLock()
	if h.svc == nil {
		h.mu.RUnlock()
		return nil, nil, mcp.NewToolResultError(ErrNotInitialised)
	}
	return h.svc, h.mu.RUnlock, nil
}

// reopen replaces the service with a freshly opened one so config
// changes take effect without a restart.
func (h *handlers) reopen() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	svc, err := notes.New(h.backend)
	if err != nil {
		return err
	}
	if h.svc != nil {
		h.svc.Close()
	}
	h.svc = svc
	return nil
}

func (h *handlers) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.svc != nil {
		h.svc.Close()
		h.svc = nil
	}
}

// ownerOf returns the owner named in the request or the server default.
func (h *handlers) ownerOf(req mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	owner := getString(req, "owner", h.owner)
	if owner == "" {
		return "", mcp.NewToolResultError("owner is required: pass owner or set it with 'pim config owner <name>'")
	}
	return owner, nil
}

// registerResources adds URI-based resource access for direct note reading.
func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"pim://notes/{owner}/{ref}",
			"Note",
			mcp.WithTemplateDescription("Read a note's body by owner and number or id"),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		h.readNote,
	)
}

// stringArray declares an array-of-strings tool parameter.
func stringArray(name, desc string, opts ...mcp.PropertyOption) mcp.ToolOption {
	opts = append([]mcp.PropertyOption{
		mcp.Description(desc),
		mcp.Items(map[string]any{"type": "string"}),
	}, opts...)
	return mcp.WithArray(name, opts...)
}

// ownerParam is shared by every tool that acts for an owner.
var ownerParam = mcp.WithString("owner", mcp.Description("Owner to act as (default: the server's configured owner)"))

// refDesc describes the ref parameter accepted by single-note tools.
const refDesc = "Note number (e.g. 3 or #3) or UUID"

// registerTools exposes pim operations as MCP tools for LLM invocation.
func registerTools(s *server.MCPServer, h *handlers) {
	// Init - works without existing store
	s.AddTool(
		mcp.NewTool("pim_init",
			mcp.WithDescription("Initialise a new pim note store. Call this first if other tools return 'store not initialised'."),
			mcp.WithBoolean("local", mcp.Description("If true, the store is gitignored (not committed to version control)")),
		),
		h.initStore,
	)

	s.AddTool(
		mcp.NewTool("pim_create",
			mcp.WithDescription("Create a note. Titles are unique per owner, ignoring case."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
			mcp.WithString("body", mcp.Required(), mcp.Description("Note body")),
			stringArray("tags", "Tags (no commas)"),
			ownerParam,
		),
		h.createNote,
	)

	s.AddTool(
		mcp.NewTool("pim_get",
			mcp.WithDescription("Read one or more notes"),
			stringArray("refs", "Note numbers (e.g. 3 or #3) or UUIDs", mcp.Required()),
			ownerParam,
		),
		h.getNotes,
	)

	s.AddTool(
		mcp.NewTool("pim_list",
			mcp.WithDescription("List an owner's notes, most recently created first. Bodies are omitted."),
			mcp.WithString("tag", mcp.Description("Only notes carrying this tag")),
			ownerParam,
		),
		h.listNotes,
	)

	s.AddTool(
		mcp.NewTool("pim_search",
			mcp.WithDescription("Search notes. Every keyword must match; wrap exact phrases in double quotes. An empty query lists the most recent notes."),
			mcp.WithString("query", mcp.Description("Search query, e.g. chicken \"free range\"")),
			mcp.WithNumber("limit", mcp.Description("Maximum results (default: configured search.limit)")),
			ownerParam,
		),
		h.searchNotes,
	)

	s.AddTool(
		mcp.NewTool("pim_update_title",
			mcp.WithDescription("Rename a note"),
			mcp.WithString("ref", mcp.Required(), mcp.Description(refDesc)),
			mcp.WithString("title", mcp.Required(), mcp.Description("New title")),
			ownerParam,
		),
		h.updateTitle,
	)

	s.AddTool(
		mcp.NewTool("pim_update_body",
			mcp.WithDescription("Replace a note's body. Returns a diff of the change."),
			mcp.WithString("ref", mcp.Required(), mcp.Description(refDesc)),
			mcp.WithString("body", mcp.Required(), mcp.Description("New body")),
			ownerParam,
		),
		h.updateBody,
	)

	s.AddTool(
		mcp.NewTool("pim_tag_add",
			mcp.WithDescription("Add tags to a note"),
			mcp.WithString("ref", mcp.Required(), mcp.Description(refDesc)),
			stringArray("tags", "Tags to add", mcp.Required()),
			ownerParam,
		),
		h.tagAdd,
	)

	s.AddTool(
		mcp.NewTool("pim_tag_remove",
			mcp.WithDescription("Remove tags from a note. Tags the note does not carry are ignored."),
			mcp.WithString("ref", mcp.Required(), mcp.Description(refDesc)),
			stringArray("tags", "Tags to remove", mcp.Required()),
			ownerParam,
		),
		h.tagRemove,
	)

	s.AddTool(
		mcp.NewTool("pim_tags",
			mcp.WithDescription("List the distinct tags across an owner's notes"),
			ownerParam,
		),
		h.listTags,
	)

	s.AddTool(
		mcp.NewTool("pim_delete",
			mcp.WithDescription("Permanently delete a note. Deleting a note that does not exist succeeds."),
			mcp.WithString("ref", mcp.Required(), mcp.Description(refDesc)),
			ownerParam,
		),
		h.deleteNote,
	)

	s.AddTool(
		mcp.NewTool("pim_config_get",
			mcp.WithDescription("Get a configuration value, or all values if key is omitted"),
			mcp.WithString("key", mcp.Description("Config key (e.g. search.limit)")),
		),
		h.configGet,
	)

	s.AddTool(
		mcp.NewTool("pim_config_set",
			mcp.WithDescription("Set a configuration value"),
			mcp.WithString("key", mcp.Required(), mcp.Description("Config key")),
			mcp.WithString("value", mcp.Required(), mcp.Description("New value")),
			mcp.WithBoolean("local", mcp.Description("Write to the repository config instead of the global one")),
		),
		h.configSet,
	)

	s.AddTool(
		mcp.NewTool("pim_import",
			mcp.WithDescription("Import markdown files as notes. Frontmatter title and tags are honoured."),
			mcp.WithString("path", mcp.Required(), mcp.Description("File or directory to import")),
			mcp.WithString("pattern", mcp.Description("Glob within a directory (default **/*.md)")),
			stringArray("tags", "Extra tags for every imported note"),
			mcp.WithBoolean("hidden", mcp.Description("Include hidden files/directories")),
			mcp.WithBoolean("dry_run", mcp.Description("Show what would be imported without importing")),
			ownerParam,
		),
		h.importFiles,
	)

	s.AddTool(
		mcp.NewTool("pim_export",
			mcp.WithDescription("Export notes to markdown files with YAML frontmatter"),
			mcp.WithString("dest", mcp.Required(), mcp.Description("Destination directory")),
			stringArray("refs", "Notes to export (default: all)"),
			mcp.WithBoolean("force", mcp.Description("Overwrite existing files")),
			ownerParam,
		),
		h.exportFiles,
	)
}
