package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/jpl-au/pim/internal/kv"
	"github.com/jpl-au/pim/internal/notes"
	"github.com/jpl-au/pim/internal/search"
	"github.com/jpl-au/pim/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newHandlers returns handlers over an in-memory store acting as alice.
func newHandlers(t *testing.T) *handlers {
	t.Helper()
	t.Setenv("HOME", t.TempDir()) // keep the audit log out of the real home

	s, err := kv.Open("", true)
	require.NoError(t, err)
	svc, err := notes.NewWithStore(s, nil)
	require.NoError(t, err)

	h := &handlers{owner: "alice", svc: svc}
	t.Cleanup(h.close)
	return h
}

func call(t *testing.T, fn func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := fn(context.Background(), req)
	require.NoError(t, err, "tool errors are reported in the result")
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func decode[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, res.IsError, text(t, res))
	var v T
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &v))
	return v
}

func TestNotInitialised(t *testing.T) {
	h := &handlers{owner: "alice"}
	res := call(t, h.searchNotes, map[string]any{"query": "x"})
	assert.True(t, res.IsError)
	assert.Equal(t, ErrNotInitialised, text(t, res))
}

func TestOwnerRequired(t *testing.T) {
	h := newHandlers(t)
	h.owner = ""
	res := call(t, h.listNotes, map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "owner is required")
}

func TestCreateGetSearch(t *testing.T) {
	h := newHandlers(t)

	created := decode[store.NoteJSON](t, call(t, h.createNote, map[string]any{
		"title": "Free range",
		"body":  "chicken eggs from the farm",
		"tags":  []any{"food", 3},
	}))
	assert.Equal(t, int64(1), created.DisplayID)
	assert.Equal(t, []string{"food"}, created.Tags)

	got := decode[store.NoteJSON](t, call(t, h.getNotes, map[string]any{"refs": []any{"#1"}}))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "chicken eggs from the farm", got.Body)

	// Singular ref is accepted as well.
	got = decode[store.NoteJSON](t, call(t, h.getNotes, map[string]any{"ref": "1"}))
	assert.Equal(t, created.ID, got.ID)

	hits := decode[[]search.Hit](t, call(t, h.searchNotes, map[string]any{"query": `chicken "free range"`}))
	require.Len(t, hits, 1)
	assert.Equal(t, 2+20, hits[0].Score)

	hits = decode[[]search.Hit](t, call(t, h.searchNotes, map[string]any{"query": "absent"}))
	assert.Empty(t, hits)

	// Another owner sees nothing.
	hits = decode[[]search.Hit](t, call(t, h.searchNotes, map[string]any{"query": "chicken", "owner": "bob"}))
	assert.Empty(t, hits)
	res := call(t, h.getNotes, map[string]any{"refs": []any{created.ID}, "owner": "bob"})
	assert.True(t, res.IsError)
}

func TestCreateConflict(t *testing.T) {
	h := newHandlers(t)
	call(t, h.createNote, map[string]any{"title": "Same", "body": "a"})
	res := call(t, h.createNote, map[string]any{"title": "SAME", "body": "b"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), store.ErrConflict.Error())

	res = call(t, h.createNote, map[string]any{"title": "Missing body"})
	assert.True(t, res.IsError)
}

func TestUpdatesAndDelete(t *testing.T) {
	h := newHandlers(t)
	call(t, h.createNote, map[string]any{"title": "Draft", "body": "one"})

	n := decode[store.NoteJSON](t, call(t, h.updateTitle, map[string]any{"ref": "1", "title": "Final"}))
	assert.Equal(t, "Final", n.Title)

	upd := decode[struct {
		Note store.NoteJSON `json:"note"`
		Diff struct {
			Diff string `json:"diff"`
		} `json:"diff"`
	}](t, call(t, h.updateBody, map[string]any{"ref": "1", "body": "xyz"}))
	assert.Contains(t, upd.Diff.Diff, "+ xyz")

	n = decode[store.NoteJSON](t, call(t, h.tagAdd, map[string]any{"ref": "1", "tags": []any{"b", "a"}}))
	assert.Equal(t, []string{"a", "b"}, n.Tags)
	n = decode[store.NoteJSON](t, call(t, h.tagRemove, map[string]any{"ref": "1", "tags": []any{"a"}}))
	assert.Equal(t, []string{"b"}, n.Tags)
	assert.Equal(t, []string{"b"}, decode[[]string](t, call(t, h.listTags, map[string]any{})))

	listed := decode[[]store.NoteJSON](t, call(t, h.listNotes, map[string]any{"tag": "b"}))
	require.Len(t, listed, 1)
	assert.Empty(t, listed[0].Body, "list omits bodies")
	assert.Empty(t, decode[[]store.NoteJSON](t, call(t, h.listNotes, map[string]any{"tag": "zzz"})))

	res := call(t, h.deleteNote, map[string]any{"ref": "1", "owner": "bob"})
	assert.False(t, res.IsError, "bob's #1 does not exist, so there is nothing to refuse")

	del := decode[map[string]any](t, call(t, h.deleteNote, map[string]any{"ref": "1"}))
	assert.Equal(t, true, del["deleted"])
	res = call(t, h.getNotes, map[string]any{"refs": []any{"1"}})
	assert.True(t, res.IsError)
}

func TestImportExport(t *testing.T) {
	h := newHandlers(t)
	call(t, h.createNote, map[string]any{"title": "One", "body": "first"})

	dir := filepath.Join(t.TempDir(), "out")
	out := decode[map[string]any](t, call(t, h.exportFiles, map[string]any{"dest": dir}))
	assert.Equal(t, float64(1), out["exported"])

	in := decode[map[string]any](t, call(t, h.importFiles, map[string]any{"path": dir, "owner": "bob"}))
	assert.Equal(t, float64(1), in["imported"])

	hits := decode[[]search.Hit](t, call(t, h.searchNotes, map[string]any{"query": "first", "owner": "bob"}))
	require.Len(t, hits, 1)
	assert.Equal(t, "One", hits[0].Title)
}

func TestReadNoteResource(t *testing.T) {
	h := newHandlers(t)
	call(t, h.createNote, map[string]any{"title": "Res", "body": "resource body"})

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "pim://notes/alice/1"
	contents, err := h.readNote(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, "resource body", contents[0].(mcp.TextResourceContents).Text)

	req.Params.URI = "pim://notes/bob/1"
	_, err = h.readNote(context.Background(), req)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestParseNoteURI(t *testing.T) {
	owner, ref, err := parseNoteURI("pim://notes/a%2Fb/%233")
	require.NoError(t, err)
	assert.Equal(t, "a/b", owner)
	assert.Equal(t, "#3", ref)

	_, _, err = parseNoteURI("https://example.com/x")
	assert.ErrorIs(t, err, ErrInvalidURI)
	_, _, err = parseNoteURI("pim://notes/alice")
	assert.ErrorIs(t, err, ErrEmptyRef)
	_, _, err = parseNoteURI("pim://notes/alice/")
	assert.ErrorIs(t, err, ErrEmptyRef)
}

func TestGetInt(t *testing.T) {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"a": float64(3), "b": "7", "c": "x"}
	assert.Equal(t, 3, getInt(req, "a", 0))
	assert.Equal(t, 7, getInt(req, "b", 0))
	assert.Equal(t, 9, getInt(req, "c", 9))
	assert.Equal(t, 9, getInt(req, "missing", 9))
}

func TestNewServer(t *testing.T) {
	h := newHandlers(t)
	assert.NotNil(t, newServer(h))
}
