package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteOut struct {
	ID        string   `json:"id"`
	DisplayID int64    `json:"display_id"`
	Owner     string   `json:"owner"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags"`
}

type hitOut struct {
	ID        string `json:"id"`
	DisplayID int64  `json:"display_id"`
	Title     string `json:"title"`
	Score     int    `json:"score"`
	Snippet   string `json:"snippet"`
}

func TestInit(t *testing.T) {
	env := newBareEnv(t)

	out := env.run("init")
	env.contains(out, "Initialised pim store (sqlite)")
	assert.FileExists(t, filepath.Join(env.dir, ".pim", "pim.db"))
	assert.FileExists(t, filepath.Join(env.dir, ".pim", ".gitignore"))

	out, err := env.runErr("init")
	require.Error(t, err)
	env.contains(out, "already exists")

	env.run("new", "Keep", "-b", "x")
	env.run("init", "--force")
	var list []noteOut
	env.runJSON(&list, "ls")
	assert.Empty(t, list, "force reinitialises an empty store")
}

func TestInit_LocalWithDir(t *testing.T) {
	env := newBareEnv(t)
	out, err := env.runErr("init", "--local", "--dir", t.TempDir())
	require.Error(t, err)
	env.contains(out, "cannot use --local with --dir")
}

func TestInit_Dir(t *testing.T) {
	env := newBareEnv(t)
	other := t.TempDir()

	env.run("init", "--dir", other)
	assert.FileExists(t, filepath.Join(other, ".pim", "pim.db"))

	env.run("new", "Elsewhere", "-b", "x", "--dir", other)
	out := env.run("ls", "--dir", other)
	env.contains(out, "Elsewhere")
}

func TestNotInitialised(t *testing.T) {
	env := newBareEnv(t)
	out, err := env.runErr("ls")
	require.Error(t, err)
	env.contains(out, "not initialised")
}

func TestOwnerRequired(t *testing.T) {
	env := newTestEnv(t).as("")
	out, err := env.runErr("ls")
	require.Error(t, err)
	env.contains(out, "owner not configured")

	// --owner satisfies the requirement
	env.run("ls", "--owner", "carol")
}

func TestNewAndShow(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("new", "Groceries", "-b", "eggs, milk", "-t", "shopping")
	env.equals(out, "Created #1 Groceries")

	out = env.runStdin("line one\nline two\n", "new", "Piped")
	env.equals(out, "Created #2 Piped")

	out = env.run("show", "2")
	env.contains(out, "#2  Piped")
	env.contains(out, "line one\nline two")

	var n noteOut
	env.runJSON(&n, "show", "#1")
	assert.Equal(t, int64(1), n.DisplayID)
	assert.Equal(t, "alice", n.Owner)
	assert.Equal(t, "eggs, milk", n.Body)
	assert.Equal(t, []string{"shopping"}, n.Tags)

	// UUID refs work too
	out = env.run("show", n.ID)
	env.contains(out, "Groceries")

	var many []noteOut
	env.runJSON(&many, "show", "1", "2")
	assert.Len(t, many, 2)
}

func TestNew_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.runErr("new", "   ", "-b", "x")
	require.Error(t, err)

	_, err = env.runErr("new", "Empty", "-b", "  ")
	require.Error(t, err)

	// The editor empty-document marker counts as a body
	env.run("new", "Editor", "-b", "<p><br></p>")
}

func TestTitleUniqueness(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "Groceries", "-b", "x")

	out, err := env.runErr("new", "GROCERIES", "-b", "y")
	require.Error(t, err)
	env.contains(out, "title already in use")

	// Another owner may reuse the title
	env.as("bob").run("new", "Groceries", "-b", "z")
}

func TestDisplayIDsPerOwner(t *testing.T) {
	env := newTestEnv(t)
	bob := env.as("bob")

	env.run("new", "A1", "-b", "x")
	env.run("new", "A2", "-b", "x")
	out := bob.run("new", "B1", "-b", "x")
	env.equals(out, "Created #1 B1")

	// Bob's #1 is his own note, not Alice's
	var n noteOut
	bob.runJSON(&n, "show", "1")
	assert.Equal(t, "B1", n.Title)

	var alice noteOut
	env.runJSON(&alice, "show", "1")

	out, err := bob.runErr("show", alice.ID)
	require.Error(t, err)
	env.contains(out, "permission denied")

	_, err = bob.runErr("rm", alice.ID)
	require.Error(t, err)
	env.run("show", alice.ID)
}

func TestUpdate(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "Groceries", "-b", "eggs")
	env.run("new", "Chores", "-b", "sweep")

	out := env.run("title", "1", "Shopping")
	env.equals(out, "Renamed #1 to Shopping")

	_, err := env.runErr("title", "1", "chores")
	require.Error(t, err)

	out = env.run("body", "1", "-b", "flour")
	env.contains(out, "- eggs")
	env.contains(out, "+ flour")

	out = env.runStdin("flour", "body", "1")
	env.contains(out, "No changes to #1")

	var n noteOut
	env.runJSON(&n, "show", "1")
	assert.Equal(t, "Shopping", n.Title)
	assert.Equal(t, "flour", n.Body)
}

func TestTags(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "Groceries", "-b", "x", "-t", "home")
	env.run("new", "Report", "-b", "y")

	out := env.run("tag", "add", "1", "shopping", "home")
	env.equals(out, "#1 tags: [home, shopping]")

	out = env.run("tag", "rm", "1", "home", "absent")
	env.equals(out, "#1 tags: [shopping]")

	env.run("tag", "add", "2", "work")
	out = env.run("tag", "ls")
	env.equals(out, "shopping\nwork")

	var list []noteOut
	env.runJSON(&list, "ls", "-t", "work")
	require.Len(t, list, 1)
	assert.Equal(t, "Report", list[0].Title)

	_, err := env.runErr("tag", "add", "1", "a,b")
	require.Error(t, err)
}

func TestLs(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "First", "-b", "x")
	env.run("new", "Second", "-b", "y", "-t", "b", "-t", "a")

	out := env.run("ls")
	env.equals(out, "#2  Second  [a, b]\n#1  First")

	var list []noteOut
	env.runJSON(&list, "ls", "--since", "1d")
	assert.Len(t, list, 2)

	_, err := env.runErr("ls", "--since", "soon")
	require.Error(t, err)

	out = env.run("ls", "-l")
	env.contains(out, "TITLE")
	env.contains(out, "Second")
}

func TestRm(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "Gone", "-b", "x")

	out := env.run("rm", "1")
	env.equals(out, "Deleted 1")

	// Deleting again succeeds
	env.run("rm", "1")

	_, err := env.runErr("show", "1")
	require.Error(t, err)

	// Display numbers are allocated from the current maximum
	out = env.run("new", "Next", "-b", "y")
	env.equals(out, "Created #1 Next")
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "A Quick Brown Fox", "-b", "The fox is a clever animal.")
	env.run("new", "Python notes", "-b", "search engines in python")
	env.run("new", "Python only", "-b", "nothing else here")
	env.run("new", "Another Clever Story", "-b", "This story is about a clever fox.")

	var hits []hitOut
	env.runJSON(&hits, "search", "clever")
	require.Len(t, hits, 2)
	assert.Equal(t, "Another Clever Story", hits[0].Title)
	assert.Equal(t, 7, hits[0].Score)
	assert.Equal(t, "A Quick Brown Fox", hits[1].Title)
	assert.Equal(t, 2, hits[1].Score)

	env.runJSON(&hits, "search", "python", "search")
	require.Len(t, hits, 1)
	assert.Equal(t, "Python notes", hits[0].Title)

	env.runJSON(&hits, "search", `"clever fox"`)
	require.Len(t, hits, 1)
	assert.Equal(t, "Another Clever Story", hits[0].Title)

	env.runJSON(&hits, "search")
	require.Len(t, hits, 4)
	for i, want := range []int64{4, 3, 2, 1} {
		assert.Equal(t, want, hits[i].DisplayID)
		assert.Zero(t, hits[i].Score)
	}

	env.runJSON(&hits, "search", "-n", "1", "python")
	assert.Len(t, hits, 1)

	out := env.run("search", "zebra")
	env.equals(out, "No matches")

	out = env.run("search", "clever")
	env.contains(out, "#4")
	env.contains(out, "Another Clever Story")
}

func TestSearch_OwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	env.run("new", "Secret", "-b", "clever plan")

	var hits []hitOut
	env.as("bob").runJSON(&hits, "search", "clever")
	assert.Empty(t, hits)
}

func TestImportExport(t *testing.T) {
	env := newTestEnv(t)
	src := filepath.Join(env.dir, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "plain.md"), []byte("just text\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "x.md"),
		[]byte("---\ntitle: Fancy\ntags: [a, b]\n---\nbody here\n"), 0644))

	out := env.run("import", src, "--dry-run")
	env.contains(out, "plain")
	var list []noteOut
	env.runJSON(&list, "ls")
	assert.Empty(t, list)

	env.run("import", src, "-t", "imported")
	env.runJSON(&list, "ls")
	require.Len(t, list, 2)

	var fancy *noteOut
	for i := range list {
		if list[i].Title == "Fancy" {
			fancy = &list[i]
		}
	}
	require.NotNil(t, fancy, "title taken from frontmatter")
	assert.Equal(t, []string{"a", "b", "imported"}, fancy.Tags)

	var n noteOut
	env.runJSON(&n, "show", fancy.ID)
	assert.Contains(t, n.Body, "body here")
	assert.NotContains(t, n.Body, "title:")

	// Re-import skips existing titles
	out = env.run("import", src)
	env.contains(out, "Skipped")

	dst := filepath.Join(env.dir, "out")
	env.run("export", dst)
	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = env.runErr("export", dst)
	require.Error(t, err)
	env.run("export", dst, "--force")

	// Exported files import cleanly for another owner
	bob := env.as("bob")
	bob.run("import", dst)
	bob.runJSON(&list, "ls")
	assert.Len(t, list, 2)
}

func TestConfig(t *testing.T) {
	env := newTestEnv(t).as("")

	out := env.run("config", "owner", "dave")
	env.equals(out, "owner = dave (global)")

	out = env.run("config", "owner")
	env.equals(out, "dave")

	out = env.run("new", "Via config", "-b", "x")
	env.equals(out, "Created #1 Via config")

	var n noteOut
	env.runJSON(&n, "show", "1")
	assert.Equal(t, "dave", n.Owner)

	_, err := env.runErr("config", "search.limit", "zero")
	require.Error(t, err)

	_, err = env.runErr("config", "nope")
	require.Error(t, err)

	out = env.run("config")
	env.contains(out, "search.limit: ")
}

func TestJSONErrors(t *testing.T) {
	env := newTestEnv(t)
	var e map[string]string
	env.runJSON(&e, "show", "9")
	assert.Contains(t, e["error"], "not found")
}

func TestBadgerBackend(t *testing.T) {
	env := newBareEnv(t)

	out := env.run("init", "--backend", "badger")
	env.contains(out, "(badger)")
	assert.DirExists(t, filepath.Join(env.dir, ".pim", "pim.badger"))

	env.run("new", "A Quick Brown Fox", "-b", "The fox is a clever animal.")
	env.run("new", "Another Clever Story", "-b", "This story is about a clever fox.")

	var hits []hitOut
	env.runJSON(&hits, "search", "clever")
	require.Len(t, hits, 2)
	assert.Equal(t, int64(2), hits[0].DisplayID)

	_, err := env.runErr("new", "another clever story", "-b", "dup")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	env := newBareEnv(t)
	out := env.run("version")
	env.contains(out, "Go Version")

	var info map[string]any
	env.runJSON(&info, "version")
	assert.NotEmpty(t, info)
}

func TestVacuum(t *testing.T) {
	for _, backend := range []string{"sqlite", "badger"} {
		t.Run(backend, func(t *testing.T) {
			env := newBareEnv(t)
			env.run("init", "--backend", backend)
			env.run("new", "Gone", "-b", "x")
			env.run("rm", "1")

			out := env.run("vacuum")
			env.contains(out, "Vacuumed")

			var res map[string]int64
			env.runJSON(&res, "vacuum")
			assert.Contains(t, res, "before")
		})
	}
}

func TestRootHelp(t *testing.T) {
	env := newBareEnv(t)
	out := env.run()
	env.contains(out, "Usage:")

	_, err := env.runErr("ls", "-o", "yaml")
	require.Error(t, err)
}
