package repo_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jpl-au/pim/internal/config"
	"github.com/jpl-au/pim/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDiscover_SQLite(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(repo.EnvDir, "")

	loc, err := repo.Init(false, "", false, "")
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, loc.Backend)
	assert.FileExists(t, filepath.Join(repo.Dir, repo.SQLiteFile))
	assert.FileExists(t, filepath.Join(repo.Dir, ".gitignore"))

	// Discovery walks up from a nested directory.
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	found, err := repo.Discover("")
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, found.Backend)
	assert.Equal(t, repo.SQLiteFile, filepath.Base(found.Path))

	_, err = repo.Discover(config.BackendBadger)
	assert.ErrorIs(t, err, repo.ErrNotInitialised)
}

func TestInit_Badger(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(repo.EnvDir, "")

	_, err := repo.Init(false, config.BackendBadger, false, "")
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(repo.Dir, repo.BadgerDir))

	loc, err := repo.Discover("")
	require.NoError(t, err)
	assert.Equal(t, config.BackendBadger, loc.Backend)

	s, err := repo.Open(loc)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestInit_ExistingNeedsForce(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(repo.EnvDir, "")

	_, err := repo.Init(false, "", false, "")
	require.NoError(t, err)
	_, err = repo.Init(false, "", false, "")
	assert.ErrorContains(t, err, "already exists")
	_, err = repo.Init(true, "", false, "")
	assert.NoError(t, err)
}

func TestInit_UnknownBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := repo.Init(false, "postgres", false, "")
	assert.ErrorIs(t, err, repo.ErrUnknownBackend)
}

func TestDiscover_EnvDir(t *testing.T) {
	dir := t.TempDir()
	_, err := repo.Init(false, "", false, dir)
	require.NoError(t, err)

	t.Chdir(t.TempDir())
	t.Setenv(repo.EnvDir, dir)
	loc, err := repo.Discover("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, repo.Dir), loc.Root)
}

func TestLocalStoreGitignore(t *testing.T) {
	dir := t.TempDir()
	loc, err := repo.Init(false, "", true, dir)
	require.NoError(t, err)

	ignored, err := repo.IsIgnored("", loc.Root)
	require.NoError(t, err)
	assert.True(t, ignored)

	// Idempotent.
	require.NoError(t, repo.IgnoreStore("", loc.Root))
	data, err := os.ReadFile(filepath.Join(loc.Root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, 1, countLines(string(data), repo.SQLiteFile))

	require.NoError(t, repo.UnignoreStore("", loc.Root))
	ignored, err = repo.IsIgnored("", loc.Root)
	require.NoError(t, err)
	assert.False(t, ignored)

	data, err = os.ReadFile(filepath.Join(loc.Root, ".gitignore"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Local stores")
}

func countLines(s, line string) int {
	n := 0
	for _, l := range strings.Split(s, "\n") {
		if l == line {
			n++
		}
	}
	return n
}
