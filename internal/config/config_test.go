package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp switches to a fresh directory with HOME pointed inside it, so
// neither scope touches the real user config.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Chdir(dir)
	return dir
}

func TestDefaults(t *testing.T) {
	var c Config
	assert.Equal(t, BackendSQLite, c.Backend())
	assert.Equal(t, DefaultLimit, c.SearchLimit())
	assert.Equal(t, DefaultSnippet, c.SnippetLength())
	assert.Equal(t, DefaultMaxTitle, c.MaxTitle())
	assert.Equal(t, int64(DefaultMaxBody), c.MaxBody())
	assert.Equal(t, DefaultMaxTag, c.MaxTag())
	assert.Empty(t, c.Owner)
}

func TestSetGet(t *testing.T) {
	var c Config
	require.NoError(t, c.Set("owner", "alice"))
	require.NoError(t, c.Set("store.backend", "badger"))
	require.NoError(t, c.Set("search.limit", "5"))
	require.NoError(t, c.Set("limits.max_body", "2048"))

	for key, want := range map[string]string{
		"owner":           "alice",
		"store.backend":   "badger",
		"search.limit":    "5",
		"limits.max_body": "2048",
		"search.snippet":  "120",
	} {
		got, err := c.Get(key)
		require.NoError(t, err)
		assert.Equal(t, want, got, key)
	}

	assert.True(t, c.IsSet("search.limit"))
	assert.False(t, c.IsSet("search.snippet"))
	assert.Len(t, c.All(), len(ValidKeys()))
}

func TestSetInvalid(t *testing.T) {
	var c Config
	assert.ErrorIs(t, c.Set("store.backend", "postgres"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("search.limit", "0"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("search.limit", "abc"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("limits.max_tag", "99999"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("nope", "1"), ErrUnknownKey)
	_, err := c.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownKey)

	// Rejected values leave the config untouched.
	assert.False(t, c.IsSet("store.backend"))
	assert.False(t, c.IsSet("limits.max_tag"))
}

func TestSaveLoad_LocalWins(t *testing.T) {
	chdirTemp(t)

	global := &Config{}
	require.NoError(t, global.Set("owner", "global-user"))
	require.NoError(t, global.SaveScope(ScopeGlobal))

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "global-user", c.Owner)
	assert.Equal(t, ScopeGlobal, c.Scope())

	local := &Config{}
	require.NoError(t, local.Set("owner", "local-user"))
	require.NoError(t, local.SaveScope(ScopeLocal))

	c, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "local-user", c.Owner)
	assert.Equal(t, ScopeLocal, c.Scope())
}

func TestLoad_Malformed(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.MkdirAll(".pim", 0755))
	require.NoError(t, os.WriteFile(LocalPath(), []byte("owner: [unclosed"), 0644))

	_, err := Load()
	assert.ErrorContains(t, err, "malformed config file")
}

func TestLoad_OutOfRange(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.MkdirAll(".pim", 0755))
	require.NoError(t, os.WriteFile(LocalPath(), []byte("search:\n  limit: -3\n"), 0644))

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestLoad_Missing(t *testing.T) {
	chdirTemp(t)
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, c.SearchLimit())
}
