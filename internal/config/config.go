// Package config provides reading and writing of pim configuration.
// Supports both global (~/.pim/config.yaml) and local (.pim/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.pim/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is repository-specific config in .pim/config.yaml
	ScopeLocal
)

// Backends accepted by store.backend.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Store holds storage engine options.
type Store struct {
	Backend string `yaml:"backend,omitempty"`
}

// Search holds search tuning options.
type Search struct {
	Limit   *int `yaml:"limit,omitempty"`
	Snippet *int `yaml:"snippet,omitempty"`
}

// Limits holds note field size limits.
type Limits struct {
	MaxTitle *int   `yaml:"max_title,omitempty"`
	MaxBody  *int64 `yaml:"max_body,omitempty"`
	MaxTag   *int   `yaml:"max_tag,omitempty"`
}

// Defaults applied when not configured.
const (
	DefaultBackend  = BackendSQLite
	DefaultLimit    = 20
	DefaultSnippet  = 120
	DefaultMaxTitle = 512
	DefaultMaxBody  = 10 * 1024 * 1024 // 10 MB
	DefaultMaxTag   = 64
)

// Validation bounds for configuration values.
const (
	MaxSearchLimit = 10000
	MaxSnippet     = 10000
	MaxMaxTitle    = 65536
	MaxMaxBody     = 1024 * 1024 * 1024 // 1 GB
	MaxMaxTag      = 1024
)

// Config contains configuration for pim.
type Config struct {
	// Owner is the default identity notes are created and searched under.
	Owner  string `yaml:"owner,omitempty"`
	Store  Store  `yaml:"store,omitempty"`
	Search Search `yaml:"search,omitempty"`
	Limits Limits `yaml:"limits,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

func checkRange[T int | int64](key string, v *T, hi T) error {
	if v == nil {
		return nil
	}
	if *v < 1 || *v > hi {
		return fmt.Errorf("%w: %s must be between 1 and %d, got %d", ErrInvalidValue, key, hi, *v)
	}
	return nil
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "", BackendSQLite, BackendBadger:
	default:
		return fmt.Errorf("%w: store.backend must be %s or %s, got %q",
			ErrInvalidValue, BackendSQLite, BackendBadger, c.Store.Backend)
	}
	if err := checkRange("search.limit", c.Search.Limit, MaxSearchLimit); err != nil {
		return err
	}
	if err := checkRange("search.snippet", c.Search.Snippet, MaxSnippet); err != nil {
		return err
	}
	if err := checkRange("limits.max_title", c.Limits.MaxTitle, MaxMaxTitle); err != nil {
		return err
	}
	if err := checkRange("limits.max_body", c.Limits.MaxBody, MaxMaxBody); err != nil {
		return err
	}
	return checkRange("limits.max_tag", c.Limits.MaxTag, MaxMaxTag)
}

// Backend returns the configured storage engine (defaults to sqlite).
func (c *Config) Backend() string {
	if c.Store.Backend == "" {
		return DefaultBackend
	}
	return c.Store.Backend
}

// SearchLimit returns the default number of search results (defaults to 20).
func (c *Config) SearchLimit() int {
	if c.Search.Limit == nil {
		return DefaultLimit
	}
	return *c.Search.Limit
}

// SnippetLength returns the snippet length in characters (defaults to 120).
func (c *Config) SnippetLength() int {
	if c.Search.Snippet == nil {
		return DefaultSnippet
	}
	return *c.Search.Snippet
}

// MaxTitle returns the maximum title length in characters.
func (c *Config) MaxTitle() int {
	if c.Limits.MaxTitle == nil {
		return DefaultMaxTitle
	}
	return *c.Limits.MaxTitle
}

// MaxBody returns the maximum body size in bytes.
func (c *Config) MaxBody() int64 {
	if c.Limits.MaxBody == nil {
		return DefaultMaxBody
	}
	return *c.Limits.MaxBody
}

// MaxTag returns the maximum tag length in characters.
func (c *Config) MaxTag() int {
	if c.Limits.MaxTag == nil {
		return DefaultMaxTag
	}
	return *c.Limits.MaxTag
}

// LocalPath returns the path to the local (repository) config file.
func LocalPath() string {
	return filepath.Join(".pim", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.pim/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pim", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
