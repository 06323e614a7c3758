// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic used by the CLI and MCP server, where config is addressed by
// dotted keys (e.g., "search.limit").
//
// Design: Pointers are used for optional numeric fields so we can distinguish
// between "not set" (nil) and "explicitly set". Defaults only apply when the
// user hasn't set a value.

package config

import (
	"fmt"
	"slices"
	"strconv"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"owner",
		"store.backend",
		"search.limit", "search.snippet",
		"limits.max_title", "limits.max_body", "limits.max_tag",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "owner":
		return c.Owner, nil
	case "store.backend":
		return c.Backend(), nil
	case "search.limit":
		return strconv.Itoa(c.SearchLimit()), nil
	case "search.snippet":
		return strconv.Itoa(c.SnippetLength()), nil
	case "limits.max_title":
		return strconv.Itoa(c.MaxTitle()), nil
	case "limits.max_body":
		return strconv.FormatInt(c.MaxBody(), 10), nil
	case "limits.max_tag":
		return strconv.Itoa(c.MaxTag()), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// positive parses a strictly positive integer for key.
func positive(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidValue, key)
	}
	return n, nil
}

// Set sets the value of a configuration key. The result is validated as a
// whole so out-of-range values are rejected before they reach disk.
func (c *Config) Set(key, value string) error {
	next := *c
	switch key {
	case "owner":
		next.Owner = value
	case "store.backend":
		next.Store.Backend = value
	case "search.limit":
		n, err := positive(key, value)
		if err != nil {
			return err
		}
		next.Search.Limit = &n
	case "search.snippet":
		n, err := positive(key, value)
		if err != nil {
			return err
		}
		next.Search.Snippet = &n
	case "limits.max_title":
		n, err := positive(key, value)
		if err != nil {
			return err
		}
		next.Limits.MaxTitle = &n
	case "limits.max_body":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: limits.max_body must be a positive integer", ErrInvalidValue)
		}
		next.Limits.MaxBody = &n
	case "limits.max_tag":
		n, err := positive(key, value)
		if err != nil {
			return err
		}
		next.Limits.MaxTag = &n
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	out := make(map[string]string, len(ValidKeys()))
	for _, k := range ValidKeys() {
		out[k], _ = c.Get(k)
	}
	return out
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case "owner":
		return c.Owner != ""
	case "store.backend":
		return c.Store.Backend != ""
	case "search.limit":
		return c.Search.Limit != nil
	case "search.snippet":
		return c.Search.Snippet != nil
	case "limits.max_title":
		return c.Limits.MaxTitle != nil
	case "limits.max_body":
		return c.Limits.MaxBody != nil
	case "limits.max_tag":
		return c.Limits.MaxTag != nil
	default:
		return false
	}
}
