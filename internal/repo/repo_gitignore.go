// repo_gitignore.go manages .gitignore entries for local vs shared stores.
//
// Separated from repo.go to isolate gitignore manipulation. A store marked
// local is listed in .pim/.gitignore under a header comment; existing
// content and formatting are preserved.

package repo

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const localStoreHeader = "# Local stores (not committed)"

// parseGitignore reads a gitignore file and returns its lines (trimmed).
func parseGitignore(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines, nil
}

// resolveDir returns dir, or the discovered .pim directory when dir is empty.
func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return DiscoverDir()
}

// IgnoreStore adds a backend's store to the gitignore (marks as local).
func IgnoreStore(backend, dir string) error {
	dir, err := resolveDir(dir)
	if err != nil {
		return err
	}
	name, err := StoreName(backend)
	if err != nil {
		return err
	}
	gitignore := filepath.Join(dir, ".gitignore")

	lines, err := parseGitignore(gitignore)
	if err != nil {
		return err
	}
	if slices.Contains(lines, name) {
		return nil
	}

	content, err := os.ReadFile(gitignore)
	if err != nil {
		return err
	}
	s := string(content)
	if !slices.Contains(lines, localStoreHeader) {
		s += "\n" + localStoreHeader + "\n"
	}
	s += name + "\n"
	return os.WriteFile(gitignore, []byte(s), 0644)
}

// UnignoreStore removes a backend's store from the gitignore (marks as shared).
func UnignoreStore(backend, dir string) error {
	dir, err := resolveDir(dir)
	if err != nil {
		return err
	}
	name, err := StoreName(backend)
	if err != nil {
		return err
	}
	gitignore := filepath.Join(dir, ".gitignore")

	content, err := os.ReadFile(gitignore)
	if err != nil {
		return err
	}

	var out []string
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) != name {
			out = append(out, line)
		}
	}

	// Drop the header when no store entries remain after it.
	result := strings.Join(out, "\n")
	if idx := strings.Index(result, localStoreHeader); idx != -1 {
		rest := strings.TrimSpace(result[idx+len(localStoreHeader):])
		if rest == "" || (!strings.Contains(rest, SQLiteFile) && !strings.Contains(rest, BadgerDir)) {
			result = strings.TrimSuffix(result[:idx], "\n") + "\n"
		}
	}
	return os.WriteFile(gitignore, []byte(result), 0644)
}

// IsIgnored checks if a backend's store is in the gitignore.
func IsIgnored(backend, dir string) (bool, error) {
	dir, err := resolveDir(dir)
	if err != nil {
		return false, err
	}
	name, err := StoreName(backend)
	if err != nil {
		return false, err
	}
	lines, err := parseGitignore(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return false, err
	}
	return slices.Contains(lines, name), nil
}
