// The cmd/ package contains CLI integration tests that exercise the full stack:
// command parsing -> note service -> store -> SQLite or Badger.
//
// The binary is built once and run in a fresh temp directory per test with
// HOME pointed at a temp dir, so global config and the audit log never touch
// the real home directory.

package cmd

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the pim binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "pim-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "pim"
		if os.PathSeparator == '\\' {
			binaryName = "pim.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Project root is the parent of cmd/
		projectRoot := filepath.Dir(mustGetwd())

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string
	home   string
	owner  string
	binary string
}

// newTestEnv creates a temporary directory with an initialised SQLite store
// and "alice" as the owner.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newBareEnv(t)
	env.run("init")
	return env
}

// newBareEnv creates a test environment without running init.
func newBareEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		t:      t,
		dir:    t.TempDir(),
		home:   t.TempDir(),
		owner:  "alice",
		binary: buildBinary(t),
	}
}

// as returns a copy of the environment acting for another owner.
func (e *testEnv) as(owner string) *testEnv {
	c := *e
	c.owner = owner
	return &c
}

// environ is the process environment minus any pim variables inherited from
// the caller, plus this test's HOME and owner.
func (e *testEnv) environ() []string {
	var env []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "PIM_") || strings.HasPrefix(kv, "HOME=") || strings.HasPrefix(kv, "USERPROFILE=") {
			continue
		}
		env = append(env, kv)
	}
	env = append(env, "HOME="+e.home, "USERPROFILE="+e.home)
	if e.owner != "" {
		env = append(env, EnvOwner+"="+e.owner)
	}
	return env
}

// run executes pim with the given args and returns combined output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("pim %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes pim and returns output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()
	return e.runStdinErr("", args...)
}

// runStdin executes pim with stdin input.
func (e *testEnv) runStdin(input string, args ...string) string {
	e.t.Helper()
	out, err := e.runStdinErr(input, args...)
	if err != nil {
		e.t.Fatalf("pim %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runStdinErr executes pim with stdin input and returns any error.
func (e *testEnv) runStdinErr(input string, args ...string) (string, error) {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = e.environ()
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// runJSON executes pim with -o json and decodes stdout alone into v.
func (e *testEnv) runJSON(v any, args ...string) {
	e.t.Helper()
	cmd := exec.Command(e.binary, append(args, "-o", "json")...)
	cmd.Dir = e.dir
	cmd.Env = e.environ()
	out, err := cmd.Output()
	require.NoError(e.t, err, "pim %v", args)
	require.NoError(e.t, json.Unmarshal(out, v), "output: %s", out)
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// equals checks if output equals expected string (trimmed).
func (e *testEnv) equals(output, expected string) {
	e.t.Helper()
	assert.Equal(e.t, strings.TrimSpace(expected), strings.TrimSpace(output))
}
