package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotty/pkg/filesystem"
	"github.com/arthur-debert/dotty/pkg/paths"
	"github.com/arthur-debert/dotty/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment provides HOME, the dotty root and XDG directories
type TestEnvironment struct {
	Root      string
	HomeDir   string
	ConfigDir string
	StateDir  string

	FS    types.FS
	Paths paths.Paths

	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment and points the dotty
// environment variables at it for the duration of the test.
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		t:    t,
		Type: envType,
	}

	base := "/virtual"
	switch envType {
	case EnvMemoryOnly:
		env.FS = filesystem.NewMemory()
	case EnvIsolated:
		base = t.TempDir()
		// Resolve /tmp style symlinks so paths compare equal to what the
		// OS reports back
		if resolved, err := filepath.EvalSymlinks(base); err == nil {
			base = resolved
		}
		env.FS = filesystem.NewOS()
	}

	env.HomeDir = filepath.Join(base, "home")
	env.Root = filepath.Join(env.HomeDir, ".dotty")
	env.ConfigDir = filepath.Join(base, "config", "dotty")
	env.StateDir = filepath.Join(base, "state")

	t.Setenv("HOME", env.HomeDir)
	t.Setenv(paths.EnvDottyRoot, env.Root)
	t.Setenv(paths.EnvDottyConfigDir, env.ConfigDir)
	t.Setenv("XDG_STATE_HOME", env.StateDir)
	t.Setenv("DOTTY_CONFIG", "")

	for _, dir := range []string{env.HomeDir, env.Root, env.ConfigDir} {
		if err := env.FS.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	p, err := paths.New(env.Root)
	if err != nil {
		t.Fatalf("Failed to create paths: %v", err)
	}
	env.Paths = p

	return env
}

// FileTree represents a directory structure for testing. String values
// are file contents, nested FileTree values are directories.
type FileTree map[string]interface{}

// WithFileTree creates tree under base
func (env *TestEnvironment) WithFileTree(base string, tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.FS, base, tree)
}

// CreateRepository creates <root>/<profile>/<name> populated with tree and
// returns its path
func (env *TestEnvironment) CreateRepository(profile, name string, tree FileTree) string {
	env.t.Helper()

	path := env.Paths.RepositoryPath(profile, name)
	if err := env.FS.MkdirAll(path, 0755); err != nil {
		env.t.Fatalf("Failed to create repository %s: %v", path, err)
	}
	createFileTree(env.t, env.FS, path, tree)
	return path
}

// HomePath joins elements onto the test home directory
func (env *TestEnvironment) HomePath(elem ...string) string {
	return filepath.Join(append([]string{env.HomeDir}, elem...)...)
}

// createFileTree recursively creates a file tree
func createFileTree(t *testing.T, fs types.FS, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := fs.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
				t.Fatalf("Failed to create directory for %s: %v", fullPath, err)
			}
			if err := fs.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			if err := fs.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			createFileTree(t, fs, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}
