// Package paths provides centralized path handling for dotty.
// It resolves the dotty root directory, the user's home directory and the
// XDG directories used for configuration and logs.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dotty/pkg/errors"
)

// Environment variable names
const (
	// EnvDottyRoot overrides the directory holding profiles and clones
	EnvDottyRoot = "DOTTY_ROOT"

	// EnvDottyConfigDir overrides the XDG config directory for dotty
	EnvDottyConfigDir = "DOTTY_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
// These describe dotty's on-disk state layout and are not configurable.
const (
	// DefaultRootDir is the root directory name, relative to $HOME
	DefaultRootDir = ".dotty"

	// AppDirName is the directory name used under XDG directories
	AppDirName = "dotty"

	// ProfilesFileName is the persisted profiles document
	ProfilesFileName = ".profiles.yml"

	// LogFileName is the name of the log file
	LogFileName = "dotty.log"
)

// Paths provides centralized path management for dotty
type Paths interface {
	Root() string
	HomeDir() string
	ProfilesFile() string
	ProfileDir(profile string) string
	RepositoryPath(profile, name string) string
	ConfigDir() string
	StateDir() string
	LogFilePath() string
	NormalizePath(path string) (string, error)
	RelativeToHome(path string) (string, bool)
}

type paths struct {
	// root holds the profiles document and one directory per profile
	root string

	// home is the directory symlinks are created in
	home string

	xdgConfig string
	xdgState  string
}

// New creates a new Paths instance with the given root.
// If root is empty, it is taken from DOTTY_ROOT or defaults to ~/.dotty.
func New(root string) (Paths, error) {
	home, err := GetHomeDirectory()
	if err != nil {
		return nil, err
	}

	p := &paths{home: filepath.Clean(home)}

	if root == "" {
		root = os.Getenv(EnvDottyRoot)
	}
	if root == "" {
		root = filepath.Join(p.home, DefaultRootDir)
	}

	absRoot, err := filepath.Abs(expandHome(root))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for root %s", root)
	}
	p.root = absRoot

	p.setupXDGDirs()
	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() {
	if configDir := os.Getenv(EnvDottyConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		p.xdgConfig = filepath.Join(configHome, AppDirName)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		p.xdgState = filepath.Join(stateHome, AppDirName)
	} else {
		p.xdgState = filepath.Join(xdg.StateHome, AppDirName)
	}
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := GetHomeDirectory()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

// GetHomeDirectory returns the user's home directory, preferring $HOME so
// tests and sandboxes can redirect it
func GetHomeDirectory() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}

// Root returns the dotty root directory
func (p *paths) Root() string {
	return p.root
}

// HomeDir returns the directory symlink targets are relative to
func (p *paths) HomeDir() string {
	return p.home
}

// ProfilesFile returns the path of the persisted profiles document
func (p *paths) ProfilesFile() string {
	return filepath.Join(p.root, ProfilesFileName)
}

// ProfileDir returns the directory holding a profile's clones
func (p *paths) ProfileDir(profile string) string {
	return filepath.Join(p.root, profile)
}

// RepositoryPath returns <root>/<profile>/<name>
func (p *paths) RepositoryPath(profile, name string) string {
	return filepath.Join(p.ProfileDir(profile), name)
}

// ConfigDir returns the XDG config directory for dotty
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// StateDir returns the XDG state directory for dotty
func (p *paths) StateDir() string {
	return p.xdgState
}

// LogFilePath returns the path to the dotty log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// NormalizePath normalizes a path by expanding home, making it absolute,
// and cleaning it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path")
	}
	return filepath.Clean(abs), nil
}

// RelativeToHome returns path relative to the home directory and whether
// path lies under it. The home directory itself is not "under" home.
func (p *paths) RelativeToHome(path string) (string, bool) {
	rel, err := filepath.Rel(p.home, filepath.Clean(path))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
