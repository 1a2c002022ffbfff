// Package repository models a tracked dotfiles repository and derives the
// symlinks it installs into the home directory.
//
// Two sources feed the mapping from repository-relative source paths to
// home-relative targets:
//
//   - every top-level directory whose name ends in "dotfiles": its direct
//     children link by name, and the contents of its "in+" directories link
//     with the "in+" markers stripped, so dotfiles/in+.config/in+app/file
//     lands at ~/.config/app/file
//   - an optional dotty-symlinks.yml at the repository root, whose entries
//     override the directory scan
//
// The mapping is recomputed from disk on every call.
package repository

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotty/pkg/types"
	"golang.org/x/sys/unix"
)

const (
	// SymlinksFile declares extra or overriding links at the repository root
	SymlinksFile = "dotty-symlinks.yml"

	// FlattenPrefix marks a directory level that becomes a path segment
	FlattenPrefix = "in+"

	// DotfilesSuffix selects the top-level directories that are scanned
	DotfilesSuffix = "dotfiles"

	// DefaultDotfilesDir is where tracked files are placed
	DefaultDotfilesDir = "dotfiles"
)

// Repository is a tracked clone belonging to the active profile
type Repository struct {
	Name string
	URL  string

	localPath string
	fs        types.FS
}

// New validates name and builds a repository rooted at localPath
func New(fs types.FS, name, url, localPath string) (*Repository, error) {
	if err := types.ValidateName("repository", name); err != nil {
		return nil, err
	}
	return &Repository{
		Name:      name,
		URL:       url,
		localPath: filepath.Clean(localPath),
		fs:        fs,
	}, nil
}

// LocalPath is <root>/<profile>/<name>
func (r *Repository) LocalPath() string {
	return r.localPath
}

// Exists reports whether the local clone is present
func (r *Repository) Exists() bool {
	info, err := r.fs.Stat(r.localPath)
	return err == nil && info.IsDir()
}

// Writable reports whether files can be added to the local clone
func (r *Repository) Writable() bool {
	if !r.Exists() {
		return false
	}
	return unix.Access(r.localPath, unix.W_OK) == nil
}

// HasHook reports whether an executable hook named file sits at the
// repository root
func (r *Repository) HasHook(file string) bool {
	if file == "" {
		return false
	}
	info, err := r.fs.Stat(r.HookPath(file))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}

// HookPath returns where the hook named file would live
func (r *Repository) HookPath(file string) string {
	return filepath.Join(r.localPath, file)
}

// isSymlink reports whether info describes a symbolic link
func isSymlink(info os.FileInfo) bool {
	return info.Mode()&os.ModeSymlink != 0
}
