package repository

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotty/pkg/errors"
)

// TrackedFile describes a home file about to be moved into a repository
type TrackedFile struct {
	// Original is the absolute path of the file in the home directory
	Original string

	// RelToHome is Original relative to the home directory, which is also
	// the symlink target once tracked
	RelToHome string

	// Source is the destination relative to the repository root
	Source string

	// Destination is the absolute path the file is moved to
	Destination string
}

// ResolveTrackedFile validates filename and computes where it goes.
// Relative names are taken relative to home.
func (r *Repository) ResolveTrackedFile(filename, home string) (*TrackedFile, error) {
	if !r.Writable() {
		return nil, errors.Newf(errors.ErrPermission,
			"repository directory does not exist or is not writable: %s at %s", r.Name, r.localPath).
			WithDetail("path", r.localPath)
	}
	if filename == "" {
		return nil, errors.New(errors.ErrInvalidInput, "no file given")
	}

	home = filepath.Clean(home)
	var abs string
	if filepath.IsAbs(filename) {
		abs = filepath.Clean(filename)
	} else {
		abs = filepath.Join(home, filename)
	}

	rel, err := filepath.Rel(home, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, errors.Newf(errors.ErrInvalidPath, "file must be in your home directory: %s", filename).
			WithDetail("path", abs)
	}

	info, err := r.fs.Lstat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return nil, errors.Newf(errors.ErrNotFound, "file must exist and be a regular file: %s", rel).
			WithDetail("path", abs)
	}

	source := DestinationPath(rel)
	return &TrackedFile{
		Original:    abs,
		RelToHome:   rel,
		Source:      source,
		Destination: filepath.Join(r.localPath, source),
	}, nil
}
