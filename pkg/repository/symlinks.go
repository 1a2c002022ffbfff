package repository

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/arthur-debert/dotty/pkg/logging"
	"gopkg.in/yaml.v3"
)

// Symlinks maps repository-relative sources to home-relative targets.
// A target is owned by at most one source.
type Symlinks map[string]string

// Sources returns the source paths in lexical order
func (s Symlinks) Sources() []string {
	sources := make([]string, 0, len(s))
	for source := range s {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}

// set records source -> target, evicting any earlier source that claimed
// the same target
func (s Symlinks) set(source, target string) {
	for src, tgt := range s {
		if tgt == target && src != source {
			delete(s, src)
		}
	}
	s[source] = target
}

// Merge applies other on top of s
func (s Symlinks) Merge(other Symlinks) Symlinks {
	for _, source := range other.Sources() {
		s.set(source, other[source])
	}
	return s
}

// Symlinks derives the complete mapping: the directory scan overridden by
// the declaration file.
func (r *Repository) Symlinks() (Symlinks, error) {
	fromDirs, err := r.FromDirectories()
	if err != nil {
		return nil, err
	}
	declared, err := r.FromDeclaration()
	if err != nil {
		return nil, err
	}
	return fromDirs.Merge(declared), nil
}

// FromDeclaration reads dotty-symlinks.yml. A missing file yields an empty
// mapping.
func (r *Repository) FromDeclaration() (Symlinks, error) {
	path := filepath.Join(r.localPath, SymlinksFile)
	data, err := r.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Symlinks{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, errors.ErrSymlinksParse, "failed to parse %s", path)
	}

	declared := Symlinks{}
	for source, target := range raw {
		src, okSrc := cleanRelative(source)
		tgt, okTgt := cleanRelative(target)
		if !okSrc || !okTgt {
			return nil, errors.Newf(errors.ErrSymlinksParse,
				"%s: %q -> %q must be relative paths inside the repository and home", path, source, target)
		}
		declared.set(src, tgt)
	}
	return declared, nil
}

// FromDirectories scans every top-level *dotfiles directory in lexical
// order; later entries win for a repeated target.
func (r *Repository) FromDirectories() (Symlinks, error) {
	logger := logging.GetLogger("repository")
	links := Symlinks{}

	dirs, err := r.dotfilesDirectories()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		entries, err := r.fs.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", dir)
		}

		// root entries
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), FlattenPrefix) {
				continue
			}
			r.addEntry(links, dir, filepath.Join(dir, entry.Name()), false)
		}

		// contents of in+ directories
		for _, entry := range entries {
			if !strings.HasPrefix(entry.Name(), FlattenPrefix) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if info, err := r.fs.Stat(path); err != nil || !info.IsDir() {
				continue
			}
			if err := r.walkFlattened(links, dir, path); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug().
		Str("repository", r.Name).
		Int("links", len(links)).
		Msg("Derived symlinks from dotfiles directories")
	return links, nil
}

// walkFlattened adds every path below dir, skipping the in+ placeholders
// themselves. Symlinked directories are linked but not descended into.
func (r *Repository) walkFlattened(links Symlinks, dotfilesDir, dir string) error {
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", dir)
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !strings.HasPrefix(entry.Name(), FlattenPrefix) {
			r.addEntry(links, dotfilesDir, path, true)
		}
		if entry.IsDir() {
			if err := r.walkFlattened(links, dotfilesDir, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// addEntry maps path to its target below home. Only entries found inside
// in+ directories have the in+ markers stripped.
func (r *Repository) addEntry(links Symlinks, dotfilesDir, path string, flatten bool) {
	source, err := filepath.Rel(r.localPath, path)
	if err != nil {
		return
	}
	rel, err := filepath.Rel(dotfilesDir, path)
	if err != nil || hasDotDotSegment(rel) {
		return
	}
	if flatten {
		rel = strings.ReplaceAll(rel, FlattenPrefix, "")
	}
	links.set(source, rel)
}

// dotfilesDirectories lists <localPath>/*dotfiles directories, following
// symlinks, in lexical order
func (r *Repository) dotfilesDirectories() ([]string, error) {
	entries, err := r.fs.ReadDir(r.localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", r.localPath)
	}

	var dirs []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, DotfilesSuffix) {
			continue
		}
		path := filepath.Join(r.localPath, name)
		if info, err := r.fs.Stat(path); err == nil && info.IsDir() {
			dirs = append(dirs, path)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// DestinationPath returns where a home-relative file is stored when
// tracked: each directory level becomes an in+ directory under dotfiles/.
// It is the inverse of the flattening done by FromDirectories.
func DestinationPath(relToHome string) string {
	clean := filepath.Clean(relToHome)
	dir, file := filepath.Split(clean)

	parts := []string{DefaultDotfilesDir}
	for _, part := range strings.Split(filepath.ToSlash(filepath.Clean(dir)), "/") {
		if part == "." || part == "" {
			continue
		}
		parts = append(parts, FlattenPrefix+part)
	}
	return filepath.Join(append(parts, file)...)
}

func hasDotDotSegment(p string) bool {
	for _, part := range strings.Split(filepath.ToSlash(p), "/") {
		if part == ".." {
			return true
		}
	}
	return false
}

// cleanRelative cleans p and reports whether it stays relative and below
// its base
func cleanRelative(p string) (string, bool) {
	if p == "" || filepath.IsAbs(p) {
		return "", false
	}
	clean := filepath.Clean(p)
	if clean == "." || hasDotDotSegment(clean) {
		return "", false
	}
	return clean, true
}
