// Package profile persists dotty's named profiles.
//
// A profile groups repositories and designates one of them as the current
// target. The store keeps the whole profiles document in memory, resolves
// the active profile lazily and caches it until it is switched or reset.
// Every Write re-derives the active profile's repositories from the
// attached Source, so once a registry is live the file mirrors memory.
package profile

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/arthur-debert/dotty/pkg/logging"
	"github.com/arthur-debert/dotty/pkg/types"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Source supplies the live state of the active profile on Write
type Source interface {
	Snapshot() (currentTarget string, repos Repositories, err error)
}

// Store reads and writes the profiles document
type Store struct {
	fs          types.FS
	path        string
	defaultName string

	doc     *Document
	current string

	source    Source
	listeners []func()
	logger    zerolog.Logger
}

// Open loads the document at path. A missing file is an empty document.
func Open(fs types.FS, path, defaultName string) (*Store, error) {
	s := &Store{
		fs:          fs,
		path:        path,
		defaultName: defaultName,
		logger:      logging.GetLogger("profile"),
	}
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	s.doc = doc
	return s, nil
}

func (s *Store) load() (*Document, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug().Str("path", s.path).Msg("No profiles document, starting empty")
			return &Document{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrStateRead, "failed to read %s", s.path)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStateRead, "failed to parse %s", s.path)
	}
	if err := doc.Validate(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStateInvalid, "invalid profiles document %s", s.path)
	}

	s.logger.Debug().
		Str("path", s.path).
		Int("profiles", len(doc.Profiles)).
		Msg("Loaded profiles document")
	return &doc, nil
}

// Path returns the location of the profiles document
func (s *Store) Path() string {
	return s.path
}

// Document returns the in-memory document
func (s *Store) Document() *Document {
	return s.doc
}

// Names lists profiles in document order
func (s *Store) Names() []string {
	return s.doc.Profiles.Names()
}

// AttachSource registers the live registry consulted by Write
func (s *Store) AttachSource(src Source) {
	s.source = src
}

// OnChange registers fn to run whenever the active profile changes
func (s *Store) OnChange(fn func()) {
	s.listeners = append(s.listeners, fn)
}

func (s *Store) changed() {
	for _, fn := range s.listeners {
		fn()
	}
}

// CurrentProfile returns the active profile name: the cached value, else
// the recorded one, else the first profile, else the default name.
func (s *Store) CurrentProfile() string {
	if s.current != "" {
		return s.current
	}
	switch {
	case s.doc.CurrentProfile != "":
		s.current = s.doc.CurrentProfile
	case len(s.doc.Profiles) > 0:
		s.current = s.doc.Profiles[0].Name
	default:
		s.current = s.defaultName
	}
	return s.current
}

// CurrentProfileData returns the active profile, empty when absent
func (s *Store) CurrentProfileData() Profile {
	name := s.CurrentProfile()
	if i := s.doc.Profiles.Index(name); i >= 0 {
		return s.doc.Profiles[i]
	}
	return Profile{Name: name}
}

// Find returns the named profile or an ErrNotFound error
func (s *Store) Find(name string) (Profile, error) {
	if i := s.doc.Profiles.Index(name); i >= 0 {
		return s.doc.Profiles[i], nil
	}
	return Profile{}, notFound(name)
}

func notFound(name string) error {
	return errors.Newf(errors.ErrNotFound, "profile '%s' does not exist", name).
		WithDetail("profile", name)
}

// Create adds an empty profile and persists
func (s *Store) Create(name string) error {
	if err := types.ValidateName("profile", name); err != nil {
		return err
	}
	if s.doc.Profiles.Index(name) >= 0 {
		return errors.Newf(errors.ErrAlreadyExists, "profile '%s' already exists", name).
			WithDetail("profile", name)
	}
	s.doc.Profiles = append(s.doc.Profiles, Profile{Name: name})
	s.logger.Info().Str("profile", name).Msg("Created profile")
	return s.Write()
}

// Remove deletes a profile and persists. Removing the active profile
// resets the selection so the fallback rule picks the next one.
func (s *Store) Remove(name string) error {
	i := s.doc.Profiles.Index(name)
	if i < 0 {
		return notFound(name)
	}
	s.doc.Profiles = append(s.doc.Profiles[:i], s.doc.Profiles[i+1:]...)

	if s.CurrentProfile() == name {
		s.doc.CurrentProfile = ""
		s.Reset()
	}
	s.logger.Info().Str("profile", name).Msg("Removed profile")
	return s.Write()
}

// SetCurrent makes name the active profile. The caller persists.
func (s *Store) SetCurrent(name string) error {
	if _, err := s.Find(name); err != nil {
		return err
	}
	s.current = name
	s.doc.CurrentProfile = name
	s.changed()
	return nil
}

// Reset drops the cached active profile name
func (s *Store) Reset() {
	s.current = ""
	s.changed()
}

// Write syncs the active profile from the attached source and saves the
// document, creating parent directories as needed.
func (s *Store) Write() error {
	current := s.CurrentProfile()

	if s.source != nil {
		target, repos, err := s.source.Snapshot()
		if err != nil {
			return err
		}
		i := s.doc.Profiles.Index(current)
		if i < 0 && (target != "" || len(repos) > 0) {
			s.doc.Profiles = append(s.doc.Profiles, Profile{Name: current})
			i = len(s.doc.Profiles) - 1
		}
		if i >= 0 {
			s.doc.Profiles[i].CurrentTarget = target
			s.doc.Profiles[i].Repositories = repos
		}
	}

	if s.doc.Profiles.Index(current) >= 0 {
		s.doc.CurrentProfile = current
	} else {
		s.doc.CurrentProfile = ""
	}

	data, err := yaml.Marshal(s.doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrStateWrite, "failed to encode profiles document")
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(s.path))
	}
	if err := s.fs.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStateWrite, "failed to write %s", s.path)
	}

	s.logger.Debug().Str("path", s.path).Str("profile", current).Msg("Saved profiles document")
	return nil
}
