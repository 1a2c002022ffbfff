package registry

import (
	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/arthur-debert/dotty/pkg/logging"
	"github.com/arthur-debert/dotty/pkg/paths"
	"github.com/arthur-debert/dotty/pkg/profile"
	"github.com/arthur-debert/dotty/pkg/repository"
	"github.com/arthur-debert/dotty/pkg/types"
	"github.com/rs/zerolog"
)

// Registry lists, finds, adds and removes the active profile's repositories
type Registry struct {
	store *profile.Store
	paths paths.Paths
	fs    types.FS

	repos  []*repository.Repository
	target string
	loaded bool

	logger zerolog.Logger
}

// New creates a registry over store and registers it as the store's source
func New(store *profile.Store, p paths.Paths, fs types.FS) *Registry {
	r := &Registry{
		store:  store,
		paths:  p,
		fs:     fs,
		logger: logging.GetLogger("registry"),
	}
	store.AttachSource(r)
	store.OnChange(r.Invalidate)
	return r
}

// Invalidate drops the cached repository list
func (r *Registry) Invalidate() {
	r.repos = nil
	r.target = ""
	r.loaded = false
}

func (r *Registry) load() {
	if r.loaded {
		return
	}
	data := r.store.CurrentProfileData()
	r.repos = make([]*repository.Repository, 0, len(data.Repositories))
	for _, entry := range data.Repositories {
		repo, err := r.newRepository(entry.Name, entry.URL)
		if err != nil {
			r.logger.Warn().Err(err).Str("repository", entry.Name).Msg("Skipping invalid repository")
			continue
		}
		r.repos = append(r.repos, repo)
	}
	r.target = data.CurrentTarget
	r.loaded = true

	r.logger.Debug().
		Str("profile", data.Name).
		Int("repositories", len(r.repos)).
		Msg("Loaded repositories")
}

func (r *Registry) newRepository(name, url string) (*repository.Repository, error) {
	return repository.New(r.fs, name, url, r.paths.RepositoryPath(r.store.CurrentProfile(), name))
}

// List returns the repositories of the active profile in stored order
func (r *Registry) List() []*repository.Repository {
	r.load()
	return r.repos
}

// Count returns the number of repositories
func (r *Registry) Count() int {
	return len(r.List())
}

// Find returns the named repository, or nil
func (r *Registry) Find(name string) *repository.Repository {
	for _, repo := range r.List() {
		if repo.Name == name {
			return repo
		}
	}
	return nil
}

// Get returns the named repository or an ErrNotFound error
func (r *Registry) Get(name string) (*repository.Repository, error) {
	if repo := r.Find(name); repo != nil {
		return repo, nil
	}
	return nil, errors.Newf(errors.ErrNotFound, "no repository named '%s' in profile '%s'", name, r.store.CurrentProfile()).
		WithDetail("repository", name)
}

// Add registers a repository, persists, and revalidates the current target
func (r *Registry) Add(name, url string) (*repository.Repository, error) {
	if r.Find(name) != nil {
		return nil, errors.Newf(errors.ErrAlreadyExists, "there is already a repository named '%s'", name).
			WithDetail("repository", name)
	}
	repo, err := r.newRepository(name, url)
	if err != nil {
		return nil, err
	}

	if err := r.commit(append(r.repos[:len(r.repos):len(r.repos)], repo)); err != nil {
		return nil, err
	}
	if err := r.ResetCurrentTarget(); err != nil {
		return nil, err
	}

	r.logger.Info().Str("repository", name).Str("url", url).Msg("Added repository")
	return repo, nil
}

// Remove unregisters a repository, persists, and revalidates the current
// target. Removing files is left to the caller.
func (r *Registry) Remove(name string) (*repository.Repository, error) {
	repo, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	kept := make([]*repository.Repository, 0, len(r.repos))
	for _, existing := range r.repos {
		if existing.Name != name {
			kept = append(kept, existing)
		}
	}
	if err := r.commit(kept); err != nil {
		return nil, err
	}
	if err := r.ResetCurrentTarget(); err != nil {
		return nil, err
	}

	r.logger.Info().Str("repository", name).Msg("Removed repository")
	return repo, nil
}

// commit persists repos as the new repository list. The previous list and
// target are kept when the write fails.
func (r *Registry) commit(repos []*repository.Repository) error {
	previous, target := r.repos, r.target
	r.repos = repos
	if err := r.store.Write(); err != nil {
		r.repos, r.target = previous, target
		return err
	}
	return nil
}

// CurrentTarget returns the stored target, else the sole repository's name,
// else "".
func (r *Registry) CurrentTarget() string {
	r.load()
	if r.target != "" {
		return r.target
	}
	return r.defaultTarget()
}

func (r *Registry) defaultTarget() string {
	if repos := r.List(); len(repos) == 1 {
		return repos[0].Name
	}
	return ""
}

// SetCurrentTarget stores name as the current target and persists. The
// name must be empty or name an existing repository.
func (r *Registry) SetCurrentTarget(name string) error {
	r.load()
	if name != "" && r.Find(name) == nil {
		return errors.Newf(errors.ErrInvalidRepositoryName,
			"not changing current target: no repository named '%s' exists", name).
			WithDetail("repository", name)
	}
	r.target = name
	return r.store.Write()
}

// ResetCurrentTarget reassigns the target when it no longer resolves
func (r *Registry) ResetCurrentTarget() error {
	if r.Find(r.CurrentTarget()) != nil {
		return nil
	}
	return r.SetCurrentTarget(r.defaultTarget())
}

// CurrentTargetRepository resolves the current target
func (r *Registry) CurrentTargetRepository() (*repository.Repository, error) {
	name := r.CurrentTarget()
	if name == "" {
		return nil, errors.New(errors.ErrNoTarget, "no repository selected, please set the current target")
	}
	return r.Get(name)
}

// Snapshot implements profile.Source. The resolved target is what gets
// persisted, so an auto-selected target becomes the stored one.
func (r *Registry) Snapshot() (string, profile.Repositories, error) {
	r.target = r.CurrentTarget()
	repos := r.List()
	entries := make(profile.Repositories, 0, len(repos))
	for _, repo := range repos {
		entries = append(entries, profile.RepositoryEntry{Name: repo.Name, URL: repo.URL})
	}
	return r.target, entries, nil
}
