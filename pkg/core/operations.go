package core

import (
	"context"
	"strings"

	"github.com/arthur-debert/dotty/pkg/actions"
	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/arthur-debert/dotty/pkg/registry"
	"github.com/arthur-debert/dotty/pkg/repository"
	"github.com/arthur-debert/dotty/pkg/style"
)

// FindRepository looks up a repository of the active profile. Names are
// matched lowercased.
func (c *Context) FindRepository(name string) (*repository.Repository, error) {
	name = strings.ToLower(name)
	if repo := c.Registry.Find(name); repo != nil {
		return repo, nil
	}
	return nil, errors.Newf(errors.ErrNotFound, "the specified repository does not exist: %s", name).
		WithDetail("repository", name)
}

// ForSpecifiedOrAll runs fn for the named repository, or for every
// repository of the active profile when name is empty
func (c *Context) ForSpecifiedOrAll(name string, fn func(*repository.Repository) error) error {
	if name != "" {
		repo, err := c.FindRepository(name)
		if err != nil {
			return err
		}
		return fn(repo)
	}

	// Copy so fn may change the registry
	repos := append([]*repository.Repository(nil), c.Registry.List()...)
	for _, repo := range repos {
		if err := fn(repo); err != nil {
			return err
		}
	}
	return nil
}

// AddRepository registers an existing remote repository, clones it and
// bootstraps it
func (c *Context) AddRepository(ctx context.Context, name, url string) (*repository.Repository, error) {
	repo, err := c.Registry.Add(strings.ToLower(name), url)
	if err != nil {
		return nil, err
	}
	if err := c.Actions.Install(ctx, repo); err != nil {
		return repo, err
	}
	return repo, nil
}

// CreateRepository registers and initializes a brand new repository
func (c *Context) CreateRepository(ctx context.Context, name, url string) (*repository.Repository, error) {
	repo, err := c.Registry.Add(strings.ToLower(name), url)
	if err != nil {
		return nil, err
	}
	if err := c.Actions.Create(ctx, repo); err != nil {
		return repo, err
	}
	return repo, nil
}

// RemoveRepository unregisters a repository, removes its links and deletes
// its clone
func (c *Context) RemoveRepository(ctx context.Context, name string) (*repository.Repository, error) {
	repo, err := c.FindRepository(name)
	if err != nil {
		return nil, err
	}
	if _, err := c.Registry.Remove(repo.Name); err != nil {
		return nil, err
	}
	if err := c.Actions.Destroy(ctx, repo); err != nil {
		return repo, err
	}
	return repo, nil
}

// ImportRepositories adds and installs the repositories listed at location
func (c *Context) ImportRepositories(ctx context.Context, location string) (*registry.ImportResult, error) {
	c.Reporter.Status(style.VerbRun, "import yaml: importing dotty repositories from '"+location+"'")

	result, err := c.Registry.Import(ctx, location, c.Config.Import.Timeout, c.Actions)
	if result != nil {
		for _, name := range result.Skipped {
			c.Reporter.Status(style.VerbSkip, "not adding '"+name+"', a repository with that name already exists")
		}
	}
	return result, err
}

// ListRepositories describes every repository of the active profile
func (c *Context) ListRepositories(ctx context.Context) ([]style.RepositoryLine, error) {
	target := c.Registry.CurrentTarget()

	var lines []style.RepositoryLine
	for _, repo := range c.Registry.List() {
		status, err := c.Actions.Status(ctx, repo)
		if err != nil {
			c.logger.Warn().Err(err).Str("repository", repo.Name).Msg("Cannot read repository status")
		}
		lines = append(lines, style.RepositoryLine{
			Name:     repo.Name,
			URL:      repo.URL,
			Target:   repo.Name == target,
			Changes:  status.Changes,
			Unpushed: status.Unpushed,
		})
	}
	return lines, nil
}

// UpdateSubmodules updates submodules of one or all repositories
func (c *Context) UpdateSubmodules(ctx context.Context, name string, opts actions.SubmoduleOptions) error {
	return c.ForSpecifiedOrAll(name, func(repo *repository.Repository) error {
		return c.Actions.UpdateSubmodules(ctx, repo, opts)
	})
}

// TrackFile moves a home file into the named repository, or into the
// current target when name is empty
func (c *Context) TrackFile(ctx context.Context, filename, name string) (*repository.TrackedFile, error) {
	var (
		repo *repository.Repository
		err  error
	)
	if name != "" {
		repo, err = c.FindRepository(name)
	} else {
		repo, err = c.Registry.CurrentTargetRepository()
	}
	if err != nil {
		return nil, err
	}
	return c.Actions.Track(ctx, repo, filename)
}

// SetTarget makes the named repository the current target
func (c *Context) SetTarget(name string) error {
	return c.Registry.SetCurrentTarget(strings.ToLower(name))
}
