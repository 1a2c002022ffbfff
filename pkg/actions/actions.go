package actions

import (
	"context"
	_ "embed"
	"path/filepath"

	"github.com/arthur-debert/dotty/pkg/command"
	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/arthur-debert/dotty/pkg/logging"
	"github.com/arthur-debert/dotty/pkg/repository"
	"github.com/arthur-debert/dotty/pkg/style"
	"github.com/arthur-debert/dotty/pkg/types"
	"github.com/rs/zerolog"
)

//go:embed templates/README.md
var readmeTemplate []byte

// VCS is the version control collaborator. git.Client satisfies it.
type VCS interface {
	Clone(ctx context.Context, url, path string) error
	Init(ctx context.Context, dir string) error
	AddRemote(ctx context.Context, dir, name, url string) error
	SubmoduleUpdate(ctx context.Context, dir string) error
	SubmodulePull(ctx context.Context, dir string) error
	Fetch(ctx context.Context, dir string) error
	Pull(ctx context.Context, dir string) error
	Changes(ctx context.Context, dir string) ([]string, error)
	Unpushed(ctx context.Context, dir string) (bool, error)
	CommitAll(ctx context.Context, dir, message string) error
	Push(ctx context.Context, dir string) error
}

// Reporter receives user-visible progress lines
type Reporter interface {
	Status(verb style.Verb, message string)
}

// Options configures Actions
type Options struct {
	// Home is where symlink targets are resolved
	Home string

	// HookFile is the executable looked up at each repository root
	HookFile string

	// CommitMessage is used by UpdateSubmodules when none is given
	CommitMessage string

	// Force replaces conflicting files during Bootstrap
	Force bool

	// Linker creates symlinks. Defaults to a SynthfsLinker.
	Linker Linker
}

// Actions carries out repository side effects
type Actions struct {
	fs       types.FS
	vcs      VCS
	runner   command.Runner
	reporter Reporter
	opts     Options
	logger   zerolog.Logger
}

// New creates Actions
func New(fs types.FS, vcs VCS, runner command.Runner, reporter Reporter, opts Options) *Actions {
	if opts.CommitMessage == "" {
		opts.CommitMessage = "Updated submodules"
	}
	if opts.Linker == nil {
		opts.Linker = NewSynthfsLinker()
	}
	return &Actions{
		fs:       fs,
		vcs:      vcs,
		runner:   runner,
		reporter: reporter,
		opts:     opts,
		logger:   logging.GetLogger("actions"),
	}
}

// WithForce returns a copy of a whose Bootstrap replaces conflicting files
func (a *Actions) WithForce(force bool) *Actions {
	clone := *a
	clone.opts.Force = force
	return &clone
}

// Checkout clones repo into its local path and initializes submodules.
// An existing clone is left as is.
func (a *Actions) Checkout(ctx context.Context, repo *repository.Repository) error {
	a.reporter.Status(style.VerbClone, repo.Name+" => "+repo.URL)

	if repo.Exists() {
		a.logger.Info().Str("repository", repo.Name).Msg("Local clone already present, skipping clone")
		a.reporter.Status(style.VerbSkip, repo.LocalPath())
	} else {
		if err := a.fs.MkdirAll(filepath.Dir(repo.LocalPath()), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(repo.LocalPath()))
		}
		if err := a.vcs.Clone(ctx, repo.URL, repo.LocalPath()); err != nil {
			return err
		}
	}

	return a.vcs.SubmoduleUpdate(ctx, repo.LocalPath())
}

// Create initializes a new repository with repo.URL as its origin, an
// empty dotfiles directory and a starter README
func (a *Actions) Create(ctx context.Context, repo *repository.Repository) error {
	a.reporter.Status(style.VerbCreate, repo.Name+" ["+repo.URL+"]")

	if err := a.fs.MkdirAll(repo.LocalPath(), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", repo.LocalPath())
	}
	if err := a.vcs.Init(ctx, repo.LocalPath()); err != nil {
		return err
	}
	if err := a.vcs.AddRemote(ctx, repo.LocalPath(), "origin", repo.URL); err != nil {
		return err
	}

	dotfiles := filepath.Join(repo.LocalPath(), repository.DefaultDotfilesDir)
	if err := a.fs.MkdirAll(dotfiles, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dotfiles)
	}
	a.reporter.Status(style.VerbCreate, dotfiles)

	readme := filepath.Join(repo.LocalPath(), "README.md")
	if _, err := a.fs.Stat(readme); err == nil {
		a.reporter.Status(style.VerbIdentical, readme)
		return nil
	}
	if err := a.fs.WriteFile(readme, readmeTemplate, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", readme)
	}
	a.reporter.Status(style.VerbCreate, readme)
	return nil
}

// Install checks repo out and bootstraps it
func (a *Actions) Install(ctx context.Context, repo *repository.Repository) error {
	if err := a.Checkout(ctx, repo); err != nil {
		return err
	}
	return a.Bootstrap(ctx, repo)
}

// Update fetches and merges from the remote, then updates submodules
func (a *Actions) Update(ctx context.Context, repo *repository.Repository) error {
	a.reporter.Status(style.VerbUpdate, repo.Name)

	dir := repo.LocalPath()
	if err := a.vcs.Fetch(ctx, dir); err != nil {
		return err
	}
	if err := a.vcs.Pull(ctx, dir); err != nil {
		return err
	}
	return a.vcs.SubmoduleUpdate(ctx, dir)
}

// Destroy implodes repo and deletes its local clone
func (a *Actions) Destroy(ctx context.Context, repo *repository.Repository) error {
	a.reporter.Status(style.VerbRemove, repo.Name)

	if repo.Exists() {
		if err := a.Implode(ctx, repo); err != nil {
			return err
		}
	}

	a.reporter.Status(style.VerbRemove, repo.LocalPath())
	if err := a.fs.RemoveAll(repo.LocalPath()); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove %s", repo.LocalPath())
	}
	return nil
}

// Execute runs a shell command line inside repo's local path
func (a *Actions) Execute(ctx context.Context, repo *repository.Repository, line string) error {
	if line == "" {
		return errors.New(errors.ErrInvalidInput, "no command given")
	}
	a.reporter.Status(style.VerbRun, line+" in "+repo.Name)

	return a.runner.Stream(ctx, command.Command{
		Name: "sh",
		Args: []string{"-c", line},
		Dir:  repo.LocalPath(),
	})
}

// Status summarizes the working tree for listings
type Status struct {
	Changes  int
	Unpushed bool
}

// Status inspects repo's working tree. A missing clone reports nothing.
func (a *Actions) Status(ctx context.Context, repo *repository.Repository) (Status, error) {
	if !repo.Exists() {
		return Status{}, nil
	}

	changes, err := a.vcs.Changes(ctx, repo.LocalPath())
	if err != nil {
		return Status{}, err
	}
	unpushed, err := a.vcs.Unpushed(ctx, repo.LocalPath())
	if err != nil {
		return Status{}, err
	}
	return Status{Changes: len(changes), Unpushed: unpushed}, nil
}
