package actions

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotty/pkg/command"
	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/arthur-debert/dotty/pkg/repository"
	"github.com/arthur-debert/dotty/pkg/style"
)

// Hook arguments passed to the repository hook
const (
	HookBootstrap = "bootstrap"
	HookImplode   = "implode"
)

// Bootstrap links every source of repo into the home directory and runs
// the bootstrap hook when one is present.
//
// A link that already points at its source is left alone. Any other file
// at the target is a conflict and is only replaced when Force is set.
func (a *Actions) Bootstrap(ctx context.Context, repo *repository.Repository) error {
	a.reporter.Status(style.VerbRun, "bootstrap "+repo.Name)

	links, err := repo.Symlinks()
	if err != nil {
		return err
	}

	for _, source := range links.Sources() {
		target := filepath.Join(a.opts.Home, links[source])
		if err := a.createLink(ctx, target, filepath.Join(repo.LocalPath(), source)); err != nil {
			return err
		}
	}

	return a.runHook(ctx, repo, HookBootstrap)
}

// Implode removes every symlink repo would create and runs the implode
// hook when one is present. Targets that are not symlinks are reported
// and kept.
func (a *Actions) Implode(ctx context.Context, repo *repository.Repository) error {
	a.reporter.Status(style.VerbRun, "implode "+repo.Name)

	links, err := repo.Symlinks()
	if err != nil {
		return err
	}

	for _, source := range links.Sources() {
		if err := a.removeLink(filepath.Join(a.opts.Home, links[source])); err != nil {
			return err
		}
	}

	return a.runHook(ctx, repo, HookImplode)
}

func (a *Actions) createLink(ctx context.Context, target, source string) error {
	info, err := a.fs.Lstat(target)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink != 0 {
			if dest, readErr := a.fs.Readlink(target); readErr == nil && dest == source {
				a.reporter.Status(style.VerbIdentical, target)
				return nil
			}
		}
		if !a.opts.Force {
			a.logger.Warn().Str("target", target).Str("source", source).Msg("Target exists, not linking")
			a.reporter.Status(style.VerbConflict, target)
			return nil
		}
		a.reporter.Status(style.VerbForce, target)
		if err := a.fs.RemoveAll(target); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot replace %s", target).
				WithDetail("target", target)
		}
	case !os.IsNotExist(err):
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", target)
	default:
		a.reporter.Status(style.VerbCreate, target)
	}

	if err := a.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(target))
	}
	if err := a.opts.Linker.Link(ctx, source, target); err != nil {
		return err
	}

	a.logger.Debug().Str("source", source).Str("target", target).Msg("Symlink created")
	return nil
}

func (a *Actions) removeLink(target string) error {
	info, err := a.fs.Lstat(target)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", target)
	}

	a.reporter.Status(style.VerbRemove, target)
	if info.Mode()&os.ModeSymlink == 0 {
		a.logger.Warn().Str("target", target).Msg("Not a symlink, keeping it")
		a.reporter.Status(style.VerbError, target+" is not a symlink - not removing")
		return nil
	}

	if err := a.fs.Remove(target); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkRemove, "cannot remove %s", target).
			WithDetail("target", target)
	}
	return nil
}

// runHook runs the repository hook with arg when it exists
func (a *Actions) runHook(ctx context.Context, repo *repository.Repository, arg string) error {
	if !repo.HasHook(a.opts.HookFile) {
		return nil
	}

	a.reporter.Status(style.VerbRun, style.RenderHook(a.opts.HookFile, arg))
	err := a.runner.Stream(ctx, command.Command{
		Name: repo.HookPath(a.opts.HookFile),
		Args: []string{arg},
		Dir:  repo.LocalPath(),
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrHookExecute, "%s hook failed for %s", arg, repo.Name).
			WithDetail("repository", repo.Name)
	}
	return nil
}
