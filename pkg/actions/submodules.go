package actions

import (
	"context"

	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/arthur-debert/dotty/pkg/repository"
	"github.com/arthur-debert/dotty/pkg/style"
)

// SubmoduleOptions controls UpdateSubmodules
type SubmoduleOptions struct {
	Commit      bool
	Push        bool
	IgnoreDirty bool
	Message     string
}

// DefaultSubmoduleOptions commits but does not push
func DefaultSubmoduleOptions() SubmoduleOptions {
	return SubmoduleOptions{Commit: true}
}

// UpdateSubmodules updates and pulls every submodule of repo. With Commit
// set the result is committed, which requires a clean working tree unless
// IgnoreDirty is set. Push is only honored together with Commit.
func (a *Actions) UpdateSubmodules(ctx context.Context, repo *repository.Repository, opts SubmoduleOptions) error {
	a.reporter.Status(style.VerbUpdate, "submodules of "+repo.Name)

	dir := repo.LocalPath()

	if opts.Commit && !opts.IgnoreDirty {
		changes, err := a.vcs.Changes(ctx, dir)
		if err != nil {
			return err
		}
		if len(changes) > 0 {
			return errors.Newf(errors.ErrDirtyRepository,
				"repository '%s' is not in a clean state - cannot commit updated submodules", repo.Name).
				WithDetail("repository", repo.Name).
				WithDetail("changes", len(changes))
		}
	}

	if err := a.vcs.SubmoduleUpdate(ctx, dir); err != nil {
		return err
	}
	if err := a.vcs.SubmodulePull(ctx, dir); err != nil {
		return err
	}

	if !opts.Commit {
		return nil
	}

	message := opts.Message
	if message == "" {
		message = a.opts.CommitMessage
	}
	if err := a.vcs.CommitAll(ctx, dir, message); err != nil {
		return err
	}

	if opts.Push {
		return a.vcs.Push(ctx, dir)
	}
	return nil
}
