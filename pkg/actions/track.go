package actions

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/arthur-debert/dotty/pkg/repository"
	"github.com/arthur-debert/dotty/pkg/style"
)

// Track moves a home file into repo and leaves a symlink in its place.
// If the symlink cannot be created the file is moved back.
func (a *Actions) Track(ctx context.Context, repo *repository.Repository, filename string) (*repository.TrackedFile, error) {
	tracked, err := repo.ResolveTrackedFile(filename, a.opts.Home)
	if err != nil {
		return nil, err
	}

	if _, err := a.fs.Lstat(tracked.Destination); err == nil {
		return nil, errors.Newf(errors.ErrAlreadyExists,
			"%s already exists in repository %s", tracked.Source, repo.Name).
			WithDetail("path", tracked.Destination)
	}

	if err := a.fs.MkdirAll(filepath.Dir(tracked.Destination), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(tracked.Destination))
	}

	a.reporter.Status(style.VerbMove, tracked.Original+" => "+tracked.Destination)
	if err := a.fs.Rename(tracked.Original, tracked.Destination); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot move %s", tracked.Original)
	}

	if err := a.fs.Symlink(tracked.Destination, tracked.Original); err != nil {
		if rbErr := a.fs.Rename(tracked.Destination, tracked.Original); rbErr != nil {
			a.logger.Error().Err(rbErr).
				Str("file", tracked.Destination).
				Msg("Failed to move tracked file back")
		}
		return nil, errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s", tracked.Original).
			WithDetail("target", tracked.Original)
	}

	a.reporter.Status(style.VerbCreate, tracked.Original)
	a.logger.Info().
		Str("repository", repo.Name).
		Str("source", tracked.Source).
		Str("target", tracked.RelToHome).
		Msg("File tracked")
	return tracked, nil
}
