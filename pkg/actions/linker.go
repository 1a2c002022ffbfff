package actions

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/arthur-debert/dotty/pkg/logging"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"
)

// Linker creates the symlink at target. Bootstrap has already cleared the
// target and created its parent directory when Link is called.
type Linker interface {
	Link(ctx context.Context, source, target string) error
}

// SynthfsLinker runs every link as a one-operation synthfs pipeline on
// the root filesystem
type SynthfsLinker struct {
	filesystem synthfs.FileSystem
	logger     zerolog.Logger
}

// NewSynthfsLinker creates a linker working on absolute paths
func NewSynthfsLinker() *SynthfsLinker {
	return &SynthfsLinker{
		filesystem: filesystem.NewOSFileSystem("/"),
		logger:     logging.GetLogger("actions.synthfs"),
	}
}

// Link creates target pointing at source
func (l *SynthfsLinker) Link(ctx context.Context, source, target string) error {
	if source == "" || target == "" {
		return errors.New(errors.ErrInvalidInput, "symlink requires source and target")
	}

	// synthfs paths are relative to its root
	relPath, err := filepath.Rel("/", target)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert path: %s", target)
	}

	op := operations.NewCreateSymlinkOperation(core.OperationID("symlink-"+target), relPath)
	op.SetDescriptionDetail("target", source)
	op.SetItem(&symlinkItem{path: relPath, target: source})

	pipeline := synthfs.NewMemPipeline()
	if err := pipeline.Add(synthfs.NewOperationsPackageAdapter(op)); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot plan link %s", target)
	}

	result := synthfs.NewExecutor().Run(ctx, pipeline, l.filesystem)
	if err := result.GetError(); err != nil {
		l.logger.Error().Err(err).Str("target", target).Msg("Pipeline execution failed")
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s", target).
			WithDetail("source", source).
			WithDetail("target", target)
	}
	return nil
}

// symlinkItem is the item synthfs needs for symlink operations
type symlinkItem struct {
	path   string
	target string
}

func (s *symlinkItem) Path() string   { return s.path }
func (s *symlinkItem) Type() string   { return "symlink" }
func (s *symlinkItem) Target() string { return s.target }
