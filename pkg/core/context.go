package core

import (
	"io"
	"os"

	"github.com/arthur-debert/dotty/pkg/actions"
	"github.com/arthur-debert/dotty/pkg/command"
	"github.com/arthur-debert/dotty/pkg/config"
	"github.com/arthur-debert/dotty/pkg/filesystem"
	"github.com/arthur-debert/dotty/pkg/git"
	"github.com/arthur-debert/dotty/pkg/logging"
	"github.com/arthur-debert/dotty/pkg/paths"
	"github.com/arthur-debert/dotty/pkg/profile"
	"github.com/arthur-debert/dotty/pkg/registry"
	"github.com/arthur-debert/dotty/pkg/style"
	"github.com/arthur-debert/dotty/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures a Context. Zero values select the defaults.
type Options struct {
	// Root overrides the configured dotty root
	Root string

	// Force replaces conflicting files when bootstrapping
	Force bool

	// Stdout and Stderr receive command output, os.Stdout and os.Stderr
	// when nil
	Stdout io.Writer
	Stderr io.Writer

	// Config skips configuration loading when set
	Config *config.Config

	// FS, Runner and VCS replace the real implementations
	FS     types.FS
	Runner command.Runner
	VCS    actions.VCS
}

// Context holds everything a single dotty invocation works with
type Context struct {
	Config   *config.Config
	Paths    paths.Paths
	FS       types.FS
	Store    *profile.Store
	Registry *registry.Registry
	Actions  *actions.Actions
	Reporter *style.Reporter
	Stdout   io.Writer

	logger zerolog.Logger
}

// New loads configuration and state and builds a Context
func New(opts Options) (*Context, error) {
	logger := logging.GetLogger("core")

	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	cfg := opts.Config
	if cfg == nil {
		bootstrap, err := paths.New(opts.Root)
		if err != nil {
			return nil, err
		}
		cfg, err = config.Load(bootstrap.ConfigDir())
		if err != nil {
			return nil, err
		}
	}

	root := opts.Root
	if root == "" {
		root = cfg.Root
	}
	p, err := paths.New(root)
	if err != nil {
		return nil, err
	}

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}

	store, err := profile.Open(fs, p.ProfilesFile(), cfg.DefaultProfile)
	if err != nil {
		return nil, err
	}

	runner := opts.Runner
	if runner == nil {
		runner = command.NewRunner(opts.Stdout, opts.Stderr)
	}

	vcs := opts.VCS
	if vcs == nil {
		vcs = git.New(runner, git.Options{
			Binary:          cfg.Git.Binary,
			SubmoduleRemote: cfg.Git.SubmoduleRemote,
			SubmoduleBranch: cfg.Git.SubmoduleBranch,
		})
	}

	reporter := style.NewReporter(opts.Stdout)

	c := &Context{
		Config:   cfg,
		Paths:    p,
		FS:       fs,
		Store:    store,
		Registry: registry.New(store, p, fs),
		Reporter: reporter,
		Stdout:   opts.Stdout,
		logger:   logger,
	}
	c.Actions = actions.New(fs, vcs, runner, reporter, actions.Options{
		Home:          p.HomeDir(),
		HookFile:      cfg.Hooks.File,
		CommitMessage: cfg.Git.CommitMessage,
		Force:         opts.Force,
	})

	logger.Debug().
		Str("root", p.Root()).
		Str("profile", store.CurrentProfile()).
		Strs("configSources", cfg.Sources).
		Msg("Context initialized")
	return c, nil
}

// Invalidate drops every cached view of the persisted state
func (c *Context) Invalidate() {
	c.Store.Reset()
	c.Registry.Invalidate()
}
