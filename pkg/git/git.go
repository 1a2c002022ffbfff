// Package git is dotty's version-control collaborator. Every operation
// shells out to the git binary through a command.Runner.
package git

import (
	"context"
	"strings"

	"github.com/arthur-debert/dotty/pkg/command"
	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/arthur-debert/dotty/pkg/logging"
	"github.com/rs/zerolog"
)

// aheadMarker is printed by `git status` when local commits are unpushed
const aheadMarker = "Your branch is ahead of"

// Options configures the git client
type Options struct {
	// Binary is the git executable, "git" when empty
	Binary string

	// SubmoduleRemote and SubmoduleBranch are pulled in every submodule
	SubmoduleRemote string
	SubmoduleBranch string
}

// Client runs git commands
type Client struct {
	runner command.Runner
	opts   Options
	logger zerolog.Logger
}

// New creates a git client on top of runner
func New(runner command.Runner, opts Options) *Client {
	if opts.Binary == "" {
		opts.Binary = "git"
	}
	if opts.SubmoduleRemote == "" {
		opts.SubmoduleRemote = "origin"
	}
	if opts.SubmoduleBranch == "" {
		opts.SubmoduleBranch = "master"
	}
	return &Client{
		runner: runner,
		opts:   opts,
		logger: logging.GetLogger("git"),
	}
}

func (c *Client) cmd(dir string, args ...string) command.Command {
	return command.Command{
		Name: c.opts.Binary,
		Args: args,
		Dir:  dir,
		// Stable English output for the porcelain-free checks below
		Env: map[string]string{"LC_ALL": "C"},
	}
}

// stream runs a user-visible git command
func (c *Client) stream(ctx context.Context, dir string, args ...string) error {
	cmd := c.cmd(dir, args...)
	c.logger.Debug().Str("dir", dir).Strs("args", args).Msg("git")
	if err := c.runner.Stream(ctx, cmd); err != nil {
		return errors.Wrapf(err, errors.ErrVCSCommand, "git %s failed", args[0]).
			WithDetail("dir", dir)
	}
	return nil
}

// output runs a git command and returns its stdout
func (c *Client) output(ctx context.Context, dir string, args ...string) (string, error) {
	res, err := c.runner.Run(ctx, c.cmd(dir, args...))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrVCSCommand, "git %s failed", args[0]).
			WithDetail("dir", dir)
	}
	return res.Stdout, nil
}

// Clone clones url into path
func (c *Client) Clone(ctx context.Context, url, path string) error {
	return c.stream(ctx, "", "clone", url, path)
}

// Init creates an empty repository in dir
func (c *Client) Init(ctx context.Context, dir string) error {
	return c.stream(ctx, dir, "init")
}

// AddRemote registers a remote in the repository at dir
func (c *Client) AddRemote(ctx context.Context, dir, name, url string) error {
	return c.stream(ctx, dir, "remote", "add", name, url)
}

// SubmoduleUpdate initializes and checks out submodules
func (c *Client) SubmoduleUpdate(ctx context.Context, dir string) error {
	return c.stream(ctx, dir, "submodule", "update", "--init")
}

// SubmodulePull pulls the configured remote branch in every submodule
func (c *Client) SubmodulePull(ctx context.Context, dir string) error {
	pull := strings.Join([]string{c.opts.Binary, "pull", c.opts.SubmoduleRemote, c.opts.SubmoduleBranch}, " ")
	return c.stream(ctx, dir, "submodule", "foreach", pull)
}

// Fetch fetches from the default remote
func (c *Client) Fetch(ctx context.Context, dir string) error {
	return c.stream(ctx, dir, "fetch")
}

// Pull pulls the current branch
func (c *Client) Pull(ctx context.Context, dir string) error {
	return c.stream(ctx, dir, "pull")
}

// Changes returns the porcelain status lines of uncommitted changes
func (c *Client) Changes(ctx context.Context, dir string) ([]string, error) {
	out, err := c.output(ctx, dir, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	var changes []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			changes = append(changes, line)
		}
	}
	return changes, nil
}

// Unpushed reports whether the current branch is ahead of its upstream
func (c *Client) Unpushed(ctx context.Context, dir string) (bool, error) {
	out, err := c.output(ctx, dir, "status")
	if err != nil {
		return false, err
	}
	return strings.Contains(out, aheadMarker), nil
}

// CommitAll commits every tracked modification with message
func (c *Client) CommitAll(ctx context.Context, dir, message string) error {
	return c.stream(ctx, dir, "commit", "-am", message)
}

// Push pushes the current branch
func (c *Client) Push(ctx context.Context, dir string) error {
	return c.stream(ctx, dir, "push")
}
