// Package command runs external programs for dotty.
//
// Two modes are supported: Run captures stdout and stderr so callers can
// inspect them (git status, porcelain output), and Stream attaches the
// child to the runner's writers so long operations like clones show their
// progress to the user.
package command

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/arthur-debert/dotty/pkg/logging"
	"github.com/rs/zerolog"
)

// Command describes a single program invocation
type Command struct {
	Name string
	Args []string

	// Dir is the working directory, the current one when empty
	Dir string

	// Env is appended to the inherited environment
	Env map[string]string
}

// String renders the command line for logs and error messages
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result holds captured output of a finished command
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes commands
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
	Stream(ctx context.Context, cmd Command) error
}

// ExecRunner is the os/exec backed Runner
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	logger zerolog.Logger
}

// NewRunner creates a runner that streams to the given writers.
// Nil writers default to the process stdout and stderr.
func NewRunner(stdout, stderr io.Writer) *ExecRunner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &ExecRunner{
		Stdin:  os.Stdin,
		Stdout: stdout,
		Stderr: stderr,
		logger: logging.GetLogger("command"),
	}
}

// Run executes cmd and captures its output. A non-zero exit is returned as
// an ErrCommandExecute error alongside the captured Result.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	c, err := r.prepare(ctx, cmd)
	if err != nil {
		return Result{}, err
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	runErr := c.Run()
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(runErr),
	}

	r.logger.Debug().
		Str("command", cmd.String()).
		Int("exitCode", result.ExitCode).
		Str("stdout", result.Stdout).
		Str("stderr", result.Stderr).
		Msg("Command finished")

	if runErr != nil {
		return result, r.failure(cmd, runErr, result.ExitCode, result.Stderr)
	}
	return result, nil
}

// Stream executes cmd with its output attached to the runner's writers
func (r *ExecRunner) Stream(ctx context.Context, cmd Command) error {
	c, err := r.prepare(ctx, cmd)
	if err != nil {
		return err
	}

	c.Stdin = r.Stdin
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr

	if runErr := c.Run(); runErr != nil {
		return r.failure(cmd, runErr, exitCode(runErr), "")
	}
	return nil
}

func (r *ExecRunner) prepare(ctx context.Context, cmd Command) (*exec.Cmd, error) {
	if cmd.Name == "" {
		return nil, errors.New(errors.ErrInvalidInput, "command requires a program name")
	}

	logging.LogCommand(cmd.Dir, cmd.Name, cmd.Args)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Dir != "" {
		if _, err := os.Stat(cmd.Dir); os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrFileAccess,
				"working directory does not exist: %s", cmd.Dir)
		}
		c.Dir = cmd.Dir
	}

	if len(cmd.Env) > 0 {
		c.Env = os.Environ()
		for key, value := range cmd.Env {
			c.Env = append(c.Env, fmt.Sprintf("%s=%s", key, value))
		}
	}
	return c, nil
}

func (r *ExecRunner) failure(cmd Command, err error, code int, stderr string) error {
	r.logger.Error().
		Err(err).
		Str("command", cmd.String()).
		Str("dir", cmd.Dir).
		Int("exitCode", code).
		Msg("Command execution failed")

	return errors.Wrapf(err, errors.ErrCommandExecute, "command failed: %s", cmd.String()).
		WithDetail("exitCode", code).
		WithDetail("stderr", strings.TrimSpace(stderr)).
		WithDetail("dir", cmd.Dir)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
