package git

import (
	"context"
	"fmt"
	"testing"

	"github.com/arthur-debert/dotty/pkg/command"
	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, cmd command.Command) (command.Result, error) {
	args := m.Called(cmd.Dir, cmd.Args)
	return args.Get(0).(command.Result), args.Error(1)
}

func (m *mockRunner) Stream(ctx context.Context, cmd command.Command) error {
	args := m.Called(cmd.Dir, cmd.Args)
	return args.Error(0)
}

func TestStreamedCommands(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		call func(c *Client) error
		dir  string
		args []string
	}{
		{"clone", func(c *Client) error { return c.Clone(ctx, "git@host:dots.git", "/r/default/dots") }, "", []string{"clone", "git@host:dots.git", "/r/default/dots"}},
		{"init", func(c *Client) error { return c.Init(ctx, "/repo") }, "/repo", []string{"init"}},
		{"add remote", func(c *Client) error { return c.AddRemote(ctx, "/repo", "origin", "u") }, "/repo", []string{"remote", "add", "origin", "u"}},
		{"submodule update", func(c *Client) error { return c.SubmoduleUpdate(ctx, "/repo") }, "/repo", []string{"submodule", "update", "--init"}},
		{"submodule pull", func(c *Client) error { return c.SubmodulePull(ctx, "/repo") }, "/repo", []string{"submodule", "foreach", "git pull origin master"}},
		{"fetch", func(c *Client) error { return c.Fetch(ctx, "/repo") }, "/repo", []string{"fetch"}},
		{"pull", func(c *Client) error { return c.Pull(ctx, "/repo") }, "/repo", []string{"pull"}},
		{"commit", func(c *Client) error { return c.CommitAll(ctx, "/repo", "Updated submodules") }, "/repo", []string{"commit", "-am", "Updated submodules"}},
		{"push", func(c *Client) error { return c.Push(ctx, "/repo") }, "/repo", []string{"push"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(mockRunner)
			runner.On("Stream", tt.dir, tt.args).Return(nil)

			require.NoError(t, tt.call(New(runner, Options{})))
			runner.AssertExpectations(t)
		})
	}
}

func TestSubmodulePullUsesOptions(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Stream", "/repo", []string{"submodule", "foreach", "/usr/bin/git pull upstream main"}).Return(nil)

	c := New(runner, Options{Binary: "/usr/bin/git", SubmoduleRemote: "upstream", SubmoduleBranch: "main"})
	require.NoError(t, c.SubmodulePull(context.Background(), "/repo"))
	runner.AssertExpectations(t)
}

func TestStreamFailureIsWrapped(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Stream", "/repo", []string{"pull"}).Return(fmt.Errorf("exit status 1"))

	err := New(runner, Options{}).Pull(context.Background(), "/repo")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrVCSCommand))
}

func TestChanges(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Run", "/repo", []string{"status", "--porcelain"}).
		Return(command.Result{Stdout: " M vimrc\n?? new\n\n"}, nil)

	changes, err := New(runner, Options{}).Changes(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Equal(t, []string{" M vimrc", "?? new"}, changes)
}

func TestChangesClean(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Run", "/repo", []string{"status", "--porcelain"}).Return(command.Result{}, nil)

	changes, err := New(runner, Options{}).Changes(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestUnpushed(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   bool
	}{
		{"ahead", "On branch master\nYour branch is ahead of 'origin/master' by 2 commits.\n", true},
		{"up to date", "On branch master\nYour branch is up to date with 'origin/master'.\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(mockRunner)
			runner.On("Run", "/repo", []string{"status"}).Return(command.Result{Stdout: tt.stdout}, nil)

			got, err := New(runner, Options{}).Unpushed(context.Background(), "/repo")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnpushedError(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Run", "/repo", []string{"status"}).Return(command.Result{}, fmt.Errorf("not a repository"))

	_, err := New(runner, Options{}).Unpushed(context.Background(), "/repo")
	assert.True(t, errors.IsErrorCode(err, errors.ErrVCSCommand))
}
