package core

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotty/pkg/actions"
	"github.com/arthur-debert/dotty/pkg/config"
	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/arthur-debert/dotty/pkg/profile"
	"github.com/arthur-debert/dotty/pkg/repository"
	"github.com/arthur-debert/dotty/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T, vcs *testutil.MockVCS) (*Context, *testutil.TestEnvironment, *bytes.Buffer) {
	t.Helper()
	testutil.SkipOnWindows(t)

	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	cfg, err := config.Load(env.ConfigDir)
	require.NoError(t, err)

	if vcs == nil {
		vcs = testutil.NewPermissiveVCS()
	}
	out := &bytes.Buffer{}
	c, err := New(Options{
		Config: cfg,
		FS:     env.FS,
		VCS:    vcs,
		Stdout: out,
		Stderr: out,
	})
	require.NoError(t, err)
	return c, env, out
}

func TestNewUsesEnvironmentRoot(t *testing.T) {
	c, env, _ := newContext(t, nil)

	assert.Equal(t, env.Root, c.Paths.Root())
	assert.Equal(t, filepath.Join(env.Root, ".profiles.yml"), c.Store.Path())
	assert.Equal(t, "default", c.Store.CurrentProfile())
}

func TestNewRootOverride(t *testing.T) {
	testutil.SkipOnWindows(t)
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	other := filepath.Join(env.HomeDir, "elsewhere")

	c, err := New(Options{Root: other, VCS: testutil.NewPermissiveVCS(), Stdout: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, other, c.Paths.Root())
}

func TestProfileNames(t *testing.T) {
	c, _, _ := newContext(t, nil)
	assert.Equal(t, []string{"default"}, c.ProfileNames())

	require.NoError(t, c.CreateProfile("Home"))
	require.NoError(t, c.CreateProfile("work"))
	assert.Equal(t, []string{"home", "work"}, c.ProfileNames())

	err := c.CreateProfile("home")
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	require.NoError(t, c.RemoveProfile("WORK"))
	assert.Equal(t, []string{"home"}, c.ProfileNames())
}

func TestAddRepository(t *testing.T) {
	c, env, _ := newContext(t, nil)
	env.CreateRepository("default", "dots", testutil.FileTree{
		"dotfiles": testutil.FileTree{".vimrc": "set nocompatible"},
	})

	repo, err := c.AddRepository(context.Background(), "Dots", "git@example.com:dots.git")
	require.NoError(t, err)
	assert.Equal(t, "dots", repo.Name)

	testutil.AssertSymlink(t, env.HomePath(".vimrc"), filepath.Join(repo.LocalPath(), "dotfiles", ".vimrc"))
	assert.Equal(t, "dots", c.Registry.CurrentTarget())

	_, err = c.AddRepository(context.Background(), "dots", "other")
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
}

func TestCreateRepository(t *testing.T) {
	c, _, _ := newContext(t, nil)

	repo, err := c.CreateRepository(context.Background(), "fresh", "git@example.com:fresh.git")
	require.NoError(t, err)

	assert.True(t, testutil.DirExists(t, filepath.Join(repo.LocalPath(), "dotfiles")))
	assert.True(t, testutil.FileExists(t, filepath.Join(repo.LocalPath(), "README.md")))
	assert.NotNil(t, c.Registry.Find("fresh"))
}

func TestRemoveRepository(t *testing.T) {
	c, env, _ := newContext(t, nil)
	env.CreateRepository("default", "dots", testutil.FileTree{
		"dotfiles": testutil.FileTree{".vimrc": "x"},
	})
	ctx := context.Background()

	_, err := c.AddRepository(ctx, "dots", "url")
	require.NoError(t, err)

	repo, err := c.RemoveRepository(ctx, "DOTS")
	require.NoError(t, err)

	testutil.AssertNoFile(t, env.HomePath(".vimrc"))
	assert.False(t, testutil.DirExists(t, repo.LocalPath()))
	assert.Equal(t, 0, c.Registry.Count())
	assert.Equal(t, "", c.Registry.CurrentTarget())

	_, err = c.RemoveRepository(ctx, "dots")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestForSpecifiedOrAll(t *testing.T) {
	c, _, _ := newContext(t, nil)
	ctx := context.Background()

	for _, name := range []string{"one", "two"} {
		_, err := c.CreateRepository(ctx, name, "url-"+name)
		require.NoError(t, err)
	}

	var seen []string
	collect := func(repo *repository.Repository) error {
		seen = append(seen, repo.Name)
		return nil
	}

	require.NoError(t, c.ForSpecifiedOrAll("", collect))
	assert.Equal(t, []string{"one", "two"}, seen)

	seen = nil
	require.NoError(t, c.ForSpecifiedOrAll("TWO", collect))
	assert.Equal(t, []string{"two"}, seen)

	err := c.ForSpecifiedOrAll("three", collect)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestSwitchProfile(t *testing.T) {
	c, env, _ := newContext(t, nil)
	ctx := context.Background()

	require.NoError(t, c.CreateProfile("home"))
	require.NoError(t, c.CreateProfile("work"))
	require.NoError(t, c.SwitchProfile(ctx, "home"))

	env.CreateRepository("home", "dots", testutil.FileTree{
		"dotfiles": testutil.FileTree{".vimrc": "home vim"},
	})
	_, err := c.AddRepository(ctx, "dots", "git@example.com:dots.git")
	require.NoError(t, err)
	testutil.AssertSymlink(t, env.HomePath(".vimrc"), filepath.Join(env.Root, "home", "dots", "dotfiles", ".vimrc"))

	env.CreateRepository("work", "corp", testutil.FileTree{
		"dotfiles": testutil.FileTree{".gitconfig": "[user]"},
	})

	t.Run("to work", func(t *testing.T) {
		require.NoError(t, c.SwitchProfile(ctx, "WORK"))

		assert.Equal(t, "work", c.Store.CurrentProfile())
		assert.Equal(t, 0, c.Registry.Count())
		testutil.AssertNoFile(t, env.HomePath(".vimrc"))

		_, err := c.AddRepository(ctx, "corp", "git@example.com:corp.git")
		require.NoError(t, err)
		testutil.AssertSymlink(t, env.HomePath(".gitconfig"), filepath.Join(env.Root, "work", "corp", "dotfiles", ".gitconfig"))
	})

	t.Run("persisted", func(t *testing.T) {
		store, err := profile.Open(env.FS, c.Store.Path(), "default")
		require.NoError(t, err)
		assert.Equal(t, "work", store.CurrentProfile())

		home, err := store.Find("home")
		require.NoError(t, err)
		require.Len(t, home.Repositories, 1)
		assert.Equal(t, "dots", home.Repositories[0].Name)
	})

	t.Run("back to home", func(t *testing.T) {
		require.NoError(t, c.SwitchProfile(ctx, "home"))

		testutil.AssertNoFile(t, env.HomePath(".gitconfig"))
		testutil.AssertSymlink(t, env.HomePath(".vimrc"), filepath.Join(env.Root, "home", "dots", "dotfiles", ".vimrc"))
		assert.Equal(t, "dots", c.Registry.CurrentTarget())
	})

	t.Run("unknown profile", func(t *testing.T) {
		err := c.SwitchProfile(ctx, "nope")
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
		assert.Equal(t, "home", c.Store.CurrentProfile())
	})
}

func TestImportRepositories(t *testing.T) {
	c, env, out := newContext(t, nil)
	ctx := context.Background()

	_, err := c.CreateRepository(ctx, "repo1", "url-existing")
	require.NoError(t, err)

	doc := testutil.CreateFile(t, env.HomeDir, "repos.yml", "repo1:\n  url: url1\nrepo2:\n  url: url2\n")

	result, err := c.ImportRepositories(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"repo2"}, result.Added)
	assert.Equal(t, []string{"repo1"}, result.Skipped)

	repo2 := c.Registry.Find("repo2")
	require.NotNil(t, repo2)
	assert.Equal(t, "url2", repo2.URL)
	assert.True(t, testutil.DirExists(t, repo2.LocalPath()))
	assert.Contains(t, out.String(), "not adding 'repo1'")
}

func TestListRepositories(t *testing.T) {
	vcs := new(testutil.MockVCS)
	c, env, _ := newContext(t, vcs)
	ctx := context.Background()

	env.CreateRepository("default", "dots", testutil.FileTree{})
	vcs.On("SubmoduleUpdate", mock.Anything, mock.Anything).Return(nil)
	vcs.On("Changes", mock.Anything, mock.Anything).Return([]string{"?? new"}, nil)
	vcs.On("Unpushed", mock.Anything, mock.Anything).Return(false, nil)

	_, err := c.AddRepository(ctx, "dots", "git@example.com:dots.git")
	require.NoError(t, err)

	lines, err := c.ListRepositories(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "dots", lines[0].Name)
	assert.True(t, lines[0].Target)
	assert.Equal(t, 1, lines[0].Changes)
}

func TestTrackFile(t *testing.T) {
	c, env, _ := newContext(t, nil)
	ctx := context.Background()

	_, err := c.TrackFile(ctx, ".vimrc", "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoTarget))

	_, err = c.CreateRepository(ctx, "dots", "url")
	require.NoError(t, err)
	testutil.CreateFile(t, env.HomeDir, ".vimrc", "set nu")

	tracked, err := c.TrackFile(ctx, ".vimrc", "")
	require.NoError(t, err)
	assert.Equal(t, "dotfiles/.vimrc", tracked.Source)
	testutil.AssertSymlink(t, env.HomePath(".vimrc"), tracked.Destination)
}

func TestSetTarget(t *testing.T) {
	c, _, _ := newContext(t, nil)
	ctx := context.Background()

	for _, name := range []string{"one", "two"} {
		_, err := c.CreateRepository(ctx, name, "url-"+name)
		require.NoError(t, err)
	}
	assert.Equal(t, "one", c.Registry.CurrentTarget(), "first repository stays the persisted target")

	require.NoError(t, c.SetTarget("Two"))
	assert.Equal(t, "two", c.Registry.CurrentTarget())

	err := c.SetTarget("three")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidRepositoryName))
	assert.Equal(t, "two", c.Registry.CurrentTarget())
}

func TestUpdateSubmodulesDirty(t *testing.T) {
	vcs := new(testutil.MockVCS)
	c, env, _ := newContext(t, vcs)
	ctx := context.Background()

	env.CreateRepository("default", "dots", testutil.FileTree{})
	vcs.On("SubmoduleUpdate", mock.Anything, mock.Anything).Return(nil)
	vcs.On("Changes", mock.Anything, mock.Anything).Return([]string{" M x"}, nil)
	_, err := c.AddRepository(ctx, "dots", "url")
	require.NoError(t, err)

	err = c.UpdateSubmodules(ctx, "", actions.DefaultSubmoduleOptions())
	assert.True(t, errors.IsErrorCode(err, errors.ErrDirtyRepository))
}
