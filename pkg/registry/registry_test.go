package registry

import (
	"context"
	iofs "io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/arthur-debert/dotty/pkg/profile"
	"github.com/arthur-debert/dotty/pkg/repository"
	"github.com/arthur-debert/dotty/pkg/testutil"
	"github.com/arthur-debert/dotty/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, document string) (*Registry, *profile.Store, *testutil.TestEnvironment) {
	t.Helper()
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	if document != "" {
		require.NoError(t, env.FS.WriteFile(env.Paths.ProfilesFile(), []byte(document), 0644))
	}
	store, err := profile.Open(env.FS, env.Paths.ProfilesFile(), "default")
	require.NoError(t, err)
	return New(store, env.Paths, env.FS), store, env
}

func names(repos []*repository.Repository) []string {
	var out []string
	for _, repo := range repos {
		out = append(out, repo.Name)
	}
	return out
}

func TestListAndFind(t *testing.T) {
	reg, _, env := setup(t, `
profiles:
  work:
    repositories:
      dots: {url: u-dots}
      vim: {url: u-vim}
`)

	assert.Equal(t, []string{"dots", "vim"}, names(reg.List()))
	assert.Equal(t, 2, reg.Count())

	vim := reg.Find("vim")
	require.NotNil(t, vim)
	assert.Equal(t, "u-vim", vim.URL)
	assert.Equal(t, env.Paths.RepositoryPath("work", "vim"), vim.LocalPath())

	assert.Nil(t, reg.Find("missing"))
	_, err := reg.Get("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestAdd(t *testing.T) {
	reg, store, env := setup(t, "")

	repo, err := reg.Add("dots", "git@host:dots.git")
	require.NoError(t, err)
	assert.Equal(t, env.Paths.RepositoryPath("default", "dots"), repo.LocalPath())

	_, err = reg.Add("dots", "other")
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	_, err = reg.Add("repo a", "url")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidName))

	data := store.CurrentProfileData()
	assert.Equal(t, "dots", data.CurrentTarget, "sole repository becomes the persisted target")
	assert.Equal(t, profile.Repositories{{Name: "dots", URL: "git@host:dots.git"}}, data.Repositories)

	reopened, err := profile.Open(env.FS, env.Paths.ProfilesFile(), "default")
	require.NoError(t, err)
	assert.Equal(t, data, reopened.CurrentProfileData())
}

func TestCurrentTargetAutoResolution(t *testing.T) {
	tests := []struct {
		name     string
		document string
		expected string
	}{
		{"no repositories", "profiles:\n  p: {}\n", ""},
		{"sole repository", "profiles:\n  p:\n    repositories:\n      only: {url: u}\n", "only"},
		{"two repositories", "profiles:\n  p:\n    repositories:\n      a: {url: u}\n      b: {url: u}\n", ""},
		{"explicit target", "profiles:\n  p:\n    current_target: b\n    repositories:\n      a: {url: u}\n      b: {url: u}\n", "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, _, _ := setup(t, tt.document)
			assert.Equal(t, tt.expected, reg.CurrentTarget())
		})
	}
}

func TestSetCurrentTarget(t *testing.T) {
	reg, store, _ := setup(t, "profiles:\n  p:\n    current_target: a\n    repositories:\n      a: {url: u}\n      b: {url: u}\n")

	err := reg.SetCurrentTarget("nope")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidRepositoryName))
	assert.Equal(t, "a", reg.CurrentTarget(), "failed assignment leaves the value unchanged")

	require.NoError(t, reg.SetCurrentTarget("b"))
	assert.Equal(t, "b", store.CurrentProfileData().CurrentTarget)

	require.NoError(t, reg.SetCurrentTarget(""))
	assert.Equal(t, "", reg.CurrentTarget())

	_, err = reg.CurrentTargetRepository()
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoTarget))
}

func TestRemoveResetsCurrentTarget(t *testing.T) {
	reg, store, _ := setup(t, "profiles:\n  p:\n    current_target: a\n    repositories:\n      a: {url: u}\n      b: {url: u}\n")

	removed, err := reg.Remove("a")
	require.NoError(t, err)
	assert.Equal(t, "a", removed.Name)

	assert.Equal(t, []string{"b"}, names(reg.List()))
	assert.Equal(t, "b", reg.CurrentTarget())
	assert.Equal(t, "b", store.CurrentProfileData().CurrentTarget)

	repo, err := reg.CurrentTargetRepository()
	require.NoError(t, err)
	assert.Equal(t, "b", repo.Name)

	_, err = reg.Remove("a")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestProfileSwitchInvalidatesCache(t *testing.T) {
	reg, store, env := setup(t, `
profiles:
  home:
    repositories:
      dots: {url: u}
  work:
    repositories:
      corp: {url: c}
`)

	assert.Equal(t, []string{"dots"}, names(reg.List()))

	require.NoError(t, store.SetCurrent("work"))
	repos := reg.List()
	assert.Equal(t, []string{"corp"}, names(repos))
	assert.Equal(t, env.Paths.RepositoryPath("work", "corp"), repos[0].LocalPath())

	require.NoError(t, store.Write())
	home, err := store.Find("home")
	require.NoError(t, err)
	assert.Equal(t, profile.Repositories{{Name: "dots", URL: "u"}}, home.Repositories, "other profiles are untouched")
}

type mockInstaller struct {
	mock.Mock
}

func (m *mockInstaller) Install(ctx context.Context, repo *repository.Repository) error {
	return m.Called(repo.Name).Error(0)
}

func TestImportFromFile(t *testing.T) {
	reg, _, env := setup(t, "profiles:\n  p:\n    repositories:\n      repo2: {url: existing}\n")
	path := env.HomePath("repos.yml")
	require.NoError(t, env.FS.WriteFile(path, []byte("repo1:\n  url: url1\nrepo2:\n  url: url2\n"), 0644))

	installer := new(mockInstaller)
	installer.On("Install", "repo1").Return(nil).Once()

	result, err := reg.Import(context.Background(), path, time.Second, installer)
	require.NoError(t, err)
	assert.Equal(t, []string{"repo1"}, result.Added)
	assert.Equal(t, []string{"repo2"}, result.Skipped)
	installer.AssertExpectations(t)

	assert.Equal(t, "existing", reg.Find("repo2").URL)
	assert.Equal(t, "url1", reg.Find("repo1").URL)
}

func TestImportFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos.yml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("repo1: {url: url1}\nrepo2: {url: url2}\n"))
	}))
	defer server.Close()

	reg, _, _ := setup(t, "")
	installer := new(mockInstaller)
	installer.On("Install", "repo1").Return(nil).Once()
	installer.On("Install", "repo2").Return(nil).Once()

	result, err := reg.Import(context.Background(), server.URL+"/repos.yml", time.Second, installer)
	require.NoError(t, err)
	assert.Equal(t, []string{"repo1", "repo2"}, result.Added)
	installer.AssertExpectations(t)

	_, err = reg.Import(context.Background(), server.URL+"/missing.yml", time.Second, installer)
	assert.True(t, errors.IsErrorCode(err, errors.ErrImport))
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty document", ""},
		{"empty mapping", "{}\n"},
		{"not a mapping", "- repo1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, _, env := setup(t, "")
			path := env.HomePath("repos.yml")
			require.NoError(t, env.FS.WriteFile(path, []byte(tt.content), 0644))

			_, err := reg.Import(context.Background(), path, time.Second, new(mockInstaller))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrImport))
		})
	}

	reg, _, _ := setup(t, "")
	_, err := reg.Import(context.Background(), "/does/not/exist.yml", time.Second, new(mockInstaller))
	assert.True(t, errors.IsErrorCode(err, errors.ErrImport))
}

func TestImportLowercasesNames(t *testing.T) {
	reg, _, env := setup(t, "profiles:\n  p:\n    repositories:\n      dots: {url: existing}\n")
	path := env.HomePath("repos.yml")
	require.NoError(t, env.FS.WriteFile(path, []byte("MyRepo: {url: url1}\nDOTS: {url: url2}\n"), 0644))

	installer := new(mockInstaller)
	installer.On("Install", "myrepo").Return(nil).Once()

	result, err := reg.Import(context.Background(), path, time.Second, installer)
	require.NoError(t, err)
	assert.Equal(t, []string{"myrepo"}, result.Added)
	assert.Equal(t, []string{"dots"}, result.Skipped)
	installer.AssertExpectations(t)

	require.NotNil(t, reg.Find("myrepo"))
	assert.Equal(t, "existing", reg.Find("dots").URL)
}

// unwritableFS fails every file write
type unwritableFS struct {
	types.FS
}

func (unwritableFS) WriteFile(string, []byte, iofs.FileMode) error {
	return os.ErrPermission
}

func TestFailedWriteKeepsRepositories(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	document := "profiles:\n  p:\n    current_target: dots\n    repositories:\n      dots: {url: u-dots}\n"
	require.NoError(t, env.FS.WriteFile(env.Paths.ProfilesFile(), []byte(document), 0644))

	fs := unwritableFS{env.FS}
	store, err := profile.Open(fs, env.Paths.ProfilesFile(), "default")
	require.NoError(t, err)
	reg := New(store, env.Paths, fs)

	_, err = reg.Add("vim", "u-vim")
	require.Error(t, err)
	assert.Equal(t, []string{"dots"}, names(reg.List()))

	_, err = reg.Remove("dots")
	require.Error(t, err)
	assert.Equal(t, []string{"dots"}, names(reg.List()))
	assert.Equal(t, "dots", reg.CurrentTarget())
}
