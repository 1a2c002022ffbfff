package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv keeps the developer's environment out of the tests
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvConfigFile,
		"DOTTY_ROOT",
		"DOTTY_DEFAULT_PROFILE",
		"DOTTY_GIT__BINARY",
		"DOTTY_OUTPUT__COLOR",
		"DOTTY_IMPORT__TIMEOUT",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "~/.dotty", cfg.Root)
	assert.Equal(t, "default", cfg.DefaultProfile)
	assert.Equal(t, "git", cfg.Git.Binary)
	assert.Equal(t, "origin", cfg.Git.SubmoduleRemote)
	assert.Equal(t, "master", cfg.Git.SubmoduleBranch)
	assert.Equal(t, "Updated submodules", cfg.Git.CommitMessage)
	assert.Equal(t, "dotty-hook", cfg.Hooks.File)
	assert.Equal(t, 30*time.Second, cfg.Import.Timeout)
	assert.Equal(t, "auto", cfg.Output.Color)
	assert.Empty(t, cfg.Sources)
}

func TestLoadUserFiles(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name: "toml overrides",
			file: "config.toml",
			content: `
default_profile = "work"

[git]
submodule_branch = "main"

[import]
timeout = "5s"
`,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "work", cfg.DefaultProfile)
				assert.Equal(t, "main", cfg.Git.SubmoduleBranch)
				assert.Equal(t, "origin", cfg.Git.SubmoduleRemote, "untouched keys keep defaults")
				assert.Equal(t, 5*time.Second, cfg.Import.Timeout)
			},
		},
		{
			name: "yaml overrides",
			file: "config.yaml",
			content: `
hooks:
  file: setup.sh
output:
  color: never
`,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "setup.sh", cfg.Hooks.File)
				assert.Equal(t, "never", cfg.Output.Color)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := Load(dir)
			require.NoError(t, err)
			assert.Equal(t, []string{path}, cfg.Sources)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadExplicitConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`default_profile = "laptop"`), 0644))
	t.Setenv(EnvConfigFile, path)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "laptop", cfg.DefaultProfile)
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFileName), []byte(
		"DOTTY_GIT__BINARY=/opt/git\nDOTTY_DEFAULT_PROFILE=fromfile\nOTHER=ignored\n",
	), 0644))
	t.Setenv("DOTTY_DEFAULT_PROFILE", "fromenv")
	t.Setenv("DOTTY_IMPORT__TIMEOUT", "2m")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/opt/git", cfg.Git.Binary)
	assert.Equal(t, "fromenv", cfg.DefaultProfile, "process env wins over dotty.env")
	assert.Equal(t, 2*time.Minute, cfg.Import.Timeout)
	assert.Contains(t, cfg.Sources, filepath.Join(dir, EnvFileName))
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[output]\ncolor = \"sometimes\"\n"), 0644))
	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))

	broken := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(broken, "config.toml"), []byte("this is = = not toml"), 0644))
	_, err = Load(broken)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "root", envKey("DOTTY_ROOT"))
	assert.Equal(t, "default_profile", envKey("DOTTY_DEFAULT_PROFILE"))
	assert.Equal(t, "git.submodule_branch", envKey("DOTTY_GIT__SUBMODULE_BRANCH"))
}

func TestTOML(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	out, err := cfg.TOML()
	require.NoError(t, err)
	assert.Regexp(t, `default_profile = ['"]default['"]`, out)
	assert.Contains(t, out, "[git]")
	assert.Regexp(t, `timeout = ['"]30s['"]`, out)
}
