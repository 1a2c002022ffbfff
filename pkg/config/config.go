package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/dotty/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

const (
	// EnvPrefix prefixes every environment key dotty reads
	EnvPrefix = "DOTTY_"

	// EnvConfigFile points at an explicit user configuration file
	EnvConfigFile = "DOTTY_CONFIG"

	// EnvFileName is the optional dotenv file in the config directory
	EnvFileName = "dotty.env"
)

// userConfigFiles are tried in order inside the config directory
var userConfigFiles = []string{"config.toml", "config.yaml", "config.yml"}

//go:embed embedded/defaults.toml
var defaultConfig []byte

// Config is the effective dotty configuration
type Config struct {
	Root           string       `koanf:"root"`
	DefaultProfile string       `koanf:"default_profile"`
	Git            GitConfig    `koanf:"git"`
	Hooks          HooksConfig  `koanf:"hooks"`
	Import         ImportConfig `koanf:"import"`
	Output         OutputConfig `koanf:"output"`

	// Sources lists the files that contributed to this configuration
	Sources []string `koanf:"-"`
}

// GitConfig configures the version-control collaborator
type GitConfig struct {
	Binary          string `koanf:"binary"`
	SubmoduleRemote string `koanf:"submodule_remote"`
	SubmoduleBranch string `koanf:"submodule_branch"`
	CommitMessage   string `koanf:"commit_message"`
}

// HooksConfig configures repository hook discovery
type HooksConfig struct {
	File string `koanf:"file"`
}

// ImportConfig configures import_repos
type ImportConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// OutputConfig configures terminal rendering
type OutputConfig struct {
	Color string `koanf:"color"`
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("not implemented")
}

// Load builds the effective configuration. configDir is the directory
// searched for user configuration and the dotenv file.
func Load(configDir string) (*Config, error) {
	k := koanf.New(".")
	var sources []string

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User configuration file
	if path := findUserConfig(configDir); path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
		}
		sources = append(sources, path)
	}

	// 3. dotenv file, not exported to the process environment
	envFile := filepath.Join(configDir, EnvFileName)
	if _, err := os.Stat(envFile); err == nil {
		values, err := godotenv.Read(envFile)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to read %s", envFile)
		}
		fromFile := make(map[string]interface{})
		for key, value := range values {
			if strings.HasPrefix(key, EnvPrefix) {
				fromFile[envKey(key)] = value
			}
		}
		if err := k.Load(confmap.Provider(fromFile, "."), nil); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load %s", envFile)
		}
		sources = append(sources, envFile)
	}

	// 4. Process environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	cfg.Sources = sources

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps DOTTY_GIT__BINARY to git.binary
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func findUserConfig(configDir string) string {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return path
	}
	for _, name := range userConfigFiles {
		path := filepath.Join(configDir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// Validate checks values the rest of dotty relies on
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DefaultProfile) == "" {
		return errors.New(errors.ErrConfigParse, "default_profile must not be empty")
	}
	if strings.TrimSpace(c.Git.Binary) == "" {
		return errors.New(errors.ErrConfigParse, "git.binary must not be empty")
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return errors.Newf(errors.ErrConfigParse, "output.color must be auto, always or never, got %q", c.Output.Color)
	}
	if c.Import.Timeout < 0 {
		return errors.New(errors.ErrConfigParse, "import.timeout must not be negative")
	}
	return nil
}

// dumpView mirrors Config with TOML tags and printable durations
type dumpView struct {
	Root           string `toml:"root"`
	DefaultProfile string `toml:"default_profile"`
	Git            struct {
		Binary          string `toml:"binary"`
		SubmoduleRemote string `toml:"submodule_remote"`
		SubmoduleBranch string `toml:"submodule_branch"`
		CommitMessage   string `toml:"commit_message"`
	} `toml:"git"`
	Hooks struct {
		File string `toml:"file"`
	} `toml:"hooks"`
	Import struct {
		Timeout string `toml:"timeout"`
	} `toml:"import"`
	Output struct {
		Color string `toml:"color"`
	} `toml:"output"`
}

// TOML renders the effective configuration in the user file format
func (c *Config) TOML() (string, error) {
	var v dumpView
	v.Root = c.Root
	v.DefaultProfile = c.DefaultProfile
	v.Git.Binary = c.Git.Binary
	v.Git.SubmoduleRemote = c.Git.SubmoduleRemote
	v.Git.SubmoduleBranch = c.Git.SubmoduleBranch
	v.Git.CommitMessage = c.Git.CommitMessage
	v.Hooks.File = c.Hooks.File
	v.Import.Timeout = c.Import.Timeout.String()
	v.Output.Color = c.Output.Color

	out, err := gotoml.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return string(out), nil
}
