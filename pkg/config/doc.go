// Package config handles configuration management for dotty.
//
// Configuration is layered with koanf, lowest precedence first:
//
//   - embedded defaults (embedded/defaults.toml)
//   - the user file: config.toml or config.yaml in the dotty config
//     directory, or the file named by DOTTY_CONFIG
//   - DOTTY_* keys from the optional dotty.env file in the config directory
//   - DOTTY_* process environment variables
//
// Environment keys map onto configuration keys by lowercasing and using a
// double underscore for nesting: DOTTY_GIT__BINARY sets git.binary and
// DOTTY_DEFAULT_PROFILE sets default_profile.
package config
