package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. Config file (see ConfigPath)
// 3. Environment variables
//
// Any problem locating, reading or parsing the config file is returned as
// an error. Overrides are applied separately with ApplyOverrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	cfg.Path = path

	if err := loadConfigFile(cfg, path); err != nil {
		return nil, err
	}

	loadFromEnv(cfg)
	finalizeConfig(cfg)
	return cfg, nil
}

// LoadWithFallback behaves like Load, but never fails: when the config file
// cannot be used it returns defaults (plus environment) together with the
// problem as a warning.
func LoadWithFallback() (*Config, error) {
	cfg, err := Load()
	if err == nil {
		return cfg, nil
	}

	cfg = Default()
	if path, pathErr := ConfigPath(); pathErr == nil {
		cfg.Path = path
	}
	loadFromEnv(cfg)
	finalizeConfig(cfg)
	return cfg, err
}

// LoadFile loads defaults and the given file, without consulting the
// environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	cfg.Path = path
	if err := loadConfigFile(cfg, path); err != nil {
		return nil, err
	}
	finalizeConfig(cfg)
	return cfg, nil
}

// loadConfigFile decodes TOML from path into cfg. A missing file is not an
// error.
func loadConfigFile(cfg *Config, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("reading config file %s: is a directory", path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// finalizeConfig normalises values after all sources are merged.
func finalizeConfig(cfg *Config) {
	cfg.Theme = CanonicalTheme(cfg.Theme)
	cfg.StorePath = strings.TrimSpace(cfg.StorePath)
	cfg.Aliases = normalizeAliases(cfg.Aliases)
	cfg.Notifications.Args = filterEmptyArgs(cfg.Notifications.Args)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Theme = DefaultTheme
	cfg.EditClearsFocus = DefaultEditClearsFocus
	cfg.Notifications.Enabled = true
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.Aliases = map[string]string{}
}
