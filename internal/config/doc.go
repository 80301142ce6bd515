// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. Config file (TOML)
// 3. Environment variables (TODOAPP_*)
// 4. --config-override KEY=VALUE flags
//
// Each level overrides the previous one.
//
// Config file location:
// - $TODOAPP_CONFIG_PATH when set and non-blank
// - Windows: %APPDATA%\todoapp\config.toml
// - Everything else: $HOME/.config/todoapp/config.toml
//
// A missing config file is not an error. A config file that cannot be read
// or parsed is reported by LoadWithFallback as a warning alongside the
// defaults.
package config
