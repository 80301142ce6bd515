package config

import "github.com/nibzard/todo-go/internal/todo"

// AppName is the directory name used under the platform config location.
const AppName = "todoapp"

// Default values.
const (
	DefaultConfigFile      = "config.toml"
	DefaultStoreFile       = todo.DefaultStoreFile
	DefaultTheme           = "default"
	DefaultEditClearsFocus = true
	DefaultLogLevel        = "warn"
	DefaultLogFormat       = "text"
)

// Config holds the full configuration for todo.
type Config struct {
	// StorePath overrides the task store location. Supports ~ and env
	// expansion.
	StorePath string `toml:"store_path"`

	// Theme names the output palette: default, noir or solarized.
	Theme string `toml:"theme"`

	// EditClearsFocus clears focus when the focused task is edited.
	EditClearsFocus bool `toml:"edit_clears_focus"`

	Notifications NotificationsConfig `toml:"notifications"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// Aliases maps a command word to a replacement command line.
	Aliases map[string]string `toml:"aliases"`

	// Path is the config file that was consulted (computed).
	Path string `toml:"-"`
}

// NotificationsConfig controls the notify command.
type NotificationsConfig struct {
	Enabled bool `toml:"enabled"`
	// Command replaces the platform notifier. Args may use {summary},
	// {title}, {id} and {action} placeholders.
	Command string  `toml:"command"`
	Args    ArgList `toml:"args"`
}

// ArgList is a list of command arguments. In TOML it may be written as a
// string array or as a single comma-separated string.
type ArgList []string

// UnmarshalTOML accepts either representation.
func (a *ArgList) UnmarshalTOML(data interface{}) error {
	args, err := parseArgsValue(data)
	if err != nil {
		return err
	}
	*a = args
	return nil
}

// Default returns a config with built-in defaults applied.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Alias returns the expansion for name, if configured.
func (c *Config) Alias(name string) (string, bool) {
	if c == nil || c.Aliases == nil {
		return "", false
	}
	expansion, ok := c.Aliases[name]
	return expansion, ok
}
