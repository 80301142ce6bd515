package config

import (
	"os"
	"strings"

	"github.com/nibzard/todo-go/internal/utils"
)

// Environment variables read by todo.
const (
	EnvStorePath            = "TODOAPP_STORE_PATH"
	EnvConfigPath           = "TODOAPP_CONFIG_PATH"
	EnvDisableNotifications = "TODOAPP_DISABLE_NOTIFICATIONS"
	EnvNotifyCommand        = "TODOAPP_NOTIFY_COMMAND"
	EnvNotifyArgs           = "TODOAPP_NOTIFY_ARGS"
	EnvTheme                = "TODOAPP_THEME"
	EnvEditClearsFocus      = "TODOAPP_EDIT_CLEARS_FOCUS"
	EnvLogLevel             = "TODOAPP_LOG_LEVEL"
	EnvLogFormat            = "TODOAPP_LOG_FORMAT"
	EnvLogTimestamps        = "TODOAPP_LOG_TIMESTAMPS"
)

// loadFromEnv overrides config from environment variables. Blank values
// are ignored, except for EnvDisableNotifications which only needs to be
// present.
func loadFromEnv(cfg *Config) {
	if v := envValue(EnvStorePath); v != "" {
		cfg.StorePath = v
	}
	if _, ok := os.LookupEnv(EnvDisableNotifications); ok {
		cfg.Notifications.Enabled = false
	}
	if v := envValue(EnvNotifyCommand); v != "" {
		cfg.Notifications.Command = v
	}
	if v := envValue(EnvNotifyArgs); v != "" {
		cfg.Notifications.Args = utils.SplitAndTrim(v, ",")
	}
	if v := envValue(EnvTheme); v != "" {
		cfg.Theme = v
	}
	if v := envValue(EnvEditClearsFocus); v != "" {
		cfg.EditClearsFocus = boolFromString(v)
	}

	// Logging configuration
	if v := envValue(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := envValue(EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := envValue(EnvLogTimestamps); v != "" {
		cfg.LogTimestamps = boolFromString(v)
	}
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
