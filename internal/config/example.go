package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todo configuration file
# Values can be overridden by TODOAPP_* environment variables or
# --config-override KEY=VALUE flags.

# Task store location (supports ~ expansion and %VAR% on Windows).
# Defaults to tasks.json next to this file.
# store_path = "~/tasks.json"

# Output palette: default, noir or solarized
theme = "default"

# Clear focus when the focused task is edited
edit_clears_focus = true

# Logging: debug, info, warn or error; text, json or logfmt
log_level = "warn"
log_format = "text"
log_timestamps = false

[notifications]
enabled = true
# Replace the desktop notifier with your own command.
# Placeholders: {summary} {title} {id} {action}
# command = "notify-send"
# args = ["{summary}", "{title} ({id})"]

# Aliases expand the first word of a command line.
[aliases]
# today = "list today"
# t = "list today"
`
}
