package config

import (
	"fmt"
	"strings"

	"github.com/nibzard/todo-go/internal/utils"
)

// parseArgsValue parses an args field which can be a string array or a
// comma-separated string.
func parseArgsValue(v interface{}) ([]string, error) {
	switch val := v.(type) {
	case []string:
		return filterEmptyArgs(val), nil
	case []interface{}:
		args := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("args must be a string array")
			}
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				args = append(args, trimmed)
			}
		}
		return args, nil
	case string:
		return utils.SplitAndTrim(val, ","), nil
	default:
		return nil, fmt.Errorf("args must be a string or string array")
	}
}

// filterEmptyArgs removes empty strings from args.
func filterEmptyArgs(args []string) []string {
	if args == nil {
		return nil
	}
	filtered := make([]string, 0, len(args))
	for _, arg := range args {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	return filtered
}

// normalizeAliases trims alias names and expansions, dropping entries whose
// name is blank.
func normalizeAliases(aliases map[string]string) map[string]string {
	out := make(map[string]string, len(aliases))
	for name, expansion := range aliases {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out[name] = strings.TrimSpace(expansion)
	}
	return out
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// CanonicalTheme normalises a theme name. Blank, "vanilla" and "light"
// mean default; "dark", "dark_mode" and "darkmode" mean noir. Other names
// are returned canonicalised but otherwise unchanged.
func CanonicalTheme(raw string) string {
	name := utils.CanonicalName(raw)
	switch name {
	case "", "vanilla", "light":
		return DefaultTheme
	case "dark", "dark_mode", "darkmode":
		return "noir"
	default:
		return name
	}
}
