package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/nibzard/todo-go/internal/utils"
)

// OverrideTarget identifies the config field an override writes.
type OverrideTarget int

const (
	OverrideTheme OverrideTarget = iota + 1
	OverrideAlias
)

// Override is a parsed --config-override KEY=VALUE argument.
type Override struct {
	Target OverrideTarget
	// Alias is the alias name for OverrideAlias.
	Alias string
	Value string
}

// ParseOverride parses a raw KEY=VALUE override. Keys are canonicalised,
// so " THEME " and "Theme" both address the theme. Supported keys are
// theme and aliases.NAME (alias.NAME is accepted too).
func ParseOverride(raw string) (Override, error) {
	trimmed := strings.TrimSpace(raw)
	key, value, ok := strings.Cut(trimmed, "=")
	if !ok {
		return Override{}, errors.New("override must be in KEY=VALUE format")
	}
	value = strings.TrimSpace(value)

	field, remainder, hasSub := strings.Cut(key, ".")
	field = utils.CanonicalName(field)
	if field == "" {
		return Override{}, errors.New("override key cannot be empty")
	}

	switch field {
	case "theme":
		if hasSub {
			return Override{}, errors.New("theme override cannot have subfields")
		}
		return Override{Target: OverrideTheme, Value: value}, nil
	case "aliases", "alias":
		name := strings.TrimSpace(remainder)
		if !hasSub || name == "" {
			return Override{}, errors.New("aliases override requires an alias name")
		}
		return Override{Target: OverrideAlias, Alias: name, Value: value}, nil
	default:
		return Override{}, fmt.Errorf("unknown config field '%s'", field)
	}
}

// ApplyOverrides parses every raw override and applies them to cfg in
// order. Nothing is applied if any override is invalid.
func ApplyOverrides(cfg *Config, raws []string) error {
	parsed := make([]Override, 0, len(raws))
	for _, raw := range raws {
		o, err := ParseOverride(raw)
		if err != nil {
			return fmt.Errorf("invalid --config-override %q: %w", raw, err)
		}
		parsed = append(parsed, o)
	}
	for _, o := range parsed {
		o.Apply(cfg)
	}
	return nil
}

// Apply writes the override into cfg.
func (o Override) Apply(cfg *Config) {
	switch o.Target {
	case OverrideTheme:
		cfg.Theme = CanonicalTheme(o.Value)
	case OverrideAlias:
		if cfg.Aliases == nil {
			cfg.Aliases = map[string]string{}
		}
		cfg.Aliases[o.Alias] = o.Value
	}
}

// StringList is a repeatable string flag.
type StringList []string

// String implements flag.Value.
func (s *StringList) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(*s, ",")
}

// Set implements flag.Value.
func (s *StringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// Flags holds the global configuration flags shared by every command.
type Flags struct {
	StorePath string
	Overrides StringList
}

// Bind registers the flags on fs.
func (f *Flags) Bind(fs *flag.FlagSet) {
	fs.StringVar(&f.StorePath, "store", f.StorePath, "Path to the task store (overrides "+EnvStorePath+")")
	fs.Var(&f.Overrides, "config-override", "Override a config value (KEY=VALUE, repeatable)")
}
