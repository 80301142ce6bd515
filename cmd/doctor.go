package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/notify"
	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/ui"
	"github.com/nibzard/todo-go/internal/utils"
)

func (a *app) doctorCommand(args []string) error {
	sc := a.subcommandFlags("doctor", "doctor")
	pos, done, err := sc.parse(args)
	if err != nil || done {
		return err
	}
	if len(pos) != 0 {
		return errUsage(sc.usage)
	}

	w := a.stdout
	fmt.Fprintln(w, "todo Doctor")
	fmt.Fprintln(w, "===========")
	fmt.Fprintln(w)

	allOK := true

	// Config file
	fmt.Fprintf(w, "Config file: %s\n", valueOrDash(&a.cfg.Path))
	switch info, err := os.Stat(a.cfg.Path); {
	case a.cfg.Path == "":
		fmt.Fprintln(w, "  ⚠️  Location unknown, using defaults")
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(w, "  ⚠️  Not found, using defaults")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	default:
		if _, err := config.LoadFile(a.cfg.Path); err != nil {
			fmt.Fprintf(w, "  ❌ %v\n", err)
			allOK = false
		} else {
			fmt.Fprintln(w, "  ✅ OK")
		}
	}
	fmt.Fprintln(w)

	// Settings
	fmt.Fprintln(w, "Config:")
	if knownTheme(a.cfg.Theme) {
		fmt.Fprintf(w, "  ✅ Theme: %s\n", a.cfg.Theme)
	} else {
		fmt.Fprintf(w, "  ⚠️  Theme: %s (unknown, expected %s)\n", a.cfg.Theme, strings.Join(ui.Themes(), "|"))
	}
	if _, err := logging.FromStrings(a.cfg.LogLevel, a.cfg.LogFormat, a.cfg.LogTimestamps); err != nil {
		fmt.Fprintf(w, "  ❌ Logging: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(w, "  ✅ Logging: %s (%s)\n", a.cfg.LogLevel, a.cfg.LogFormat)
	}
	for _, name := range sortedAliases(a.cfg.Aliases) {
		if commands[name] {
			fmt.Fprintf(w, "  ⚠️  Alias %s: shadows a built-in command and is ignored\n", name)
			continue
		}
		fmt.Fprintf(w, "  ✅ Alias %s = %s\n", name, a.cfg.Aliases[name])
	}
	fmt.Fprintln(w)

	// Task store
	fmt.Fprintf(w, "Task store: %s\n", a.eng.Path())
	if _, err := os.Stat(a.eng.Path()); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(w, "  ⚠️  Not found, created on first change")
	} else if state, err := a.eng.State(); err != nil {
		fmt.Fprintf(w, "  ❌ %v\n", err)
		allOK = false
	} else if version, err := todo.StoredVersion(a.eng.Path()); err != nil {
		fmt.Fprintf(w, "  ❌ %v\n", err)
		allOK = false
	} else {
		pending := 0
		for _, task := range state.Tasks {
			if !task.IsCompleted() {
				pending++
			}
		}
		fmt.Fprintf(w, "  ✅ OK (schema v%d, %d tasks, %d pending)\n", version, len(state.Tasks), pending)
		if version < todo.SchemaVersion {
			fmt.Fprintf(w, "  ⚠️  Upgraded to schema v%d on the next change\n", todo.SchemaVersion)
		}
	}
	fmt.Fprintln(w)

	// Notifier
	fmt.Fprintln(w, "Notifications:")
	switch {
	case !a.cfg.Notifications.Enabled:
		fmt.Fprintln(w, "  ⚠️  Disabled")
	case strings.TrimSpace(a.cfg.Notifications.Command) != "":
		if !checkBinary(w, "Command", a.cfg.Notifications.Command, true) {
			allOK = false
		}
	default:
		if cmd, ok := notify.PlatformCommand(); ok {
			checkBinary(w, "Desktop notifier", cmd.Name, false)
		} else {
			fmt.Fprintln(w, "  ⚠️  No desktop notifier found, notifications are only logged")
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. todo may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

func (a *app) configCommand(args []string) error {
	sc := a.subcommandFlags("config", "config [--example] [--path]")
	example := sc.fs.Bool("example", false, "Print an example config file")
	pathOnly := sc.fs.Bool("path", false, "Print only the config file location")
	pos, done, err := sc.parse(args)
	if err != nil || done {
		return err
	}
	if len(pos) != 0 {
		return errUsage(sc.usage)
	}

	switch {
	case *example:
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	case *pathOnly:
		fmt.Fprintln(a.stdout, a.cfg.Path)
		return nil
	}

	if a.json {
		return a.writeJSON(map[string]any{
			"config_path":       a.cfg.Path,
			"store_path":        a.eng.Path(),
			"theme":             a.cfg.Theme,
			"edit_clears_focus": a.cfg.EditClearsFocus,
			"notifications": map[string]any{
				"enabled": a.cfg.Notifications.Enabled,
				"command": a.cfg.Notifications.Command,
				"args":    a.cfg.Notifications.Args,
			},
			"log_level":      a.cfg.LogLevel,
			"log_format":     a.cfg.LogFormat,
			"log_timestamps": a.cfg.LogTimestamps,
			"aliases":        a.cfg.Aliases,
		})
	}

	fmt.Fprintf(a.stdout, "# config file: %s\n", valueOrDash(&a.cfg.Path))
	fmt.Fprintf(a.stdout, "# task store:  %s\n", a.eng.Path())
	if err := toml.NewEncoder(a.stdout).Encode(a.cfg); err != nil {
		return todo.IOError("writing config", err)
	}
	return nil
}

func knownTheme(theme string) bool {
	for _, t := range ui.Themes() {
		if t == config.CanonicalTheme(theme) {
			return true
		}
	}
	return false
}

func sortedAliases(aliases map[string]string) []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkBinary reports whether binary can be run, either as a path or via
// PATH. A missing optional binary is a warning, not a failure.
func checkBinary(w io.Writer, label, binary string, required bool) bool {
	fmt.Fprintf(w, "  %s: %s\n", label, binary)
	fail := func(format string, args ...any) bool {
		if required {
			fmt.Fprintf(w, "  ❌ "+format+"\n", args...)
			return false
		}
		fmt.Fprintf(w, "  ⚠️  "+format+"\n", args...)
		return true
	}

	if strings.TrimSpace(binary) == "" {
		return fail("Not configured")
	}
	if info, err := os.Stat(binary); err == nil {
		if info.IsDir() {
			return fail("Path is a directory")
		}
		if !utils.IsExecutable(binary, info) {
			return fail("Not executable")
		}
		fmt.Fprintln(w, "  ✅ OK")
		return true
	}

	resolved, err := exec.LookPath(binary)
	if err != nil {
		return fail("Not found: %v", err)
	}
	if info, err := os.Stat(resolved); err == nil {
		if info.IsDir() {
			return fail("Found in PATH but is a directory: %s", resolved)
		}
		if !utils.IsExecutable(resolved, info) {
			return fail("Found in PATH but not executable: %s", resolved)
		}
	}
	fmt.Fprintf(w, "  ✅ OK (found in PATH: %s)\n", resolved)
	return true
}
