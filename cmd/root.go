// Package cmd implements the CLI command structure for todo.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-shellwords"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/engine"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/notify"
	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// commands lists the built-in subcommands. Aliases never shadow them.
var commands = map[string]bool{
	"add": true, "edit": true, "delete": true, "show": true, "done": true,
	"schedule": true, "reschedule": true, "focus": true, "urgent": true,
	"list": true, "notify": true, "tui": true, "doctor": true, "config": true,
	"version": true, "help": true,
}

// app carries everything a subcommand needs.
type app struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	json    bool
	cfg     *config.Config
	logger  *log.Logger
	eng     *engine.Engine
	palette ui.Palette
	usage   func(io.Writer)
}

// Run executes the todo CLI on the process's standard streams.
func Run(ctx context.Context, args []string) error {
	return Execute(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

// Execute executes the todo CLI with explicit streams. With no subcommand it
// reads commands from stdin.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")
	jsonOut := fs.Bool("json", false, "Print JSON instead of text")
	logLevel := fs.String("log-level", "", "Log level (debug|info|warn|error)")
	var flags config.Flags
	flags.Bind(fs)

	if err := fs.Parse(args); err != nil {
		return todo.InvalidInput(err.Error())
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	a, err := newApp(stdin, stdout, stderr, flags, *logLevel)
	if err != nil {
		return err
	}
	a.json = *jsonOut
	a.usage = func(w io.Writer) { printUsage(fs, w) }

	if fs.NArg() == 0 {
		return a.shell(ctx)
	}
	return a.dispatch(ctx, fs.Args())
}

func newApp(stdin io.Reader, stdout, stderr io.Writer, flags config.Flags, logLevel string) (*app, error) {
	cfg, cfgErr := config.LoadWithFallback()
	if err := config.ApplyOverrides(cfg, flags.Overrides); err != nil {
		return nil, todo.InvalidInput(err.Error())
	}
	if strings.TrimSpace(logLevel) != "" {
		cfg.LogLevel = logLevel
	}

	opts, logErr := logging.FromStrings(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps)
	logger := logging.New(stderr, opts)
	if logErr != nil {
		logger.Warn("invalid logging settings, using defaults", "err", logErr)
	}
	if cfgErr != nil {
		logger.Warn("config file ignored", "err", cfgErr)
	}

	storePath, err := config.ResolveStorePath(cfg, flags.StorePath)
	if err != nil {
		return nil, todo.IOError("resolving store path", err)
	}
	logger.Debug("using task store", "path", storePath)

	eng := engine.New(storePath,
		engine.WithLogger(logger),
		engine.WithEditClearsFocus(cfg.EditClearsFocus),
	)
	return &app{
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		cfg:     cfg,
		logger:  logger,
		eng:     eng,
		palette: ui.NewPalette(cfg.Theme, stdout),
	}, nil
}

// dispatch runs one command line.
func (a *app) dispatch(ctx context.Context, args []string) error {
	for len(args) > 0 && (args[0] == "--json" || args[0] == "-json") {
		a.json = true
		args = args[1:]
	}
	if len(args) == 0 {
		return todo.InvalidInput("missing command")
	}

	args, err := a.expandAlias(args)
	if err != nil {
		return err
	}

	subcommand, rest := args[0], args[1:]
	if id, ok := notify.ParseActivationArgument(subcommand); ok {
		return a.showCommand([]string{id})
	}

	switch subcommand {
	case "add":
		return a.addCommand(rest)
	case "edit":
		return a.editCommand(rest)
	case "delete":
		return a.deleteCommand(rest)
	case "show":
		return a.showCommand(rest)
	case "done":
		return a.doneCommand(rest)
	case "schedule":
		return a.scheduleCommand(rest, false)
	case "reschedule":
		return a.scheduleCommand(rest, true)
	case "focus":
		return a.focusCommand(rest)
	case "urgent":
		return a.urgentCommand(rest)
	case "list":
		return a.listCommand(rest)
	case "notify":
		return a.notifyCommand(ctx, rest)
	case "tui":
		return a.tuiCommand(ctx, rest)
	case "doctor":
		return a.doctorCommand(rest)
	case "config":
		return a.configCommand(rest)
	case "version", "--version", "-v":
		return versionCommand(a.stdout)
	case "help", "--help", "-h":
		a.usage(a.stdout)
		return nil
	default:
		return todo.InvalidInput(fmt.Sprintf("unknown command: %s", subcommand))
	}
}

// expandAlias replaces a leading alias with its shell-split expansion.
// Expansion happens once, so an alias cannot refer to another alias.
func (a *app) expandAlias(args []string) ([]string, error) {
	if commands[args[0]] {
		return args, nil
	}
	expansion, ok := a.cfg.Alias(args[0])
	if !ok {
		return args, nil
	}
	words, err := shellwords.Parse(expansion)
	if err != nil {
		return nil, todo.InvalidInput(fmt.Sprintf("alias %q: %v", args[0], err))
	}
	if len(words) == 0 {
		return nil, todo.InvalidInput(fmt.Sprintf("alias %q is empty", args[0]))
	}
	a.logger.Debug("expanded alias", "alias", args[0], "to", expansion)
	return append(words, args[1:]...), nil
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "todo version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todo - A personal task tracker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo [options] [command] [args]")
	fmt.Fprintln(w, "  todo [options]              Read commands from stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add [--urgent] TITLE        Add a task")
	fmt.Fprintln(w, "  edit ID TITLE               Change a task title")
	fmt.Fprintln(w, "  delete ID                   Delete a task")
	fmt.Fprintln(w, "  show ID                     Show one task (also: show:ID)")
	fmt.Fprintln(w, "  done [ID] [MESSAGE]         Complete a task, or the focused task")
	fmt.Fprintln(w, "       [-m MESSAGE]")
	fmt.Fprintln(w, "  schedule ID DATETIME        Schedule a task")
	fmt.Fprintln(w, "  reschedule ID DATETIME      Move an overdue task")
	fmt.Fprintln(w, "  focus ID                    Focus a task")
	fmt.Fprintln(w, "  urgent [--clear] ID         Mark or clear urgency")
	fmt.Fprintln(w, "  list today|backlog          List tasks")
	fmt.Fprintln(w, "  notify                      Notify overdue and urgent tasks")
	fmt.Fprintln(w, "  tui                         Launch the read-only viewer")
	fmt.Fprintln(w, "  doctor                      Check config, store and notifier")
	fmt.Fprintln(w, "  config [--example]          Show the effective configuration")
	fmt.Fprintln(w, "  version                     Show version information")
	fmt.Fprintln(w, "  help                        Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "DATETIME is RFC3339, or YYYY-MM-DD [HH:MM[:SS]] in local time.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	out := fs.Output()
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(out)
}

// errUsage builds an invalid_input error carrying a usage line.
func errUsage(usage string) error {
	return todo.InvalidInput("usage: todo " + usage)
}

// isHelp reports whether err came from -h on a subcommand.
func isHelp(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
