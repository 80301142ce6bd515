package cmd

import (
	"flag"
	"fmt"
	"io"

	"github.com/nibzard/todo-go/internal/todo"
)

// subcommand is a flag set together with its usage line.
type subcommand struct {
	fs    *flag.FlagSet
	usage string
	out   io.Writer
}

// subcommandFlags returns a flag set for a subcommand. Every subcommand
// accepts --json so it may follow the subcommand as well as precede it.
func (a *app) subcommandFlags(name, usage string) *subcommand {
	fs := flag.NewFlagSet("todo "+name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.BoolVar(&a.json, "json", a.json, "Print JSON instead of text")
	return &subcommand{fs: fs, usage: usage, out: a.stdout}
}

// parse parses args and returns the positional arguments. done is true when
// help was printed and the command should stop.
func (s *subcommand) parse(args []string) (positional []string, done bool, err error) {
	positional, err = parseInterspersed(s.fs, args)
	if err == nil {
		return positional, false, nil
	}
	if isHelp(err) {
		fmt.Fprintf(s.out, "Usage: todo %s\n", s.usage)
		s.fs.SetOutput(s.out)
		s.fs.PrintDefaults()
		s.fs.SetOutput(io.Discard)
		return nil, true, nil
	}
	return nil, false, todo.InvalidInput(err.Error())
}

// parseInterspersed parses flags that may appear between positional
// arguments and returns the positionals in order. Everything after "--" is
// positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		consumed := len(args) - len(rest)
		if consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}
