package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/ui"
)

const shellPrompt = "todo> "

// shell reads one command per line from stdin until EOF, exit or quit.
// A failing command is reported and the shell keeps going.
func (a *app) shell(ctx context.Context) error {
	interactive := false
	if f, ok := a.stdin.(*os.File); ok {
		interactive = ui.IsTTY(f)
	}
	if interactive {
		fmt.Fprintln(a.stdout, "Type a command, help for usage, or exit to leave.")
	}

	defaultJSON := a.json
	scanner := bufio.NewScanner(a.stdin)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if interactive {
			fmt.Fprint(a.stdout, shellPrompt)
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "help", "?":
			a.usage(a.stdout)
			continue
		}

		a.json = defaultJSON
		if err := a.runLine(ctx, line); err != nil {
			fmt.Fprintf(a.stderr, "ERROR: %v\n", err)
		}
	}
	a.json = defaultJSON

	if err := scanner.Err(); err != nil {
		return todo.IOError("reading commands", err)
	}
	return nil
}

func (a *app) runLine(ctx context.Context, line string) error {
	args, err := shellwords.Parse(line)
	if err != nil {
		return todo.InvalidInput(fmt.Sprintf("cannot parse command: %v", err))
	}
	if len(args) > 0 && args[0] == "todo" {
		args = args[1:]
	}
	if len(args) == 0 {
		return nil
	}
	a.logger.Debug("shell command", "args", args)
	return a.dispatch(ctx, args)
}
