package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/nibzard/todo-go/internal/todo"
)

// ActionEnv is the environment variable carrying the action token to a
// notification command.
const ActionEnv = "TODOAPP_NOTIFY_ACTION"

// defaultAction is what desktop notifiers report when the body is clicked.
const defaultAction = "default"

// Command runs an external program for each notification.
//
// Args may contain the placeholders {summary}, {title}, {id} and {action}.
//
// When ActionArgs and OnAction are both set and an action token is given,
// the command is started with ActionArgs before Args and watched in the
// background: it is expected to block until the user responds and print the
// chosen action on stdout. If that is the token or "default", OnAction runs
// with the task id.
type Command struct {
	Name       string
	Args       []string
	ActionArgs []string
	OnAction   func(taskID string)

	pending sync.WaitGroup
}

// Notify runs the command without an action token.
func (c *Command) Notify(ctx context.Context, task todo.Task) error {
	return c.NotifyWithAction(ctx, task, "")
}

// NotifyWithAction runs the command with placeholders expanded.
func (c *Command) NotifyWithAction(ctx context.Context, task todo.Task, action string) error {
	if c.Name == "" {
		return todo.InvalidInput("notification command is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if action != "" && len(c.ActionArgs) > 0 && c.OnAction != nil {
		return c.watch(task, action)
	}

	args := c.ExpandArgs(task, action)
	cmd := exec.CommandContext(ctx, c.Name, args...)
	cmd.Env = append(os.Environ(), ActionEnv+"="+action)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := fmt.Sprintf("notification command failed (exit %d)", exitCodeFromError(err))
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			msg += ": " + detail
		}
		return todo.IOError(msg, err)
	}
	return nil
}

// watch starts the command and waits for the user's choice in a goroutine.
// Only a failure to start is reported; the outcome of the wait is not.
func (c *Command) watch(task todo.Task, action string) error {
	args := expand(append(append([]string{}, c.ActionArgs...), c.Args...), task, action)
	// Not tied to ctx: the notification outlives the command that raised it.
	cmd := exec.Command(c.Name, args...)
	cmd.Env = append(os.Environ(), ActionEnv+"="+action)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Start(); err != nil {
		return todo.IOError("notification command failed to start", err)
	}

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		if err := cmd.Wait(); err != nil {
			return
		}
		selected := strings.TrimSpace(stdout.String())
		if selected == action || selected == defaultAction {
			c.OnAction(task.ID)
		}
	}()
	return nil
}

// Wait blocks until every watched notification has been answered or
// dismissed, or ctx is done.
func (c *Command) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ExpandArgs returns Args with placeholders replaced for task.
func (c *Command) ExpandArgs(task todo.Task, action string) []string {
	return expand(c.Args, task, action)
}

func expand(args []string, task todo.Task, action string) []string {
	r := strings.NewReplacer(
		"{summary}", Summary,
		"{title}", task.Title,
		"{id}", task.ID,
		"{action}", action,
	)
	out := make([]string, 0, len(args))
	for _, arg := range args {
		out = append(out, r.Replace(arg))
	}
	return out
}

// LaunchShow starts this executable with "show taskID" and does not wait
// for it.
func LaunchShow(taskID string) error {
	exe, err := os.Executable()
	if err != nil {
		return todo.IOError("locate executable", err)
	}
	cmd := exec.Command(exe, "show", taskID)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return todo.IOError("launch show", err)
	}
	return cmd.Process.Release()
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
