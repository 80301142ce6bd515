// Package notify delivers task notifications.
//
// The task engine depends only on the Notifier interface. Concrete
// notifiers are chosen by the caller with New.
package notify

import (
	"context"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/todo"
)

// Summary is the notification title shown by desktop notifiers.
const Summary = "todoapp"

// Notifier delivers a notification for a task.
type Notifier interface {
	Notify(ctx context.Context, task todo.Task) error
	// NotifyWithAction attaches an activation token the user can trigger
	// from the notification. Notifiers without actions ignore it.
	NotifyWithAction(ctx context.Context, task todo.Task, action string) error
}

// Waiter is implemented by notifiers that keep watching notifications
// after NotifyWithAction returns.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Noop discards every notification.
type Noop struct{}

// Notify does nothing.
func (Noop) Notify(context.Context, todo.Task) error { return nil }

// NotifyWithAction does nothing.
func (Noop) NotifyWithAction(context.Context, todo.Task, string) error { return nil }

// Logger writes notifications to a log instead of the desktop.
type Logger struct {
	Log *log.Logger
}

// Notify logs the task.
func (l Logger) Notify(ctx context.Context, task todo.Task) error {
	return l.NotifyWithAction(ctx, task, "")
}

// NotifyWithAction logs the task and its action token.
func (l Logger) NotifyWithAction(_ context.Context, task todo.Task, action string) error {
	if l.Log == nil {
		return nil
	}
	fields := []any{"task_id", task.ID, "urgent", task.Urgent}
	if action != "" {
		fields = append(fields, "action", action)
	}
	l.Log.Info(task.Title, fields...)
	return nil
}

// Options selects and configures a notifier.
type Options struct {
	// Disabled forces the Noop notifier.
	Disabled bool
	// Command is an external program run per notification. Empty selects
	// the platform default when one is installed.
	Command string
	// Args are passed to Command after placeholder expansion.
	Args []string
	// Logger, when set, receives a line for every notification in addition
	// to (or, without a desktop notifier, instead of) desktop delivery.
	Logger *log.Logger
	// OnAction runs when the user picks the action of a desktop
	// notification. Defaults to launching "show" for the task.
	OnAction func(taskID string)
}

// New returns the notifier described by opts.
func New(opts Options) Notifier {
	if opts.Disabled {
		return Noop{}
	}

	var primary Notifier
	if strings.TrimSpace(opts.Command) != "" {
		primary = &Command{Name: opts.Command, Args: opts.Args}
	} else if cmd, ok := PlatformCommand(); ok {
		cmd.OnAction = opts.OnAction
		if cmd.OnAction == nil {
			cmd.OnAction = launchShow(opts.Logger)
		}
		primary = cmd
	}

	switch {
	case primary == nil && opts.Logger != nil:
		return Logger{Log: opts.Logger}
	case primary == nil:
		return Noop{}
	case opts.Logger != nil:
		return Multi{primary, Logger{Log: opts.Logger}}
	default:
		return primary
	}
}

func launchShow(logger *log.Logger) func(string) {
	return func(taskID string) {
		if err := LaunchShow(taskID); err != nil && logger != nil {
			logger.Warn("cannot open task from notification", "task_id", taskID, "err", err)
		}
	}
}

// PlatformCommand returns the desktop notifier command for this OS, if
// its binary is on PATH.
func PlatformCommand() (*Command, bool) {
	cmd := platformCommand(runtime.GOOS)
	if cmd == nil {
		return nil, false
	}
	if _, err := exec.LookPath(cmd.Name); err != nil {
		return nil, false
	}
	return cmd, true
}

func platformCommand(goos string) *Command {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return &Command{
			Name:       "notify-send",
			Args:       []string{"--app-name=" + Summary, "{summary}", "{title} ({id})"},
			ActionArgs: []string{"--wait", "--action={action}=Open", "--action=" + defaultAction + "=Open"},
		}
	case "darwin":
		return &Command{
			Name: "osascript",
			Args: []string{
				"-e", "on run argv",
				"-e", "display notification (item 1 of argv) with title (item 2 of argv)",
				"-e", "end run",
				"{title} ({id})", "{summary}",
			},
		}
	default:
		return nil
	}
}

// Multi fans a notification out to several notifiers, returning the first
// error after attempting all of them.
type Multi []Notifier

// Notify notifies every member.
func (m Multi) Notify(ctx context.Context, task todo.Task) error {
	return m.NotifyWithAction(ctx, task, "")
}

// NotifyWithAction notifies every member.
func (m Multi) NotifyWithAction(ctx context.Context, task todo.Task, action string) error {
	var first error
	for _, n := range m {
		if err := n.NotifyWithAction(ctx, task, action); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Wait waits on every member that is a Waiter.
func (m Multi) Wait(ctx context.Context) error {
	for _, n := range m {
		if w, ok := n.(Waiter); ok {
			if err := w.Wait(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}
