package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/nibzard/todo-go/internal/engine"
	"github.com/nibzard/todo-go/internal/notify"
	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/ui"
	"github.com/nibzard/todo-go/internal/utils"
)

func (a *app) addCommand(args []string) error {
	sc := a.subcommandFlags("add", "add [--urgent] TITLE")
	urgent := sc.fs.Bool("urgent", false, "Mark the task urgent")
	pos, done, err := sc.parse(args)
	if err != nil || done {
		return err
	}

	task, err := a.eng.Add(strings.Join(pos, " "), *urgent)
	if err != nil {
		return err
	}
	return a.printChanged("Added task", task)
}

func (a *app) editCommand(args []string) error {
	sc := a.subcommandFlags("edit", "edit ID TITLE")
	pos, done, err := sc.parse(args)
	if err != nil || done {
		return err
	}
	if len(pos) < 2 {
		return errUsage(sc.usage)
	}

	task, err := a.eng.Edit(pos[0], strings.Join(pos[1:], " "))
	if err != nil {
		return err
	}
	return a.printChanged("Updated task", task)
}

func (a *app) deleteCommand(args []string) error {
	sc := a.subcommandFlags("delete", "delete ID")
	pos, done, err := sc.parse(args)
	if err != nil || done {
		return err
	}
	if len(pos) != 1 {
		return errUsage(sc.usage)
	}

	task, err := a.eng.Delete(pos[0])
	if err != nil {
		return err
	}
	return a.printChanged("Deleted task", task)
}

func (a *app) showCommand(args []string) error {
	sc := a.subcommandFlags("show", "show ID")
	pos, done, err := sc.parse(args)
	if err != nil || done {
		return err
	}
	if len(pos) != 1 {
		return errUsage(sc.usage)
	}

	task, err := a.eng.Get(pos[0])
	if err != nil {
		return err
	}
	state, err := a.eng.State()
	if err != nil {
		return err
	}
	overdue := false
	if !task.IsCompleted() {
		if overdue, err = a.eng.IsOverdue(task); err != nil {
			return err
		}
	}
	return a.printDetail(task, state.FocusedTaskID == task.ID, overdue)
}

func (a *app) doneCommand(args []string) error {
	sc := a.subcommandFlags("done", "done [ID] [MESSAGE] [-m MESSAGE]")
	var flagMessage string
	sc.fs.StringVar(&flagMessage, "m", "", "Completion message")
	sc.fs.StringVar(&flagMessage, "message", "", "Completion message")
	pos, done, err := sc.parse(args)
	if err != nil || done {
		return err
	}

	var message *string
	sc.fs.Visit(func(f *flag.Flag) {
		if f.Name == "m" || f.Name == "message" {
			message = &flagMessage
		}
	})
	if len(pos) > 1 {
		if message != nil {
			return todo.InvalidInput("message given both as argument and with -m")
		}
		joined := strings.Join(pos[1:], " ")
		message = &joined
	}

	var task todo.Task
	if len(pos) == 0 {
		task, err = a.eng.CompleteFocused(message)
	} else {
		task, err = a.eng.Complete(pos[0], message)
	}
	if err != nil {
		return err
	}
	return a.printChanged("Completed task", task)
}

func (a *app) scheduleCommand(args []string, reschedule bool) error {
	name, verb := "schedule", "Scheduled task"
	if reschedule {
		name, verb = "reschedule", "Rescheduled task"
	}
	sc := a.subcommandFlags(name, name+" ID DATETIME")
	pos, done, err := sc.parse(args)
	if err != nil || done {
		return err
	}
	if len(pos) < 2 {
		return errUsage(sc.usage)
	}

	datetime := utils.NormalizeDateTimeInput(strings.Join(pos[1:], " "), time.Local)
	var task todo.Task
	if reschedule {
		task, err = a.eng.Reschedule(pos[0], datetime)
	} else {
		task, err = a.eng.Schedule(pos[0], datetime)
	}
	if err != nil {
		return err
	}
	return a.printChanged(verb, task)
}

func (a *app) focusCommand(args []string) error {
	sc := a.subcommandFlags("focus", "focus ID")
	pos, done, err := sc.parse(args)
	if err != nil || done {
		return err
	}
	if len(pos) != 1 {
		return errUsage(sc.usage)
	}

	task, err := a.eng.SetFocus(pos[0])
	if err != nil {
		return err
	}
	return a.printChanged("Focused task", task)
}

func (a *app) urgentCommand(args []string) error {
	sc := a.subcommandFlags("urgent", "urgent [--clear] ID")
	clearFlag := sc.fs.Bool("clear", false, "Clear the urgent flag instead of setting it")
	pos, done, err := sc.parse(args)
	if err != nil || done {
		return err
	}
	if len(pos) != 1 {
		return errUsage(sc.usage)
	}

	task, err := a.eng.SetUrgent(pos[0], !*clearFlag)
	if err != nil {
		return err
	}
	if *clearFlag {
		return a.printChanged("Cleared urgent", task)
	}
	return a.printChanged("Marked urgent", task)
}

func (a *app) listCommand(args []string) error {
	sc := a.subcommandFlags("list", "list today|backlog")
	pos, done, err := sc.parse(args)
	if err != nil || done {
		return err
	}
	if len(pos) != 1 {
		return errUsage(sc.usage)
	}

	view := engine.View(strings.ToLower(pos[0]))
	result, err := a.eng.List(view)
	if err != nil {
		return err
	}

	overdue := map[string]bool{}
	for _, task := range result.Tasks {
		if task.IsCompleted() {
			continue
		}
		late, err := a.eng.IsOverdue(task)
		if err != nil {
			return err
		}
		if late {
			overdue[task.ID] = true
		}
	}
	// Only today marks the focused task.
	focused := view == engine.ViewToday && result.Focused()
	return a.printList(result.Tasks, focused, overdue)
}

func (a *app) notifyCommand(ctx context.Context, args []string) error {
	sc := a.subcommandFlags("notify", "notify [--wait DURATION]")
	wait := sc.fs.Duration("wait", 0, "Keep running up to DURATION so notification actions can open tasks")
	pos, done, err := sc.parse(args)
	if err != nil || done {
		return err
	}
	if len(pos) != 0 {
		return errUsage(sc.usage)
	}
	if *wait < 0 {
		return todo.InvalidInput(fmt.Sprintf("wait must not be negative, got %s", *wait))
	}

	notifier := notify.New(notify.Options{
		Disabled: !a.cfg.Notifications.Enabled,
		Command:  a.cfg.Notifications.Command,
		Args:     a.cfg.Notifications.Args,
		Logger:   a.logger,
	})
	outcome, err := a.eng.Notify(ctx, notifier)
	if err != nil {
		return err
	}
	if err := a.printNotified(outcome); err != nil {
		return err
	}

	if w, ok := notifier.(notify.Waiter); ok && *wait > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, *wait)
		defer cancel()
		if err := w.Wait(waitCtx); err != nil {
			a.logger.Debug("stopped waiting for notification actions", "err", err)
		}
	}
	return nil
}

func (a *app) tuiCommand(ctx context.Context, args []string) error {
	sc := a.subcommandFlags("tui", "tui [--refresh DURATION]")
	refresh := sc.fs.Duration("refresh", ui.DefaultRefreshInterval, "Reload interval")
	pos, done, err := sc.parse(args)
	if err != nil || done {
		return err
	}
	if len(pos) != 0 {
		return errUsage(sc.usage)
	}
	if *refresh <= 0 {
		return todo.InvalidInput(fmt.Sprintf("refresh interval must be positive, got %s", *refresh))
	}

	return ui.RunTUI(ctx, a.eng,
		ui.WithPalette(ui.PaletteFor(a.cfg.Theme)),
		ui.WithRefreshInterval(*refresh),
		ui.WithOutput(a.stdout),
	)
}
