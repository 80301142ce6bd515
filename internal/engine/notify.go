package engine

import (
	"context"

	"github.com/nibzard/todo-go/internal/notify"
	"github.com/nibzard/todo-go/internal/todo"
)

// NotificationFailure records a delivery error for one task.
type NotificationFailure struct {
	TaskID string
	Err    error
}

// NotificationOutcome is the result of a notification pass.
type NotificationOutcome struct {
	Tasks    []todo.Task
	Failures []NotificationFailure
}

// Qualifies reports whether task should be notified: it is pending and
// either overdue or urgent.
func Qualifies(task todo.Task, overdue bool) bool {
	return task.Status == todo.StatusPending && (overdue || task.Urgent)
}

// Due returns the tasks that qualify for notification, in storage order.
func (e *Engine) Due() ([]todo.Task, error) {
	state, err := todo.Load(e.path)
	if err != nil {
		return nil, err
	}
	return e.due(state.Tasks)
}

func (e *Engine) due(tasks []todo.Task) ([]todo.Task, error) {
	var out []todo.Task
	for _, task := range tasks {
		if task.Status != todo.StatusPending {
			continue
		}
		overdue, err := e.IsOverdue(task)
		if err != nil {
			return nil, err
		}
		if Qualifies(task, overdue) {
			out = append(out, task.Clone())
		}
	}
	return out, nil
}

// Notify delivers a notification for every qualifying task. Delivery
// failures are collected per task and do not stop the pass.
func (e *Engine) Notify(ctx context.Context, n notify.Notifier) (NotificationOutcome, error) {
	if n == nil {
		n = notify.Noop{}
	}
	due, err := e.Due()
	if err != nil {
		return NotificationOutcome{}, err
	}

	outcome := NotificationOutcome{Tasks: []todo.Task{}}
	for _, task := range due {
		action := notify.ActivationArgument(task.ID)
		if err := n.NotifyWithAction(ctx, task, action); err != nil {
			e.logger.Warn("notification failed", "task_id", task.ID, "err", err)
			outcome.Failures = append(outcome.Failures, NotificationFailure{TaskID: task.ID, Err: err})
			continue
		}
		e.logger.Debug("task notified", "task_id", task.ID)
		outcome.Tasks = append(outcome.Tasks, task)
	}
	return outcome, nil
}
