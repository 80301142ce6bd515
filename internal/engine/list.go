package engine

import (
	"strings"
	"time"

	"github.com/nibzard/todo-go/internal/todo"
)

// View selects one side of the today/backlog split.
type View string

const (
	ViewToday   View = "today"
	ViewBacklog View = "backlog"
)

// ListResult is the outcome of a listing. FocusedTaskID is the stored focus
// reference, whether or not that task is part of Tasks.
type ListResult struct {
	Tasks         []todo.Task
	FocusedTaskID string
}

// Focused reports whether the first listed task is the focused task.
func (r ListResult) Focused() bool {
	return r.FocusedTaskID != "" && len(r.Tasks) > 0 && r.Tasks[0].ID == r.FocusedTaskID
}

// ListToday returns tasks scheduled at or before now, with the focused task
// (when present) moved to the front.
func (e *Engine) ListToday() (ListResult, error) {
	return e.list(ViewToday)
}

// ListBacklog returns unscheduled tasks and tasks scheduled after now, in
// storage order.
func (e *Engine) ListBacklog() (ListResult, error) {
	return e.list(ViewBacklog)
}

// List dispatches to ListToday or ListBacklog.
func (e *Engine) List(view View) (ListResult, error) {
	switch view {
	case ViewToday, ViewBacklog:
		return e.list(view)
	default:
		return ListResult{}, todo.InvalidInput("unknown list view: " + string(view))
	}
}

func (e *Engine) list(view View) (ListResult, error) {
	state, err := todo.Load(e.path)
	if err != nil {
		return ListResult{}, err
	}

	tasks, err := Classify(state.Tasks, e.clock.Now(), e.clock.Location(), view)
	if err != nil {
		return ListResult{}, err
	}
	if view == ViewToday {
		tasks = promote(tasks, state.FocusedTaskID)
	}

	return ListResult{Tasks: tasks, FocusedTaskID: state.FocusedTaskID}, nil
}

// Classify returns the tasks belonging to view, in input order.
func Classify(tasks []todo.Task, now time.Time, loc *time.Location, view View) ([]todo.Task, error) {
	nowLocal := now.In(loc)
	filtered := make([]todo.Task, 0, len(tasks))
	for _, task := range tasks {
		if !task.IsScheduled() {
			if view == ViewBacklog {
				filtered = append(filtered, task.Clone())
			}
			continue
		}

		scheduled, err := parseScheduledAt(*task.ScheduledAt)
		if err != nil {
			return nil, err
		}
		due := !scheduled.In(loc).After(nowLocal)

		if (view == ViewToday) == due {
			filtered = append(filtered, task.Clone())
		}
	}
	return filtered, nil
}

// promote moves the task with focusedID to the front, keeping the relative
// order of the rest.
func promote(tasks []todo.Task, focusedID string) []todo.Task {
	if focusedID == "" {
		return tasks
	}
	for i := range tasks {
		if tasks[i].ID != focusedID {
			continue
		}
		if i == 0 {
			return tasks
		}
		focused := tasks[i]
		copy(tasks[1:i+1], tasks[:i])
		tasks[0] = focused
		return tasks
	}
	return tasks
}

// parseRFC3339 parses an RFC 3339 timestamp. The "T" and "Z" letters may be
// lowercase, which time.RFC3339 alone rejects.
func parseRFC3339(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.ToUpper(value))
}

func parseScheduledAt(value string) (time.Time, error) {
	scheduled, err := parseRFC3339(value)
	if err != nil {
		return time.Time{}, &todo.Error{Kind: todo.KindInvalidData, Message: "scheduled_at must be RFC3339", Err: err}
	}
	return scheduled, nil
}

// Overdue reports whether task's schedule, in loc, is strictly before now.
// Unscheduled tasks are never overdue.
func Overdue(task todo.Task, now time.Time, loc *time.Location) (bool, error) {
	if !task.IsScheduled() {
		return false, nil
	}
	scheduled, err := parseScheduledAt(*task.ScheduledAt)
	if err != nil {
		return false, err
	}
	return scheduled.In(loc).Before(now.In(loc)), nil
}

// IsOverdue reports whether task is overdue according to the engine clock.
func (e *Engine) IsOverdue(task todo.Task) (bool, error) {
	return Overdue(task, e.clock.Now(), e.clock.Location())
}
