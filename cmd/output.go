package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nibzard/todo-go/internal/engine"
	"github.com/nibzard/todo-go/internal/todo"
)

// focusPrefix marks the focused task in plain listings.
const focusPrefix = "[FOCUS] "

// taskJSON is the JSON shape of a task in command output. In list and show
// output the status of an overdue task carries an " (overdue)" suffix.
type taskJSON struct {
	ID                string                 `json:"id"`
	Title             string                 `json:"title"`
	Status            todo.Status            `json:"status"`
	CreatedAt         string                 `json:"created_at"`
	ScheduledAt       *string                `json:"scheduled_at"`
	CompletedAt       *string                `json:"completed_at,omitempty"`
	CompletionHistory []todo.CompletionEntry `json:"completion_history,omitempty"`
	Urgent            bool                   `json:"urgent"`
	Overdue           bool                   `json:"overdue,omitempty"`
	Focused           bool                   `json:"focused,omitempty"`
}

type failureJSON struct {
	TaskID string `json:"task_id"`
	Error  string `json:"error"`
}

type notifyJSON struct {
	Notified []taskJSON    `json:"notified"`
	Failures []failureJSON `json:"failures"`
}

func toJSON(t todo.Task) taskJSON {
	return taskJSON{
		ID:                t.ID,
		Title:             t.Title,
		Status:            t.Status,
		CreatedAt:         t.CreatedAt,
		ScheduledAt:       t.ScheduledAt,
		CompletedAt:       t.CompletedAt,
		CompletionHistory: t.CompletionHistory,
		Urgent:            t.Urgent,
	}
}

func (j *taskJSON) markOverdue(overdue bool) {
	j.Overdue = overdue
	if overdue {
		j.Status += " (overdue)"
	}
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return todo.IOError("writing output", err)
	}
	return nil
}

// printChanged reports the task a mutation touched.
func (a *app) printChanged(verb string, task todo.Task) error {
	if a.json {
		return a.writeJSON(toJSON(task))
	}
	line := fmt.Sprintf("%s: %s (%s)", verb, task.Title, task.ID)
	if strings.HasSuffix(verb, "cheduled task") && task.ScheduledAt != nil {
		line += " at " + *task.ScheduledAt
	}
	fmt.Fprintln(a.stdout, line)
	return nil
}

// printList prints a listing. When focused is set the first task carries the
// focus marker.
func (a *app) printList(tasks []todo.Task, focused bool, overdue map[string]bool) error {
	if a.json {
		out := make([]taskJSON, 0, len(tasks))
		for i, task := range tasks {
			item := toJSON(task)
			item.markOverdue(overdue[task.ID])
			item.Focused = focused && i == 0
			out = append(out, item)
		}
		return a.writeJSON(out)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(a.stdout, a.palette.Muted("No tasks."))
		return nil
	}
	for i, task := range tasks {
		line := formatTaskLine(task, overdue[task.ID])
		if focused && i == 0 {
			line = a.palette.Accent(focusPrefix) + line
		}
		fmt.Fprintln(a.stdout, line)
	}
	return nil
}

// formatTaskLine renders "id | title | status | created_at | scheduled_at".
func formatTaskLine(t todo.Task, overdue bool) string {
	scheduled := "-"
	if t.ScheduledAt != nil {
		scheduled = *t.ScheduledAt
	}
	return strings.Join([]string{t.ID, t.Title, statusLabel(t, overdue), t.CreatedAt, scheduled}, " | ")
}

func statusLabel(t todo.Task, overdue bool) string {
	var marks []string
	if overdue {
		marks = append(marks, "overdue")
	}
	if t.Urgent && !t.IsCompleted() {
		marks = append(marks, "urgent")
	}
	if len(marks) == 0 {
		return string(t.Status)
	}
	return fmt.Sprintf("%s (%s)", t.Status, strings.Join(marks, ", "))
}

func (a *app) printDetail(t todo.Task, focused, overdue bool) error {
	if a.json {
		item := toJSON(t)
		item.markOverdue(overdue)
		item.Focused = focused
		return a.writeJSON(item)
	}

	w := a.stdout
	fmt.Fprintf(w, "ID:         %s\n", t.ID)
	fmt.Fprintf(w, "Title:      %s\n", a.palette.Accent(t.Title))
	fmt.Fprintf(w, "Status:     %s\n", statusLabel(t, overdue))
	fmt.Fprintf(w, "Focused:    %s\n", yesNo(focused))
	fmt.Fprintf(w, "Created:    %s\n", t.CreatedAt)
	fmt.Fprintf(w, "Scheduled:  %s\n", valueOrDash(t.ScheduledAt))
	fmt.Fprintf(w, "Completed:  %s\n", valueOrDash(t.CompletedAt))
	if len(t.CompletionHistory) == 0 {
		return nil
	}
	fmt.Fprintln(w, "History:")
	for _, entry := range t.CompletionHistory {
		fmt.Fprintf(w, "  %s  %s\n", a.palette.Muted(entry.CompletedAt), entry.Message)
	}
	return nil
}

func (a *app) printNotified(outcome engine.NotificationOutcome) error {
	if a.json {
		out := notifyJSON{
			Notified: make([]taskJSON, 0, len(outcome.Tasks)),
			Failures: make([]failureJSON, 0, len(outcome.Failures)),
		}
		for _, task := range outcome.Tasks {
			out.Notified = append(out.Notified, toJSON(task))
		}
		for _, f := range outcome.Failures {
			out.Failures = append(out.Failures, failureJSON{TaskID: f.TaskID, Error: f.Err.Error()})
		}
		return a.writeJSON(out)
	}

	if len(outcome.Tasks) == 0 && len(outcome.Failures) == 0 {
		fmt.Fprintln(a.stdout, a.palette.Muted("No tasks to notify."))
		return nil
	}
	for _, task := range outcome.Tasks {
		fmt.Fprintf(a.stdout, "Notified task: %s (%s)\n", task.Title, task.ID)
	}
	for _, f := range outcome.Failures {
		fmt.Fprintf(a.stderr, "Failed to notify: %s - %v\n", f.TaskID, f.Err)
	}
	return nil
}

func valueOrDash(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
