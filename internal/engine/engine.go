package engine

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/todo-go/internal/todo"
)

// Engine owns the task lifecycle rules for one store location.
type Engine struct {
	path            string
	clock           Clock
	logger          *log.Logger
	newID           func() string
	editClearsFocus bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for timestamps and classification.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLogger sets the logger used for operation tracing.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithIDGenerator overrides task id generation.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithEditClearsFocus controls whether editing the focused task clears
// focus. Enabled by default.
func WithEditClearsFocus(enabled bool) Option {
	return func(e *Engine) {
		e.editClearsFocus = enabled
	}
}

// New returns an Engine bound to the store document at path.
func New(path string, opts ...Option) *Engine {
	e := &Engine{
		path:            path,
		clock:           SystemClock{},
		logger:          log.New(io.Discard),
		newID:           newTaskID,
		editClearsFocus: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Path returns the store location.
func (e *Engine) Path() string {
	return e.path
}

func newTaskID() string {
	return "task-" + uuid.NewString()
}

// mutate loads the state, applies fn, and saves on success.
func (e *Engine) mutate(fn func(*todo.State) (todo.Task, error)) (todo.Task, error) {
	state, err := todo.Load(e.path)
	if err != nil {
		return todo.Task{}, err
	}
	task, err := fn(state)
	if err != nil {
		return todo.Task{}, err
	}
	if err := todo.Save(e.path, state); err != nil {
		return todo.Task{}, err
	}
	return task, nil
}

func (e *Engine) timestamp() string {
	return e.clock.Now().UTC().Format(time.RFC3339)
}

func requireID(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", todo.InvalidInput("id is required")
	}
	return trimmed, nil
}

func findTask(state *todo.State, id string) (*todo.Task, error) {
	task := state.GetTask(id)
	if task == nil {
		return nil, todo.InvalidInput("task not found")
	}
	return task, nil
}

// optionalMessage trims a completion message. A nil message is allowed; a
// message that is blank after trimming is not.
func optionalMessage(message *string) (string, error) {
	if message == nil {
		return "", nil
	}
	trimmed := strings.TrimSpace(*message)
	if trimmed == "" {
		return "", todo.InvalidInput("message is required")
	}
	return trimmed, nil
}

// Add creates a pending task with a fresh id.
func (e *Engine) Add(title string, urgent bool) (todo.Task, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return todo.Task{}, todo.InvalidInput("title is required")
	}

	task, err := e.mutate(func(state *todo.State) (todo.Task, error) {
		id := e.newID()
		for state.IndexOf(id) >= 0 {
			id = e.newID()
		}
		task := todo.Task{
			ID:                id,
			Title:             trimmed,
			Status:            todo.StatusPending,
			CreatedAt:         e.timestamp(),
			CompletionHistory: []todo.CompletionEntry{},
			Urgent:            urgent,
		}
		state.Tasks = append(state.Tasks, task)
		return task.Clone(), nil
	})
	if err != nil {
		return todo.Task{}, err
	}
	e.logger.Debug("task added", "task_id", task.ID, "urgent", urgent)
	return task, nil
}

// Edit replaces a task's title.
func (e *Engine) Edit(id, newTitle string) (todo.Task, error) {
	trimmedID, err := requireID(id)
	if err != nil {
		return todo.Task{}, err
	}
	title := strings.TrimSpace(newTitle)
	if title == "" {
		return todo.Task{}, todo.InvalidInput("title is required")
	}

	task, err := e.mutate(func(state *todo.State) (todo.Task, error) {
		task, err := findTask(state, trimmedID)
		if err != nil {
			return todo.Task{}, err
		}
		task.Title = title
		if e.editClearsFocus {
			state.ClearFocusIf(trimmedID)
		}
		return task.Clone(), nil
	})
	if err != nil {
		return todo.Task{}, err
	}
	e.logger.Debug("task edited", "task_id", task.ID)
	return task, nil
}

// Delete removes a task and returns it.
func (e *Engine) Delete(id string) (todo.Task, error) {
	trimmedID, err := requireID(id)
	if err != nil {
		return todo.Task{}, err
	}

	task, err := e.mutate(func(state *todo.State) (todo.Task, error) {
		index := state.IndexOf(trimmedID)
		if index < 0 {
			return todo.Task{}, todo.InvalidInput("task not found")
		}
		removed := state.Tasks[index]
		state.Tasks = append(state.Tasks[:index], state.Tasks[index+1:]...)
		state.ClearFocusIf(trimmedID)
		return removed.Clone(), nil
	})
	if err != nil {
		return todo.Task{}, err
	}
	e.logger.Debug("task deleted", "task_id", task.ID)
	return task, nil
}

// Complete marks a pending task completed. A non-nil message is appended to
// the completion history and must not be blank.
func (e *Engine) Complete(id string, message *string) (todo.Task, error) {
	trimmedID, err := requireID(id)
	if err != nil {
		return todo.Task{}, err
	}

	task, err := e.mutate(func(state *todo.State) (todo.Task, error) {
		task, err := findTask(state, trimmedID)
		if err != nil {
			return todo.Task{}, err
		}
		if task.IsCompleted() {
			return todo.Task{}, todo.InvalidInput("task already completed")
		}
		msg, err := optionalMessage(message)
		if err != nil {
			return todo.Task{}, err
		}
		e.markCompleted(task, msg)
		state.ClearFocusIf(trimmedID)
		return task.Clone(), nil
	})
	if err != nil {
		return todo.Task{}, err
	}
	e.logger.Debug("task completed", "task_id", task.ID)
	return task, nil
}

// CompleteFocused completes the focused task and clears focus.
func (e *Engine) CompleteFocused(message *string) (todo.Task, error) {
	task, err := e.mutate(func(state *todo.State) (todo.Task, error) {
		if !state.HasFocus() {
			return todo.Task{}, todo.InvalidInput("no focused task")
		}
		msg, err := optionalMessage(message)
		if err != nil {
			return todo.Task{}, err
		}
		task, err := findTask(state, state.FocusedTaskID)
		if err != nil {
			return todo.Task{}, err
		}
		if task.IsCompleted() {
			return todo.Task{}, todo.InvalidInput("task already completed")
		}
		e.markCompleted(task, msg)
		state.FocusedTaskID = ""
		return task.Clone(), nil
	})
	if err != nil {
		return todo.Task{}, err
	}
	e.logger.Debug("focused task completed", "task_id", task.ID)
	return task, nil
}

func (e *Engine) markCompleted(task *todo.Task, message string) {
	completedAt := e.timestamp()
	task.Status = todo.StatusCompleted
	task.CompletedAt = todo.StringPtr(completedAt)
	if message != "" {
		task.CompletionHistory = append(task.CompletionHistory, todo.CompletionEntry{
			Message:     message,
			CompletedAt: completedAt,
		})
	}
}

// Schedule sets a task's schedule, overwriting any previous value.
func (e *Engine) Schedule(id, datetime string) (todo.Task, error) {
	return e.updateSchedule(id, datetime, false)
}

// Reschedule moves an overdue task to a new schedule. The task must already
// be scheduled, and its current schedule must be strictly in the past.
func (e *Engine) Reschedule(id, datetime string) (todo.Task, error) {
	return e.updateSchedule(id, datetime, true)
}

func (e *Engine) updateSchedule(id, datetime string, requireOverdue bool) (todo.Task, error) {
	trimmedID, err := requireID(id)
	if err != nil {
		return todo.Task{}, err
	}
	scheduledAt, err := normalizeDateTime(datetime)
	if err != nil {
		return todo.Task{}, err
	}

	task, err := e.mutate(func(state *todo.State) (todo.Task, error) {
		task, err := findTask(state, trimmedID)
		if err != nil {
			return todo.Task{}, err
		}
		if requireOverdue {
			if !task.IsScheduled() {
				return todo.Task{}, todo.InvalidInput("task is not scheduled")
			}
			overdue, err := e.IsOverdue(*task)
			if err != nil {
				return todo.Task{}, err
			}
			if !overdue {
				return todo.Task{}, todo.InvalidInput("task is not overdue")
			}
		}
		task.ScheduledAt = todo.StringPtr(scheduledAt)
		return task.Clone(), nil
	})
	if err != nil {
		return todo.Task{}, err
	}
	e.logger.Debug("task scheduled", "task_id", task.ID, "scheduled_at", scheduledAt, "reschedule", requireOverdue)
	return task, nil
}

// normalizeDateTime validates RFC3339 input and re-serializes it.
func normalizeDateTime(datetime string) (string, error) {
	trimmed := strings.TrimSpace(datetime)
	if trimmed == "" {
		return "", todo.InvalidInput("datetime is required")
	}
	parsed, err := parseRFC3339(trimmed)
	if err != nil {
		return "", todo.InvalidInput("datetime must be RFC3339")
	}
	return parsed.Format(time.RFC3339Nano), nil
}

// SetFocus records id as the focused task.
func (e *Engine) SetFocus(id string) (todo.Task, error) {
	trimmedID, err := requireID(id)
	if err != nil {
		return todo.Task{}, err
	}

	task, err := e.mutate(func(state *todo.State) (todo.Task, error) {
		task, err := findTask(state, trimmedID)
		if err != nil {
			return todo.Task{}, err
		}
		state.FocusedTaskID = task.ID
		return task.Clone(), nil
	})
	if err != nil {
		return todo.Task{}, err
	}
	e.logger.Debug("task focused", "task_id", task.ID)
	return task, nil
}

// SetUrgent sets the urgent flag to exactly urgent.
func (e *Engine) SetUrgent(id string, urgent bool) (todo.Task, error) {
	trimmedID, err := requireID(id)
	if err != nil {
		return todo.Task{}, err
	}

	task, err := e.mutate(func(state *todo.State) (todo.Task, error) {
		task, err := findTask(state, trimmedID)
		if err != nil {
			return todo.Task{}, err
		}
		task.Urgent = urgent
		return task.Clone(), nil
	})
	if err != nil {
		return todo.Task{}, err
	}
	e.logger.Debug("task urgency set", "task_id", task.ID, "urgent", urgent)
	return task, nil
}

// Get returns the task with id.
func (e *Engine) Get(id string) (todo.Task, error) {
	trimmedID, err := requireID(id)
	if err != nil {
		return todo.Task{}, err
	}
	state, err := todo.Load(e.path)
	if err != nil {
		return todo.Task{}, err
	}
	task, err := findTask(state, trimmedID)
	if err != nil {
		return todo.Task{}, err
	}
	return task.Clone(), nil
}

// State returns the full stored state.
func (e *Engine) State() (*todo.State, error) {
	return todo.Load(e.path)
}
