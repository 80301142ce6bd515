// Package todo reads, validates, and writes the task store document.
package todo

// Status represents a task status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// CompletionEntry records a completion message.
type CompletionEntry struct {
	Message     string `json:"message"`
	CompletedAt string `json:"completed_at"`
}

// Task represents a single task in the store.
//
// Timestamps are kept as the RFC3339 strings found in the document so that a
// malformed value survives loading and is only rejected where it is examined.
type Task struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	Status            Status            `json:"status"`
	CreatedAt         string            `json:"created_at"`
	ScheduledAt       *string           `json:"scheduled_at"`
	CompletedAt       *string           `json:"completed_at"`
	CompletionHistory []CompletionEntry `json:"completion_history"`
	Urgent            bool              `json:"urgent"`
}

// IsScheduled reports whether the task carries a schedule.
func (t *Task) IsScheduled() bool {
	return t.ScheduledAt != nil
}

// IsCompleted reports whether the task has been completed.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	out := t
	if t.ScheduledAt != nil {
		v := *t.ScheduledAt
		out.ScheduledAt = &v
	}
	if t.CompletedAt != nil {
		v := *t.CompletedAt
		out.CompletedAt = &v
	}
	out.CompletionHistory = append([]CompletionEntry{}, t.CompletionHistory...)
	return out
}

// State is the whole persisted world: the ordered task list plus at most
// one focused task id ("" means no focus).
type State struct {
	Tasks         []Task
	FocusedTaskID string
}

// HasFocus reports whether a focused task is recorded.
func (s *State) HasFocus() bool {
	return s.FocusedTaskID != ""
}

// IndexOf returns the index of the task with id, or -1.
func (s *State) IndexOf(id string) int {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// GetTask returns a task by ID, or nil if not found.
func (s *State) GetTask(id string) *Task {
	if i := s.IndexOf(id); i >= 0 {
		return &s.Tasks[i]
	}
	return nil
}

// ClearFocusIf drops the focus reference when it points at id.
func (s *State) ClearFocusIf(id string) {
	if s.FocusedTaskID == id {
		s.FocusedTaskID = ""
	}
}

// StringPtr returns a pointer to v.
func StringPtr(v string) *string {
	return &v
}
