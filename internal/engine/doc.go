// Package engine applies task lifecycle operations to the task store.
//
// Every mutating operation is a full round trip: load the document, locate
// the target task by its trimmed, case-sensitive id, validate preconditions,
// mutate in memory, and save the whole state back. Validation failures never
// write. A failed save means the operation did not happen, even though the
// in-memory task was already computed.
//
// # Classification
//
// Tasks are split into two views using the injected Clock:
//
//   - Today: scheduled at or before now (overdue tasks stay here)
//   - Backlog: unscheduled, or scheduled strictly after now
//
// Scheduled instants are compared after conversion to the clock's local
// zone. A scheduled_at value that is not RFC3339 fails the whole listing
// with an invalid_data error.
//
// # Focus
//
// At most one task is focused. Focus is cleared when the focused task is
// deleted or completed, and by default when it is edited (see
// WithEditClearsFocus).
package engine
