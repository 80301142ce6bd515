// Package todo reads, validates, and writes the task store document.
//
// The store is a single JSON document (tasks.json) validated against the
// embedded todo.schema.json:
//
//	{
//	  "schema_version": 5,
//	  "focused_task_id": "task-2",
//	  "tasks": [
//	    {
//	      "id": "task-2",
//	      "title": "Buy milk",
//	      "status": "pending",
//	      "created_at": "2025-12-20T00:00:00Z",
//	      "scheduled_at": "2025-12-21T09:00:00Z",
//	      "completed_at": null,
//	      "completion_history": [],
//	      "urgent": false
//	    }
//	  ]
//	}
//
// # Schema versions
//
// The document carries a single increasing integer version. Load accepts
// every version from 1 up to SchemaVersion; Save always writes SchemaVersion.
// Fields introduced after version 1 default to their neutral value when absent:
//
//   - 2: scheduled_at (null)
//   - 3: completed_at (null), completion_history ([])
//   - 4: focused_task_id (null)
//   - 5: urgent (false)
//
// There is no downgrade path and no per-version migration.
//
// # Integrity
//
// A document whose focused_task_id does not name an existing task is corrupt
// and is rejected with an invalid_data error instead of being repaired.
//
// # File Format
//
// Save replaces the document as a whole: it writes a sibling temporary file
// with owner-only permissions and renames it over the target. Output uses
// 2-space indentation and a trailing newline.
package todo
