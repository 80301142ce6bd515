package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// SchemaVersion is the document version written by Save.
const SchemaVersion = 5

// DefaultStoreFile is the default store file name.
const DefaultStoreFile = "tasks.json"

// document is the on-disk envelope.
type document struct {
	SchemaVersion int     `json:"schema_version"`
	FocusedTaskID *string `json:"focused_task_id"`
	Tasks         []Task  `json:"tasks"`
}

// Load reads the store at path.
//
// A missing file yields an empty State. Any document that is not valid JSON,
// fails the schema, has a version outside [1, SchemaVersion], or records a
// focused task that does not exist fails with KindInvalidData.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &State{Tasks: []Task{}}, nil
		}
		return nil, IOError("read task store", err)
	}
	return Decode(data)
}

// Decode parses and validates a store document.
func Decode(data []byte) (*State, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, &Error{Kind: KindInvalidData, Message: fmt.Sprintf("parse task store: %v", err), Err: err}
	}

	if errs := validateDocument(raw); len(errs) > 0 {
		return nil, &Error{
			Kind:    KindInvalidData,
			Message: joinValidationErrors(errs),
			Err:     errs[0],
		}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Kind: KindInvalidData, Message: fmt.Sprintf("decode task store: %v", err), Err: err}
	}

	if doc.SchemaVersion < 1 || doc.SchemaVersion > SchemaVersion {
		return nil, InvalidData(fmt.Sprintf("schema_version mismatch: got %d, supported 1..%d", doc.SchemaVersion, SchemaVersion))
	}

	state := &State{Tasks: doc.Tasks}
	if state.Tasks == nil {
		state.Tasks = []Task{}
	}
	for i := range state.Tasks {
		if state.Tasks[i].CompletionHistory == nil {
			state.Tasks[i].CompletionHistory = []CompletionEntry{}
		}
	}

	if doc.FocusedTaskID != nil {
		if state.IndexOf(*doc.FocusedTaskID) < 0 {
			return nil, InvalidData(fmt.Sprintf("focused_task_id %q not found", *doc.FocusedTaskID))
		}
		state.FocusedTaskID = *doc.FocusedTaskID
	}

	return state, nil
}

// StoredVersion returns the schema_version recorded in the document at path.
// A missing file reports 0.
func StoredVersion(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, IOError("read task store", err)
	}
	var doc struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, &Error{Kind: KindInvalidData, Message: fmt.Sprintf("parse task store: %v", err), Err: err}
	}
	return doc.SchemaVersion, nil
}

// Encode renders state as a current-version document.
func Encode(state *State) ([]byte, error) {
	doc := document{
		SchemaVersion: SchemaVersion,
		Tasks:         make([]Task, 0, len(state.Tasks)),
	}
	if state.FocusedTaskID != "" {
		doc.FocusedTaskID = StringPtr(state.FocusedTaskID)
	}
	for _, task := range state.Tasks {
		if task.CompletionHistory == nil {
			task.CompletionHistory = []CompletionEntry{}
		}
		doc.Tasks = append(doc.Tasks, task)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, &Error{Kind: KindInvalidData, Message: fmt.Sprintf("marshal task store: %v", err), Err: err}
	}
	return append(data, '\n'), nil
}

// Save writes state to path, replacing any existing document.
// Parent directories are created as needed and the file is readable and
// writable by its owner only.
func Save(path string, state *State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return IOError("create store directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".tasks-*.json")
	if err != nil {
		return IOError("create temporary store file", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return IOError("write task store", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return IOError("sync task store", err)
	}
	if err := tmp.Close(); err != nil {
		return IOError("close task store", err)
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			return IOError("set task store permissions", err)
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return IOError("replace task store", err)
	}
	committed = true

	return nil
}
