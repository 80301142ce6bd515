// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/todo"
)

// isolate points every config and store lookup into a temp dir and turns
// desktop notifications off.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(config.EnvConfigPath, filepath.Join(dir, "config.toml"))
	t.Setenv(config.EnvStorePath, filepath.Join(dir, "tasks.json"))
	t.Setenv(config.EnvDisableNotifications, "1")
	for _, key := range []string{
		config.EnvNotifyCommand,
		config.EnvNotifyArgs,
		config.EnvTheme,
		config.EnvEditClearsFocus,
		config.EnvLogLevel,
		config.EnvLogFormat,
		config.EnvLogTimestamps,
	} {
		t.Setenv(key, "")
	}
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

// mustRun runs the CLI and fails the test on error.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := runCLI(t, "", args...)
	if err != nil {
		t.Fatalf("todo %s: %v\nstderr: %s", strings.Join(args, " "), err, errOut)
	}
	return out
}

// addTask adds a task through the CLI and returns its id.
func addTask(t *testing.T, args ...string) string {
	t.Helper()
	out := mustRun(t, append([]string{"--json", "add"}, args...)...)
	var task taskJSON
	if err := json.Unmarshal([]byte(out), &task); err != nil {
		t.Fatalf("decode add output %q: %v", out, err)
	}
	if !strings.HasPrefix(task.ID, "task-") {
		t.Fatalf("unexpected id %q", task.ID)
	}
	return task.ID
}

func showTask(t *testing.T, id string) taskJSON {
	t.Helper()
	out := mustRun(t, "show", id, "--json")
	var task taskJSON
	if err := json.Unmarshal([]byte(out), &task); err != nil {
		t.Fatalf("decode show output %q: %v", out, err)
	}
	return task
}

func assertKind(t *testing.T, err error, kind todo.Kind, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if !todo.IsKind(err, kind) {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("expected error containing %q, got %v", substr, err)
	}
}

func rfc3339(d time.Duration) string {
	return time.Now().Add(d).UTC().Format(time.RFC3339)
}

// TestRun tests the main entry points.
func TestRun(t *testing.T) {
	isolate(t)

	t.Run("shows help with --help flag", func(t *testing.T) {
		out := mustRun(t, "--help")
		if !strings.Contains(out, "Usage:") || !strings.Contains(out, "-config-override") {
			t.Errorf("help output missing sections:\n%s", out)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		if out := mustRun(t, "help"); !strings.Contains(out, "Commands:") {
			t.Errorf("help output:\n%s", out)
		}
	})

	t.Run("shows version", func(t *testing.T) {
		for _, arg := range []string{"-v", "--version", "version"} {
			if out := mustRun(t, arg); out != "todo version dev\n" {
				t.Errorf("%s: got %q", arg, out)
			}
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		_, _, err := runCLI(t, "", "unknown-command")
		assertKind(t, err, todo.KindInvalidInput, "unknown command: unknown-command")
	})

	t.Run("unknown global flag returns error", func(t *testing.T) {
		_, _, err := runCLI(t, "", "--bogus", "list", "today")
		assertKind(t, err, todo.KindInvalidInput, "bogus")
	})
}

func TestAddEditDelete(t *testing.T) {
	isolate(t)

	out := mustRun(t, "add", "Buy", "milk")
	if !strings.HasPrefix(out, "Added task: Buy milk (task-") {
		t.Fatalf("unexpected add output %q", out)
	}

	_, _, err := runCLI(t, "", "add", "   ")
	assertKind(t, err, todo.KindInvalidInput, "title is required")

	id := addTask(t, "Draft report")
	if out := mustRun(t, "edit", id, "Final", "report"); out != "Updated task: Final report ("+id+")\n" {
		t.Errorf("edit output %q", out)
	}
	if got := showTask(t, id).Title; got != "Final report" {
		t.Errorf("title after edit = %q", got)
	}

	_, _, err = runCLI(t, "", "edit", id)
	assertKind(t, err, todo.KindInvalidInput, "usage: todo edit ID TITLE")

	if out := mustRun(t, "delete", id); out != "Deleted task: Final report ("+id+")\n" {
		t.Errorf("delete output %q", out)
	}
	_, _, err = runCLI(t, "", "show", id)
	assertKind(t, err, todo.KindInvalidInput, "task not found")
}

func TestAddUrgentFlagAfterTitle(t *testing.T) {
	isolate(t)

	id := addTask(t, "Call bank", "--urgent")
	task := showTask(t, id)
	if !task.Urgent || task.Title != "Call bank" {
		t.Errorf("got %+v, want urgent task titled Call bank", task)
	}

	id = addTask(t, "--", "--not-a-flag")
	if got := showTask(t, id).Title; got != "--not-a-flag" {
		t.Errorf("title after -- = %q", got)
	}
}

func TestListTodayAndBacklog(t *testing.T) {
	isolate(t)

	past := addTask(t, "Pay rent")
	mustRun(t, "schedule", past, rfc3339(-24*time.Hour))
	future := addTask(t, "Plan trip")
	mustRun(t, "schedule", future, rfc3339(72*time.Hour))
	unscheduled := addTask(t, "Read book")

	today := mustRun(t, "list", "today")
	if !strings.Contains(today, past+" | Pay rent | pending (overdue) | ") {
		t.Errorf("today should list the overdue task:\n%s", today)
	}
	if strings.Contains(today, future) || strings.Contains(today, unscheduled) {
		t.Errorf("today should not list backlog tasks:\n%s", today)
	}
	if strings.HasPrefix(today, focusPrefix) {
		t.Errorf("no task is focused:\n%s", today)
	}

	backlog := mustRun(t, "list", "backlog")
	if !strings.Contains(backlog, unscheduled+" | Read book | pending | ") || !strings.HasSuffix(strings.TrimSpace(backlog), " | -") {
		t.Errorf("backlog should show the unscheduled task with a dash:\n%s", backlog)
	}
	if !strings.Contains(backlog, future) {
		t.Errorf("backlog should list the future task:\n%s", backlog)
	}

	var items []taskJSON
	if err := json.Unmarshal([]byte(mustRun(t, "list", "today", "--json")), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != past || !items[0].Overdue {
		t.Errorf("today JSON = %+v", items)
	}
	if len(items) == 1 && items[0].Status != "pending (overdue)" {
		t.Errorf("overdue status: got %q, want %q", items[0].Status, "pending (overdue)")
	}
	if task := showTask(t, past); task.Status != "pending (overdue)" || !task.Overdue {
		t.Errorf("show JSON = %+v", task)
	}
	var later []taskJSON
	if err := json.Unmarshal([]byte(mustRun(t, "list", "backlog", "--json")), &later); err != nil {
		t.Fatal(err)
	}
	for _, item := range later {
		if item.Status != todo.StatusPending || item.Overdue {
			t.Errorf("backlog task should be plain pending: %+v", item)
		}
	}

	_, _, err := runCLI(t, "", "list", "someday")
	assertKind(t, err, todo.KindInvalidInput, "unknown list view")
	_, _, err = runCLI(t, "", "list")
	assertKind(t, err, todo.KindInvalidInput, "usage: todo list")
}

func TestFocusMarksToday(t *testing.T) {
	isolate(t)

	first := addTask(t, "First")
	mustRun(t, "schedule", first, rfc3339(-2*time.Hour))
	second := addTask(t, "Second")
	mustRun(t, "schedule", second, rfc3339(-time.Hour))

	if out := mustRun(t, "focus", second); out != "Focused task: Second ("+second+")\n" {
		t.Errorf("focus output %q", out)
	}
	today := mustRun(t, "list", "today")
	if !strings.HasPrefix(today, focusPrefix+second+" | Second") {
		t.Errorf("focused task should lead today:\n%s", today)
	}

	// A focused backlog task is not marked.
	backlogTask := addTask(t, "Someday")
	mustRun(t, "focus", backlogTask)
	if out := mustRun(t, "list", "backlog"); strings.Contains(out, focusPrefix) {
		t.Errorf("backlog should not carry the focus marker:\n%s", out)
	}
	if out := mustRun(t, "list", "today"); strings.Contains(out, focusPrefix) {
		t.Errorf("today should not carry the focus marker:\n%s", out)
	}
}

func TestDone(t *testing.T) {
	isolate(t)

	t.Run("with id and message", func(t *testing.T) {
		id := addTask(t, "Water plants")
		out := mustRun(t, "done", id, "all", "of", "them")
		if out != "Completed task: Water plants ("+id+")\n" {
			t.Errorf("done output %q", out)
		}
		task := showTask(t, id)
		if task.Status != todo.StatusCompleted || task.CompletedAt == nil {
			t.Fatalf("task not completed: %+v", task)
		}
		if len(task.CompletionHistory) != 1 || task.CompletionHistory[0].Message != "all of them" {
			t.Errorf("history = %+v", task.CompletionHistory)
		}

		_, _, err := runCLI(t, "", "done", id)
		assertKind(t, err, todo.KindInvalidInput, "task already completed")
	})

	t.Run("focused with -m", func(t *testing.T) {
		id := addTask(t, "Stretch")
		mustRun(t, "focus", id)
		mustRun(t, "done", "-m", "ten minutes")
		task := showTask(t, id)
		if task.Status != todo.StatusCompleted {
			t.Fatalf("focused task not completed: %+v", task)
		}
		if len(task.CompletionHistory) != 1 || task.CompletionHistory[0].Message != "ten minutes" {
			t.Errorf("history = %+v", task.CompletionHistory)
		}
	})

	t.Run("message twice", func(t *testing.T) {
		id := addTask(t, "Tidy desk")
		_, _, err := runCLI(t, "", "done", id, "one", "-m", "two")
		assertKind(t, err, todo.KindInvalidInput, "message given both")
	})

	t.Run("blank -m", func(t *testing.T) {
		id := addTask(t, "Sort mail")
		_, _, err := runCLI(t, "", "done", id, "-m", "  ")
		assertKind(t, err, todo.KindInvalidInput, "message is required")
	})
}

func TestDoneWithoutFocus(t *testing.T) {
	isolate(t)
	_, _, err := runCLI(t, "", "done")
	assertKind(t, err, todo.KindInvalidInput, "no focused task")
}

func TestScheduleAndReschedule(t *testing.T) {
	isolate(t)

	id := addTask(t, "Dentist")
	out := mustRun(t, "schedule", id, "2099-01-02", "10:00")
	task := showTask(t, id)
	if task.ScheduledAt == nil {
		t.Fatal("task not scheduled")
	}
	got, err := time.Parse(time.RFC3339, *task.ScheduledAt)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2099, 1, 2, 10, 0, 0, 0, time.Local); !got.Equal(want) {
		t.Errorf("scheduled at %s, want %s", got, want)
	}
	if out != "Scheduled task: Dentist ("+id+") at "+*task.ScheduledAt+"\n" {
		t.Errorf("schedule output %q", out)
	}

	_, _, err = runCLI(t, "", "reschedule", id, "2099-02-01T09:00:00Z")
	assertKind(t, err, todo.KindInvalidInput, "task is not overdue")

	_, _, err = runCLI(t, "", "schedule", id, "next tuesday")
	assertKind(t, err, todo.KindInvalidInput, "datetime must be RFC3339")

	mustRun(t, "schedule", id, rfc3339(-time.Hour))
	out = mustRun(t, "reschedule", id, "2099-03-01T09:00:00Z")
	if out != "Rescheduled task: Dentist ("+id+") at 2099-03-01T09:00:00Z\n" {
		t.Errorf("reschedule output %q", out)
	}

	other := addTask(t, "Unscheduled")
	_, _, err = runCLI(t, "", "reschedule", other, "2099-03-01T09:00:00Z")
	assertKind(t, err, todo.KindInvalidInput, "task is not scheduled")
}

func TestUrgentAndNotify(t *testing.T) {
	isolate(t)

	if out := mustRun(t, "notify"); out != "No tasks to notify.\n" {
		t.Errorf("empty notify output %q", out)
	}
	if out := mustRun(t, "notify", "--wait", "1s"); out != "No tasks to notify.\n" {
		t.Errorf("notify --wait output %q", out)
	}
	_, _, err := runCLI(t, "", "notify", "--wait", "-1s")
	assertKind(t, err, todo.KindInvalidInput, "wait must not be negative")

	calm := addTask(t, "Calm")
	late := addTask(t, "Late")
	mustRun(t, "schedule", late, rfc3339(-time.Hour))
	if out := mustRun(t, "urgent", calm); out != "Marked urgent: Calm ("+calm+")\n" {
		t.Errorf("urgent output %q", out)
	}

	out := mustRun(t, "notify")
	want := "Notified task: Calm (" + calm + ")\nNotified task: Late (" + late + ")\n"
	if out != want {
		t.Errorf("notify output:\n%s\nwant:\n%s", out, want)
	}

	if out := mustRun(t, "urgent", "--clear", calm); out != "Cleared urgent: Calm ("+calm+")\n" {
		t.Errorf("urgent --clear output %q", out)
	}
	var outcome notifyJSON
	if err := json.Unmarshal([]byte(mustRun(t, "--json", "notify")), &outcome); err != nil {
		t.Fatal(err)
	}
	if len(outcome.Notified) != 1 || outcome.Notified[0].ID != late || len(outcome.Failures) != 0 {
		t.Errorf("notify JSON = %+v", outcome)
	}
}

func TestNotifyCommandFailure(t *testing.T) {
	isolate(t)
	os.Unsetenv(config.EnvDisableNotifications)
	t.Setenv(config.EnvNotifyCommand, filepath.Join(t.TempDir(), "missing-notifier"))

	id := addTask(t, "Urgent thing", "--urgent")
	out, errOut, err := runCLI(t, "", "notify")
	if err != nil {
		t.Fatalf("notify should report failures without failing: %v", err)
	}
	if strings.Contains(out, "Notified task") {
		t.Errorf("nothing should be notified:\n%s", out)
	}
	if !strings.Contains(errOut, "Failed to notify: "+id+" - io_error") {
		t.Errorf("stderr should report the failure:\n%s", errOut)
	}
}

func TestShowAndActivation(t *testing.T) {
	isolate(t)

	id := addTask(t, "Book flights")
	mustRun(t, "focus", id)

	for _, args := range [][]string{{"show", id}, {"show:" + id}} {
		out := mustRun(t, args...)
		for _, want := range []string{"ID:         " + id, "Title:      Book flights", "Focused:    yes", "Scheduled:  -"} {
			if !strings.Contains(out, want) {
				t.Errorf("%v output missing %q:\n%s", args, want, out)
			}
		}
	}
}

func TestAliases(t *testing.T) {
	dir := isolate(t)
	cfg := "[aliases]\nbl = \"list backlog\"\nadd = \"delete\"\nquick = \"add --urgent\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(cfg), 0600); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, "add", "Real add")
	if !strings.HasPrefix(out, "Added task: Real add") {
		t.Errorf("aliases must not shadow commands: %q", out)
	}
	if out := mustRun(t, "bl"); !strings.Contains(out, "Real add") {
		t.Errorf("alias bl should list the backlog:\n%s", out)
	}

	out = mustRun(t, "--json", "quick", "Fire drill")
	var task taskJSON
	if err := json.Unmarshal([]byte(out), &task); err != nil {
		t.Fatal(err)
	}
	if !task.Urgent || task.Title != "Fire drill" {
		t.Errorf("alias with flags: %+v", task)
	}

	out = mustRun(t, "--config-override", "aliases.td=list today", "td")
	if out != "No tasks.\n" {
		t.Errorf("override alias output %q", out)
	}

	_, _, err := runCLI(t, "", "--config-override", "colour=red", "list", "today")
	assertKind(t, err, todo.KindInvalidInput, "unknown config field")
}

func TestBrokenConfigFallsBack(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("theme = [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	out, errOut, err := runCLI(t, "", "list", "backlog")
	if err != nil {
		t.Fatalf("broken config should not stop the CLI: %v", err)
	}
	if out != "No tasks.\n" {
		t.Errorf("stdout %q", out)
	}
	if !strings.Contains(errOut, "config file ignored") {
		t.Errorf("stderr should warn about the config file:\n%s", errOut)
	}
}

func TestStoreFlagAndCorruptStore(t *testing.T) {
	dir := isolate(t)
	other := filepath.Join(dir, "other.json")

	mustRun(t, "--store", other, "add", "Elsewhere")
	if _, err := os.Stat(other); err != nil {
		t.Fatalf("--store should select the store file: %v", err)
	}
	if out := mustRun(t, "list", "backlog"); strings.Contains(out, "Elsewhere") {
		t.Errorf("default store should be untouched:\n%s", out)
	}

	if err := os.WriteFile(other, []byte(`{"schema_version": 99, "tasks": []}`), 0600); err != nil {
		t.Fatal(err)
	}
	_, _, err := runCLI(t, "", "--store", other, "list", "today")
	assertKind(t, err, todo.KindInvalidData, "schema_version")
}

func TestShell(t *testing.T) {
	isolate(t)

	input := strings.Join([]string{
		"add 'first task'",
		"",
		"--json list backlog",
		"bogus",
		"todo add second",
		"list backlog",
		"exit",
		"add never",
	}, "\n")
	out, errOut, err := runCLI(t, input)
	if err != nil {
		t.Fatalf("shell: %v", err)
	}

	if !strings.Contains(out, "Added task: first task (") || !strings.Contains(out, "Added task: second (") {
		t.Errorf("shell output missing adds:\n%s", out)
	}
	if !strings.Contains(out, `"title":"first task"`) {
		t.Errorf("--json should apply to its line:\n%s", out)
	}
	if !strings.Contains(out, " | second | pending | ") {
		t.Errorf("plain output should return after a --json line:\n%s", out)
	}
	if strings.Contains(out, "never") {
		t.Errorf("exit should stop the shell:\n%s", out)
	}
	if !strings.Contains(errOut, "ERROR: invalid_input - unknown command: bogus") {
		t.Errorf("shell should report errors and continue:\n%s", errOut)
	}
}

func TestShellHelpAndParseError(t *testing.T) {
	isolate(t)

	out, errOut, err := runCLI(t, "help\nadd 'unterminated\n")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Commands:") {
		t.Errorf("help should print usage:\n%s", out)
	}
	if !strings.Contains(errOut, "ERROR: invalid_input - cannot parse command") {
		t.Errorf("stderr:\n%s", errOut)
	}
}

func TestDoctor(t *testing.T) {
	dir := isolate(t)

	out := mustRun(t, "doctor")
	for _, want := range []string{"Not found, using defaults", "Not found, created on first change", "Disabled", "All checks passed!"} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}

	addTask(t, "Something")
	if out := mustRun(t, "doctor"); !strings.Contains(out, "OK (schema v5, 1 tasks, 1 pending)") {
		t.Errorf("doctor should summarise the store:\n%s", out)
	}

	legacy := `{"schema_version": 1, "tasks": [
  {"id": "task-1", "title": "old", "status": "pending", "created_at": "2025-12-20T00:00:00Z"}
]}`
	if err := os.WriteFile(filepath.Join(dir, "tasks.json"), []byte(legacy), 0600); err != nil {
		t.Fatal(err)
	}
	out = mustRun(t, "doctor")
	for _, want := range []string{"OK (schema v1, 1 tasks, 1 pending)", "Upgraded to schema v5 on the next change", "All checks passed!"} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output for a v1 store missing %q:\n%s", want, out)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, "tasks.json"), []byte("{nope"), 0600); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, "", "doctor")
	if err == nil || !strings.Contains(out, "❌ invalid_data") {
		t.Errorf("doctor should fail on a corrupt store (err=%v):\n%s", err, out)
	}
}

func TestConfigCommand(t *testing.T) {
	isolate(t)

	if out := mustRun(t, "config", "--example"); out != config.ExampleConfig() {
		t.Error("config --example should print the example file")
	}
	out := mustRun(t, "--config-override", "theme=dark", "config")
	if !strings.Contains(out, `theme = "noir"`) || !strings.Contains(out, "# task store:") {
		t.Errorf("config output:\n%s", out)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(mustRun(t, "config", "--json")), &got); err != nil {
		t.Fatal(err)
	}
	if got["theme"] != "default" {
		t.Errorf("config JSON theme = %v", got["theme"])
	}
}

func TestTUIRequiresTerminal(t *testing.T) {
	isolate(t)
	_, _, err := runCLI(t, "", "tui")
	if err == nil || !strings.Contains(err.Error(), "TTY") {
		t.Errorf("expected TTY error, got %v", err)
	}
}

func TestSubcommandHelp(t *testing.T) {
	isolate(t)
	out := mustRun(t, "add", "-h")
	if !strings.Contains(out, "Usage: todo add [--urgent] TITLE") || !strings.Contains(out, "-urgent") {
		t.Errorf("add -h output:\n%s", out)
	}
}

func TestParseInterspersed(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		want   []string
		urgent bool
	}{
		{name: "flag first", args: []string{"--urgent", "a", "b"}, want: []string{"a", "b"}, urgent: true},
		{name: "flag between", args: []string{"a", "--urgent", "b"}, want: []string{"a", "b"}, urgent: true},
		{name: "flag last", args: []string{"a", "b", "--urgent"}, want: []string{"a", "b"}, urgent: true},
		{name: "terminator", args: []string{"a", "--", "--urgent"}, want: []string{"a", "--urgent"}},
		{name: "none", args: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			urgent := fs.Bool("urgent", false, "")
			got, err := parseInterspersed(fs, tt.args)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("positional = %q, want %q", got, tt.want)
			}
			if *urgent != tt.urgent {
				t.Errorf("urgent = %v, want %v", *urgent, tt.urgent)
			}
		})
	}
}

func TestFormatTaskLine(t *testing.T) {
	task := todo.Task{ID: "task-1", Title: "Demo", Status: todo.StatusPending, CreatedAt: "2025-12-20T00:00:00Z", Urgent: true}
	if got, want := formatTaskLine(task, false), "task-1 | Demo | pending (urgent) | 2025-12-20T00:00:00Z | -"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	task.ScheduledAt = todo.StringPtr("2025-12-21T09:00:00Z")
	task.Urgent = false
	if got, want := formatTaskLine(task, true), "task-1 | Demo | pending (overdue) | 2025-12-20T00:00:00Z | 2025-12-21T09:00:00Z"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
