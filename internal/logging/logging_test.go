package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Level
		wantErr bool
	}{
		{input: "debug", want: log.DebugLevel},
		{input: " INFO ", want: log.InfoLevel},
		{input: "", want: log.InfoLevel},
		{input: "warn", want: log.WarnLevel},
		{input: "warning", want: log.WarnLevel},
		{input: "error", want: log.ErrorLevel},
		{input: "fatal", want: log.FatalLevel},
		{input: "loud", want: log.InfoLevel, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("level: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Formatter
		wantErr bool
	}{
		{input: "json", want: log.JSONFormatter},
		{input: "LOGFMT", want: log.LogfmtFormatter},
		{input: "text", want: log.TextFormatter},
		{input: "", want: log.TextFormatter},
		{input: "xml", want: log.TextFormatter, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormatter(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("formatter: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromStrings(t *testing.T) {
	opts, err := FromStrings("", "", false)
	if err != nil {
		t.Fatal(err)
	}
	if opts != DefaultOptions() {
		t.Errorf("blank values should keep defaults, got %+v", opts)
	}

	opts, err = FromStrings("debug", "json", true)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Level != log.DebugLevel || opts.Formatter != log.JSONFormatter || !opts.Timestamps {
		t.Errorf("got %+v", opts)
	}

	if _, err := FromStrings("nope", "", false); err == nil {
		t.Error("expected error for invalid level")
	}
	if _, err := FromStrings("", "nope", false); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestNewJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: log.DebugLevel, Formatter: log.JSONFormatter, Prefix: DefaultPrefix})
	logger.Debug("task added", "task_id", "task-1")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not JSON: %q (%v)", buf.String(), err)
	}
	if entry["msg"] != "task added" || entry["task_id"] != "task-1" {
		t.Errorf("entry: got %v", entry)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, DefaultOptions())
	logger.Info("hidden")
	logger.Warn("shown", "task_id", "task-2")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "task_id=task-2") {
		t.Errorf("warn output missing: %q", out)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing to see")
}
