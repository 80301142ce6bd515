// Package logging builds the charmbracelet/log logger used across todo.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultPrefix is the prefix printed before every log line.
const DefaultPrefix = "todo"

// Options holds configuration for a logger.
type Options struct {
	Level      log.Level
	Formatter  log.Formatter
	Timestamps bool
	Caller     bool
	Prefix     string
}

// DefaultOptions returns warn-level text logging without timestamps.
// The CLI keeps quiet unless something goes wrong.
func DefaultOptions() Options {
	return Options{
		Level:     log.WarnLevel,
		Formatter: log.TextFormatter,
		Prefix:    DefaultPrefix,
	}
}

// New creates a logger writing to w. A nil writer means stderr.
func New(w io.Writer, opts Options) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.Timestamps,
		ReportCaller:    opts.Caller,
		Prefix:          opts.Prefix,
	})
}

// FromStrings builds Options from config values. Blank values keep the
// defaults; unknown values are errors.
func FromStrings(level, format string, timestamps bool) (Options, error) {
	opts := DefaultOptions()
	opts.Timestamps = timestamps

	if strings.TrimSpace(level) != "" {
		parsed, err := ParseLevel(level)
		if err != nil {
			return opts, err
		}
		opts.Level = parsed
	}
	if strings.TrimSpace(format) != "" {
		parsed, err := ParseFormatter(format)
		if err != nil {
			return opts, err
		}
		opts.Formatter = parsed
	}
	return opts, nil
}

// ParseLevel parses a log level string.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "info", "":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	case "fatal":
		return log.FatalLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("invalid log level %q (want debug, info, warn, error or fatal)", level)
	}
}

// ParseFormatter parses a log format string.
func ParseFormatter(format string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	case "text", "":
		return log.TextFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("invalid log format %q (want text, json or logfmt)", format)
	}
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
