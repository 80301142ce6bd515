// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todo-go/internal/engine"
	"github.com/nibzard/todo-go/internal/todo"
)

// DefaultRefreshInterval is how often the viewer reloads the store.
const DefaultRefreshInterval = 2 * time.Second

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	palette  Palette
	interval time.Duration
	output   io.Writer
}

// WithPalette sets the colour palette.
func WithPalette(p Palette) TUIOption {
	return func(c *tuiConfig) {
		c.palette = p
	}
}

// WithRefreshInterval sets the reload interval.
func WithRefreshInterval(d time.Duration) TUIOption {
	return func(c *tuiConfig) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithOutput sets the terminal the viewer draws on. Defaults to stdout.
func WithOutput(w io.Writer) TUIOption {
	return func(c *tuiConfig) {
		if w != nil {
			c.output = w
		}
	}
}

// RunTUI starts the read-only task viewer for eng's store.
func RunTUI(ctx context.Context, eng *engine.Engine, opts ...TUIOption) error {
	c := &tuiConfig{
		interval: DefaultRefreshInterval,
		output:   os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(c.output) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(eng, c.palette, c.interval)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(c.output))
	_, err := program.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

type tuiModel struct {
	eng          *engine.Engine
	palette      Palette
	tickInterval time.Duration
	loadErr      error
	data         *tuiData
	showToday    bool
	showBacklog  bool
	showHelp     bool
}

type tuiData struct {
	today   engine.ListResult
	backlog engine.ListResult
	overdue map[string]bool
}

type tickMsg time.Time

func newTUIModel(eng *engine.Engine, palette Palette, interval time.Duration) *tuiModel {
	return &tuiModel{
		eng:          eng,
		palette:      palette,
		tickInterval: interval,
		showToday:    true,
		showBacklog:  true,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "t":
			m.showToday = !m.showToday
			return m, nil
		case "b":
			m.showBacklog = !m.showBacklog
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}

	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	m.writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString("Error loading task store:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}
	if m.data == nil {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.showToday {
		m.writeSection(&b, "Today", m.data.today, true)
	}
	if m.showBacklog {
		m.writeSection(&b, "Backlog", m.data.backlog, false)
	}
	if !m.showToday && !m.showBacklog {
		b.WriteString(m.palette.Muted("Both sections hidden (t / b to show)") + "\n\n")
	}
	m.writeStore(&b)
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) refresh() {
	data, err := loadTUIData(m.eng)
	if err != nil {
		m.loadErr = err
		m.data = nil
		return
	}
	m.loadErr = nil
	m.data = data
}

func loadTUIData(eng *engine.Engine) (*tuiData, error) {
	today, err := eng.ListToday()
	if err != nil {
		return nil, err
	}
	backlog, err := eng.ListBacklog()
	if err != nil {
		return nil, err
	}

	data := &tuiData{
		today:   today,
		backlog: backlog,
		overdue: map[string]bool{},
	}
	for _, task := range today.Tasks {
		if task.IsCompleted() {
			continue
		}
		overdue, err := eng.IsOverdue(task)
		if err != nil {
			return nil, err
		}
		if overdue {
			data.overdue[task.ID] = true
		}
	}
	return data, nil
}

func (m *tuiModel) writeTitle(b *strings.Builder) {
	title := "todo"
	b.WriteString(m.palette.Accent(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func (m *tuiModel) writeSection(b *strings.Builder, heading string, result engine.ListResult, markFocus bool) {
	pending := 0
	for _, task := range result.Tasks {
		if !task.IsCompleted() {
			pending++
		}
	}
	b.WriteString(fmt.Sprintf("%s (%d pending, %d total)\n\n", m.palette.Accent(heading), pending, len(result.Tasks)))

	if len(result.Tasks) == 0 {
		b.WriteString(m.palette.Muted("  Nothing here.") + "\n\n")
		return
	}
	for i, task := range result.Tasks {
		focused := markFocus && i == 0 && result.Focused()
		b.WriteString(m.formatTask(task, focused))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) writeStore(b *strings.Builder) {
	b.WriteString(m.palette.Muted(fmt.Sprintf("Store: %s", m.eng.Path())) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh data\n")
	b.WriteString("  t            Toggle today\n")
	b.WriteString("  b            Toggle backlog\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s\n", interval))
}

func (m *tuiModel) formatTask(t todo.Task, focused bool) string {
	statusIcon := " "
	if t.IsCompleted() {
		statusIcon = "x"
	} else if t.Urgent {
		statusIcon = "!"
	}

	prefix := "  "
	if focused {
		prefix = "> "
	}

	line := fmt.Sprintf("%s%s [%s] %s", prefix, statusIcon, t.ID, t.Title)
	if focused {
		line = m.palette.Accent(line + " [FOCUS]")
	}
	if t.ScheduledAt != nil {
		line += " " + m.palette.Muted("@ "+*t.ScheduledAt)
	}
	if m.data != nil && m.data.overdue[t.ID] {
		line += " (overdue)"
	}
	return line
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
