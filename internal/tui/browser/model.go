// Package browser implements the read-only task browser TUI: a task
// list with status filter cycling and a detail pane for the selection.
// It consumes the same use cases as the CLI and never touches log
// files directly.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"github.com/spooldev/spool/internal/app"
	"github.com/spooldev/spool/internal/domain"
	"github.com/spooldev/spool/internal/usecase"
)

// statusFilters is the cycle order for the f key.
var statusFilters = []string{"open", "complete", "all"}

// Model is the task browser TUI model.
// Fields are ordered to minimize memory padding.
type Model struct {
	// Dependencies
	container *app.Container

	// State
	tasks []*domain.Task
	err   error

	// Components
	keys   KeyMap
	styles Styles

	// Numeric state
	cursor      int
	filterIndex int
	width       int
	height      int

	// Boolean state
	loading bool
}

// New creates a new task browser model.
func New(container *app.Container) *Model {
	return &Model{
		container: container,
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		loading:   true,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.loadTasks()
}

// loadTasks materializes the task list under the current filter.
func (m *Model) loadTasks() tea.Cmd {
	status := statusFilters[m.filterIndex]
	return func() tea.Msg {
		out, err := m.container.ListTasksUseCase().Execute(context.Background(), usecase.ListTasksInput{
			Status:          status,
			IncludeArchived: status == "all",
		})
		if err != nil {
			return MsgTasksLoaded{Err: err}
		}
		return MsgTasksLoaded{Tasks: out.Tasks}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case MsgTasksLoaded:
		m.loading = false
		m.err = msg.Err
		m.tasks = msg.Tasks
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Filter):
			m.filterIndex = (m.filterIndex + 1) % len(statusFilters)
			m.loading = true
			return m, m.loadTasks()
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.loadTasks()
		}
	}
	return m, nil
}

// View renders the browser.
func (m *Model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("spool — %s tasks", statusFilters[m.filterIndex])
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.loading:
		b.WriteString(m.styles.Muted.Render("Loading..."))
	case len(m.tasks) == 0:
		b.WriteString(m.styles.Muted.Render("No tasks"))
	default:
		b.WriteString(m.renderList())
		b.WriteString("\n")
		b.WriteString(m.renderDetail())
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("↑/↓ move · f filter · r refresh · q quit"))
	return b.String()
}

// renderList renders the task rows.
func (m *Model) renderList() string {
	var rows []string
	for i, task := range m.tasks {
		row := m.renderRow(task)
		if i == m.cursor {
			rows = append(rows, m.styles.Selected.Render(row))
		} else {
			rows = append(rows, m.styles.Normal.Render(row))
		}
	}
	return strings.Join(rows, "\n")
}

// renderRow renders one task line, truncated to the terminal width.
func (m *Model) renderRow(task *domain.Task) string {
	status := m.styles.Open.Render("●")
	if task.Status == domain.StatusComplete {
		status = m.styles.Complete.Render("✓")
	}

	parts := []string{status, shortID(task.ID)}
	if task.Priority != "" {
		parts = append(parts, m.styles.Priority.Render(string(task.Priority)))
	}
	parts = append(parts, task.Title)
	if task.Assignee != "" {
		parts = append(parts, m.styles.Muted.Render("@"+task.Assignee))
	}

	row := strings.Join(parts, " ")
	if m.width > 4 {
		row = truncate.StringWithTail(row, uint(m.width-4), "…")
	}
	return row
}

// renderDetail renders the pane for the selected task.
func (m *Model) renderDetail() string {
	if m.cursor >= len(m.tasks) {
		return ""
	}
	task := m.tasks[m.cursor]

	var lines []string
	lines = append(lines, fmt.Sprintf("%s  %s", shortID(task.ID), task.Status.Display()))
	lines = append(lines, task.Title)
	if task.Stream != "" {
		lines = append(lines, "stream: "+task.Stream)
	}
	if len(task.Tags) > 0 {
		lines = append(lines, "tags: "+strings.Join(task.Tags, ", "))
	}
	lines = append(lines, m.styles.Muted.Render(
		"updated "+task.UpdatedAt.Format(time.DateOnly)))
	if task.Description != "" {
		lines = append(lines, "", task.Description)
	}

	width := m.width - 4
	if width < 20 {
		width = 20
	}
	return m.styles.Detail.Width(width).Render(strings.Join(lines, "\n"))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Run starts the browser in the alternate screen.
func Run(container *app.Container) error {
	program := tea.NewProgram(New(container), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

var _ tea.Model = (*Model)(nil)
