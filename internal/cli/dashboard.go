package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskboard/internal/core"
	"github.com/valter-silva-au/taskboard/pkg/models"
)

// Dashboard panel indices.
const (
	panelTasks = iota
	panelProjects
	panelStats
	panelCount
)

// dashboardTaskLimit caps the rows drawn in the tasks panel.
const dashboardTaskLimit = 15

type dashboardModel struct {
	tasks core.TaskService
	clock core.Clock

	activePanel int
	width       int
	height      int

	// Data.
	snap *core.Snapshot

	// Filters. A nil status shows every status.
	statusFilter *models.TaskStatus

	// State.
	loading bool
	err     error
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	snap *core.Snapshot
	err  error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel(tasks core.TaskService, clock core.Clock) dashboardModel {
	if clock == nil {
		clock = core.SystemClock
	}
	return dashboardModel{
		tasks:       tasks,
		clock:       clock,
		activePanel: panelTasks,
		loading:     true,
		snap:        core.EmptySnapshot(),
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "s":
			m.statusFilter = nextStatusFilter(m.statusFilter)
			return m, nil
		case "c":
			m.statusFilter = nil
			return m, nil
		case "r":
			m.loading = true
			return m, m.loadData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.snap = msg.snap
		m.err = nil
		return m, nil
	}

	return m, nil
}

// nextStatusFilter cycles all -> todo -> in-progress -> done -> all.
func nextStatusFilter(current *models.TaskStatus) *models.TaskStatus {
	if current == nil {
		s := models.Statuses[0]
		return &s
	}
	for i, s := range models.Statuses {
		if s == *current && i+1 < len(models.Statuses) {
			next := models.Statuses[i+1]
			return &next
		}
	}
	return nil
}

// visibleTasks returns the tasks matching the active filters in due-date
// order.
func (m dashboardModel) visibleTasks() []models.Task {
	return core.Query(m.snap.Tasks, models.FilterSpec{Status: m.statusFilter})
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" Taskboard ")
	help := helpStyle.Render("tab: switch panel | s: cycle status | c: clear filters | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	tasksPanel := m.renderTasksPanel()
	projectsPanel := m.renderProjectsPanel()
	statsPanel := m.renderStatsPanel()

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Tasks take half the width, projects and stats a quarter each.
		quarter := availableWidth / 4
		tasksPanel = m.applyPanelStyle(panelTasks, tasksPanel, 2*quarter-4)
		projectsPanel = m.applyPanelStyle(panelProjects, projectsPanel, quarter-4)
		statsPanel = m.applyPanelStyle(panelStats, statsPanel, quarter-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, tasksPanel, projectsPanel, statsPanel)
	} else {
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		tasksPanel = m.applyPanelStyle(panelTasks, tasksPanel, panelWidth)
		projectsPanel = m.applyPanelStyle(panelProjects, projectsPanel, panelWidth)
		statsPanel = m.applyPanelStyle(panelStats, statsPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, tasksPanel, projectsPanel, statsPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderTasksPanel() string {
	var b strings.Builder
	header := "Tasks"
	if m.statusFilter != nil {
		header = fmt.Sprintf("Tasks (%s)", m.statusFilter.Label())
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		b.WriteString("  No tasks found.")
		return b.String()
	}

	now := m.clock()
	for i, t := range tasks {
		if i == dashboardTaskLimit {
			b.WriteString(fmt.Sprintf("  ... and %d more\n", len(tasks)-i))
			break
		}
		due := fmt.Sprintf("%-16s", core.FormatDate(t.DueDate, now))
		if t.Status != models.StatusDone && core.IsOverdue(t.DueDate, now) {
			due = overdueStyle.Render(due)
		}
		status := styleForStatus(t.Status).Render(fmt.Sprintf("%-12s", t.Status.Label()))
		b.WriteString(fmt.Sprintf("  %s %s %s\n", status, due, t.Title))
	}

	b.WriteString(fmt.Sprintf("\n  %d task(s)", len(tasks)))
	return b.String()
}

func (m dashboardModel) renderProjectsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Projects"))
	b.WriteString("\n")

	if len(m.snap.Projects) == 0 {
		b.WriteString("  No projects found.")
		return b.String()
	}

	views := buildProjectViews(&core.Snapshot{Tasks: m.visibleTasks(), Projects: m.snap.Projects}, m.clock())
	for _, v := range views {
		line := fmt.Sprintf("  %-16s %d", v.Name, v.TaskCount)
		if v.Overdue > 0 {
			line += overdueStyle.Render(fmt.Sprintf(" (%d overdue)", v.Overdue))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m dashboardModel) renderStatsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Stats"))
	b.WriteString("\n")

	stats := core.ComputeStats(m.visibleTasks(), m.clock())
	lines := []struct {
		label string
		value int
	}{
		{"Total", stats.Total},
		{"Todo", stats.Todo},
		{"In progress", stats.InProgress},
		{"Done", stats.Done},
		{"Overdue", stats.Overdue},
	}
	for _, l := range lines {
		b.WriteString(fmt.Sprintf("  %-14s %d\n", l.label, l.value))
	}
	return b.String()
}

func (m dashboardModel) loadData() tea.Msg {
	if m.tasks == nil {
		return dataLoadedMsg{err: fmt.Errorf("task service not initialized")}
	}
	snap, err := m.tasks.Load(context.Background())
	if err != nil {
		return dataLoadedMsg{err: fmt.Errorf("loading tasks: %w", err)}
	}
	return dataLoadedMsg{snap: snap}
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard for tasks, projects and stats",
	Long: `Launch an interactive terminal dashboard showing tasks ordered by due
date, projects with their task counts, and status statistics.

Navigate between panels with Tab, cycle the status filter with s, clear
filters with c, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskSvc == nil {
			return fmt.Errorf("task service not initialized")
		}
		p := tea.NewProgram(newDashboardModel(TaskSvc, Clock), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
