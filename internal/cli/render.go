package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/valter-silva-au/taskboard/internal/core"
	"github.com/valter-silva-au/taskboard/pkg/models"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	overdueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	statusTodoStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusInProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	statusDoneStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

// taskView is a task joined with its project and tag names, as printed by
// the json and yaml output formats.
type taskView struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Status      string   `json:"status" yaml:"status"`
	ProjectID   string   `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	Project     string   `json:"project,omitempty" yaml:"project,omitempty"`
	TagIDs      []string `json:"tag_ids" yaml:"tag_ids"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	DueDate     string   `json:"due_date" yaml:"due_date"`
	DueLabel    string   `json:"due_label" yaml:"due_label"`
	Overdue     bool     `json:"overdue" yaml:"overdue"`
}

func newTaskView(t models.Task, snap *core.Snapshot, now time.Time) taskView {
	v := taskView{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		ProjectID:   t.ProjectID.String(),
		TagIDs:      models.IDsToStrings(t.TagIDs),
		DueDate:     t.DueDate,
		DueLabel:    core.FormatDate(t.DueDate, now),
		Overdue:     t.Status != models.StatusDone && core.IsOverdue(t.DueDate, now),
	}
	if snap == nil {
		return v
	}
	if p, ok := core.FindProject(snap.Projects, t.ProjectID); ok {
		v.Project = p.Name
	}
	tags := core.TagsByID(snap.Tags)
	for _, id := range t.TagIDs {
		if tag, ok := tags[id]; ok && tag.Name != "" {
			v.Tags = append(v.Tags, tag.Name)
		} else {
			v.Tags = append(v.Tags, "#"+id.String())
		}
	}
	return v
}

// resolveOutput returns the effective output format: the flag when set,
// otherwise the configured default.
func resolveOutput(flag string) (string, error) {
	out := strings.ToLower(flag)
	if out == "" && Config != nil {
		out = Config.Display.Output
	}
	if out == "" {
		out = outputTable
	}
	switch out {
	case outputTable, outputJSON, outputYAML:
		return out, nil
	}
	return "", fmt.Errorf("invalid --output %q, must be one of: table, json, yaml", flag)
}

// writeStructured encodes v as indented JSON or as YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("formatting as JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case outputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("formatting as YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unsupported structured format %q", format)
}

// renderTasks writes tasks in the given format.
func renderTasks(w io.Writer, format string, tasks []models.Task, snap *core.Snapshot, now time.Time) error {
	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, newTaskView(t, snap, now))
	}
	if format != outputTable {
		return writeStructured(w, format, views)
	}

	if len(views) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return nil
	}

	headers := []string{"ID", "STATUS", "DUE", "PROJECT", "TAGS", "TITLE"}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{v.ID, models.TaskStatus(v.Status).Label(), v.DueLabel, v.Project, strings.Join(v.Tags, ","), v.Title})
	}

	styleCell := func(row, col int, text string) string {
		v := views[row]
		switch col {
		case 1:
			return styleForStatus(models.TaskStatus(v.Status)).Render(text)
		case 2:
			if v.Overdue {
				return overdueStyle.Render(text)
			}
		}
		return text
	}
	writeTable(w, headers, rows, styleCell)
	fmt.Fprintf(w, "\n%d task(s) found\n", len(views))
	return nil
}

// writeTable prints rows as left-aligned columns. Widths are measured on the
// plain text so styling does not skew alignment.
func writeTable(w io.Writer, headers []string, rows [][]string, style func(row, col int, text string) string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			if cw := lipgloss.Width(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	pad := func(text string, width int) string {
		return text + strings.Repeat(" ", width-lipgloss.Width(text))
	}

	var b strings.Builder
	for i, h := range headers {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(tableHeaderStyle.Render(pad(h, widths[i])))
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))

	for ri, r := range rows {
		b.Reset()
		for i, cell := range r {
			if i > 0 {
				b.WriteString("  ")
			}
			text := pad(cell, widths[i])
			if style != nil {
				text = style(ri, i, text)
			}
			b.WriteString(text)
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

func styleForStatus(s models.TaskStatus) lipgloss.Style {
	switch s {
	case models.StatusTodo:
		return statusTodoStyle
	case models.StatusInProgress:
		return statusInProgressStyle
	case models.StatusDone:
		return statusDoneStyle
	default:
		return lipgloss.NewStyle()
	}
}

// renderTaskDetail prints one task as a labelled block.
func renderTaskDetail(w io.Writer, v taskView) {
	fmt.Fprintf(w, "Task %s\n", v.ID)
	fmt.Fprintf(w, "  Title:       %s\n", v.Title)
	fmt.Fprintf(w, "  Status:      %s\n", styleForStatus(models.TaskStatus(v.Status)).Render(models.TaskStatus(v.Status).Label()))
	due := fmt.Sprintf("%s (%s)", v.DueLabel, v.DueDate)
	if v.Overdue {
		due = overdueStyle.Render(due + " overdue")
	}
	fmt.Fprintf(w, "  Due:         %s\n", due)
	if v.Project != "" {
		fmt.Fprintf(w, "  Project:     %s\n", v.Project)
	} else if v.ProjectID != "" {
		fmt.Fprintf(w, "  Project:     #%s\n", v.ProjectID)
	}
	if len(v.Tags) > 0 {
		fmt.Fprintf(w, "  Tags:        %s\n", strings.Join(v.Tags, ", "))
	}
	if v.Description != "" {
		fmt.Fprintf(w, "  Description: %s\n", v.Description)
	} else {
		fmt.Fprintf(w, "  Description: %s\n", dimStyle.Render("(none)"))
	}
}
