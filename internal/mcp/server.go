// Package mcp provides an MCP (Model Context Protocol) server that exposes
// read-only taskboard queries as tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/taskboard/internal/core"
	"github.com/valter-silva-au/taskboard/internal/observability"
	"github.com/valter-silva-au/taskboard/pkg/models"
)

// Server wraps taskboard services and exposes them as MCP tools.
type Server struct {
	server     *gomcp.Server
	tasks      core.TaskService
	summarizer observability.Summarizer
	clock      core.Clock
}

// NewServer creates a new MCP server. summarizer may be nil if the activity
// log is disabled; clock defaults to the system clock.
func NewServer(tasks core.TaskService, summarizer observability.Summarizer, clock core.Clock, version string) *Server {
	if version == "" {
		version = "dev"
	}
	if clock == nil {
		clock = core.SystemClock
	}

	s := &Server{
		tasks:      tasks,
		summarizer: summarizer,
		clock:      clock,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "tb", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type getTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"the task identifier"`
}

type taskOutput struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status"`
	ProjectID   string   `json:"project_id,omitempty"`
	Project     string   `json:"project,omitempty"`
	TagIDs      []string `json:"tag_ids"`
	Tags        []string `json:"tags,omitempty"`
	DueDate     string   `json:"due_date"`
	DueLabel    string   `json:"due_label"`
	Overdue     bool     `json:"overdue"`
}

type listTasksInput struct {
	ProjectID string   `json:"project_id,omitempty" jsonschema:"only tasks in this project"`
	TagIDs    []string `json:"tag_ids,omitempty" jsonschema:"only tasks carrying any of these tags"`
	Status    string   `json:"status,omitempty" jsonschema:"only tasks with this status (todo, in-progress, done)"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type listProjectsInput struct{}

type projectOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
	TaskCount   int    `json:"task_count"`
}

type listProjectsOutput struct {
	Projects []projectOutput `json:"projects"`
	Count    int             `json:"count"`
}

type taskStatsInput struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"restrict the counts to one project"`
}

type taskStatsOutput struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
	Overdue    int `json:"overdue"`
}

type activitySummaryInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window (e.g. 7d, 24h). Defaults to 7d."`
}

type activitySummaryOutput struct {
	EventCount    int            `json:"event_count"`
	TasksCreated  int            `json:"tasks_created"`
	TasksUpdated  int            `json:"tasks_updated"`
	TasksDeleted  int            `json:"tasks_deleted"`
	TasksByStatus map[string]int `json:"tasks_by_status"`
	OldestEvent   string         `json:"oldest_event,omitempty"`
	NewestEvent   string         `json:"newest_event,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks ordered by due date, optionally filtered by project, tags and status. Each task carries a relative due label and an overdue flag.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get one task by ID, with its project and tag names resolved.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_projects",
		Description: "List projects with the number of tasks in each.",
	}, s.handleListProjects)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "task_stats",
		Description: "Count tasks by status, plus unfinished tasks past their due date.",
	}, s.handleTaskStats)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "activity_summary",
		Description: "Summarize recent client activity (tasks created, updated and deleted) from the local activity log.",
	}, s.handleActivitySummary)
}

// --- Tool handlers ---

func (s *Server) handleListTasks(ctx context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	empty := listTasksOutput{Tasks: []taskOutput{}}

	spec := models.FilterSpec{}
	if input.ProjectID != "" {
		id := models.ID(input.ProjectID)
		spec.ProjectID = &id
	}
	if len(input.TagIDs) > 0 {
		spec.TagIDs = models.IDsFromStrings(input.TagIDs)
	}
	if input.Status != "" {
		status := core.ParseStatus(input.Status)
		if !status.Valid() {
			return errorResult(fmt.Sprintf("invalid status %q: must be one of todo, in-progress, done", input.Status)), empty, nil
		}
		spec.Status = &status
	}

	tasks, snap, err := s.tasks.List(ctx, spec)
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), empty, nil
	}

	now := s.clock()
	out := listTasksOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(t, snap, now)
	}
	return nil, out, nil
}

func (s *Server) handleGetTask(ctx context.Context, _ *gomcp.CallToolRequest, input getTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	snap, err := s.tasks.Load(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("getting task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}
	task, ok := core.FindTask(snap.Tasks, models.ID(input.TaskID))
	if !ok {
		return errorResult(fmt.Sprintf("getting task %s: %s", input.TaskID, core.ErrTaskNotFound)), taskOutput{}, nil
	}

	return nil, taskToOutput(task, snap, s.clock()), nil
}

func (s *Server) handleListProjects(ctx context.Context, _ *gomcp.CallToolRequest, _ listProjectsInput) (*gomcp.CallToolResult, listProjectsOutput, error) {
	snap, err := s.tasks.Load(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("listing projects: %s", err)), listProjectsOutput{Projects: []projectOutput{}}, nil
	}

	counts := make(map[models.ID]int)
	for _, t := range snap.Tasks {
		counts[t.ProjectID]++
	}

	out := listProjectsOutput{
		Projects: make([]projectOutput, len(snap.Projects)),
		Count:    len(snap.Projects),
	}
	for i, p := range snap.Projects {
		out.Projects[i] = projectOutput{
			ID:          p.ID.String(),
			Name:        p.Name,
			Color:       p.Color,
			Description: p.Description,
			TaskCount:   counts[p.ID],
		}
	}
	return nil, out, nil
}

func (s *Server) handleTaskStats(ctx context.Context, _ *gomcp.CallToolRequest, input taskStatsInput) (*gomcp.CallToolResult, taskStatsOutput, error) {
	spec := models.FilterSpec{}
	if input.ProjectID != "" {
		id := models.ID(input.ProjectID)
		spec.ProjectID = &id
	}

	tasks, _, err := s.tasks.List(ctx, spec)
	if err != nil {
		return errorResult(fmt.Sprintf("computing stats: %s", err)), taskStatsOutput{}, nil
	}

	st := core.ComputeStats(tasks, s.clock())
	return nil, taskStatsOutput{
		Total:      st.Total,
		Todo:       st.Todo,
		InProgress: st.InProgress,
		Done:       st.Done,
		Overdue:    st.Overdue,
	}, nil
}

func (s *Server) handleActivitySummary(_ context.Context, _ *gomcp.CallToolRequest, input activitySummaryInput) (*gomcp.CallToolResult, activitySummaryOutput, error) {
	empty := activitySummaryOutput{TasksByStatus: map[string]int{}}
	if s.summarizer == nil {
		return errorResult("activity log not available"), empty, nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}
	since, err := core.ParseSince(sinceStr, s.clock())
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), empty, nil
	}

	sum, err := s.summarizer.Summarize(since)
	if err != nil {
		return errorResult(fmt.Sprintf("summarizing activity: %s", err)), empty, nil
	}

	out := activitySummaryOutput{
		EventCount:    sum.EventCount,
		TasksCreated:  sum.TasksCreated,
		TasksUpdated:  sum.TasksUpdated,
		TasksDeleted:  sum.TasksDeleted,
		TasksByStatus: sum.TasksByStatus,
	}
	if sum.OldestEvent != nil {
		out.OldestEvent = sum.OldestEvent.Format(time.RFC3339)
	}
	if sum.NewestEvent != nil {
		out.NewestEvent = sum.NewestEvent.Format(time.RFC3339)
	}
	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(t models.Task, snap *core.Snapshot, now time.Time) taskOutput {
	out := taskOutput{
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
		return out
	}
	if p, ok := core.FindProject(snap.Projects, t.ProjectID); ok {
		out.Project = p.Name
	}
	tags := core.TagsByID(snap.Tags)
	for _, id := range t.TagIDs {
		if tag, ok := tags[id]; ok && tag.Name != "" {
			out.Tags = append(out.Tags, tag.Name)
		}
	}
	return out
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
