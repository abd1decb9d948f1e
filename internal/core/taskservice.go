package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/valter-silva-au/taskboard/internal/logger"
	"github.com/valter-silva-au/taskboard/pkg/models"
	"golang.org/x/sync/errgroup"
)

// ErrTaskNotFound is returned when a task id is not present in the backend's
// task list.
var ErrTaskNotFound = errors.New("task not found")

// Snapshot is one consistent view of the backend: canonical tasks, projects,
// and the tags referenced by the tasks.
type Snapshot struct {
	Tasks    []models.Task
	Projects []models.Project
	Tags     []models.Tag
}

// EmptySnapshot returns a snapshot with empty, non-nil collections.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Tasks:    []models.Task{},
		Projects: []models.Project{},
		Tags:     []models.Tag{},
	}
}

// TaskService defines the task operations offered to the presentation layer.
type TaskService interface {
	Load(ctx context.Context) (*Snapshot, error)
	List(ctx context.Context, spec models.FilterSpec) ([]models.Task, *Snapshot, error)
	Get(ctx context.Context, id models.ID) (*models.Task, error)
	Create(ctx context.Context, in models.TaskInput) (*models.Task, error)
	Update(ctx context.Context, id models.ID, in models.TaskInput) (*models.Task, error)
	Delete(ctx context.Context, id models.ID) error
	Login(ctx context.Context, email, password string) error
	Logout() error
}

// taskService implements TaskService on top of a TaskBackend. Every record
// coming back from the backend is normalized here, once.
type taskService struct {
	backend TaskBackend
	tokens  TokenKeeper
	events  EventLogger
	log     logger.Logger
}

// NewTaskService creates a TaskService. events may be nil, in which case no
// activity is recorded.
func NewTaskService(backend TaskBackend, tokens TokenKeeper, events EventLogger, log logger.Logger) TaskService {
	if log == nil {
		log = logger.Nop()
	}
	return &taskService{
		backend: backend,
		tokens:  tokens,
		events:  events,
		log:     log,
	}
}

// Load fetches tasks and projects concurrently. If either request fails the
// other is cancelled and no snapshot is returned.
func (s *taskService) Load(ctx context.Context) (*Snapshot, error) {
	var (
		raw      []models.RawTask
		projects []models.Project
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raw, err = s.backend.GetTasks(gctx)
		if err != nil {
			return fmt.Errorf("fetching tasks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		projects, err = s.backend.GetProjects(gctx)
		if err != nil {
			return fmt.Errorf("fetching projects: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if projects == nil {
		projects = []models.Project{}
	}
	snap := &Snapshot{
		Tasks:    NormalizeAll(raw),
		Projects: projects,
		Tags:     CollectTags(raw),
	}
	s.log.Debug("loaded snapshot", "tasks", len(snap.Tasks), "projects", len(snap.Projects), "tags", len(snap.Tags))
	return snap, nil
}

// List returns the tasks matching spec, ordered by due date, together with
// the snapshot they were taken from.
func (s *taskService) List(ctx context.Context, spec models.FilterSpec) ([]models.Task, *Snapshot, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return Query(snap.Tasks, spec), snap, nil
}

// Get looks a task up by id.
func (s *taskService) Get(ctx context.Context, id models.ID) (*models.Task, error) {
	raw, err := s.backend.GetTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}
	task, ok := FindTask(NormalizeAll(raw), id)
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, ErrTaskNotFound)
	}
	return &task, nil
}

// Create validates in and creates the task on the backend.
func (s *taskService) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	in.Status = ParseStatus(string(in.Status))
	if err := ValidateTaskInput(in); err != nil {
		return nil, err
	}

	raw, err := s.backend.CreateTask(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	task := s.resultTask(raw, "", in)

	s.logEvent("task.created", map[string]any{
		"task_id":    task.ID.String(),
		"title":      task.Title,
		"status":     string(task.Status),
		"project_id": task.ProjectID.String(),
	})
	return &task, nil
}

// Update validates in and replaces the task's editable fields.
func (s *taskService) Update(ctx context.Context, id models.ID, in models.TaskInput) (*models.Task, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("updating task: id must not be empty")
	}
	in.Status = ParseStatus(string(in.Status))
	if err := ValidateTaskInput(in); err != nil {
		return nil, err
	}

	raw, err := s.backend.UpdateTask(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}
	task := s.resultTask(raw, id, in)

	s.logEvent("task.updated", map[string]any{
		"task_id": task.ID.String(),
		"title":   task.Title,
		"status":  string(task.Status),
	})
	return &task, nil
}

// Delete removes a task.
func (s *taskService) Delete(ctx context.Context, id models.ID) error {
	if id.IsZero() {
		return fmt.Errorf("deleting task: id must not be empty")
	}
	if err := s.backend.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	s.logEvent("task.deleted", map[string]any{"task_id": id.String()})
	return nil
}

// Login exchanges credentials for a token and stores it.
func (s *taskService) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("logging in: email and password are required")
	}
	token, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	if s.tokens != nil {
		if err := s.tokens.Save(token); err != nil {
			return fmt.Errorf("storing token: %w", err)
		}
	}
	s.logEvent("auth.login", map[string]any{"email": email})
	return nil
}

// Logout forgets the stored token.
func (s *taskService) Logout() error {
	if s.tokens != nil {
		if err := s.tokens.Clear(); err != nil {
			return fmt.Errorf("clearing token: %w", err)
		}
	}
	s.logEvent("auth.logout", nil)
	return nil
}

// resultTask normalizes a create/update response. Backends that answer with
// an empty body get a task assembled from the request instead.
func (s *taskService) resultTask(raw *models.RawTask, id models.ID, in models.TaskInput) models.Task {
	if raw != nil && !raw.ID.IsZero() {
		return Normalize(*raw)
	}
	tags := make([]models.ID, len(in.TagIDs))
	copy(tags, in.TagIDs)
	return models.Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		ProjectID:   in.ProjectID,
		TagIDs:      tags,
		DueDate:     in.DueDate,
		Status:      in.Status,
	}
}

func (s *taskService) logEvent(eventType string, data map[string]any) {
	if s.events == nil {
		return
	}
	if err := s.events.LogEvent(eventType, data); err != nil {
		s.log.Warn("recording activity failed", "type", eventType, "err", err)
	}
}
