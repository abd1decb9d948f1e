package core

import (
	"strings"

	"github.com/valter-silva-au/taskboard/pkg/models"
)

// Normalize converts a backend task record into the canonical Task.
//
// Field precedence: due_date over dueDate and project_id over projectId,
// because the snake_case fields carry the server's value. A record that
// already carries a tagIds array keeps it; otherwise tag ids are taken from
// the embedded tags in order. The input is never modified.
func Normalize(raw models.RawTask) models.Task {
	t := models.Task{
		ID:        raw.ID,
		Title:     raw.Title,
		DueDate:   firstString(raw.DueDateSnake, raw.DueDate),
		ProjectID: firstID(raw.ProjectIDSnake, raw.ProjectID),
		TagIDs:    resolveTagIDs(raw),
		Status:    NormalizeStatus(raw.Status),
	}
	if raw.Description != nil {
		t.Description = *raw.Description
	}
	return t
}

// NormalizeAll normalizes every record, preserving order.
func NormalizeAll(raw []models.RawTask) []models.Task {
	tasks := make([]models.Task, len(raw))
	for i, r := range raw {
		tasks[i] = Normalize(r)
	}
	return tasks
}

// NormalizeStatus maps a backend status onto the canonical form. Only the
// first underscore is replaced ("in_progress" becomes "in-progress"). A
// missing or empty status is todo.
func NormalizeStatus(status *string) models.TaskStatus {
	if status == nil || *status == "" {
		return models.StatusTodo
	}
	return models.TaskStatus(strings.Replace(*status, "_", "-", 1))
}

// ParseStatus normalizes a user-supplied status string.
func ParseStatus(s string) models.TaskStatus {
	return NormalizeStatus(&s)
}

func resolveTagIDs(raw models.RawTask) []models.ID {
	if raw.TagIDs != nil {
		ids := make([]models.ID, len(raw.TagIDs))
		copy(ids, raw.TagIDs)
		return ids
	}
	ids := make([]models.ID, 0, len(raw.Tags))
	for _, tag := range raw.Tags {
		ids = append(ids, tag.ID)
	}
	return ids
}

func firstString(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

func firstID(values ...*models.ID) models.ID {
	for _, v := range values {
		if v != nil && !v.IsZero() {
			return *v
		}
	}
	return ""
}
