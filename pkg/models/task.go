package models

import (
	"bytes"
	"encoding/json"
)

// TaskStatus represents the lifecycle state of a task in canonical form.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

// Statuses lists the canonical statuses in display order.
var Statuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is one of the canonical statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label returns the status for display, with hyphens shown as spaces.
func (s TaskStatus) Label() string {
	b := []byte(s)
	for i, c := range b {
		if c == '-' {
			b[i] = ' '
		}
	}
	return string(b)
}

// Task is the canonical, normalized task used by all logic downstream of
// the API boundary.
type Task struct {
	ID          ID         `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	ProjectID   ID         `json:"projectId,omitempty" yaml:"project_id,omitempty"`
	TagIDs      []ID       `json:"tagIds" yaml:"tag_ids"`
	DueDate     string     `json:"dueDate" yaml:"due_date"`
	Status      TaskStatus `json:"status" yaml:"status"`
}

// RawTask is a task record as the backend delivers it. The backend and the
// UI layer disagree on naming, so both conventions are captured and the
// normalizer decides which one wins. Pointer fields are nil when absent.
//
// Tags and TagIDs are nil when the field is absent or is not a JSON array.
type RawTask struct {
	ID             ID
	Title          string
	Description    *string
	DueDateSnake   *string
	DueDate        *string
	ProjectIDSnake *ID
	ProjectID      *ID
	Status         *string
	Tags           []Tag
	TagIDs         []ID
	CreatedAt      string
	UpdatedAt      string
}

type rawTaskWire struct {
	ID             ID              `json:"id"`
	Title          string          `json:"title"`
	Description    *string         `json:"description"`
	DueDateSnake   *string         `json:"due_date"`
	DueDate        *string         `json:"dueDate"`
	ProjectIDSnake *ID             `json:"project_id"`
	ProjectID      *ID             `json:"projectId"`
	Status         *string         `json:"status"`
	Tags           json.RawMessage `json:"tags"`
	TagIDs         json.RawMessage `json:"tagIds"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

// UnmarshalJSON decodes a backend task record. Malformed tags or tagIds
// values are dropped rather than failing the whole record.
func (r *RawTask) UnmarshalJSON(data []byte) error {
	var w rawTaskWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = RawTask{
		ID:             w.ID,
		Title:          w.Title,
		Description:    w.Description,
		DueDateSnake:   w.DueDateSnake,
		DueDate:        w.DueDate,
		ProjectIDSnake: w.ProjectIDSnake,
		ProjectID:      w.ProjectID,
		Status:         w.Status,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
	if isJSONArray(w.TagIDs) {
		var ids []ID
		if err := json.Unmarshal(w.TagIDs, &ids); err == nil {
			r.TagIDs = ids
		}
	}
	if isJSONArray(w.Tags) {
		var tags []Tag
		if err := json.Unmarshal(w.Tags, &tags); err == nil {
			r.Tags = tags
		}
	}
	return nil
}

// MarshalJSON encodes the record back into the backend's snake_case shape
// plus whichever camelCase fields were present.
func (r RawTask) MarshalJSON() ([]byte, error) {
	w := struct {
		ID             ID      `json:"id"`
		Title          string  `json:"title"`
		Description    *string `json:"description,omitempty"`
		DueDateSnake   *string `json:"due_date,omitempty"`
		DueDate        *string `json:"dueDate,omitempty"`
		ProjectIDSnake *ID     `json:"project_id,omitempty"`
		ProjectID      *ID     `json:"projectId,omitempty"`
		Status         *string `json:"status,omitempty"`
		Tags           []Tag   `json:"tags,omitempty"`
		TagIDs         []ID    `json:"tagIds,omitempty"`
		CreatedAt      string  `json:"created_at,omitempty"`
		UpdatedAt      string  `json:"updated_at,omitempty"`
	}{
		r.ID, r.Title, r.Description, r.DueDateSnake, r.DueDate, r.ProjectIDSnake,
		r.ProjectID, r.Status, r.Tags, r.TagIDs, r.CreatedAt, r.UpdatedAt,
	}
	return json.Marshal(w)
}

func isJSONArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// TaskInput carries the user-editable fields of a task for create and
// update requests.
type TaskInput struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	ProjectID   ID         `json:"projectId"`
	DueDate     string     `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Status      TaskStatus `json:"status" validate:"required,oneof=todo in-progress done"`
	TagIDs      []ID       `json:"tagIds"`
}

// InputFromTask returns a TaskInput holding the editable fields of t.
func InputFromTask(t Task) TaskInput {
	tags := make([]ID, len(t.TagIDs))
	copy(tags, t.TagIDs)
	return TaskInput{
		Title:       t.Title,
		Description: t.Description,
		ProjectID:   t.ProjectID,
		DueDate:     t.DueDate,
		Status:      t.Status,
		TagIDs:      tags,
	}
}
