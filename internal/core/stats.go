package core

import (
	"time"

	"github.com/valter-silva-au/taskboard/pkg/models"
)

// Stats summarizes a task collection.
type Stats struct {
	Total      int `json:"total" yaml:"total"`
	Todo       int `json:"todo" yaml:"todo"`
	InProgress int `json:"in_progress" yaml:"in_progress"`
	Done       int `json:"done" yaml:"done"`
	Overdue    int `json:"overdue" yaml:"overdue"`
}

// ComputeStats counts tasks by status. Overdue counts unfinished tasks due
// before now's date.
func ComputeStats(tasks []models.Task, now time.Time) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.StatusTodo:
			s.Todo++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusDone:
			s.Done++
		}
		if t.Status != models.StatusDone && IsOverdue(t.DueDate, now) {
			s.Overdue++
		}
	}
	return s
}

// CollectTags returns the distinct tags referenced by raw task records, in
// first-seen order. Embedded tag objects supply name and color; records
// that only carry tagIds contribute id-only tags, which are filled in if a
// later record embeds the full tag.
func CollectTags(raw []models.RawTask) []models.Tag {
	index := make(map[models.ID]int)
	var tags []models.Tag

	add := func(tag models.Tag) {
		if tag.ID.IsZero() {
			return
		}
		if i, ok := index[tag.ID]; ok {
			if tags[i].Name == "" && tag.Name != "" {
				tags[i] = tag
			}
			return
		}
		index[tag.ID] = len(tags)
		tags = append(tags, tag)
	}

	for _, r := range raw {
		for _, tag := range r.Tags {
			add(tag)
		}
		for _, id := range r.TagIDs {
			add(models.Tag{ID: id})
		}
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return tags
}

// TagsByID indexes tags by id.
func TagsByID(tags []models.Tag) map[models.ID]models.Tag {
	m := make(map[models.ID]models.Tag, len(tags))
	for _, t := range tags {
		m[t.ID] = t
	}
	return m
}

// FindProject returns the project with the given id.
func FindProject(projects []models.Project, id models.ID) (models.Project, bool) {
	if id.IsZero() {
		return models.Project{}, false
	}
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// FindTask returns the task with the given id.
func FindTask(tasks []models.Task, id models.ID) (models.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}
