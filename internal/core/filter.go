package core

import (
	"slices"
	"strings"

	"github.com/valter-silva-au/taskboard/pkg/models"
)

// FilterTasks returns the tasks matching every active constraint of spec,
// in their original order. The input slice is not modified; the result is
// always a new slice.
func FilterTasks(tasks []models.Task, spec models.FilterSpec) []models.Task {
	result := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if MatchesFilter(task, spec) {
			result = append(result, task)
		}
	}
	return result
}

// MatchesFilter reports whether task satisfies spec. Constraints combine
// with AND; the tag constraint matches when the task carries any of the
// listed tags. DateRange does not constrain.
func MatchesFilter(task models.Task, spec models.FilterSpec) bool {
	if spec.ProjectID != nil && task.ProjectID != *spec.ProjectID {
		return false
	}
	if spec.TagIDs != nil && !hasAnyTag(task.TagIDs, spec.TagIDs) {
		return false
	}
	if spec.Status != nil && task.Status != *spec.Status {
		return false
	}
	return true
}

// hasAnyTag is false for an empty wanted set.
func hasAnyTag(have, wanted []models.ID) bool {
	for _, w := range wanted {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

// SortTasksByDueDate returns a copy of tasks ordered by ascending due date.
// ISO YYYY-MM-DD dates order lexically, so no parsing is needed. Tasks with
// equal due dates keep their relative order.
func SortTasksByDueDate(tasks []models.Task) []models.Task {
	sorted := slices.Clone(tasks)
	if sorted == nil {
		sorted = []models.Task{}
	}
	slices.SortStableFunc(sorted, func(a, b models.Task) int {
		return strings.Compare(a.DueDate, b.DueDate)
	})
	return sorted
}

// Query filters then sorts.
func Query(tasks []models.Task, spec models.FilterSpec) []models.Task {
	return SortTasksByDueDate(FilterTasks(tasks, spec))
}
