package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/valter-silva-au/taskboard/pkg/models"
)

func statusPtr(s models.TaskStatus) *models.TaskStatus { return &s }

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: "1", Title: "Write docs", ProjectID: "1", TagIDs: []models.ID{"1", "2"}, DueDate: "2025-02-20", Status: models.StatusTodo},
		{ID: "2", Title: "Fix login", ProjectID: "2", TagIDs: []models.ID{"2"}, DueDate: "2025-02-10", Status: models.StatusInProgress},
		{ID: "3", Title: "Release", ProjectID: "1", TagIDs: []models.ID{}, DueDate: "2025-02-15", Status: models.StatusDone},
	}
}

func taskIDs(tasks []models.Task) []models.ID {
	ids := make([]models.ID, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func TestFilterTasks(t *testing.T) {
	tests := []struct {
		name string
		spec models.FilterSpec
		want []models.ID
	}{
		{"empty spec", models.FilterSpec{}, []models.ID{"1", "2", "3"}},
		{"by project", models.FilterSpec{ProjectID: idPtr("1")}, []models.ID{"1", "3"}},
		{"by tag", models.FilterSpec{TagIDs: []models.ID{"2"}}, []models.ID{"1", "2"}},
		{"tags are OR", models.FilterSpec{TagIDs: []models.ID{"1", "9"}}, []models.ID{"1"}},
		{"empty tag list matches nothing", models.FilterSpec{TagIDs: []models.ID{}}, []models.ID{}},
		{"by status", models.FilterSpec{Status: statusPtr(models.StatusInProgress)}, []models.ID{"2"}},
		{"project and tag", models.FilterSpec{ProjectID: idPtr("1"), TagIDs: []models.ID{"2"}}, []models.ID{"1"}},
		{"no match", models.FilterSpec{ProjectID: idPtr("99")}, []models.ID{}},
		{"date range ignored", models.FilterSpec{DateRange: &models.DateRange{From: "2030-01-01", To: "2030-12-31"}}, []models.ID{"1", "2", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterTasks(sampleTasks(), tt.spec)
			if got == nil {
				t.Fatal("FilterTasks returned nil")
			}
			if diff := cmp.Diff(tt.want, taskIDs(got)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterTasks_ReturnsNewSlice(t *testing.T) {
	tasks := sampleTasks()
	got := FilterTasks(tasks, models.FilterSpec{})
	got[0].Title = "changed"
	if tasks[0].Title != "Write docs" {
		t.Errorf("input modified through result: Title = %q", tasks[0].Title)
	}
}

func TestFilterTasks_NilInput(t *testing.T) {
	got := FilterTasks(nil, models.FilterSpec{})
	if got == nil || len(got) != 0 {
		t.Errorf("FilterTasks(nil) = %v, want empty non-nil slice", got)
	}
}

func TestSortTasksByDueDate(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", DueDate: "2025-02-20"},
		{ID: "2", DueDate: "2025-02-10"},
		{ID: "3", DueDate: "2025-02-15"},
	}
	sorted := SortTasksByDueDate(tasks)

	if diff := cmp.Diff([]models.ID{"2", "3", "1"}, taskIDs(sorted)); diff != "" {
		t.Errorf("sorted ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]models.ID{"1", "2", "3"}, taskIDs(tasks)); diff != "" {
		t.Errorf("input reordered (-want +got):\n%s", diff)
	}
}

func TestSortTasksByDueDate_Stable(t *testing.T) {
	tasks := []models.Task{
		{ID: "a", DueDate: "2025-02-10"},
		{ID: "b", DueDate: "2025-02-01"},
		{ID: "c", DueDate: "2025-02-10"},
		{ID: "d", DueDate: "2025-02-01"},
	}
	got := taskIDs(SortTasksByDueDate(tasks))
	if diff := cmp.Diff([]models.ID{"b", "d", "a", "c"}, got); diff != "" {
		t.Errorf("stable order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortTasksByDueDate_Empty(t *testing.T) {
	if got := SortTasksByDueDate(nil); got == nil || len(got) != 0 {
		t.Errorf("SortTasksByDueDate(nil) = %v, want empty non-nil slice", got)
	}
}

func TestQuery(t *testing.T) {
	got := Query(sampleTasks(), models.FilterSpec{ProjectID: idPtr("1")})
	if diff := cmp.Diff([]models.ID{"3", "1"}, taskIDs(got)); diff != "" {
		t.Errorf("Query ids mismatch (-want +got):\n%s", diff)
	}
}
