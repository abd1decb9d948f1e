package models

// DateRange bounds due dates. It is carried in filter specs but does not
// constrain results yet.
type DateRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// FilterSpec selects tasks. Every non-nil field is a constraint and a task
// must satisfy all of them.
type FilterSpec struct {
	// ProjectID matches tasks assigned to this project.
	ProjectID *ID `json:"projectId,omitempty"`
	// TagIDs matches tasks carrying at least one of the listed tags. A nil
	// slice is no constraint; a non-nil empty slice matches nothing.
	TagIDs []ID `json:"tagIds,omitempty"`
	// Status matches tasks with exactly this canonical status.
	Status *TaskStatus `json:"status,omitempty"`
	// DateRange is reserved.
	DateRange *DateRange `json:"dateRange,omitempty"`
}

// IsEmpty reports whether the spec has no active constraint.
func (f FilterSpec) IsEmpty() bool {
	return f.ProjectID == nil && f.TagIDs == nil && f.Status == nil
}
