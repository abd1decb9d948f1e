package observability

import (
	"fmt"
	"time"
)

// Summary aggregates recorded activity over a time window.
type Summary struct {
	EventCount    int            `json:"event_count" yaml:"event_count"`
	TasksCreated  int            `json:"tasks_created" yaml:"tasks_created"`
	TasksUpdated  int            `json:"tasks_updated" yaml:"tasks_updated"`
	TasksDeleted  int            `json:"tasks_deleted" yaml:"tasks_deleted"`
	Logins        int            `json:"logins" yaml:"logins"`
	Logouts       int            `json:"logouts" yaml:"logouts"`
	TasksByStatus map[string]int `json:"tasks_by_status" yaml:"tasks_by_status"`
	OldestEvent   *time.Time     `json:"oldest_event,omitempty" yaml:"oldest_event,omitempty"`
	NewestEvent   *time.Time     `json:"newest_event,omitempty" yaml:"newest_event,omitempty"`
}

// Summarizer derives activity summaries from the event log.
type Summarizer interface {
	Summarize(since time.Time) (*Summary, error)
}

type summarizer struct {
	eventLog EventLog
}

// NewSummarizer creates a Summarizer that reads from the given EventLog.
func NewSummarizer(eventLog EventLog) Summarizer {
	return &summarizer{eventLog: eventLog}
}

// Summarize reads all events since the given time and aggregates them.
// TasksByStatus counts the status carried by create and update events.
func (s *summarizer) Summarize(since time.Time) (*Summary, error) {
	events, err := s.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for summary: %w", err)
	}

	sum := &Summary{TasksByStatus: make(map[string]int)}
	sum.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			sum.OldestEvent = &t
		}
		t := event.Time
		sum.NewestEvent = &t

		switch event.Type {
		case "task.created":
			sum.TasksCreated++
		case "task.updated":
			sum.TasksUpdated++
		case "task.deleted":
			sum.TasksDeleted++
		case "auth.login":
			sum.Logins++
		case "auth.logout":
			sum.Logouts++
		}

		if event.Type == "task.created" || event.Type == "task.updated" {
			if status, ok := event.Data["status"].(string); ok && status != "" {
				sum.TasksByStatus[status]++
			}
		}
	}

	return sum, nil
}
