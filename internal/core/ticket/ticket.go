// Package ticket defines the work item domain model and its file store.
package ticket

import (
	"sort"

	"github.com/colonyops/aipm/internal/core/horizon"
)

// Status represents the lifecycle state of a ticket.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// IsValid reports whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Closed reports whether the ticket no longer needs work.
func (s Status) Closed() bool {
	return s == StatusCompleted
}

// Priority represents ticket importance.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// priorityOrder lists priorities from most to least important.
var priorityOrder = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// IsValid reports whether the priority is a known value.
func (p Priority) IsValid() bool {
	for _, known := range priorityOrder {
		if p == known {
			return true
		}
	}
	return false
}

// Rank returns a sort key for a priority; lower means more important.
// Unknown priorities sort last.
func (p Priority) Rank() int {
	for i, known := range priorityOrder {
		if p == known {
			return i
		}
	}
	return len(priorityOrder)
}

// Ticket is a single work item backed by a markdown file.
type Ticket struct {
	Key         string          `yaml:"key"`
	Title       string          `yaml:"title"`
	Status      Status          `yaml:"status"`
	Source      string          `yaml:"source,omitempty"`
	Priority    Priority        `yaml:"priority,omitempty"`
	Horizon     horizon.Horizon `yaml:"horizon,omitempty"`
	Assignee    string          `yaml:"assignee,omitempty"`
	Due         string          `yaml:"due,omitempty"`
	Repo        string          `yaml:"repo,omitempty"`
	URL         string          `yaml:"url,omitempty"`
	Summary     string          `yaml:"summary,omitempty"`
	Labels      []string        `yaml:"labels,omitempty"`
	Description string          `yaml:"-"`

	// Path is the on-disk location, set by the store on load.
	Path string `yaml:"-"`
}

// SortTickets orders tickets by horizon urgency, then priority, preserving
// insertion order for ties.
func SortTickets(tickets []Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		ha, hb := horizon.Rank(tickets[i].Horizon), horizon.Rank(tickets[j].Horizon)
		if ha != hb {
			return ha < hb
		}
		return tickets[i].Priority.Rank() < tickets[j].Priority.Rank()
	})
}
