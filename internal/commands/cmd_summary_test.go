package commands

import (
	"strings"
	"testing"
	"time"

	"github.com/colonyops/aipm/internal/core/ticket"
	"github.com/stretchr/testify/assert"
)

func TestSummaryMarkdown(t *testing.T) {
	now := time.Date(2026, 3, 11, 9, 30, 0, 0, time.UTC)
	tickets := []ticket.Ticket{
		{Key: "L-0001", Title: "Ship login fix", Status: ticket.StatusOpen, Horizon: "now", Priority: ticket.PriorityHigh, Assignee: "alice"},
		{Key: "L-0002", Title: "Plan Q3 roadmap", Status: ticket.StatusOpen, Horizon: "month"},
		{Key: "L-0003", Title: "Weekly report", Status: ticket.StatusOpen, Horizon: "week", Due: "2026-03-13"},
		{Key: "L-0004", Title: "Old migration", Status: ticket.StatusCompleted, Horizon: "now"},
	}

	md := summaryMarkdown("demo", tickets, "week", now)

	assert.Contains(t, md, "# demo: week summary")
	assert.Contains(t, md, "_Generated 2026-03-11 09:30_")
	assert.Contains(t, md, "**Active this week**: 2")
	assert.Contains(t, md, "**Later**: 1")
	assert.Contains(t, md, "**Completed**: 1")
	assert.Contains(t, md, "(high, @alice)")
	assert.Contains(t, md, "(due 2026-03-13)")
	assert.Contains(t, md, "~~L-0004 Old migration~~")

	// month-horizon work is outside a week summary's active set
	assert.NotContains(t, md, "Plan Q3 roadmap")

	// active tasks sort most urgent first
	assert.Less(t, strings.Index(md, "L-0001"), strings.Index(md, "L-0003"))
}

func TestSummaryMarkdown_PeriodWidensActiveSet(t *testing.T) {
	now := time.Date(2026, 3, 11, 9, 30, 0, 0, time.UTC)
	tickets := []ticket.Ticket{
		{Key: "L-0001", Title: "Plan Q3 roadmap", Status: ticket.StatusOpen, Horizon: "month"},
	}

	week := summaryMarkdown("demo", tickets, "week", now)
	month := summaryMarkdown("demo", tickets, "month", now)

	assert.Contains(t, week, "**Later**: 1")
	assert.Contains(t, month, "**Active this month**: 1")
	assert.Contains(t, month, "Plan Q3 roadmap")
}

func TestFilterByAssignee(t *testing.T) {
	tickets := []ticket.Ticket{
		{Key: "L-0001", Assignee: "Alice"},
		{Key: "L-0002", Assignee: "bob"},
		{Key: "L-0003"},
	}

	assert.Len(t, filterByAssignee(tickets, ""), 3)

	got := filterByAssignee(tickets, "alice")
	assert.Len(t, got, 1)
	assert.Equal(t, "L-0001", got[0].Key)
}
