package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTicket = `---
key: L-0001
title: Fix login bug
status: open
source: local
priority: high
horizon: now
due: "2026-03-11"
repo: /tmp/myrepo
labels:
  - bug
  - auth
---

## Description

Users cannot log in with SSO accounts.

## Notes

Not part of the description.
`

func TestParse(t *testing.T) {
	tk, err := Parse(sampleTicket)
	require.NoError(t, err)

	assert.Equal(t, "L-0001", tk.Key)
	assert.Equal(t, "Fix login bug", tk.Title)
	assert.Equal(t, StatusOpen, tk.Status)
	assert.Equal(t, PriorityHigh, tk.Priority)
	assert.Equal(t, "now", string(tk.Horizon))
	assert.Equal(t, "2026-03-11", tk.Due)
	assert.Equal(t, "/tmp/myrepo", tk.Repo)
	assert.Equal(t, []string{"bug", "auth"}, tk.Labels)
	assert.Equal(t, "Users cannot log in with SSO accounts.", tk.Description)
}

func TestParse_Defaults(t *testing.T) {
	tk, err := Parse("---\nkey: L-0002\ntitle: Minimal\n---\n")
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, tk.Status)
	assert.Equal(t, "sometime", string(tk.Horizon))
	assert.Empty(t, tk.Description)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no front matter", "# Just a heading\n"},
		{"unterminated front matter", "---\nkey: L-0003\n"},
		{"missing key", "---\ntitle: No key\n---\n"},
		{"invalid yaml", "---\nkey: [unclosed\n---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.content)
			require.Error(t, err)
		})
	}
}

func TestRender_RoundTrip(t *testing.T) {
	original := Ticket{
		Key:         "L-0042",
		Title:       "Add caching layer",
		Status:      StatusInProgress,
		Source:      "local",
		Priority:    PriorityMedium,
		Horizon:     "week",
		Due:         "2026-03-13",
		Repo:        "~/projects/cache",
		Labels:      []string{"perf"},
		Description: "Cache expensive lookups.\n\nSecond paragraph.",
	}

	content, err := original.Render()
	require.NoError(t, err)

	parsed, err := Parse(content)
	require.NoError(t, err)
	parsed.Path = ""

	assert.Equal(t, original, parsed)
}

func TestRender_NoDescriptionOmitsSection(t *testing.T) {
	content, err := Ticket{Key: "L-1", Title: "x", Status: StatusOpen}.Render()
	require.NoError(t, err)
	assert.NotContains(t, content, "## Description")
}
