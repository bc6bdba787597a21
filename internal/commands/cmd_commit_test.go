package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommitMessageFallback(t *testing.T) {
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		diff string
		want string
	}{
		{
			name: "ticket files",
			diff: "diff --git a/tickets/local/L-0001.md b/tickets/local/L-0001.md\n+done\n" +
				"diff --git a/tickets/gh/GH-12.md b/tickets/gh/GH-12.md\n+synced",
			want: "chore(aipm): sync 2 ticket(s) [2026-03-11]",
		},
		{
			name: "tickets and planning files",
			diff: "diff --git a/tickets/local/L-0001.md b/tickets/local/L-0001.md\n" +
				"diff --git a/goals.md b/goals.md",
			want: "chore(aipm): sync 1 ticket(s), update planning files [2026-03-11]",
		},
		{
			name: "other files only",
			diff: "diff --git a/aipm.yaml b/aipm.yaml",
			want: "chore(aipm): update 1 file(s) [2026-03-11]",
		},
		{
			name: "empty diff",
			diff: "",
			want: "chore(aipm): update 0 file(s) [2026-03-11]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commitMessageFallback(tt.diff, day))
		})
	}
}
