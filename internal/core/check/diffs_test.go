package check

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFetchDiffs(t *testing.T) {
	commits := loginCommits()

	fg := newFakeGit()
	fg.shows["aaaa111122223333"] = "diff --git a/login.go b/login.go\n+validated"
	fg.shows["bbbb111122223333"] = "diff --git a/README.md b/README.md\n+docs"
	fg.showErr["cccc111122223333"] = errors.New("object corrupted")

	out := FetchDiffs(context.Background(), fg, "/project", commits, 12000, zerolog.Nop())

	assert.Contains(t, out, "=== Commit aaaa1111: Fix login form validation ===")
	assert.Contains(t, out, "+validated")
	assert.Contains(t, out, "=== Commit bbbb1111: Update README ===")
	assert.Contains(t, out, "=== Commit cccc1111: Add login session timeout ===")
	assert.Contains(t, out, "(diff unavailable)")

	// Order mirrors the commit list.
	assert.Less(t, strings.Index(out, "aaaa1111"), strings.Index(out, "bbbb1111"))
	assert.Less(t, strings.Index(out, "bbbb1111"), strings.Index(out, "cccc1111"))
}

func TestFetchDiffs_BudgetTruncatesTail(t *testing.T) {
	commits := loginCommits()[:2]

	fg := newFakeGit()
	fg.shows["aaaa111122223333"] = strings.Repeat("a", 300)
	fg.shows["bbbb111122223333"] = strings.Repeat("b", 300)

	full := FetchDiffs(context.Background(), fg, "/project", commits, 12000, zerolog.Nop())
	cut := FetchDiffs(context.Background(), fg, "/project", commits, 200, zerolog.Nop())

	assert.Len(t, cut, 200)
	assert.Equal(t, full[:200], cut, "truncated output is a prefix of the full output")
	assert.Contains(t, cut, "aaaa1111", "most recent commit survives the cut")
	assert.NotContains(t, cut, "bbbb", "older commit diff is dropped first")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0), "non-positive budget disables the cap")
	assert.Equal(t, "", Truncate("", 5))
}
