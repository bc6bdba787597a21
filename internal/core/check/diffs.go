package check

import (
	"context"
	"fmt"
	"strings"

	"github.com/colonyops/aipm/internal/core/git"
	"github.com/rs/zerolog"
)

// FetchDiffs retrieves the full patch for each selected commit and
// concatenates them in order, each under a header identifying the commit.
// A commit whose diff cannot be retrieved is still listed with its metadata.
// The assembled text is truncated from the end to stay within budget, so
// diffs of earlier (more recent) commits are preserved preferentially.
func FetchDiffs(ctx context.Context, g git.Git, dir string, commits []git.Commit, budget int, log zerolog.Logger) string {
	var b strings.Builder
	for _, c := range commits {
		fmt.Fprintf(&b, "=== Commit %s: %s ===\n", c.ShortHash(), c.Subject)

		diff, err := g.Show(ctx, dir, c.Hash)
		if err != nil {
			log.Debug().Err(err).Str("hash", c.ShortHash()).Msg("diff fetch failed, listing metadata only")
			b.WriteString("(diff unavailable)\n\n")
			continue
		}
		b.WriteString(diff)
		if !strings.HasSuffix(diff, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return Truncate(b.String(), budget)
}

// Truncate caps s at budget characters, cutting from the tail.
func Truncate(s string, budget int) string {
	if budget <= 0 || len(s) <= budget {
		return s
	}
	return s[:budget]
}
