package check

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/colonyops/aipm/internal/core/assistant"
	"github.com/colonyops/aipm/internal/core/git"
	"github.com/colonyops/aipm/internal/core/ticket"
)

// Filter selects the commits that plausibly relate to a ticket. The result
// is a subsequence of the input, original order preserved.
type Filter interface {
	Relevant(ctx context.Context, t ticket.Ticket, commits []git.Commit) ([]git.Commit, error)
}

// KeywordFilter matches commit subjects against keywords extracted from the
// ticket. It never errors and never raises confidence claims; it only
// narrows the candidate set for human review.
type KeywordFilter struct{}

// Relevant returns commits whose subject contains any ticket keyword,
// case-insensitive. An empty keyword set yields an empty result rather than
// matching everything.
func (KeywordFilter) Relevant(_ context.Context, t ticket.Ticket, commits []git.Commit) ([]git.Commit, error) {
	keywords := ExtractKeywords(t)
	if len(keywords) == 0 {
		return nil, nil
	}

	var matched []git.Commit
	for _, c := range commits {
		subject := strings.ToLower(c.Subject)
		for _, kw := range keywords {
			if strings.Contains(subject, kw) {
				matched = append(matched, c)
				break
			}
		}
	}
	return matched, nil
}

// AssistantFilter asks the AI assistant which commits relate to the ticket.
// The assistant's judgment is authoritative; the engine only intersects the
// cited hashes with the known commit set.
type AssistantFilter struct {
	AI assistant.Assistant
}

func (f *AssistantFilter) Relevant(ctx context.Context, t ticket.Ticket, commits []git.Commit) ([]git.Commit, error) {
	resp, err := f.AI.Chat(ctx, relevancePrompt(t, commits))
	if err != nil {
		return nil, fmt.Errorf("relevance filter: %w", err)
	}

	cited := ExtractHashes(resp)
	if len(cited) == 0 {
		return nil, nil
	}

	var relevant []git.Commit
	for _, c := range commits {
		if _, ok := cited[c.ShortHash()]; ok {
			relevant = append(relevant, c)
		}
	}
	return relevant, nil
}

func relevancePrompt(t ticket.Ticket, commits []git.Commit) string {
	var b strings.Builder
	b.WriteString("You are an AI project manager assistant. Given a ticket and a list of recent ")
	b.WriteString("git commits, identify which commits plausibly relate to the ticket's task.\n\n")
	b.WriteString("List the short hashes (first 8 chars) of ALL relevant commits, one per line, ")
	b.WriteString("prefixed with COMMITS:\n\n")
	fmt.Fprintf(&b, "## Ticket %s: %s\n", t.Key, t.Title)
	fmt.Fprintf(&b, "- Description: %s\n\n", t.Description)
	b.WriteString("## Recent Commits\n")
	for _, c := range commits {
		fmt.Fprintf(&b, "- %s %s\n", c.ShortHash(), c.Subject)
	}
	return b.String()
}

var hashPattern = regexp.MustCompile(`\b[0-9a-f]{7,40}\b`)

// ExtractHashes pulls git-hash-looking hex strings out of an assistant
// response, normalized to 8 characters. Handles plain, backtick-wrapped,
// and list-item forms.
func ExtractHashes(response string) map[string]struct{} {
	found := make(map[string]struct{})
	for _, m := range hashPattern.FindAllString(response, -1) {
		if len(m) > 8 {
			m = m[:8]
		}
		found[m] = struct{}{}
	}
	return found
}
