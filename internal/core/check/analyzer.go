package check

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/colonyops/aipm/internal/core/assistant"
	"github.com/colonyops/aipm/internal/core/git"
	"github.com/colonyops/aipm/internal/core/ticket"
)

// ErrMalformedResponse indicates the assistant replied but its answer could
// not be parsed into a verdict. The engine downgrades that single analysis
// to the fallback strategy.
var ErrMalformedResponse = errors.New("malformed assistant response")

// Analyzer classifies ticket completion from the ticket text plus selected
// evidence.
type Analyzer interface {
	Analyze(ctx context.Context, t ticket.Ticket, relevant []git.Commit, diffs string) (Verdict, error)
}

// FallbackAnalyzer performs no semantic judgment: it reports UNKNOWN with
// n/a confidence and surfaces the relevant commits as evidence for manual
// review.
type FallbackAnalyzer struct{}

func (FallbackAnalyzer) Analyze(_ context.Context, _ ticket.Ticket, relevant []git.Commit, _ string) (Verdict, error) {
	return Verdict{
		Status:     StatusUnknown,
		Confidence: ConfidenceNA,
		Evidence:   relevant,
	}, nil
}

// AssistantAnalyzer submits the ticket and its evidence diffs to the AI
// assistant and parses the structured response.
type AssistantAnalyzer struct {
	AI assistant.Assistant
}

func (a *AssistantAnalyzer) Analyze(ctx context.Context, t ticket.Ticket, relevant []git.Commit, diffs string) (Verdict, error) {
	resp, err := a.AI.Chat(ctx, analysisPrompt(t, relevant, diffs))
	if err != nil {
		return Verdict{}, fmt.Errorf("completion analysis: %w", err)
	}
	return ParseVerdict(resp, relevant)
}

func analysisPrompt(t ticket.Ticket, relevant []git.Commit, diffs string) string {
	var b strings.Builder
	b.WriteString("You are an AI project manager assistant. Given a ticket and the diffs of ")
	b.WriteString("commits related to it, analyze whether the ticket's task has been completed.\n\n")
	b.WriteString("Provide your analysis as:\n")
	b.WriteString("1. **Status**: DONE, IN PROGRESS, or NOT STARTED\n")
	b.WriteString("2. **Confidence**: High, Medium, or Low\n")
	b.WriteString("3. **Evidence**: Which commits address the task (reference by hash)\n")
	b.WriteString("4. **Remaining work**: If not done, what still needs to happen\n\n")
	fmt.Fprintf(&b, "## Ticket %s: %s\n", t.Key, t.Title)
	fmt.Fprintf(&b, "- Current status: %s\n", t.Status)
	fmt.Fprintf(&b, "- Horizon: %s\n", t.Horizon)
	fmt.Fprintf(&b, "- Description: %s\n\n", t.Description)
	b.WriteString("## Relevant Commits\n")
	for _, c := range relevant {
		fmt.Fprintf(&b, "- %s %s\n", c.ShortHash(), c.Subject)
	}
	if diffs != "" {
		b.WriteString("\n## Diffs\n")
		b.WriteString(diffs)
	}
	return b.String()
}

var (
	statusPattern     = regexp.MustCompile(`(?i)\bstatus\b[*:\s]*([A-Za-z][A-Za-z _-]*[A-Za-z])`)
	confidencePattern = regexp.MustCompile(`(?i)\bconfidence\b[*:\s]*(high|medium|low)`)
	remainingPattern  = regexp.MustCompile(`(?i)\bremaining work\b[*:\s]*(.+)`)
)

// ParseVerdict extracts a structured verdict from raw assistant output.
// A response whose status cannot be recognized is malformed; evidence is
// restricted to hashes present in the known commit set.
func ParseVerdict(response string, known []git.Commit) (Verdict, error) {
	status, ok := parseStatus(response)
	if !ok {
		return Verdict{}, fmt.Errorf("%w: no recognizable status", ErrMalformedResponse)
	}

	confidence := ConfidenceLow
	if m := confidencePattern.FindStringSubmatch(response); m != nil {
		confidence = Confidence(strings.ToLower(m[1]))
	}

	cited := ExtractHashes(response)
	var evidence []git.Commit
	for _, c := range known {
		if _, ok := cited[c.ShortHash()]; ok {
			evidence = append(evidence, c)
		}
	}

	remaining := ""
	if m := remainingPattern.FindStringSubmatch(response); m != nil {
		remaining = strings.TrimSpace(strings.Trim(m[1], "* "))
	}

	return Verdict{
		Status:        status,
		Confidence:    confidence,
		Evidence:      evidence,
		RemainingWork: remaining,
	}, nil
}

// parseStatus scans every "status" mention in the response and takes the
// first one whose value normalizes to a known verdict. Assistants often echo
// the ticket's own "Current status: open" line before stating theirs, so the
// first mention is not necessarily the verdict.
func parseStatus(response string) (VerdictStatus, bool) {
	for _, m := range statusPattern.FindAllStringSubmatch(response, -1) {
		normalized := strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_").Replace(strings.TrimSpace(m[1])))
		switch {
		case strings.HasPrefix(normalized, "DONE"):
			return StatusDone, true
		case strings.HasPrefix(normalized, "IN_PROGRESS"):
			return StatusInProgress, true
		case strings.HasPrefix(normalized, "NOT_STARTED"):
			return StatusNotStarted, true
		}
	}
	return "", false
}
