package check

import (
	"context"
	"testing"

	"github.com/colonyops/aipm/internal/core/git"
	"github.com/colonyops/aipm/internal/core/ticket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdict(t *testing.T) {
	known := []git.Commit{
		{Hash: "aaaa111122223333", Subject: "Fix login form validation"},
		{Hash: "bbbb111122223333", Subject: "Update README"},
	}

	tests := []struct {
		name     string
		response string
		want     Verdict
	}{
		{
			name:     "markdown bold labels",
			response: "1. **Status**: DONE\n2. **Confidence**: High\n3. **Evidence**: aaaa1111 closed it\n4. **Remaining work**: none",
			want: Verdict{
				Status:        StatusDone,
				Confidence:    ConfidenceHigh,
				Evidence:      known[:1],
				RemainingWork: "none",
			},
		},
		{
			name:     "plain labels with space-form status",
			response: "Status: IN PROGRESS\nConfidence: Medium\nRemaining work: wire up the session store",
			want: Verdict{
				Status:        StatusInProgress,
				Confidence:    ConfidenceMedium,
				RemainingWork: "wire up the session store",
			},
		},
		{
			name:     "hyphenated status and missing confidence defaults low",
			response: "status: not-started",
			want: Verdict{
				Status:     StatusNotStarted,
				Confidence: ConfidenceLow,
			},
		},
		{
			name:     "echoed ticket status before the verdict",
			response: "The ticket's current status is open in the tracker.\n\n1. **Status**: DONE\n2. **Confidence**: High",
			want: Verdict{
				Status:     StatusDone,
				Confidence: ConfidenceHigh,
			},
		},
		{
			name:     "unknown hashes ignored",
			response: "Status: DONE\nConfidence: low\nEvidence: deadbeef and aaaa1111",
			want: Verdict{
				Status:     StatusDone,
				Confidence: ConfidenceLow,
				Evidence:   known[:1],
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVerdict(tt.response, known)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVerdict_Malformed(t *testing.T) {
	for _, response := range []string{
		"",
		"no structure here at all",
		"Status: MAYBE",
	} {
		_, err := ParseVerdict(response, nil)
		assert.ErrorIs(t, err, ErrMalformedResponse, "response %q", response)
	}
}

func TestFallbackAnalyzer(t *testing.T) {
	relevant := []git.Commit{{Hash: "aaaa111122223333", Subject: "Fix login"}}

	v, err := FallbackAnalyzer{}.Analyze(context.Background(), ticket.Ticket{Key: "L-0001"}, relevant, "ignored")
	require.NoError(t, err)

	assert.Equal(t, StatusUnknown, v.Status)
	assert.Equal(t, ConfidenceNA, v.Confidence)
	assert.Equal(t, relevant, v.Evidence)
	assert.Empty(t, v.RemainingWork)
}

func TestAssistantAnalyzer_PromptContents(t *testing.T) {
	ai := &scriptedAssistant{responses: []string{"Status: DONE\nConfidence: high"}}
	a := &AssistantAnalyzer{AI: ai}

	tk := ticket.Ticket{Key: "L-0007", Title: "Fix login bug", Status: ticket.StatusOpen, Horizon: "now", Description: "sessions expire early"}
	relevant := []git.Commit{{Hash: "aaaa111122223333", Subject: "Fix login form validation"}}

	v, err := a.Analyze(context.Background(), tk, relevant, "=== Commit aaaa1111 ===\n+patch")
	require.NoError(t, err)
	assert.Equal(t, StatusDone, v.Status)

	require.Len(t, ai.prompts, 1)
	prompt := ai.prompts[0]
	assert.Contains(t, prompt, "L-0007: Fix login bug")
	assert.Contains(t, prompt, "sessions expire early")
	assert.Contains(t, prompt, "aaaa1111 Fix login form validation")
	assert.Contains(t, prompt, "+patch")
}
