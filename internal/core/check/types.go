// Package check implements the ticket completion-inference engine: commit
// mining, relevance filtering, evidence extraction, status classification,
// and the closure decision that follows.
package check

import (
	"github.com/colonyops/aipm/internal/core/git"
)

// Strategy identifies which implementation produced a verdict.
type Strategy string

const (
	// StrategyAssisted means the AI assistant judged relevance and status.
	StrategyAssisted Strategy = "assisted"
	// StrategyFallback means keyword matching narrowed candidates with no
	// semantic judgment.
	StrategyFallback Strategy = "fallback"
)

// VerdictStatus classifies ticket completion.
type VerdictStatus string

const (
	StatusDone       VerdictStatus = "DONE"
	StatusInProgress VerdictStatus = "IN_PROGRESS"
	StatusNotStarted VerdictStatus = "NOT_STARTED"
	StatusUnknown    VerdictStatus = "UNKNOWN"
)

// Confidence qualifies a verdict. The fallback strategy always reports
// ConfidenceNA since it performs no judgment.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNA     Confidence = "n/a"
)

// Verdict is the analyzer output for one ticket.
type Verdict struct {
	Status        VerdictStatus
	Confidence    Confidence
	Evidence      []git.Commit
	RemainingWork string
}
