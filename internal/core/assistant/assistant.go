// Package assistant abstracts the AI assistant used for relevance filtering
// and completion analysis.
package assistant

import (
	"context"
	"errors"
)

// ErrUnavailable indicates no assistant can be reached. The engine treats
// this as a process-wide condition and downgrades to fallback strategies.
var ErrUnavailable = errors.New("assistant unavailable")

// Assistant sends a free-form prompt and returns the raw response text.
type Assistant interface {
	Chat(ctx context.Context, prompt string) (string, error)
}
