package assistant

import (
	"context"
	"sync"
)

// Exchange captures one prompt/response pair for debug display.
type Exchange struct {
	Prompt   string
	Response string
	Err      error
}

// Recorder wraps an Assistant and captures every exchange. It changes
// nothing about the responses, so verdicts are identical with or without
// recording.
type Recorder struct {
	inner Assistant

	mu        sync.Mutex
	exchanges []Exchange
}

// NewRecorder wraps an assistant for debug capture.
func NewRecorder(inner Assistant) *Recorder {
	return &Recorder{inner: inner}
}

func (r *Recorder) Chat(ctx context.Context, prompt string) (string, error) {
	resp, err := r.inner.Chat(ctx, prompt)

	r.mu.Lock()
	r.exchanges = append(r.exchanges, Exchange{Prompt: prompt, Response: resp, Err: err})
	r.mu.Unlock()

	return resp, err
}

// Drain returns captured exchanges and resets the recorder.
func (r *Recorder) Drain() []Exchange {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.exchanges
	r.exchanges = nil
	return out
}
