package executil

import (
	"context"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Dir   string
	Cmd   string
	Args  []string
	Input string
}

// RecordingExecutor captures commands for testing.
// Outputs and Errors are keyed by the command's first argument (the
// subcommand, e.g. "log" or "show" for git), falling back to the command
// name when there are no arguments.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	Outputs map[string][]byte
	Errors  map[string]error
}

// Run records the command and returns configured output/error.
func (e *RecordingExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.record("", "", cmd, args...)
}

// RunDir records the command with directory and returns configured output/error.
func (e *RecordingExecutor) RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error) {
	return e.record(dir, "", cmd, args...)
}

// RunInput records the command with its stdin payload.
func (e *RecordingExecutor) RunInput(ctx context.Context, input string, cmd string, args ...string) ([]byte, error) {
	return e.record("", input, cmd, args...)
}

func (e *RecordingExecutor) record(dir, input, cmd string, args ...string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Commands = append(e.Commands, RecordedCommand{
		Dir:   dir,
		Cmd:   cmd,
		Args:  args,
		Input: input,
	})

	key := cmd
	if len(args) > 0 {
		key = args[0]
	}

	var out []byte
	var err error
	if e.Outputs != nil {
		out = e.Outputs[key]
	}
	if e.Errors != nil {
		err = e.Errors[key]
	}
	return out, err
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
