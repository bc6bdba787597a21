package assistant

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/colonyops/aipm/pkg/executil"
)

// CLI runs a local assistant command (claude by default), feeding the prompt
// on stdin and reading the response from stdout.
type CLI struct {
	command string
	args    []string
	exec    executil.Executor
}

// NewCLI creates a CLI assistant client. Empty command defaults to
// "claude --print".
func NewCLI(command string, args []string, exec executil.Executor) *CLI {
	if command == "" {
		command = "claude"
		args = []string{"--print"}
	}
	return &CLI{command: command, args: args, exec: exec}
}

// Command returns the configured assistant binary name.
func (c *CLI) Command() string {
	return c.command
}

// Available reports whether the assistant binary is on PATH. Callers probe
// once per run and pass the result into the engine rather than re-checking
// per ticket.
func (c *CLI) Available() bool {
	_, err := exec.LookPath(c.command)
	return err == nil
}

// Chat sends the prompt and returns the trimmed response.
func (c *CLI) Chat(ctx context.Context, prompt string) (string, error) {
	out, err := c.exec.RunInput(ctx, prompt, c.command, c.args...)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	response := strings.TrimSpace(string(out))
	if response == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return response, nil
}
