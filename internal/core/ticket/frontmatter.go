package ticket

import (
	"bufio"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Parse extracts a Ticket from markdown content with YAML front matter.
// The body after the front matter is scanned for a "## Description" section
// which becomes the ticket description. Content without valid front matter
// is an error; there is no legacy table format.
func Parse(content string) (Ticket, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != delimiter {
		return Ticket{}, fmt.Errorf("missing front matter delimiter")
	}

	var fmLines []string
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == delimiter {
			closed = true
			break
		}
		fmLines = append(fmLines, line)
	}
	if !closed {
		return Ticket{}, fmt.Errorf("unterminated front matter")
	}

	var t Ticket
	if err := yaml.Unmarshal([]byte(strings.Join(fmLines, "\n")), &t); err != nil {
		return Ticket{}, fmt.Errorf("parse front matter: %w", err)
	}
	if t.Key == "" {
		return Ticket{}, fmt.Errorf("ticket has no key")
	}

	var desc []string
	inDesc := false
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "## Description"):
			inDesc = true
		case inDesc && strings.HasPrefix(line, "## "):
			inDesc = false
		case inDesc:
			desc = append(desc, line)
		}
	}
	t.Description = strings.TrimSpace(strings.Join(desc, "\n"))

	if t.Status == "" {
		t.Status = StatusOpen
	}
	if t.Horizon == "" {
		t.Horizon = "sometime"
	}

	return t, nil
}

// Render formats a ticket as markdown with YAML front matter.
func (t Ticket) Render() (string, error) {
	fm, err := yaml.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("marshal front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString(delimiter + "\n")
	b.Write(fm)
	b.WriteString(delimiter + "\n")
	if t.Description != "" {
		b.WriteString("\n## Description\n\n")
		b.WriteString(t.Description)
		b.WriteString("\n")
	}
	return b.String(), nil
}
