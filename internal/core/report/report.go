// Package report renders ticket collections into the project's generated
// planning documents.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/colonyops/aipm/internal/core/horizon"
	"github.com/colonyops/aipm/internal/core/ticket"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Format selects the report output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatMarkdown, "md", "":
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	}
	return "", fmt.Errorf("invalid format %q: must be markdown or html", s)
}

// Plan renders the urgency-ordered plan: open tickets grouped by horizon,
// most urgent first. Completed tickets are excluded.
func Plan(project string, tickets []ticket.Ticket, today time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Plan: %s\n\n", project)
	fmt.Fprintf(&b, "_Generated %s_\n", today.Format(horizon.DateLayout))

	byHorizon := make(map[horizon.Horizon][]ticket.Ticket)
	for _, t := range tickets {
		if t.Status.Closed() {
			continue
		}
		byHorizon[t.Horizon] = append(byHorizon[t.Horizon], t)
	}

	for _, h := range horizon.All {
		group := byHorizon[h]
		if len(group) == 0 {
			continue
		}
		ticket.SortTickets(group)

		fmt.Fprintf(&b, "\n## %s\n\n", horizon.Label(h))
		for _, t := range group {
			writeTicketLine(&b, t)
		}
	}

	return b.String()
}

// Kanban renders the status board: every ticket grouped by lifecycle
// state, columns in workflow order.
func Kanban(project string, tickets []ticket.Ticket, today time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Kanban: %s\n\n", project)
	fmt.Fprintf(&b, "_Generated %s_\n", today.Format(horizon.DateLayout))

	byStatus := make(map[ticket.Status][]ticket.Ticket)
	for _, t := range tickets {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	columns := []struct {
		status ticket.Status
		label  string
	}{
		{ticket.StatusOpen, "Open"},
		{ticket.StatusInProgress, "In Progress"},
		{ticket.StatusCompleted, "Completed"},
	}

	for _, col := range columns {
		group := byStatus[col.status]
		fmt.Fprintf(&b, "\n## %s (%d)\n\n", col.label, len(group))
		if len(group) == 0 {
			b.WriteString("_empty_\n")
			continue
		}
		ticket.SortTickets(group)
		for _, t := range group {
			writeTicketLine(&b, t)
		}
	}

	return b.String()
}

func writeTicketLine(b *strings.Builder, t ticket.Ticket) {
	fmt.Fprintf(b, "- **%s** %s", t.Key, t.Title)

	var tags []string
	if t.Priority != "" {
		tags = append(tags, string(t.Priority))
	}
	if t.Due != "" {
		tags = append(tags, "due "+t.Due)
	}
	if t.Assignee != "" {
		tags = append(tags, "@"+t.Assignee)
	}
	if len(tags) > 0 {
		fmt.Fprintf(b, " (%s)", strings.Join(tags, ", "))
	}
	b.WriteString("\n")
}

// markdown is shared: the converter configuration never changes and
// goldmark instances are safe for concurrent Convert calls.
var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown
)

// ToHTML converts a rendered markdown report to a standalone HTML page.
func ToHTML(title, md string) (string, error) {
	markdownOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})

	var body bytes.Buffer
	if err := markdown.Convert([]byte(md), &body); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", title)
	b.WriteString("<meta charset=\"utf-8\">\n</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

// Write renders both reports into the output directory and returns the
// written file paths.
func Write(outputDir, project string, tickets []ticket.Ticket, format Format, today time.Time) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	docs := []struct {
		name    string
		content string
	}{
		{"plan", Plan(project, tickets, today)},
		{"kanban", Kanban(project, tickets, today)},
	}

	var paths []string
	for _, doc := range docs {
		content := doc.content
		ext := "md"
		if format == FormatHTML {
			html, err := ToHTML(doc.name, content)
			if err != nil {
				return paths, err
			}
			content, ext = html, "html"
		}

		path := filepath.Join(outputDir, fmt.Sprintf("%s.%s", doc.name, ext))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}
