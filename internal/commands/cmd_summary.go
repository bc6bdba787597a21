package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/colonyops/aipm/internal/aipm"
	"github.com/colonyops/aipm/internal/core/horizon"
	"github.com/colonyops/aipm/internal/core/styles"
	"github.com/colonyops/aipm/internal/core/ticket"
	"github.com/urfave/cli/v3"
)

// SummaryCmd implements the aipm summary command.
type SummaryCmd struct {
	flags *Flags
	app   *aipm.App

	period   string
	assignee string
}

// NewSummaryCmd creates a new summary command.
func NewSummaryCmd(flags *Flags, app *aipm.App) *SummaryCmd {
	return &SummaryCmd{flags: flags, app: app}
}

// Register adds the summary command to the application.
func (cmd *SummaryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "summary",
		Usage:     "Generate a high-level project summary",
		UsageText: "aipm summary [--period <day|week|month|year|all>] [--assignee <name>]",
		Description: `Summarizes the project's tickets over a period. The period bounds
which urgency horizons count as active work: "week" covers the now and
week horizons, "month" adds next-week and month, and so on.

With the AI assistant installed the summary is written in prose against
the project's goals.md and milestones.md. Without it a deterministic
report is produced from ticket state alone.

Examples:
  aipm summary                     # this week's summary
  aipm summary --period month
  aipm summary --assignee alice`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "period",
				Aliases:     []string{"p"},
				Usage:       "summary period (day, week, month, year, all)",
				Value:       "week",
				Destination: &cmd.period,
			},
			&cli.StringFlag{
				Name:        "assignee",
				Aliases:     []string{"a"},
				Usage:       "only include tickets assigned to this person",
				Destination: &cmd.assignee,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *SummaryCmd) run(ctx context.Context, _ *cli.Command) error {
	if err := cmd.app.RequireProject(); err != nil {
		return err
	}

	switch cmd.period {
	case "day", "week", "month", "year", "all":
	default:
		return fmt.Errorf("invalid period %q: must be one of day, week, month, year, all", cmd.period)
	}

	all, err := cmd.app.Store.List()
	if err != nil {
		return err
	}

	tickets := filterByAssignee(all, cmd.assignee)
	if len(tickets) == 0 {
		fmt.Println(styles.Muted.Render("no tickets to summarize"))
		return nil
	}

	md := summaryMarkdown(cmd.app.Config.Project.Name, tickets, cmd.period, time.Now())

	if cmd.app.Assistant != nil {
		prose, err := cmd.assistedSummary(ctx, tickets)
		if err != nil {
			cmd.app.Log.Warn().Err(err).Msg("assistant summary failed, showing ticket report")
		} else {
			md = prose
		}
	}

	fmt.Println(renderMarkdown(md))
	return nil
}

// filterByAssignee keeps tickets assigned to name; empty name keeps all.
func filterByAssignee(tickets []ticket.Ticket, name string) []ticket.Ticket {
	if name == "" {
		return tickets
	}
	var out []ticket.Ticket
	for _, t := range tickets {
		if strings.EqualFold(t.Assignee, name) {
			out = append(out, t)
		}
	}
	return out
}

func (cmd *SummaryCmd) assistedSummary(ctx context.Context, tickets []ticket.Ticket) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI project manager for %q. Generate a %sly summary report.\n\n",
		cmd.app.Config.Project.Name, cmd.period)
	b.WriteString("Focus on:\n")
	b.WriteString("1. Key accomplishments in this period\n")
	b.WriteString("2. Current priorities and next tasks\n")
	b.WriteString("3. Progress toward goals\n")
	b.WriteString("4. Risks and blockers\n")
	b.WriteString("5. Recommended focus areas\n")

	for _, name := range []string{"goals.md", "milestones.md"} {
		data, err := os.ReadFile(filepath.Join(cmd.app.Config.Root, name))
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n%s\n", strings.TrimSuffix(name, ".md"), data)
	}

	b.WriteString("\n## Tickets\n")
	for _, t := range tickets {
		fmt.Fprintf(&b, "- [%s] %s (horizon: %s, assignee: %s, priority: %s)\n",
			t.Status, t.Title, t.Horizon, t.Assignee, t.Priority)
	}

	return cmd.app.Assistant.Chat(ctx, b.String())
}

// summaryMarkdown builds the deterministic summary report. Active work is
// limited to the horizons the period covers; completed tickets are listed
// regardless of horizon.
func summaryMarkdown(project string, tickets []ticket.Ticket, period string, now time.Time) string {
	inPeriod := make(map[horizon.Horizon]bool)
	for _, h := range horizon.ForPeriod(period) {
		inPeriod[h] = true
	}

	var active, later, completed []ticket.Ticket
	for _, t := range tickets {
		switch {
		case t.Status.Closed():
			completed = append(completed, t)
		case inPeriod[t.Horizon]:
			active = append(active, t)
		default:
			later = append(later, t)
		}
	}
	ticket.SortTickets(active)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %s summary\n\n", project, period)
	fmt.Fprintf(&b, "_Generated %s_\n\n", now.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "## Overview (%d tickets)\n\n", len(tickets))
	fmt.Fprintf(&b, "- **Active this %s**: %d\n", period, len(active))
	fmt.Fprintf(&b, "- **Later**: %d\n", len(later))
	fmt.Fprintf(&b, "- **Completed**: %d\n\n", len(completed))

	if len(active) > 0 {
		b.WriteString("## Active Tasks\n\n")
		for _, t := range active {
			line := fmt.Sprintf("- **%s** %s", t.Key, t.Title)
			var detail []string
			if t.Priority != "" {
				detail = append(detail, string(t.Priority))
			}
			if t.Due != "" {
				detail = append(detail, "due "+t.Due)
			}
			if t.Assignee != "" {
				detail = append(detail, "@"+t.Assignee)
			}
			if len(detail) > 0 {
				line += " (" + strings.Join(detail, ", ") + ")"
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(completed) > 0 {
		fmt.Fprintf(&b, "## Completed (%d)\n\n", len(completed))
		for _, t := range completed {
			fmt.Fprintf(&b, "- ~~%s %s~~\n", t.Key, t.Title)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Next Steps\n\n")
	if len(active) > 0 {
		fmt.Fprintf(&b, "1. %d active tasks need attention\n", len(active))
	}
	b.WriteString("2. Run `aipm sync` to pull tracker updates\n")
	b.WriteString("3. Run `aipm check` to close finished work\n")

	return b.String()
}
