package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/colonyops/aipm/internal/aipm"
	"github.com/colonyops/aipm/internal/core/horizon"
	"github.com/colonyops/aipm/internal/core/styles"
	"github.com/colonyops/aipm/internal/core/ticket"
	"github.com/urfave/cli/v3"
)

// TicketCmd implements the aipm ticket command group.
type TicketCmd struct {
	flags *Flags
	app   *aipm.App

	// add flags
	addTitle       string
	addDescription string
	addPriority    string
	addHorizon     string
	addDue         string
	addRepo        string
	addAssignee    string

	// list flags
	listAll    bool
	listStatus string
}

// NewTicketCmd creates a new ticket command.
func NewTicketCmd(flags *Flags, app *aipm.App) *TicketCmd {
	return &TicketCmd{flags: flags, app: app}
}

// Register adds the ticket command to the application.
func (cmd *TicketCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "ticket",
		Usage: "Manage local tickets",
		Description: `Ticket commands for the project's markdown-backed tracker.

Examples:
  aipm ticket add --title "Fix login bug" --due 2026-09-04
  aipm ticket add                       # interactive form
  aipm ticket list                      # open tickets by horizon
  aipm ticket list --all                # include completed tickets`,
		Commands: []*cli.Command{
			cmd.addCmd(),
			cmd.listCmd(),
		},
	})
	return app
}

func (cmd *TicketCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a local ticket",
		UsageText: "aipm ticket add [--title <title>] [options]",
		Description: `Creates a ticket file under tickets/local with the next sequential key.

The horizon is taken from --horizon when given, otherwise classified from
the due date, otherwise "sometime". Without --title an interactive form
collects the fields.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "ticket title",
				Destination: &cmd.addTitle,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "ticket description",
				Destination: &cmd.addDescription,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "priority (critical, high, medium, low)",
				Destination: &cmd.addPriority,
			},
			&cli.StringFlag{
				Name:        "horizon",
				Usage:       "urgency horizon (now, week, next-week, month, year, sometime)",
				Destination: &cmd.addHorizon,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "due date (YYYY-MM-DD)",
				Destination: &cmd.addDue,
			},
			&cli.StringFlag{
				Name:        "repo",
				Aliases:     []string{"r"},
				Usage:       "repository the work happens in (path relative to the project root, absolute, or ~/...)",
				Destination: &cmd.addRepo,
			},
			&cli.StringFlag{
				Name:        "assignee",
				Aliases:     []string{"a"},
				Usage:       "assignee",
				Destination: &cmd.addAssignee,
			},
		},
		Action: cmd.runAdd,
	}
}

func (cmd *TicketCmd) runAdd(_ context.Context, _ *cli.Command) error {
	if err := cmd.app.RequireProject(); err != nil {
		return err
	}

	if cmd.addTitle == "" {
		if !interactive() {
			return fmt.Errorf("--title is required when not running interactively")
		}
		if err := cmd.addForm(); err != nil {
			return err
		}
	}

	t := ticket.Ticket{
		Title:       cmd.addTitle,
		Status:      ticket.StatusOpen,
		Due:         cmd.addDue,
		Repo:        cmd.addRepo,
		Assignee:    cmd.addAssignee,
		Description: cmd.addDescription,
	}

	if cmd.addPriority != "" {
		p := ticket.Priority(cmd.addPriority)
		if !p.IsValid() {
			return fmt.Errorf("invalid priority %q", cmd.addPriority)
		}
		t.Priority = p
	}

	switch {
	case cmd.addHorizon != "":
		h, err := horizon.Parse(cmd.addHorizon)
		if err != nil {
			return err
		}
		t.Horizon = h
	case cmd.addDue != "":
		if _, err := time.Parse(horizon.DateLayout, cmd.addDue); err != nil {
			return fmt.Errorf("invalid due date %q: want YYYY-MM-DD", cmd.addDue)
		}
		t.Horizon = horizon.ClassifyDue(cmd.addDue, time.Now())
	default:
		t.Horizon = horizon.Sometime
	}

	key, err := cmd.app.Store.NextLocalKey()
	if err != nil {
		return err
	}
	t.Key = key
	t.Path = cmd.app.Store.PathFor(t)

	if err := cmd.app.Store.Save(t); err != nil {
		return err
	}

	fmt.Printf("%s created %s (%s)\n",
		styles.Success.Render("✓"),
		styles.Key.Render(t.Key),
		horizon.Label(t.Horizon),
	)
	fmt.Println(styles.Muted.Render("  " + t.Path))
	return nil
}

func (cmd *TicketCmd) addForm() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Validate(validateRequired("title")).
				Value(&cmd.addTitle),
			huh.NewText().
				Title("Description").
				Value(&cmd.addDescription),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("medium", "medium"),
					huh.NewOption("critical", "critical"),
					huh.NewOption("high", "high"),
					huh.NewOption("low", "low"),
					huh.NewOption("none", ""),
				).
				Value(&cmd.addPriority),
			huh.NewInput().
				Title("Due date").
				Description("YYYY-MM-DD, leave empty for none").
				Value(&cmd.addDue),
			huh.NewInput().
				Title("Repository").
				Description("where the work happens; empty means the project root").
				Value(&cmd.addRepo),
		),
	).Run()
}

func (cmd *TicketCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List tickets grouped by horizon",
		UsageText: "aipm ticket list [--all | --status <status>]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "all",
				Usage:       "include completed tickets",
				Destination: &cmd.listAll,
			},
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "filter by status (open, in-progress, completed)",
				Destination: &cmd.listStatus,
			},
		},
		Action: cmd.runList,
	}
}

func (cmd *TicketCmd) runList(_ context.Context, _ *cli.Command) error {
	if err := cmd.app.RequireProject(); err != nil {
		return err
	}

	if cmd.listStatus != "" && !ticket.Status(cmd.listStatus).IsValid() {
		return fmt.Errorf("invalid status %q", cmd.listStatus)
	}

	tickets, err := cmd.app.Store.List()
	if err != nil {
		return err
	}

	byHorizon := make(map[horizon.Horizon][]ticket.Ticket)
	total := 0
	for _, t := range tickets {
		switch {
		case cmd.listStatus != "" && t.Status != ticket.Status(cmd.listStatus):
			continue
		case cmd.listStatus == "" && !cmd.listAll && t.Status.Closed():
			continue
		}
		byHorizon[t.Horizon] = append(byHorizon[t.Horizon], t)
		total++
	}

	if total == 0 {
		fmt.Println(styles.Muted.Render("no tickets to show"))
		return nil
	}

	for _, h := range horizon.All {
		group := byHorizon[h]
		if len(group) == 0 {
			continue
		}

		fmt.Println(styles.Title.Render(horizon.Label(h)))
		for _, t := range group {
			line := fmt.Sprintf("  %s %s", styles.Key.Render(t.Key), t.Title)
			var detail []string
			if t.Priority != "" {
				detail = append(detail, string(t.Priority))
			}
			if t.Due != "" {
				detail = append(detail, "due "+t.Due)
			}
			if len(detail) > 0 {
				line += styles.Muted.Render(" (" + strings.Join(detail, ", ") + ")")
			}
			if t.Status != ticket.StatusOpen {
				line += " " + styles.ForTicketStatus(string(t.Status)).Render("["+string(t.Status)+"]")
			}
			fmt.Println(line)
		}
		fmt.Println()
	}

	return nil
}
