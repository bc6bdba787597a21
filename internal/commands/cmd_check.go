package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/colonyops/aipm/internal/aipm"
	"github.com/colonyops/aipm/internal/core/check"
	"github.com/colonyops/aipm/internal/core/styles"
	"github.com/colonyops/aipm/internal/core/ticket"
	"github.com/urfave/cli/v3"
)

// CheckCmd implements the aipm check command: it mines git history for
// evidence of ticket completion and walks the user through closing what
// looks done.
type CheckCmd struct {
	flags *Flags
	app   *aipm.App

	limit int
	debug bool
}

// NewCheckCmd creates a new check command.
func NewCheckCmd(flags *Flags, app *aipm.App) *CheckCmd {
	return &CheckCmd{flags: flags, app: app}
}

// Register adds the check command to the application.
func (cmd *CheckCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "check",
		Usage:     "Infer ticket completion from git history",
		UsageText: "aipm check [KEY] [--limit <n>] [--debug]",
		Description: `Scans recent commits in each ticket's repository, filters the ones that
relate to the ticket, and judges whether the work is done.

With the AI assistant installed, relevance and completion are judged
semantically from the actual diffs. Without it (or with --offline) a
keyword match narrows candidates and every verdict is UNKNOWN, for
manual review.

With a KEY argument only that ticket is checked. Otherwise the most
urgent open tickets are checked, up to --limit.

Examples:
  aipm check                 # most urgent open tickets
  aipm check L-0004          # one ticket
  aipm check --limit 10
  aipm check --debug         # include assistant prompts and responses`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"l"},
				Usage:       "maximum number of tickets to check",
				Value:       5,
				Destination: &cmd.limit,
			},
			&cli.BoolFlag{
				Name:        "debug",
				Usage:       "show assistant prompts and raw responses",
				Destination: &cmd.debug,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *CheckCmd) run(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.RequireProject(); err != nil {
		return err
	}

	tickets, err := cmd.selectTickets(c.Args().First())
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		fmt.Println(styles.Muted.Render("no open tickets to check"))
		return nil
	}

	home, _ := os.UserHomeDir()
	runner := check.NewRunner(
		cmd.app.Git,
		cmd.app.Assistant,
		cmd.app.Config.Root,
		home,
		check.Options{
			LogLimit:   cmd.app.Config.Check.LogLimit,
			DiffBudget: cmd.app.Config.Check.DiffBudget,
			Workers:    cmd.app.Config.Check.Workers,
			Debug:      cmd.debug,
		},
		cmd.app.Log,
	)

	mode := "assisted"
	if !runner.Assisted() {
		mode = "fallback (keyword matching, no AI judgment)"
	}
	fmt.Printf("checking %d ticket(s), strategy: %s\n\n", len(tickets), mode)

	results := runner.RunBatch(ctx, tickets)
	closer := check.NewCloser(cmd.app.Store, cmd.app.Git, cmd.app.Config.Root)

	for _, res := range results {
		if err := ctx.Err(); err != nil {
			return err
		}

		if res.Err != nil {
			fmt.Printf("%s %s skipped: %v\n\n",
				styles.Warning.Render("!"),
				styles.Key.Render(res.Ticket.Key),
				res.Err,
			)
			continue
		}

		cmd.printResult(res)

		choice, err := cmd.decide(res)
		if err != nil {
			return err
		}

		state, err := closer.Apply(ctx, res.Ticket, choice)
		if err != nil {
			return err
		}
		cmd.printState(res.Ticket, state)
	}

	return nil
}

// selectTickets resolves the check target set: one ticket by key, or the
// most urgent open tickets up to the limit. Tickets with no linked repo
// have no history to mine and are left out of the batch.
func (cmd *CheckCmd) selectTickets(key string) ([]ticket.Ticket, error) {
	if key != "" {
		t, err := cmd.app.Store.Load(key)
		if err != nil {
			return nil, err
		}
		if t.Repo == "" {
			return nil, fmt.Errorf("ticket %s has no linked repo, nothing to check against", t.Key)
		}
		return []ticket.Ticket{t}, nil
	}

	all, err := cmd.app.Store.List()
	if err != nil {
		return nil, err
	}

	var open []ticket.Ticket
	for _, t := range all {
		if !t.Status.Closed() && t.Repo != "" {
			open = append(open, t)
		}
	}
	if cmd.limit > 0 && len(open) > cmd.limit {
		open = open[:cmd.limit]
	}
	return open, nil
}

func (cmd *CheckCmd) printResult(res check.Result) {
	header := fmt.Sprintf("%s %s  %s %s",
		styles.Key.Render(res.Ticket.Key),
		res.Ticket.Title,
		styles.ForVerdict(string(res.Verdict.Status)).Render(string(res.Verdict.Status)),
		styles.Muted.Render(fmt.Sprintf("(%s confidence, %s strategy)", res.Verdict.Confidence, res.Strategy)),
	)
	fmt.Println(styles.Panel.Render(header))

	var b strings.Builder
	if len(res.Verdict.Evidence) > 0 {
		b.WriteString("**Evidence**:\n\n")
		for _, c := range res.Verdict.Evidence {
			fmt.Fprintf(&b, "- `%s` %s\n", c.ShortHash(), c.Subject)
		}
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "No related commits found among the last %d.\n\n", len(res.Commits))
	}

	if res.Verdict.RemainingWork != "" {
		fmt.Fprintf(&b, "**Remaining work**: %s\n", res.Verdict.RemainingWork)
	}

	fmt.Println(renderMarkdown(b.String()))

	if cmd.debug {
		for i, ex := range res.Exchanges {
			fmt.Println(styles.Muted.Render(fmt.Sprintf("--- exchange %d prompt ---", i+1)))
			fmt.Println(styles.Muted.Render(ex.Prompt))
			fmt.Println(styles.Muted.Render(fmt.Sprintf("--- exchange %d response ---", i+1)))
			fmt.Println(styles.Muted.Render(ex.Response))
		}
	}
}

// decide reads the closure decision. Interactive runs get a select with
// the default pre-picked; everything else takes the default silently.
func (cmd *CheckCmd) decide(res check.Result) (check.Choice, error) {
	def := check.DefaultChoice(res.Verdict)
	if !interactive() {
		return def, nil
	}

	choice := def
	err := huh.NewSelect[check.Choice]().
		Title(fmt.Sprintf("%s: mark as completed?", res.Ticket.Key)).
		Options(
			huh.NewOption("close (mark completed, stage the file)", check.ChoiceClose),
			huh.NewOption("close and commit", check.ChoiceCommit),
			huh.NewOption("skip (leave open)", check.ChoiceSkip),
		).
		Value(&choice).
		Run()
	if err != nil {
		return "", err
	}
	return choice, nil
}

func (cmd *CheckCmd) printState(t ticket.Ticket, state check.ClosureState) {
	switch state {
	case check.StateClosed:
		fmt.Printf("%s %s closed\n\n", styles.Success.Render("✓"), styles.Key.Render(t.Key))
	case check.StateClosedAndCommitted:
		fmt.Printf("%s %s closed and committed\n\n", styles.Success.Render("✓"), styles.Key.Render(t.Key))
	case check.StateLeftOpen:
		fmt.Printf("%s %s left open\n\n", styles.Muted.Render("-"), styles.Key.Render(t.Key))
	}
}

// renderMarkdown renders markdown for the terminal, falling back to the
// raw text if rendering fails.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
