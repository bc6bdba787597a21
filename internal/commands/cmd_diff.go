package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/aipm/internal/aipm"
	"github.com/colonyops/aipm/internal/core/check"
	"github.com/colonyops/aipm/internal/core/styles"
	"github.com/urfave/cli/v3"
)

// DiffCmd implements the aipm diff command.
type DiffCmd struct {
	flags *Flags
	app   *aipm.App
}

// NewDiffCmd creates a new diff command.
func NewDiffCmd(flags *Flags, app *aipm.App) *DiffCmd {
	return &DiffCmd{flags: flags, app: app}
}

// Register adds the diff command to the application.
func (cmd *DiffCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "diff",
		Usage:     "Summarize staged changes in the project repository",
		UsageText: "aipm diff",
		Description: `Summarizes whatever is currently staged. With the AI assistant
installed the summary is written in prose; without it the raw stat
output is shown.`,
		Action: cmd.run,
	})
	return app
}

func (cmd *DiffCmd) run(ctx context.Context, _ *cli.Command) error {
	if err := cmd.app.RequireProject(); err != nil {
		return err
	}

	staged, err := cmd.app.Git.HasStagedChanges(ctx, cmd.app.Config.Root)
	if err != nil {
		return err
	}
	if !staged {
		fmt.Println(styles.Muted.Render("nothing staged"))
		return nil
	}

	diff, err := cmd.app.Git.StagedDiff(ctx, cmd.app.Config.Root)
	if err != nil {
		return err
	}

	if cmd.app.Assistant == nil {
		fmt.Println(renderMarkdown("## Staged changes\n\n```\n" + diff + "\n```"))
		return nil
	}

	prompt := "Summarize the following staged git diff in a few short bullet points. " +
		"Focus on what changed and why it might matter.\n\n" +
		check.Truncate(diff, cmd.app.Config.Check.DiffBudget)

	summary, err := cmd.app.Assistant.Chat(ctx, prompt)
	if err != nil {
		cmd.app.Log.Warn().Err(err).Msg("assistant summary failed, showing raw diff")
		fmt.Println(renderMarkdown("## Staged changes\n\n```\n" + diff + "\n```"))
		return nil
	}

	fmt.Println(renderMarkdown("## Staged changes\n\n" + summary))
	return nil
}
