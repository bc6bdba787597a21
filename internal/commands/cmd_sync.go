package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/aipm/internal/aipm"
	"github.com/colonyops/aipm/internal/core/sources"
	"github.com/colonyops/aipm/internal/core/styles"
	"github.com/urfave/cli/v3"
)

// SyncCmd implements the aipm sync command.
type SyncCmd struct {
	flags *Flags
	app   *aipm.App

	source  string
	noStage bool
}

// NewSyncCmd creates a new sync command.
func NewSyncCmd(flags *Flags, app *aipm.App) *SyncCmd {
	return &SyncCmd{flags: flags, app: app}
}

// Register adds the sync command to the application.
func (cmd *SyncCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "sync",
		Usage:     "Fetch issues from configured sources into ticket files",
		UsageText: "aipm sync [--source <name>] [--no-stage]",
		Description: `Fetches issues from every source configured in aipm.yaml, writes them
as ticket files under tickets/<source>/, and stages the changed files.

Remote fields (title, status, labels) follow the tracker on re-sync;
local planning fields (horizon, due, repo) are preserved.

Authentication comes from the environment: GITHUB_TOKEN for GitHub,
JIRA_EMAIL and JIRA_API_TOKEN for Jira.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "source",
				Aliases:     []string{"s"},
				Usage:       "sync only the named source",
				Destination: &cmd.source,
			},
			&cli.BoolFlag{
				Name:        "no-stage",
				Usage:       "skip staging the ticket files",
				Destination: &cmd.noStage,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *SyncCmd) run(ctx context.Context, _ *cli.Command) error {
	if err := cmd.app.RequireProject(); err != nil {
		return err
	}

	if len(cmd.app.Config.Sources) == 0 {
		fmt.Println(styles.Muted.Render("no sources configured in aipm.yaml"))
		return nil
	}

	matched := false
	for _, sc := range cmd.app.Config.Sources {
		src, err := sources.FromConfig(sc)
		if err != nil {
			return err
		}
		if cmd.source != "" && src.Name() != cmd.source {
			continue
		}
		matched = true

		stats, err := sources.Sync(ctx, cmd.app.Store, src)
		if err != nil {
			return err
		}

		fmt.Printf("%s %s: %d created, %d updated\n",
			styles.Success.Render("✓"),
			styles.Key.Render(src.Name()),
			stats.Created,
			stats.Updated,
		)

		if cmd.noStage || len(stats.Paths) == 0 {
			continue
		}
		if err := cmd.app.Git.StageFiles(ctx, cmd.app.Config.Root, stats.Paths...); err != nil {
			cmd.app.Log.Warn().Err(err).Str("source", src.Name()).Msg("staging synced tickets failed")
		}
	}

	if cmd.source != "" && !matched {
		return fmt.Errorf("no source named %q configured", cmd.source)
	}
	return nil
}
