package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/colonyops/aipm/internal/aipm"
	"github.com/colonyops/aipm/internal/core/report"
	"github.com/colonyops/aipm/internal/core/styles"
	"github.com/urfave/cli/v3"
)

// ReportCmd implements the aipm report command.
type ReportCmd struct {
	flags *Flags
	app   *aipm.App

	format string
}

// NewReportCmd creates a new report command.
func NewReportCmd(flags *Flags, app *aipm.App) *ReportCmd {
	return &ReportCmd{flags: flags, app: app}
}

// Register adds the report command to the application.
func (cmd *ReportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "report",
		Usage:     "Generate plan and kanban documents",
		UsageText: "aipm report [--format markdown|html]",
		Description: `Writes the planning documents into the output directory:

  plan.md     open tickets grouped by horizon, most urgent first
  kanban.md   all tickets grouped by lifecycle state

With --format html the documents are rendered to standalone HTML pages.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format (markdown, html)",
				Value:       "markdown",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ReportCmd) run(_ context.Context, _ *cli.Command) error {
	if err := cmd.app.RequireProject(); err != nil {
		return err
	}

	format, err := report.ParseFormat(cmd.format)
	if err != nil {
		return err
	}

	tickets, err := cmd.app.Store.List()
	if err != nil {
		return err
	}

	outputDir := cmd.app.Config.OutputDir
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(cmd.app.Config.Root, outputDir)
	}

	paths, err := report.Write(outputDir, cmd.app.Config.Project.Name, tickets, format, time.Now())
	if err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Printf("%s wrote %s\n", styles.Success.Render("✓"), p)
	}
	return nil
}
