package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/aipm/internal/aipm"
	"github.com/colonyops/aipm/internal/core/styles"
	"github.com/urfave/cli/v3"
)

// ConfigCmd implements the aipm config command group.
type ConfigCmd struct {
	flags *Flags
	app   *aipm.App
}

// NewConfigCmd creates a new config command.
func NewConfigCmd(flags *Flags, app *aipm.App) *ConfigCmd {
	return &ConfigCmd{flags: flags, app: app}
}

// Register adds the config command to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate aipm.yaml",
				UsageText:   "aipm config validate",
				Description: "Validates the project configuration, including source definitions.",
				Action:      cmd.runValidate,
			},
		},
	})
	return app
}

func (cmd *ConfigCmd) runValidate(_ context.Context, _ *cli.Command) error {
	if err := cmd.app.RequireProject(); err != nil {
		return err
	}

	// Loading already validates; getting here means the config parsed.
	// Re-run validation explicitly so the command reports field errors
	// even if loading is ever made lenient.
	if err := cmd.app.Config.Validate(); err != nil {
		return err
	}

	fmt.Printf("%s %s is valid\n", styles.Success.Render("✓"), styles.Key.Render("aipm.yaml"))
	fmt.Println(styles.Muted.Render(fmt.Sprintf("  project: %s, sources: %d", cmd.app.Config.Project.Name, len(cmd.app.Config.Sources))))
	return nil
}
