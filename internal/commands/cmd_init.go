package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/colonyops/aipm/internal/core/config"
	"github.com/colonyops/aipm/internal/core/styles"
	"github.com/urfave/cli/v3"
)

type InitCmd struct {
	flags *Flags

	name        string
	description string
	yes         bool
}

// NewInitCmd creates a new init command.
func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

// Register adds the init command to the application.
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize an aipm project in the current directory",
		UsageText: "aipm init [options]",
		Description: `Scaffolds an aipm project:

  aipm.yaml       project configuration
  tickets/        ticket markdown files
  generated/      generated reports
  goals.md        long-term goals
  milestones.md   milestone tracking

Prompts for the project name and description unless --yes or the
corresponding flags are given.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n"},
				Usage:       "project name",
				Destination: &cmd.name,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "project description",
				Destination: &cmd.description,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(_ context.Context, _ *cli.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	if _, err := os.Stat(filepath.Join(wd, config.Filename)); err == nil {
		return fmt.Errorf("project already initialized: %s exists", config.Filename)
	}

	if cmd.name == "" {
		cmd.name = filepath.Base(wd)
	}

	if !cmd.yes && interactive() {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Validate(validateRequired("name")).
				Value(&cmd.name),
			huh.NewText().
				Title("Description").
				Description("What is this project about?").
				Value(&cmd.description),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	cfg := config.DefaultConfig()
	cfg.Project.Name = cmd.name
	cfg.Project.Description = cmd.description
	if err := cfg.Save(wd); err != nil {
		return err
	}

	for _, dir := range []string{"tickets", cfg.OutputDir} {
		if err := os.MkdirAll(filepath.Join(wd, dir), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	seeds := map[string]string{
		"goals.md":      fmt.Sprintf("# Goals: %s\n\n- [ ] Define the first goal\n", cmd.name),
		"milestones.md": fmt.Sprintf("# Milestones: %s\n\n_No milestones yet._\n", cmd.name),
	}
	for name, content := range seeds {
		path := filepath.Join(wd, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	fmt.Println(styles.Success.Render("✓") + " initialized aipm project " + styles.Key.Render(cmd.name))
	fmt.Println(styles.Muted.Render("  add tickets with 'aipm ticket add', then run 'aipm check'"))
	return nil
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
