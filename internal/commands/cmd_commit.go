package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/colonyops/aipm/internal/aipm"
	"github.com/colonyops/aipm/internal/core/check"
	"github.com/colonyops/aipm/internal/core/styles"
	"github.com/urfave/cli/v3"
)

// CommitCmd implements the aipm commit command.
type CommitCmd struct {
	flags *Flags
	app   *aipm.App
}

// NewCommitCmd creates a new commit command.
func NewCommitCmd(flags *Flags, app *aipm.App) *CommitCmd {
	return &CommitCmd{flags: flags, app: app}
}

// Register adds the commit command to the application.
func (cmd *CommitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "commit",
		Usage:     "Commit updated tickets and planning files",
		UsageText: "aipm commit",
		Description: `Commits whatever is staged in the project repository. With nothing
staged, the project's ticket and planning files are staged first.

The commit message is suggested from the staged diff, by the AI
assistant when installed, and can be edited before committing.`,
		Action: cmd.run,
	})
	return app
}

func (cmd *CommitCmd) run(ctx context.Context, _ *cli.Command) error {
	if err := cmd.app.RequireProject(); err != nil {
		return err
	}
	root := cmd.app.Config.Root

	staged, err := cmd.app.Git.HasStagedChanges(ctx, root)
	if err != nil {
		return err
	}
	if !staged {
		paths, err := cmd.projectFiles()
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Println(styles.Muted.Render("nothing to commit"))
			return nil
		}
		if err := cmd.app.Git.StageFiles(ctx, root, paths...); err != nil {
			return err
		}
		fmt.Printf("staged %d project file(s)\n", len(paths))
	}

	diff, err := cmd.app.Git.StagedDiff(ctx, root)
	if err != nil {
		return err
	}
	if strings.TrimSpace(diff) == "" {
		fmt.Println(styles.Muted.Render("nothing to commit"))
		return nil
	}

	message := cmd.suggestMessage(ctx, diff)

	if interactive() {
		err := huh.NewInput().
			Title("Commit message").
			Value(&message).
			Validate(validateRequired("commit message")).
			Run()
		if err != nil {
			return err
		}
	}

	if err := cmd.app.Git.Commit(ctx, root, message); err != nil {
		return err
	}
	fmt.Printf("%s committed: %s\n", styles.Success.Render("✓"), message)
	return nil
}

// projectFiles lists the ticket and planning files worth staging.
func (cmd *CommitCmd) projectFiles() ([]string, error) {
	tickets, err := cmd.app.Store.List()
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, t := range tickets {
		if t.Path != "" {
			paths = append(paths, t.Path)
		}
	}
	for _, name := range []string{"goals.md", "milestones.md", "aipm.yaml"} {
		p := filepath.Join(cmd.app.Config.Root, name)
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

func (cmd *CommitCmd) suggestMessage(ctx context.Context, diff string) string {
	if cmd.app.Assistant == nil {
		return commitMessageFallback(diff, time.Now())
	}

	prompt := "Generate a concise, conventional-commit-style commit message for the " +
		"following staged changes from a project management tool that tracks tickets " +
		"as markdown files. Use the format 'type(scope): description' and reply with " +
		"the message only.\n\n```diff\n" +
		check.Truncate(diff, cmd.app.Config.Check.DiffBudget) +
		"\n```"

	resp, err := cmd.app.Assistant.Chat(ctx, prompt)
	if err != nil {
		cmd.app.Log.Warn().Err(err).Msg("assistant commit message failed, using fallback")
		return commitMessageFallback(diff, time.Now())
	}

	lines := strings.Split(strings.TrimSpace(resp), "\n")
	if msg := strings.TrimSpace(lines[0]); msg != "" {
		return msg
	}
	return commitMessageFallback(diff, time.Now())
}

// commitMessageFallback derives a message from the staged diff's file list.
func commitMessageFallback(diff string, now time.Time) string {
	var tickets, plans, other int
	for _, line := range strings.Split(diff, "\n") {
		if !strings.HasPrefix(line, "diff --git") {
			continue
		}
		_, file, ok := strings.Cut(line, " b/")
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(file, "tickets/"):
			tickets++
		case file == "goals.md" || file == "milestones.md":
			plans++
		default:
			other++
		}
	}

	var parts []string
	if tickets > 0 {
		parts = append(parts, fmt.Sprintf("sync %d ticket(s)", tickets))
	}
	if plans > 0 {
		parts = append(parts, "update planning files")
	}
	if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("update %d file(s)", other))
	}

	return fmt.Sprintf("chore(aipm): %s [%s]", strings.Join(parts, ", "), now.Format("2006-01-02"))
}
