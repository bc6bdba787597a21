package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/aipm/internal/aipm"
	"github.com/colonyops/aipm/internal/commands"
	"github.com/colonyops/aipm/internal/core/assistant"
	"github.com/colonyops/aipm/internal/core/config"
	"github.com/colonyops/aipm/internal/core/git"
	"github.com/colonyops/aipm/internal/core/ticket"
	"github.com/colonyops/aipm/pkg/executil"
	"github.com/colonyops/aipm/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var logCloser func()

	flags := &commands.Flags{}
	aipmApp := &aipm.App{}

	app := &cli.Command{
		Name:      "aipm",
		Usage:     "AI project manager for markdown-backed tickets",
		UsageText: "aipm [global options] command [command options]",
		Description: `aipm tracks work as plain markdown tickets, classifies them into
urgency horizons, and mines git history to figure out what is already
done.

Tickets live in tickets/ as files your editor and your AI tools can
read. The check command inspects recent commits and their diffs to
judge ticket completion, with a keyword fallback when no AI assistant
is installed.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("AIPM_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to stderr)",
				Sources:     cli.EnvVars("AIPM_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to aipm.yaml (defaults to searching upward from the working directory)",
				Sources:     cli.EnvVars("AIPM_CONFIG"),
				Destination: &flags.ConfigPath,
			},
			&cli.BoolFlag{
				Name:        "offline",
				Usage:       "skip the AI assistant and use keyword fallback strategies",
				Sources:     cli.EnvVars("AIPM_OFFLINE"),
				Destination: &flags.Offline,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			wd, err := os.Getwd()
			if err != nil {
				return ctx, fmt.Errorf("get working directory: %w", err)
			}

			exec := &executil.RealExecutor{}

			// Outside a project the App stays unwired; init and help still
			// work, everything else errors through RequireProject.
			var cfg *config.Config
			if flags.ConfigPath != "" {
				cfg, err = config.LoadFrom(filepath.Dir(flags.ConfigPath))
			} else {
				cfg, err = config.Load(wd)
			}
			switch {
			case errors.Is(err, config.ErrNoProject):
				*aipmApp = *aipm.NewApp(nil, nil, nil, exec, nil, logger)
				return ctx, nil
			case err != nil:
				return ctx, err
			}

			var ai assistant.Assistant
			if !flags.Offline {
				backend := assistant.NewCLI(cfg.Assistant.Command, cfg.Assistant.Args, exec)
				if backend.Available() {
					ai = backend
				} else {
					logger.Warn().
						Str("command", cfg.Assistant.Command).
						Msg("AI assistant not found, using keyword fallback strategies")
				}
			}

			gitExec := git.NewExecutor(cfg.GitPath, exec)
			store := ticket.NewStore(cfg.Root)

			*aipmApp = *aipm.NewApp(cfg, store, gitExec, exec, ai, logger)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewInitCmd(flags).Register(app)
	app = commands.NewTicketCmd(flags, aipmApp).Register(app)
	app = commands.NewCheckCmd(flags, aipmApp).Register(app)
	app = commands.NewSyncCmd(flags, aipmApp).Register(app)
	app = commands.NewSummaryCmd(flags, aipmApp).Register(app)
	app = commands.NewReportCmd(flags, aipmApp).Register(app)
	app = commands.NewDiffCmd(flags, aipmApp).Register(app)
	app = commands.NewCommitCmd(flags, aipmApp).Register(app)
	app = commands.NewConfigCmd(flags, aipmApp).Register(app)

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
