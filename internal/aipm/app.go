// Package aipm wires the core services behind the CLI commands.
package aipm

import (
	"github.com/colonyops/aipm/internal/core/assistant"
	"github.com/colonyops/aipm/internal/core/config"
	"github.com/colonyops/aipm/internal/core/git"
	"github.com/colonyops/aipm/internal/core/ticket"
	"github.com/colonyops/aipm/pkg/executil"
	"github.com/rs/zerolog"
)

// App is the central entry point for all aipm operations. Commands consume
// App instead of cherry-picking raw dependencies. Config, Store, and Git
// are nil outside a project; only init works there.
type App struct {
	Config *config.Config
	Store  *ticket.Store
	Git    git.Git
	Exec   executil.Executor

	// Assistant is nil when the AI backend is unavailable or --offline
	// was given; everything downstream then runs the fallback strategies.
	Assistant assistant.Assistant

	Log zerolog.Logger
}

// NewApp constructs an App from explicit dependencies.
func NewApp(cfg *config.Config, store *ticket.Store, g git.Git, exec executil.Executor, ai assistant.Assistant, log zerolog.Logger) *App {
	return &App{
		Config:    cfg,
		Store:     store,
		Git:       g,
		Exec:      exec,
		Assistant: ai,
		Log:       log,
	}
}

// RequireProject errors unless the App was constructed inside a project.
func (a *App) RequireProject() error {
	if a.Config == nil {
		return config.ErrNoProject
	}
	return nil
}
