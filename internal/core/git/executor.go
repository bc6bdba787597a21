package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/colonyops/aipm/pkg/executil"
)

// logFieldSep separates fields in the log format; unit separator is
// effectively impossible in author names and subject lines.
const logFieldSep = "\x1f"

// Executor implements Git using the git command-line tool.
type Executor struct {
	gitPath string
	exec    executil.Executor
}

// NewExecutor creates a new git executor with the specified git binary path.
func NewExecutor(gitPath string, exec executil.Executor) *Executor {
	return &Executor{gitPath: gitPath, exec: exec}
}

// checkRepo distinguishes a missing path from a non-repository directory.
func (e *Executor) checkRepo(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRepoNotFound, dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrRepoNotFound, dir)
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return fmt.Errorf("%w: %s", ErrNotARepository, dir)
	}
	return nil
}

func (e *Executor) Log(ctx context.Context, dir string, limit int) ([]Commit, error) {
	if err := e.checkRepo(dir); err != nil {
		return nil, err
	}

	format := strings.Join([]string{"%H", "%an", "%aI", "%s"}, logFieldSep)
	out, err := e.exec.RunDir(ctx, dir, e.gitPath,
		"log", fmt.Sprintf("-%d", limit), "--format="+format, "--no-decorate")
	if err != nil {
		// git log exits non-zero on a repository with no commits.
		if strings.Contains(strings.ToLower(string(out)), "does not have any commits") {
			return nil, fmt.Errorf("%w: %s", ErrNoCommits, dir)
		}
		return nil, fmt.Errorf("git log: %w", err)
	}

	return parseLog(string(out))
}

func (e *Executor) Show(ctx context.Context, dir, hash string) (string, error) {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "show", "--stat", "--patch", hash)
	if err != nil {
		return "", fmt.Errorf("git show %s: %w", hash, err)
	}
	return string(out), nil
}

func (e *Executor) StageFiles(ctx context.Context, dir string, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	if _, err := e.exec.RunDir(ctx, dir, e.gitPath, args...); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	return nil
}

func (e *Executor) Commit(ctx context.Context, dir, message string) error {
	if _, err := e.exec.RunDir(ctx, dir, e.gitPath, "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	return nil
}

func (e *Executor) HasStagedChanges(ctx context.Context, dir string) (bool, error) {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "diff", "--cached", "--name-only")
	if err != nil {
		return false, fmt.Errorf("git diff --cached: %w", err)
	}
	return len(strings.TrimSpace(string(out))) > 0, nil
}

func (e *Executor) StagedDiff(ctx context.Context, dir string) (string, error) {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "diff", "--cached")
	if err != nil {
		return "", fmt.Errorf("git diff --cached: %w", err)
	}
	return string(out), nil
}

// parseLog parses "--format=%H<sep>%an<sep>%aI<sep>%s" output, one commit per
// line. Lines that do not split into four fields are skipped.
func parseLog(out string) ([]Commit, error) {
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return nil, nil
	}

	var commits []Commit
	for _, line := range strings.Split(trimmed, "\n") {
		parts := strings.SplitN(line, logFieldSep, 4)
		if len(parts) != 4 {
			continue
		}

		ts, err := time.Parse(time.RFC3339, parts[2])
		if err != nil {
			ts = time.Time{}
		}

		commits = append(commits, Commit{
			Hash:      parts[0],
			Author:    parts[1],
			Timestamp: ts,
			Subject:   parts[3],
		})
	}
	return commits, nil
}
