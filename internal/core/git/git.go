// Package git provides an abstraction for git operations.
package git

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for distinct repository failure modes.
var (
	// ErrRepoNotFound indicates the repository path does not exist.
	ErrRepoNotFound = errors.New("repository path not found")
	// ErrNotARepository indicates the path exists but is not a git repository.
	ErrNotARepository = errors.New("not a git repository")
	// ErrNoCommits indicates the repository has no commits yet.
	ErrNoCommits = errors.New("repository has no commits")
)

// Commit is one entry from a repository's history.
type Commit struct {
	Hash      string
	Author    string
	Timestamp time.Time
	Subject   string
}

// ShortHash returns the first 8 characters of the commit hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 8 {
		return c.Hash[:8]
	}
	return c.Hash
}

// Git defines the git operations needed by aipm.
type Git interface {
	// Log returns up to limit most recent commits in reverse-chronological
	// order, metadata only.
	Log(ctx context.Context, dir string, limit int) ([]Commit, error)
	// Show returns the full patch (stats + diff) for a single commit.
	Show(ctx context.Context, dir, hash string) (string, error)
	// StageFiles stages the given paths.
	StageFiles(ctx context.Context, dir string, paths ...string) error
	// Commit creates a commit with the given message.
	Commit(ctx context.Context, dir, message string) error
	// HasStagedChanges reports whether anything is currently staged.
	HasStagedChanges(ctx context.Context, dir string) (bool, error)
	// StagedDiff returns the diff of staged changes.
	StagedDiff(ctx context.Context, dir string) (string, error)
}
