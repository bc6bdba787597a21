// Package sources fetches issues from external trackers and normalizes
// them into tickets.
package sources

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/aipm/internal/core/config"
	"github.com/colonyops/aipm/internal/core/ticket"
)

// Source is the abstraction over external issue trackers.
type Source interface {
	// Name identifies the source; ticket files land under
	// tickets/<name>/.
	Name() string
	// Fetch returns the source's issues as normalized tickets.
	Fetch(ctx context.Context) ([]ticket.Ticket, error)
}

// FromConfig builds a Source from its configuration entry.
func FromConfig(cfg config.SourceConfig) (Source, error) {
	switch cfg.Type {
	case "github":
		return NewGitHub(cfg)
	case "jira":
		return NewJira(cfg)
	default:
		return nil, fmt.Errorf("unknown source type %q", cfg.Type)
	}
}

// SyncStats summarizes one sync pass over a source.
type SyncStats struct {
	Created int
	Updated int
	Paths   []string
}

// Sync fetches a source and upserts its tickets into the store. Remote
// fields (title, status, url, labels, assignee) follow the tracker; local
// planning fields (horizon, due, repo) survive updates so a sync never
// discards triage work.
func Sync(ctx context.Context, store *ticket.Store, src Source) (SyncStats, error) {
	var stats SyncStats

	fetched, err := src.Fetch(ctx)
	if err != nil {
		return stats, fmt.Errorf("fetch %s: %w", src.Name(), err)
	}

	for _, remote := range fetched {
		remote.Source = src.Name()

		existing, err := store.Load(remote.Key)
		switch {
		case err != nil && !errors.Is(err, ticket.ErrNotFound):
			return stats, fmt.Errorf("load %s: %w", remote.Key, err)
		case err == nil:
			existing.Title = remote.Title
			existing.Status = remote.Status
			existing.URL = remote.URL
			existing.Labels = remote.Labels
			existing.Assignee = remote.Assignee
			existing.Summary = remote.Summary
			if remote.Description != "" {
				existing.Description = remote.Description
			}
			remote = existing
			stats.Updated++
		default:
			stats.Created++
		}

		remote.Path = store.PathFor(remote)
		if err := store.Save(remote); err != nil {
			return stats, fmt.Errorf("save %s: %w", remote.Key, err)
		}
		stats.Paths = append(stats.Paths, remote.Path)
	}

	return stats, nil
}
