package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/colonyops/aipm/internal/core/config"
	"github.com/colonyops/aipm/internal/core/ticket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitHubRepo(t *testing.T) {
	tests := []struct {
		in    string
		owner string
		repo  string
		err   bool
	}{
		{in: "colonyops/aipm", owner: "colonyops", repo: "aipm"},
		{in: "https://github.com/colonyops/aipm", owner: "colonyops", repo: "aipm"},
		{in: "https://github.com/colonyops/aipm.git", owner: "colonyops", repo: "aipm"},
		{in: "just-a-name", err: true},
		{in: "a/b/c", err: true},
		{in: "", err: true},
	}

	for _, tt := range tests {
		owner, repo, err := parseGitHubRepo(tt.in)
		if tt.err {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.owner, owner)
		assert.Equal(t, tt.repo, repo)
	}
}

func TestGitHub_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/colonyops/aipm/issues", r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		assert.Equal(t, "bug", r.URL.Query().Get("labels"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{
				"number": 12,
				"title": "Login form rejects valid passwords",
				"state": "open",
				"html_url": "https://github.com/colonyops/aipm/issues/12",
				"body": "Reported by support.",
				"labels": [{"name": "bug"}, {"name": "priority:high"}],
				"assignee": {"login": "devon"}
			},
			{
				"number": 13,
				"title": "Fix typo",
				"state": "closed",
				"html_url": "https://github.com/colonyops/aipm/pull/13",
				"pull_request": {}
			},
			{
				"number": 14,
				"title": "Stale cache entries",
				"state": "closed",
				"html_url": "https://github.com/colonyops/aipm/issues/14"
			}
		]`))
	}))
	defer srv.Close()

	src, err := NewGitHub(
		config.SourceConfig{Type: "github", URL: "colonyops/aipm", Filter: "bug"},
		WithGitHubAPIURL(srv.URL),
		WithGitHubHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	assert.Equal(t, "github", src.Name())

	got, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2, "pull requests are excluded")

	first := got[0]
	assert.Equal(t, "GH-12", first.Key)
	assert.Equal(t, "Login form rejects valid passwords", first.Title)
	assert.Equal(t, ticket.StatusOpen, first.Status)
	assert.Equal(t, ticket.PriorityHigh, first.Priority)
	assert.Equal(t, "devon", first.Assignee)
	assert.Equal(t, []string{"bug", "priority:high"}, first.Labels)
	assert.Equal(t, "Reported by support.", first.Description)

	assert.Equal(t, "GH-14", got[1].Key)
	assert.Equal(t, ticket.StatusCompleted, got[1].Status)
}

func TestGitHub_FetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	src, err := NewGitHub(
		config.SourceConfig{Type: "github", URL: "colonyops/missing"},
		WithGitHubAPIURL(srv.URL),
	)
	require.NoError(t, err)

	_, err = src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestGitHub_NamedSource(t *testing.T) {
	src, err := NewGitHub(config.SourceConfig{Type: "github", URL: "colonyops/aipm", Name: "upstream"})
	require.NoError(t, err)
	assert.Equal(t, "upstream", src.Name())
}
