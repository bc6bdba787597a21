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

func TestNewJira_Validation(t *testing.T) {
	_, err := NewJira(config.SourceConfig{Type: "jira", ProjectKey: "AIPM"})
	assert.Error(t, err, "url required")

	_, err = NewJira(config.SourceConfig{Type: "jira", URL: "https://example.atlassian.net"})
	assert.Error(t, err, "project_key required")
}

func TestJira_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/search", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("jql"), "project = AIPM")
		assert.Contains(t, r.URL.Query().Get("jql"), "labels = backend")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"issues": [
				{
					"key": "AIPM-7",
					"fields": {
						"summary": "Rotate API keys",
						"description": "Quarterly rotation.",
						"status": {"statusCategory": {"key": "indeterminate"}},
						"assignee": {"displayName": "Sam Park"},
						"duedate": "2099-12-31",
						"labels": ["backend"],
						"priority": {"name": "Highest"}
					}
				},
				{
					"key": "AIPM-8",
					"fields": {
						"summary": "Archive old boards",
						"status": {"statusCategory": {"key": "done"}}
					}
				}
			]
		}`))
	}))
	defer srv.Close()

	src, err := NewJira(
		config.SourceConfig{Type: "jira", URL: srv.URL, ProjectKey: "AIPM", Filter: "labels = backend"},
		WithJiraHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	assert.Equal(t, "jira", src.Name())

	got, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "AIPM-7", first.Key)
	assert.Equal(t, "Rotate API keys", first.Title)
	assert.Equal(t, ticket.StatusInProgress, first.Status)
	assert.Equal(t, ticket.PriorityCritical, first.Priority)
	assert.Equal(t, "Sam Park", first.Assignee)
	assert.Equal(t, "2099-12-31", first.Due)
	assert.Equal(t, srv.URL+"/browse/AIPM-7", first.URL)
	assert.NotEmpty(t, first.Horizon, "due date classifies a horizon")

	assert.Equal(t, "AIPM-8", got[1].Key)
	assert.Equal(t, ticket.StatusCompleted, got[1].Status)
	assert.Empty(t, got[1].Priority)
}

func TestJiraStatus(t *testing.T) {
	assert.Equal(t, ticket.StatusCompleted, jiraStatus("done"))
	assert.Equal(t, ticket.StatusInProgress, jiraStatus("indeterminate"))
	assert.Equal(t, ticket.StatusOpen, jiraStatus("new"))
	assert.Equal(t, ticket.StatusOpen, jiraStatus(""))
}
