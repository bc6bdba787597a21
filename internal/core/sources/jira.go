package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/colonyops/aipm/internal/core/config"
	"github.com/colonyops/aipm/internal/core/horizon"
	"github.com/colonyops/aipm/internal/core/ticket"
)

// Jira fetches issues from a Jira project over the REST search API.
// Authentication is basic auth from JIRA_EMAIL and JIRA_API_TOKEN.
type Jira struct {
	client     *http.Client
	baseURL    string
	projectKey string
	name       string
	jql        string
	email      string
	token      string
}

// JiraOption configures a Jira source.
type JiraOption func(*Jira)

// WithJiraHTTPClient sets a custom HTTP client.
func WithJiraHTTPClient(c *http.Client) JiraOption {
	return func(j *Jira) { j.client = c }
}

// NewJira creates a Jira source from configuration. The filter, when set,
// is appended to the project JQL clause.
func NewJira(cfg config.SourceConfig, opts ...JiraOption) (*Jira, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("jira source: url is required")
	}
	if cfg.ProjectKey == "" {
		return nil, fmt.Errorf("jira source: project_key is required")
	}

	name := cfg.Name
	if name == "" {
		name = "jira"
	}

	j := &Jira{
		client:     &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		projectKey: cfg.ProjectKey,
		name:       name,
		jql:        cfg.Filter,
		email:      os.Getenv("JIRA_EMAIL"),
		token:      os.Getenv("JIRA_API_TOKEN"),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

func (j *Jira) Name() string { return j.name }

// Fetch searches the project's issues, most recently updated first.
func (j *Jira) Fetch(ctx context.Context) ([]ticket.Ticket, error) {
	jql := fmt.Sprintf("project = %s", j.projectKey)
	if j.jql != "" {
		jql += " AND " + j.jql
	}
	jql += " ORDER BY updated DESC"

	q := url.Values{}
	q.Set("jql", jql)
	q.Set("maxResults", "100")
	q.Set("fields", "summary,description,status,assignee,duedate,labels,priority")

	endpoint := fmt.Sprintf("%s/rest/api/2/search?%s", j.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if j.email != "" && j.token != "" {
		req.SetBasicAuth(j.email, j.token)
	}

	resp, err := j.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jira api error (status %d): %s", resp.StatusCode, string(body))
	}

	var result jiraSearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	tickets := make([]ticket.Ticket, 0, len(result.Issues))
	for _, iss := range result.Issues {
		tickets = append(tickets, j.toTicket(iss))
	}
	return tickets, nil
}

func (j *Jira) toTicket(iss jiraIssue) ticket.Ticket {
	t := ticket.Ticket{
		Key:         iss.Key,
		Title:       iss.Fields.Summary,
		Status:      jiraStatus(iss.Fields.Status.Category.Key),
		URL:         fmt.Sprintf("%s/browse/%s", j.baseURL, iss.Key),
		Due:         iss.Fields.DueDate,
		Labels:      iss.Fields.Labels,
		Description: iss.Fields.Description,
	}
	if iss.Fields.Assignee != nil {
		t.Assignee = iss.Fields.Assignee.DisplayName
	}
	if iss.Fields.Priority != nil {
		t.Priority = jiraPriority(iss.Fields.Priority.Name)
	}
	if t.Due != "" {
		t.Horizon = horizon.ClassifyDue(t.Due, time.Now())
	}
	return t
}

// jiraStatus maps Jira status categories onto ticket lifecycle states.
func jiraStatus(category string) ticket.Status {
	switch category {
	case "done":
		return ticket.StatusCompleted
	case "indeterminate":
		return ticket.StatusInProgress
	default:
		return ticket.StatusOpen
	}
}

func jiraPriority(name string) ticket.Priority {
	switch strings.ToLower(name) {
	case "highest", "blocker":
		return ticket.PriorityCritical
	case "high":
		return ticket.PriorityHigh
	case "medium":
		return ticket.PriorityMedium
	case "low", "lowest":
		return ticket.PriorityLow
	default:
		return ""
	}
}

// --- Jira wire format types ---

type jiraSearchResult struct {
	Issues []jiraIssue `json:"issues"`
}

type jiraIssue struct {
	Key    string     `json:"key"`
	Fields jiraFields `json:"fields"`
}

type jiraFields struct {
	Summary     string           `json:"summary"`
	Description string           `json:"description"`
	Status      jiraIssueStatus  `json:"status"`
	Assignee    *jiraUser        `json:"assignee"`
	DueDate     string           `json:"duedate"`
	Labels      []string         `json:"labels"`
	Priority    *jiraPriorityRef `json:"priority"`
}

type jiraIssueStatus struct {
	Category jiraStatusCategory `json:"statusCategory"`
}

type jiraStatusCategory struct {
	Key string `json:"key"`
}

type jiraUser struct {
	DisplayName string `json:"displayName"`
}

type jiraPriorityRef struct {
	Name string `json:"name"`
}
