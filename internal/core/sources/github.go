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
	"github.com/colonyops/aipm/internal/core/ticket"
)

// GitHub fetches issues from a GitHub repository over the REST API.
// Authentication uses the GITHUB_TOKEN environment variable when set;
// public repositories work without it.
type GitHub struct {
	client *http.Client
	apiURL string
	owner  string
	repo   string
	name   string
	labels []string
	token  string
}

// GitHubOption configures a GitHub source.
type GitHubOption func(*GitHub)

// WithGitHubHTTPClient sets a custom HTTP client.
func WithGitHubHTTPClient(c *http.Client) GitHubOption {
	return func(g *GitHub) { g.client = c }
}

// WithGitHubAPIURL sets a custom API base URL (GitHub Enterprise, tests).
func WithGitHubAPIURL(u string) GitHubOption {
	return func(g *GitHub) { g.apiURL = strings.TrimRight(u, "/") }
}

// NewGitHub creates a GitHub source from configuration. The configured URL
// must name a repository, either "owner/repo" or a full github.com URL.
// The filter, when set, is a comma-separated label list.
func NewGitHub(cfg config.SourceConfig, opts ...GitHubOption) (*GitHub, error) {
	owner, repo, err := parseGitHubRepo(cfg.URL)
	if err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		name = "github"
	}

	g := &GitHub{
		client: &http.Client{Timeout: 30 * time.Second},
		apiURL: "https://api.github.com",
		owner:  owner,
		repo:   repo,
		name:   name,
		token:  os.Getenv("GITHUB_TOKEN"),
	}
	if cfg.Filter != "" {
		for _, l := range strings.Split(cfg.Filter, ",") {
			if l = strings.TrimSpace(l); l != "" {
				g.labels = append(g.labels, l)
			}
		}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *GitHub) Name() string { return g.name }

// Fetch lists the repository's issues, open and closed, newest first.
// Pull requests are excluded.
func (g *GitHub) Fetch(ctx context.Context) ([]ticket.Ticket, error) {
	q := url.Values{}
	q.Set("state", "all")
	q.Set("per_page", "100")
	if len(g.labels) > 0 {
		q.Set("labels", strings.Join(g.labels, ","))
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/issues?%s", g.apiURL, g.owner, g.repo, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github api error (status %d): %s", resp.StatusCode, string(body))
	}

	var issues []githubIssue
	if err := json.Unmarshal(body, &issues); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	tickets := make([]ticket.Ticket, 0, len(issues))
	for _, iss := range issues {
		if iss.PullRequest != nil {
			continue
		}
		tickets = append(tickets, g.toTicket(iss))
	}
	return tickets, nil
}

func (g *GitHub) toTicket(iss githubIssue) ticket.Ticket {
	t := ticket.Ticket{
		Key:         fmt.Sprintf("GH-%d", iss.Number),
		Title:       iss.Title,
		Status:      ticket.StatusOpen,
		URL:         iss.HTMLURL,
		Description: iss.Body,
	}
	if iss.State == "closed" {
		t.Status = ticket.StatusCompleted
	}
	if iss.Assignee != nil {
		t.Assignee = iss.Assignee.Login
	}
	for _, l := range iss.Labels {
		t.Labels = append(t.Labels, l.Name)
		if p, ok := strings.CutPrefix(l.Name, "priority:"); ok {
			if pr := ticket.Priority(p); pr.IsValid() {
				t.Priority = pr
			}
		}
	}
	return t
}

// parseGitHubRepo accepts "owner/repo" or a github.com repository URL.
func parseGitHubRepo(raw string) (owner, repo string, err error) {
	path := raw
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", "", fmt.Errorf("parse github url: %w", err)
		}
		path = u.Path
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("github source url %q: want owner/repo", raw)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// --- GitHub wire format types ---

type githubIssue struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	State       string `json:"state"`
	HTMLURL     string `json:"html_url"`
	Body        string `json:"body"`
	Labels      []githubLabel    `json:"labels"`
	Assignee    *githubUser      `json:"assignee"`
	PullRequest *json.RawMessage `json:"pull_request"`
}

type githubLabel struct {
	Name string `json:"name"`
}

type githubUser struct {
	Login string `json:"login"`
}
