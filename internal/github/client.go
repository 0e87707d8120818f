package github

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v59/github"
	"golang.org/x/oauth2"

	"github.com/tildaslashalef/prquiz/internal/config"
)

// Client represents a GitHub API client
type Client struct {
	client *github.Client
	config *config.GitHubConfig
}

// NewClient creates a new GitHub API client from the provided configuration.
// An empty token yields an unauthenticated client, which works for public
// repositories within the stricter anonymous rate limits.
func NewClient(cfg *config.GitHubConfig) *Client {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	var client *github.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.Token},
		)
		tc := oauth2.NewClient(context.Background(), ts)
		tc.Timeout = timeout
		client = github.NewClient(tc)
	} else {
		client = github.NewClient(nil)
	}

	if cfg.APIURL != "" && cfg.APIURL != "https://api.github.com" {
		if ec, err := client.WithEnterpriseURLs(cfg.APIURL, cfg.APIURL); err == nil {
			client = ec
		}
	}

	return &Client{
		client: client,
		config: cfg,
	}
}

// GetPullRequest gets a pull request by number
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error) {
	if owner == "" || repo == "" {
		return nil, nil, fmt.Errorf("owner and repo must be provided")
	}

	return c.client.PullRequests.Get(ctx, owner, repo, number)
}

// ListPullRequestFiles lists the files changed in a pull request
func (c *Client) ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]*github.CommitFile, *github.Response, error) {
	opts := &github.ListOptions{PerPage: 100}
	return c.client.PullRequests.ListFiles(ctx, owner, repo, number, opts)
}

// ListPullRequestCommits lists the commits in a pull request
func (c *Client) ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]*github.RepositoryCommit, *github.Response, error) {
	opts := &github.ListOptions{PerPage: 100}
	return c.client.PullRequests.ListCommits(ctx, owner, repo, number, opts)
}

// ListPullRequestReviews lists the reviews submitted on a pull request
func (c *Client) ListPullRequestReviews(ctx context.Context, owner, repo string, number int) ([]*github.PullRequestReview, *github.Response, error) {
	opts := &github.ListOptions{PerPage: 100}
	return c.client.PullRequests.ListReviews(ctx, owner, repo, number, opts)
}

// wrapAPIError converts a go-github error into an APIError carrying the
// HTTP status code when one is available.
func wrapAPIError(resp *github.Response, err error, subject string) error {
	if err == nil {
		return nil
	}

	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}

	if ghErr, ok := err.(*github.ErrorResponse); ok {
		if status == 0 && ghErr.Response != nil {
			status = ghErr.Response.StatusCode
		}
		return &APIError{
			StatusCode: status,
			Message:    fmt.Sprintf("failed to fetch %s", subject),
			Details:    ghErr.Message,
		}
	}

	if _, ok := err.(*github.RateLimitError); ok {
		if status == 0 {
			status = 403
		}
		return &APIError{
			StatusCode: status,
			Message:    fmt.Sprintf("failed to fetch %s", subject),
			Details:    "rate limit exceeded",
		}
	}

	if status != 0 {
		return &APIError{
			StatusCode: status,
			Message:    fmt.Sprintf("failed to fetch %s", subject),
			Details:    err.Error(),
		}
	}

	return fmt.Errorf("failed to fetch %s: %w", subject, err)
}
