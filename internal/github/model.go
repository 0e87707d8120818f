package github

import (
	"fmt"
	"time"
)

// PullRequestRecord is the normalized snapshot of a pull request used for
// quiz generation. It is assembled from four separate API reads.
type PullRequestRecord struct {
	Owner        string       `json:"owner"`
	Repo         string       `json:"repo"`
	Number       int          `json:"number"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Author       string       `json:"author"`
	State        string       `json:"state"`
	BaseBranch   string       `json:"base_branch"`
	HeadBranch   string       `json:"head_branch"`
	Additions    int          `json:"additions"`
	Deletions    int          `json:"deletions"`
	ChangedFiles int          `json:"changed_files"`
	CreatedAt    time.Time    `json:"created_at"`
	MergedAt     *time.Time   `json:"merged_at,omitempty"`
	Files        []FileChange `json:"files"`
	Commits      []CommitInfo `json:"commits"`
	Reviews      []ReviewInfo `json:"reviews"`
}

// FileChange describes a single changed file in a pull request.
type FileChange struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Patch     string `json:"patch,omitempty"`
	Language  string `json:"language,omitempty"`
}

// CommitInfo describes a commit that is part of a pull request.
type CommitInfo struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author"`
}

// ReviewInfo describes a review submitted on a pull request.
type ReviewInfo struct {
	Reviewer string `json:"reviewer"`
	State    string `json:"state"`
	Body     string `json:"body,omitempty"`
}

// APIError represents an error returned by the GitHub API, carrying the
// HTTP status so callers can distinguish rate limiting from missing
// resources.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("github api error (status %d): %s - %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("github api error (status %d): %s", e.StatusCode, e.Message)
}

// IsRateLimit reports whether the error was caused by rate limiting.
func (e *APIError) IsRateLimit() bool {
	return e.StatusCode == 403 || e.StatusCode == 429
}

// IsNotFound reports whether the requested resource does not exist or is
// not visible to the authenticated user.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}
