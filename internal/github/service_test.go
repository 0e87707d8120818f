package github

import (
	"context"
	"testing"
	"time"

	gh "github.com/google/go-github/v59/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/prquiz/internal/loggy"
)

type fakeFetcher struct {
	pr      *gh.PullRequest
	files   []*gh.CommitFile
	commits []*gh.RepositoryCommit
	reviews []*gh.PullRequestReview

	prErr      error
	filesErr   error
	commitsErr error
	reviewsErr error
}

func (f *fakeFetcher) GetPullRequest(ctx context.Context, owner, repo string, number int) (*gh.PullRequest, *gh.Response, error) {
	return f.pr, nil, f.prErr
}

func (f *fakeFetcher) ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]*gh.CommitFile, *gh.Response, error) {
	return f.files, nil, f.filesErr
}

func (f *fakeFetcher) ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]*gh.RepositoryCommit, *gh.Response, error) {
	return f.commits, nil, f.commitsErr
}

func (f *fakeFetcher) ListPullRequestReviews(ctx context.Context, owner, repo string, number int) ([]*gh.PullRequestReview, *gh.Response, error) {
	return f.reviews, nil, f.reviewsErr
}

func TestParsePullRequestURL(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantOwner  string
		wantRepo   string
		wantNumber int
		wantErr    bool
	}{
		{
			name:       "standard url",
			url:        "https://github.com/golang/go/pull/12345",
			wantOwner:  "golang",
			wantRepo:   "go",
			wantNumber: 12345,
		},
		{
			name:       "www host",
			url:        "https://www.github.com/owner/repo/pull/7",
			wantOwner:  "owner",
			wantRepo:   "repo",
			wantNumber: 7,
		},
		{
			name:       "trailing path segments",
			url:        "https://github.com/owner/repo/pull/7/files",
			wantOwner:  "owner",
			wantRepo:   "repo",
			wantNumber: 7,
		},
		{
			name:    "empty url",
			url:     "",
			wantErr: true,
		},
		{
			name:    "not github",
			url:     "https://gitlab.com/owner/repo/pull/7",
			wantErr: true,
		},
		{
			name:    "issue url",
			url:     "https://github.com/owner/repo/issues/7",
			wantErr: true,
		},
		{
			name:    "missing number",
			url:     "https://github.com/owner/repo/pull",
			wantErr: true,
		},
		{
			name:    "non numeric number",
			url:     "https://github.com/owner/repo/pull/abc",
			wantErr: true,
		},
		{
			name:    "negative number",
			url:     "https://github.com/owner/repo/pull/-3",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, number, err := ParsePullRequestURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
			assert.Equal(t, tt.wantNumber, number)
		})
	}
}

func TestFetchPullRequest(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{
		pr: &gh.PullRequest{
			Title:        gh.String("Add request caching"),
			Body:         gh.String("Caches repeated fetches"),
			State:        gh.String("open"),
			Additions:    gh.Int(120),
			Deletions:    gh.Int(30),
			ChangedFiles: gh.Int(3),
			CreatedAt:    &gh.Timestamp{Time: created},
			User:         &gh.User{Login: gh.String("alice")},
			Base:         &gh.PullRequestBranch{Ref: gh.String("main")},
			Head:         &gh.PullRequestBranch{Ref: gh.String("feature/cache")},
		},
		files: []*gh.CommitFile{
			{
				Filename:  gh.String("internal/cache/cache.go"),
				Status:    gh.String("added"),
				Additions: gh.Int(100),
				Deletions: gh.Int(0),
				Changes:   gh.Int(100),
				Patch:     gh.String("@@ -0,0 +1,100 @@"),
			},
			{
				Filename: gh.String("README.md"),
				Status:   gh.String("modified"),
				Changes:  gh.Int(10),
			},
		},
		commits: []*gh.RepositoryCommit{
			{
				SHA: gh.String("abc123"),
				Commit: &gh.Commit{
					Message: gh.String("add cache layer"),
					Author:  &gh.CommitAuthor{Name: gh.String("Alice")},
				},
				Author: &gh.User{Login: gh.String("alice")},
			},
		},
		reviews: []*gh.PullRequestReview{
			{
				State: gh.String("APPROVED"),
				User:  &gh.User{Login: gh.String("bob")},
			},
		},
	}

	svc := NewServiceWithClient(fetcher, loggy.NewNoopLogger())
	record, err := svc.FetchPullRequest(context.Background(), "owner", "repo", 42)
	require.NoError(t, err)

	assert.Equal(t, "owner", record.Owner)
	assert.Equal(t, "repo", record.Repo)
	assert.Equal(t, 42, record.Number)
	assert.Equal(t, "Add request caching", record.Title)
	assert.Equal(t, "alice", record.Author)
	assert.Equal(t, "main", record.BaseBranch)
	assert.Equal(t, "feature/cache", record.HeadBranch)
	assert.Equal(t, created, record.CreatedAt)
	assert.Nil(t, record.MergedAt)

	require.Len(t, record.Files, 2)
	assert.Equal(t, "go", record.Files[0].Language)
	assert.Equal(t, "markdown", record.Files[1].Language)

	require.Len(t, record.Commits, 1)
	assert.Equal(t, "alice", record.Commits[0].Author)
	assert.Equal(t, "add cache layer", record.Commits[0].Message)

	require.Len(t, record.Reviews, 1)
	assert.Equal(t, "bob", record.Reviews[0].Reviewer)
	assert.Equal(t, "APPROVED", record.Reviews[0].State)
}

func TestFetchPullRequestFailsFast(t *testing.T) {
	fetcher := &fakeFetcher{
		filesErr: &APIError{StatusCode: 404, Message: "failed to fetch files"},
	}

	svc := NewServiceWithClient(fetcher, loggy.NewNoopLogger())
	record, err := svc.FetchPullRequest(context.Background(), "owner", "repo", 42)
	require.Error(t, err)
	assert.Nil(t, record)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
	assert.False(t, apiErr.IsRateLimit())
}

func TestFetchPullRequestValidatesInput(t *testing.T) {
	svc := NewServiceWithClient(&fakeFetcher{}, loggy.NewNoopLogger())

	_, err := svc.FetchPullRequest(context.Background(), "", "repo", 1)
	assert.Error(t, err)

	_, err = svc.FetchPullRequest(context.Background(), "owner", "repo", 0)
	assert.Error(t, err)
}

func TestAPIErrorClassification(t *testing.T) {
	assert.True(t, (&APIError{StatusCode: 403}).IsRateLimit())
	assert.True(t, (&APIError{StatusCode: 429}).IsRateLimit())
	assert.False(t, (&APIError{StatusCode: 404}).IsRateLimit())
	assert.True(t, (&APIError{StatusCode: 404}).IsNotFound())
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "go", detectLanguage("main.go"))
	assert.Equal(t, "python", detectLanguage("scripts/run.py"))
	assert.Equal(t, "text", detectLanguage("LICENSE.weird-ext"))
	assert.Equal(t, "text", detectLanguage(""))
}
