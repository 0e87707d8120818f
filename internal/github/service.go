package github

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-enry/go-enry/v2"
	gh "github.com/google/go-github/v59/github"
	"golang.org/x/sync/errgroup"

	"github.com/tildaslashalef/prquiz/internal/config"
	"github.com/tildaslashalef/prquiz/internal/loggy"
)

// PullRequestFetcher is the read interface the service needs from the API
// client. It exists so tests can substitute a fake.
type PullRequestFetcher interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*gh.PullRequest, *gh.Response, error)
	ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]*gh.CommitFile, *gh.Response, error)
	ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]*gh.RepositoryCommit, *gh.Response, error)
	ListPullRequestReviews(ctx context.Context, owner, repo string, number int) ([]*gh.PullRequestReview, *gh.Response, error)
}

// Service provides GitHub pull request retrieval
type Service struct {
	client PullRequestFetcher
	logger *loggy.Logger
}

// NewService creates a new GitHub service
func NewService(cfg *config.Config, logger *loggy.Logger) *Service {
	return &Service{
		client: NewClient(&cfg.GitHub),
		logger: logger,
	}
}

// NewServiceWithClient creates a service backed by an explicit fetcher
func NewServiceWithClient(client PullRequestFetcher, logger *loggy.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// ParsePullRequestURL extracts owner, repo and PR number from a GitHub pull
// request URL such as https://github.com/owner/repo/pull/42.
func ParsePullRequestURL(rawURL string) (owner, repo string, number int, err error) {
	if rawURL == "" {
		return "", "", 0, fmt.Errorf("empty pull request URL")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid pull request URL: %w", err)
	}

	host := u.Host
	if host == "" {
		return "", "", 0, fmt.Errorf("invalid pull request URL: %s", rawURL)
	}
	if host != "github.com" && host != "www.github.com" && !strings.HasSuffix(host, ".github.com") {
		return "", "", 0, fmt.Errorf("not a GitHub URL: %s", rawURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 4 || parts[2] != "pull" {
		return "", "", 0, fmt.Errorf("URL is not a pull request URL: %s", rawURL)
	}

	number, err = strconv.Atoi(parts[3])
	if err != nil || number <= 0 {
		return "", "", 0, fmt.Errorf("invalid pull request number in URL: %s", rawURL)
	}

	return parts[0], parts[1], number, nil
}

// FetchPullRequest retrieves the pull request metadata, changed files,
// commits and reviews concurrently and assembles them into a single record.
// The first failed read cancels the remaining ones.
func (s *Service) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequestRecord, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo must be provided")
	}
	if number <= 0 {
		return nil, fmt.Errorf("pull request number must be positive, got %d", number)
	}

	s.logger.Debug("fetching pull request",
		"owner", owner,
		"repo", repo,
		"number", number,
	)

	var (
		pr      *gh.PullRequest
		files   []*gh.CommitFile
		commits []*gh.RepositoryCommit
		reviews []*gh.PullRequestReview
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var resp *gh.Response
		var err error
		pr, resp, err = s.client.GetPullRequest(gctx, owner, repo, number)
		return wrapAPIError(resp, err, fmt.Sprintf("pull request %s/%s#%d", owner, repo, number))
	})

	g.Go(func() error {
		var resp *gh.Response
		var err error
		files, resp, err = s.client.ListPullRequestFiles(gctx, owner, repo, number)
		return wrapAPIError(resp, err, fmt.Sprintf("files for %s/%s#%d", owner, repo, number))
	})

	g.Go(func() error {
		var resp *gh.Response
		var err error
		commits, resp, err = s.client.ListPullRequestCommits(gctx, owner, repo, number)
		return wrapAPIError(resp, err, fmt.Sprintf("commits for %s/%s#%d", owner, repo, number))
	})

	g.Go(func() error {
		var resp *gh.Response
		var err error
		reviews, resp, err = s.client.ListPullRequestReviews(gctx, owner, repo, number)
		return wrapAPIError(resp, err, fmt.Sprintf("reviews for %s/%s#%d", owner, repo, number))
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	record := s.assembleRecord(owner, repo, number, pr, files, commits, reviews)

	s.logger.Info("fetched pull request",
		"owner", owner,
		"repo", repo,
		"number", number,
		"files", len(record.Files),
		"commits", len(record.Commits),
		"reviews", len(record.Reviews),
	)

	return record, nil
}

func (s *Service) assembleRecord(owner, repo string, number int, pr *gh.PullRequest, files []*gh.CommitFile, commits []*gh.RepositoryCommit, reviews []*gh.PullRequestReview) *PullRequestRecord {
	record := &PullRequestRecord{
		Owner:  owner,
		Repo:   repo,
		Number: number,
	}

	if pr != nil {
		record.Title = pr.GetTitle()
		record.Description = pr.GetBody()
		record.State = pr.GetState()
		record.Additions = pr.GetAdditions()
		record.Deletions = pr.GetDeletions()
		record.ChangedFiles = pr.GetChangedFiles()
		record.CreatedAt = pr.GetCreatedAt().Time
		if pr.User != nil {
			record.Author = pr.User.GetLogin()
		}
		if pr.Base != nil {
			record.BaseBranch = pr.Base.GetRef()
		}
		if pr.Head != nil {
			record.HeadBranch = pr.Head.GetRef()
		}
		if pr.MergedAt != nil {
			t := pr.MergedAt.Time
			record.MergedAt = &t
		}
	}

	record.Files = make([]FileChange, 0, len(files))
	for _, f := range files {
		record.Files = append(record.Files, FileChange{
			Filename:  f.GetFilename(),
			Status:    f.GetStatus(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
			Changes:   f.GetChanges(),
			Patch:     f.GetPatch(),
			Language:  detectLanguage(f.GetFilename()),
		})
	}

	record.Commits = make([]CommitInfo, 0, len(commits))
	for _, c := range commits {
		info := CommitInfo{SHA: c.GetSHA()}
		if c.Commit != nil {
			info.Message = c.Commit.GetMessage()
			if c.Commit.Author != nil {
				info.Author = c.Commit.Author.GetName()
			}
		}
		if c.Author != nil && c.Author.GetLogin() != "" {
			info.Author = c.Author.GetLogin()
		}
		record.Commits = append(record.Commits, info)
	}

	record.Reviews = make([]ReviewInfo, 0, len(reviews))
	for _, r := range reviews {
		info := ReviewInfo{
			State: r.GetState(),
			Body:  r.GetBody(),
		}
		if r.User != nil {
			info.Reviewer = r.User.GetLogin()
		}
		record.Reviews = append(record.Reviews, info)
	}

	return record
}

// detectLanguage resolves a display language for a changed file from its
// name and extension, falling back to "text" for unrecognized files.
func detectLanguage(filename string) string {
	if filename == "" {
		return "text"
	}

	if lang, ok := enry.GetLanguageByFilename(filepath.Base(filename)); ok && lang != "" {
		return strings.ToLower(lang)
	}
	if lang, ok := enry.GetLanguageByExtension(filename); ok && lang != "" {
		return strings.ToLower(lang)
	}
	return "text"
}
