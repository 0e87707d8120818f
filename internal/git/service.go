// Package git resolves repository details from a local working copy, so a
// bare pull request number can be expanded using the origin remote.
package git

import (
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"github.com/tildaslashalef/prquiz/internal/loggy"
)

// Service inspects local git repositories
type Service struct {
	logger *loggy.Logger
}

// NewService creates a new git service
func NewService(logger *loggy.Logger) *Service {
	return &Service{logger: logger}
}

// ResolveOriginRepo opens the repository at path and extracts the GitHub
// owner and repository name from the origin remote.
func (s *Service) ResolveOriginRepo(path string) (owner, repo string, err error) {
	r, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", "", fmt.Errorf("opening repository at %s: %w", path, err)
	}

	remote, err := r.Remote("origin")
	if err != nil {
		return "", "", fmt.Errorf("looking up origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", "", fmt.Errorf("origin remote has no URL")
	}

	owner, repo, err = ParseRemoteURL(urls[0])
	if err != nil {
		return "", "", err
	}

	s.logger.Debug("resolved origin remote", "url", urls[0], "owner", owner, "repo", repo)
	return owner, repo, nil
}

// ParseRemoteURL extracts owner and repo from a GitHub remote URL. Both
// HTTPS (https://github.com/owner/repo.git) and SSH
// (git@github.com:owner/repo.git) forms are supported.
func ParseRemoteURL(remoteURL string) (owner, repo string, err error) {
	if remoteURL == "" {
		return "", "", fmt.Errorf("empty remote URL")
	}

	url := strings.TrimSuffix(remoteURL, ".git")

	var rest string
	switch {
	case strings.Contains(url, "github.com/"):
		parts := strings.SplitN(url, "github.com/", 2)
		rest = parts[1]
	case strings.Contains(url, "github.com:"):
		parts := strings.SplitN(url, "github.com:", 2)
		rest = parts[1]
	default:
		return "", "", fmt.Errorf("unsupported remote URL format: %s", remoteURL)
	}

	segments := strings.Split(strings.Trim(rest, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return "", "", fmt.Errorf("could not extract owner/repo from remote URL: %s", remoteURL)
	}

	return segments[0], segments[1], nil
}
