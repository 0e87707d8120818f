package generator

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/tildaslashalef/prquiz/internal/github"
	"github.com/tildaslashalef/prquiz/internal/llm"
)

// ErrorCategory buckets heterogeneous pipeline failures into the guidance
// categories the UI presents.
type ErrorCategory string

// Error categories
const (
	CategoryNetwork     ErrorCategory = "network"
	CategoryCredentials ErrorCategory = "credentials"
	CategoryRateLimit   ErrorCategory = "rate-limit"
	CategoryNotFound    ErrorCategory = "not-found"
	CategoryGeneric     ErrorCategory = "generic"
)

// Guidance returns a user-facing hint for the category.
func (c ErrorCategory) Guidance() string {
	switch c {
	case CategoryNetwork:
		return "Check your network connection and that the configured endpoints are reachable."
	case CategoryCredentials:
		return "Check your API credentials (GitHub token or provider API key)."
	case CategoryRateLimit:
		return "You are being rate limited. Wait a few minutes and try again."
	case CategoryNotFound:
		return "The pull request could not be found. Check the URL and your access to the repository."
	default:
		return "Something went wrong. Re-run with --verbose for details."
	}
}

// ClassifyError maps a pipeline error onto a guidance category. Typed
// errors are inspected first; the rest is keyword matching, since the
// underlying errors are heterogeneous strings.
func ClassifyError(err error) ErrorCategory {
	if err == nil {
		return CategoryGeneric
	}

	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsRateLimit():
			return CategoryRateLimit
		case apiErr.IsNotFound():
			return CategoryNotFound
		case apiErr.StatusCode == 401:
			return CategoryCredentials
		default:
			return CategoryGeneric
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return CategoryNetwork
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryNetwork
	}

	msg := strings.ToLower(err.Error())

	var provErr *llm.ProviderError
	if errors.As(err, &provErr) {
		switch {
		case strings.Contains(msg, "api key") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "401"):
			return CategoryCredentials
		case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429") || strings.Contains(msg, "quota"):
			return CategoryRateLimit
		case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") || strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
			return CategoryNetwork
		default:
			return CategoryGeneric
		}
	}

	switch {
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		return CategoryRateLimit
	case strings.Contains(msg, "not found") || strings.Contains(msg, "404"):
		return CategoryNotFound
	case strings.Contains(msg, "credentials") || strings.Contains(msg, "api key") || strings.Contains(msg, "token") || strings.Contains(msg, "unauthorized"):
		return CategoryCredentials
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") || strings.Contains(msg, "network") || strings.Contains(msg, "timeout"):
		return CategoryNetwork
	default:
		return CategoryGeneric
	}
}
