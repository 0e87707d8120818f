package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tildaslashalef/prquiz/internal/github"
	"github.com/tildaslashalef/prquiz/internal/llm"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{
			name: "github rate limit",
			err:  &github.APIError{StatusCode: 403, Message: "rate limit exceeded"},
			want: CategoryRateLimit,
		},
		{
			name: "github secondary rate limit",
			err:  &github.APIError{StatusCode: 429, Message: "too many requests"},
			want: CategoryRateLimit,
		},
		{
			name: "github not found",
			err:  &github.APIError{StatusCode: 404, Message: "failed to fetch pull request"},
			want: CategoryNotFound,
		},
		{
			name: "github bad credentials",
			err:  &github.APIError{StatusCode: 401, Message: "bad credentials"},
			want: CategoryCredentials,
		},
		{
			name: "github server error",
			err:  &github.APIError{StatusCode: 502, Message: "bad gateway"},
			want: CategoryGeneric,
		},
		{
			name: "wrapped github error",
			err:  fmt.Errorf("fetching: %w", &github.APIError{StatusCode: 404, Message: "missing"}),
			want: CategoryNotFound,
		},
		{
			name: "provider bad key",
			err:  &llm.ProviderError{Provider: "openai", Message: "chat completion request failed", Details: "Incorrect API key provided"},
			want: CategoryCredentials,
		},
		{
			name: "provider quota",
			err:  &llm.ProviderError{Provider: "openai", Message: "chat completion request failed", Details: "You exceeded your current quota"},
			want: CategoryRateLimit,
		},
		{
			name: "provider connection refused",
			err:  &llm.ProviderError{Provider: "ollama", Message: "endpoint unreachable", Details: "dial tcp 127.0.0.1:11434: connect: connection refused"},
			want: CategoryNetwork,
		},
		{
			name: "provider empty response",
			err:  &llm.ProviderError{Provider: "gemini", Message: "empty generation response"},
			want: CategoryGeneric,
		},
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: CategoryNetwork,
		},
		{
			name: "plain validation error",
			err:  errors.New("pull request reference is incomplete"),
			want: CategoryGeneric,
		},
		{
			name: "nil error",
			err:  nil,
			want: CategoryGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestGuidanceDistinct(t *testing.T) {
	categories := []ErrorCategory{
		CategoryNetwork, CategoryCredentials, CategoryRateLimit, CategoryNotFound, CategoryGeneric,
	}

	seen := make(map[string]struct{})
	for _, c := range categories {
		g := c.Guidance()
		assert.NotEmpty(t, g)
		_, dup := seen[g]
		assert.False(t, dup, "guidance for %s duplicates another category", c)
		seen[g] = struct{}{}
	}
}
