package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{"https with .git", "https://github.com/owner/repo.git", "owner", "repo", false},
		{"https without .git", "https://github.com/owner/repo", "owner", "repo", false},
		{"ssh form", "git@github.com:owner/repo.git", "owner", "repo", false},
		{"trailing slash", "https://github.com/owner/repo/", "owner", "repo", false},
		{"empty", "", "", "", true},
		{"not github", "https://gitlab.com/owner/repo.git", "", "", true},
		{"missing repo", "https://github.com/owner", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseRemoteURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}
