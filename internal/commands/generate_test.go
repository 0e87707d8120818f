package commands

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short title", truncate("short title", 40))
	assert.Equal(t, "multi line", truncate("multi\nline", 40))

	long := strings.Repeat("a", 50)
	got := truncate(long, 40)
	assert.Len(t, got, 40)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestTruncateMultibyte(t *testing.T) {
	// Cutting inside a multibyte sequence would produce invalid UTF-8.
	title := strings.Repeat("é", 30) + " ünïcodé PR title 日本語"
	got := truncate(title, 20)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 17)+"...", got)
	assert.Equal(t, 20, utf8.RuneCountInString(got))
}
