package ulid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	id := Generate()
	assert.Len(t, id, 26)
	assert.True(t, IsValid(id))
}

func TestGenerateWithPrefix(t *testing.T) {
	id := QuizID()
	assert.True(t, strings.HasPrefix(id, PrefixQuiz+PrefixSeparator))
	assert.True(t, IsValid(id))
	assert.Len(t, Strip(id), 26)
}

func TestGenerateMonotonic(t *testing.T) {
	a := Generate()
	b := Generate()
	assert.NotEqual(t, a, b)
	assert.True(t, a < b, "ids should be lexicographically ordered")
}

func TestIsValid(t *testing.T) {
	assert.False(t, IsValid("not-a-ulid"))
	assert.False(t, IsValid(""))
	assert.True(t, IsValid(GenerateWithPrefix("fetch")))
}
