// Package ulid provides prefixed, lexicographically sortable identifiers for
// application entities on top of github.com/oklog/ulid/v2.
package ulid

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Prefixes for the different entity kinds.
const (
	PrefixQuiz = "quiz"

	// PrefixSeparator is used to separate the prefix from the ULID
	PrefixSeparator = "-"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// Generate creates a new ULID string with the current timestamp.
func Generate() string {
	entropyLock.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	entropyLock.Unlock()
	return id.String()
}

// GenerateWithPrefix creates a new ULID with a prefix providing context about
// what the ID represents (e.g. "quiz-01AN4Z07BY79KA1307SR9X4MV3").
func GenerateWithPrefix(prefix string) string {
	return prefix + PrefixSeparator + Generate()
}

// QuizID generates an ID for a quiz.
func QuizID() string {
	return GenerateWithPrefix(PrefixQuiz)
}

// Strip removes a known prefix from an ID, returning the raw ULID part.
func Strip(id string) string {
	if i := strings.Index(id, PrefixSeparator); i >= 0 {
		return id[i+1:]
	}
	return id
}

// IsValid reports whether id is a valid (optionally prefixed) ULID.
func IsValid(id string) bool {
	_, err := ulid.Parse(Strip(id))
	return err == nil
}
