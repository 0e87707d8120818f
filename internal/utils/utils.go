package utils

import (
	"strings"
	"time"

	"github.com/goombaio/namegenerator"
)

// GenerateQuizName creates a random, memorable quiz name like "wispy-dust"
func GenerateQuizName() string {
	seed := time.Now().UTC().UnixNano()
	nameGenerator := namegenerator.NewNameGenerator(seed)

	name := nameGenerator.Generate()

	// Some names might have underscores; convert to hyphens for consistency
	name = strings.ReplaceAll(name, "_", "-")

	return name
}
