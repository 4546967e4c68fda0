package signaling

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUsernameFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z][a-z]+[A-Z][a-z]+\d+$`)
	for i := 0; i < 20; i++ {
		username := generateUsername(func(string) bool { return false })
		assert.Regexp(t, pattern, username)
	}
}

func TestGenerateUsernameAvoidsCollisions(t *testing.T) {
	taken := make(map[string]bool)
	for i := 0; i < 200; i++ {
		username := generateUsername(func(name string) bool { return taken[name] })
		assert.False(t, taken[username], "generated a taken username %s", username)
		taken[username] = true
	}
}
