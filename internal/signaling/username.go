package signaling

import (
	"fmt"
	"math/rand/v2"
)

var usernameAdjectives = []string{
	"Brisk", "Swift", "Quiet", "Merry", "Wise", "Brave", "Clever", "Lucky",
}

var usernameNouns = []string{
	"Tiger", "Eagle", "Dolphin", "Phoenix", "Wolf", "Hawk", "Lion", "Bear",
}

// generateUsername picks a friendly adjective+noun+number name and
// bumps the number until taken reports it free.
func generateUsername(taken func(string) bool) string {
	adjective := usernameAdjectives[rand.IntN(len(usernameAdjectives))]
	noun := usernameNouns[rand.IntN(len(usernameNouns))]
	number := rand.IntN(100)

	username := fmt.Sprintf("%s%s%d", adjective, noun, number)
	for counter := 1; taken(username); counter++ {
		username = fmt.Sprintf("%s%s%d", adjective, noun, number+counter)
	}
	return username
}
