package signaling

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mossy-p/peercall/internal/models"
)

// Registry owns the live client set. It is plain data guarded by the
// hub lock: every method below assumes the caller holds it.
type Registry struct {
	clients map[string]*Client
}

func newRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// admit creates a client with a fresh id and a unique friendly
// username and inserts it into the registry in one step.
func (r *Registry) admit(conn Conn) *Client {
	client := &Client{
		ID:          uuid.New().String(),
		Username:    generateUsername(r.usernameTaken),
		ConnectedAt: time.Now().UTC(),
		conn:        conn,
	}
	r.clients[client.ID] = client
	return client
}

func (r *Registry) lookup(id string) (*Client, bool) {
	client, ok := r.clients[id]
	return client, ok
}

func (r *Registry) remove(id string) {
	delete(r.clients, id)
}

func (r *Registry) usernameTaken(username string) bool {
	for _, client := range r.clients {
		if client.Username == username {
			return true
		}
	}
	return false
}

// rename updates a client's username if no other live client holds it.
func (r *Registry) rename(id, newUsername string) error {
	for _, client := range r.clients {
		if client.Username == newUsername && client.ID != id {
			return ErrUsernameTaken
		}
	}
	client, ok := r.clients[id]
	if !ok {
		return ErrTargetNotFound
	}
	client.Username = newUsername
	return nil
}

// listOthers builds the roster for one client, excluding the client
// itself. Ordered by connect time so the list is stable across
// queries.
func (r *Registry) listOthers(requesterID string) []models.ClientSummary {
	summaries := make([]models.ClientSummary, 0, len(r.clients))
	for _, client := range r.clients {
		if client.ID == requesterID {
			continue
		}
		summaries = append(summaries, models.ClientSummary{
			ID:           client.ID,
			Username:     client.Username,
			IsInCall:     client.Presence.Busy(),
			VideoEnabled: client.Presence.VideoEnabled,
			AudioEnabled: client.Presence.AudioEnabled,
		})
	}
	slices.SortFunc(summaries, func(a, b models.ClientSummary) int {
		ca, cb := r.clients[a.ID], r.clients[b.ID]
		if !ca.ConnectedAt.Equal(cb.ConnectedAt) {
			return ca.ConnectedAt.Compare(cb.ConnectedAt)
		}
		return strings.Compare(a.ID, b.ID)
	})
	return summaries
}
