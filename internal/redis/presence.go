package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	clientsSetKey   = "signaling:clients"
	clientKeyPrefix = "signaling:client:"
	presenceTTL     = 24 * time.Hour
)

// PresenceMirror mirrors the live roster into Redis so external
// tooling can see who is connected. The in-memory registry remains
// the source of truth; these keys are advisory and expire on their
// own if the process dies without cleaning up.
type PresenceMirror struct {
	client *redis.Client
}

func NewPresenceMirror(client *redis.Client) *PresenceMirror {
	return &PresenceMirror{client: client}
}

func (m *PresenceMirror) ClientConnected(ctx context.Context, id, username string) error {
	pipe := m.client.Pipeline()
	pipe.SAdd(ctx, clientsSetKey, id)
	pipe.Expire(ctx, clientsSetKey, presenceTTL)
	pipe.HSet(ctx, clientKeyPrefix+id,
		"username", username,
		"connectedAt", time.Now().UTC().Format(time.RFC3339),
	)
	pipe.Expire(ctx, clientKeyPrefix+id, presenceTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (m *PresenceMirror) ClientRenamed(ctx context.Context, id, username string) error {
	return m.client.HSet(ctx, clientKeyPrefix+id, "username", username).Err()
}

func (m *PresenceMirror) ClientDisconnected(ctx context.Context, id string) error {
	pipe := m.client.Pipeline()
	pipe.SRem(ctx, clientsSetKey, id)
	pipe.Del(ctx, clientKeyPrefix+id)
	_, err := pipe.Exec(ctx)
	return err
}
