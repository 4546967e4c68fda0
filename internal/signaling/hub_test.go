package signaling

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records every frame queued on it, decoded for assertions.
type fakeConn struct {
	mu     sync.Mutex
	frames []map[string]any
	full   bool
}

func (c *fakeConn) Send(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return false
	}
	var frame map[string]any
	if err := json.Unmarshal(data, &frame); err != nil {
		panic("fakeConn: bad frame: " + err.Error())
	}
	c.frames = append(c.frames, frame)
	return true
}

func (c *fakeConn) all() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, len(c.frames))
	copy(out, c.frames)
	return out
}

func (c *fakeConn) byType(frameType string) []map[string]any {
	var out []map[string]any
	for _, frame := range c.all() {
		if frame["type"] == frameType {
			out = append(out, frame)
		}
	}
	return out
}

func (c *fakeConn) last(t *testing.T, frameType string) map[string]any {
	t.Helper()
	frames := c.byType(frameType)
	require.NotEmpty(t, frames, "expected a %q frame", frameType)
	return frames[len(frames)-1]
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

func newTestHub() *Hub {
	return NewHub(Options{})
}

func frame(t *testing.T, fields map[string]any) []byte {
	t.Helper()
	data, err := json.Marshal(fields)
	require.NoError(t, err)
	return data
}

// admitTwo wires up the usual caller/callee pair.
func admitTwo(t *testing.T, hub *Hub) (a, b *Client, connA, connB *fakeConn) {
	t.Helper()
	connA, connB = &fakeConn{}, &fakeConn{}
	a = hub.Admit(connA)
	b = hub.Admit(connB)
	connA.reset()
	connB.reset()
	return a, b, connA, connB
}

func TestAdmitSendsWelcomeAndRoster(t *testing.T) {
	hub := newTestHub()
	conn := &fakeConn{}

	client := hub.Admit(conn)

	welcome := conn.last(t, "welcome")
	assert.Equal(t, client.ID, welcome["id"])
	assert.Equal(t, client.Username, welcome["username"])
	assert.NotEmpty(t, welcome["timestamp"])

	roster := conn.last(t, "clients-list")
	assert.Empty(t, roster["clients"])
}

func TestAdmitBroadcastsClientJoined(t *testing.T) {
	hub := newTestHub()
	connA := &fakeConn{}
	hub.Admit(connA)

	connB := &fakeConn{}
	clientB := hub.Admit(connB)

	joined := connA.last(t, "client-joined")
	assert.Equal(t, clientB.ID, joined["clientId"])
	assert.Equal(t, clientB.Username, joined["username"])

	// The joining client itself only gets welcome and the roster.
	assert.Empty(t, connB.byType("client-joined"))
}

func TestAdmitRosterListsExistingClients(t *testing.T) {
	hub := newTestHub()
	connA := &fakeConn{}
	clientA := hub.Admit(connA)

	connB := &fakeConn{}
	hub.Admit(connB)

	roster := connB.last(t, "clients-list")
	clients := roster["clients"].([]any)
	require.Len(t, clients, 1)
	entry := clients[0].(map[string]any)
	assert.Equal(t, clientA.ID, entry["id"])
	assert.Equal(t, clientA.Username, entry["username"])
	assert.Equal(t, false, entry["isInCall"])
}

func TestDisconnectNotifiesRemainingClients(t *testing.T) {
	hub := newTestHub()
	a, b, _, connB := admitTwo(t, hub)

	hub.Disconnect(a.ID)

	left := connB.last(t, "client-left")
	assert.Equal(t, a.ID, left["clientId"])
	assert.Equal(t, a.Username, left["username"])
	assert.Equal(t, 1, hub.ClientCount())

	_, ok := hub.registry.lookup(a.ID)
	assert.False(t, ok, "removed client must not resolve")
	_, ok = hub.registry.lookup(b.ID)
	assert.True(t, ok)
}

func TestDisconnectUnknownClientIsNoop(t *testing.T) {
	hub := newTestHub()
	_, _, connA, connB := admitTwo(t, hub)

	hub.Disconnect("no-such-client")

	assert.Empty(t, connA.all())
	assert.Empty(t, connB.all())
	assert.Equal(t, 2, hub.ClientCount())
}

func TestUniqueIdentityAcrossClients(t *testing.T) {
	hub := newTestHub()

	ids := make(map[string]bool)
	usernames := make(map[string]bool)
	for i := 0; i < 50; i++ {
		client := hub.Admit(&fakeConn{})
		assert.False(t, ids[client.ID], "duplicate id %s", client.ID)
		assert.False(t, usernames[client.Username], "duplicate username %s", client.Username)
		ids[client.ID] = true
		usernames[client.Username] = true
	}
}

// fakePresenceStore records mirror calls so the async wiring can be
// asserted on.
type fakePresenceStore struct {
	calls chan string
}

func (s *fakePresenceStore) ClientConnected(_ context.Context, id, _ string) error {
	s.calls <- "connect:" + id
	return nil
}

func (s *fakePresenceStore) ClientRenamed(_ context.Context, id, username string) error {
	s.calls <- "rename:" + id + ":" + username
	return nil
}

func (s *fakePresenceStore) ClientDisconnected(_ context.Context, id string) error {
	s.calls <- "disconnect:" + id
	return nil
}

func waitForMirrorCall(t *testing.T, calls chan string) string {
	t.Helper()
	select {
	case call := <-calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for presence mirror call")
		return ""
	}
}

func TestPresenceMirrorFollowsLifecycle(t *testing.T) {
	store := &fakePresenceStore{calls: make(chan string, 8)}
	hub := NewHub(Options{Presence: store})

	conn := &fakeConn{}
	client := hub.Admit(conn)
	assert.Equal(t, "connect:"+client.ID, waitForMirrorCall(t, store.calls))

	hub.HandleFrame(client.ID, frame(t, map[string]any{
		"type":     "update-username",
		"username": "MirroredName",
	}))
	assert.Equal(t, "rename:"+client.ID+":MirroredName", waitForMirrorCall(t, store.calls))

	hub.Disconnect(client.ID)
	assert.Equal(t, "disconnect:"+client.ID, waitForMirrorCall(t, store.calls))
}
