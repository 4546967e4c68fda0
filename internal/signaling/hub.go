package signaling

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/mossy-p/peercall/internal/models"
)

// PresenceStore mirrors the live roster into an external store, best
// effort. The in-memory registry stays authoritative; mirror failures
// are logged and never affect signaling.
type PresenceStore interface {
	ClientConnected(ctx context.Context, id, username string) error
	ClientRenamed(ctx context.Context, id, username string) error
	ClientDisconnected(ctx context.Context, id string) error
}

type Options struct {
	// Presence is an optional roster mirror (nil disables it).
	Presence PresenceStore

	// PendingCallTTL expires unanswered calls. Zero keeps them
	// pending until one side acts or disconnects.
	PendingCallTTL time.Duration
}

// Hub coordinates the client registry, the call table and the chat
// logs behind a single lock. Each connection feeds it one frame at a
// time; every handler runs as one uninterrupted critical section so
// read-then-write on shared state is atomic.
type Hub struct {
	mu       sync.Mutex
	registry *Registry
	calls    *CallManager
	chat     *ChatRelay

	presence   PresenceStore
	pendingTTL time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(opts Options) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		registry:   newRegistry(),
		calls:      newCallManager(),
		chat:       newChatRelay(),
		presence:   opts.Presence,
		pendingTTL: opts.PendingCallTTL,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run blocks until Stop, sweeping expired pending calls if a TTL is
// configured.
func (h *Hub) Run() {
	var tick <-chan time.Time
	if h.pendingTTL > 0 {
		interval := h.pendingTTL / 4
		if interval < time.Second {
			interval = time.Second
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case t := <-tick:
			h.sweepPendingCalls(t.UTC())
		case <-h.ctx.Done():
			log.Println("Signaling hub shutting down")
			return
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

// Admit registers a new connection: assigns identity, welcomes the
// client, pushes the current roster and announces the join to
// everyone else.
func (h *Hub) Admit(conn Conn) *Client {
	h.mu.Lock()
	client := h.registry.admit(conn)

	h.send(client, models.Welcome{
		Type:      models.TypeWelcome,
		ID:        client.ID,
		Username:  client.Username,
		Timestamp: now(),
	})
	h.send(client, models.ClientsList{
		Type:      models.TypeClientsList,
		Clients:   h.registry.listOthers(client.ID),
		Timestamp: now(),
	})
	h.broadcast(models.ClientEvent{
		Type:      models.TypeClientJoined,
		ClientID:  client.ID,
		Username:  client.Username,
		Timestamp: now(),
	}, client.ID)
	h.mu.Unlock()

	h.mirror("connect", func(ctx context.Context) error {
		return h.presence.ClientConnected(ctx, client.ID, client.Username)
	})

	log.Printf("Client %s connected as %q", client.ID, client.Username)
	return client
}

// Disconnect removes a client. Any call it was part of is torn down
// first, while the client is still resolvable, so the peer gets its
// call-ended notification.
func (h *Hub) Disconnect(clientID string) {
	h.mu.Lock()
	client, ok := h.registry.lookup(clientID)
	if !ok {
		h.mu.Unlock()
		return
	}

	if client.Presence.Busy() {
		h.endCallLocked(client, client.Presence.CallID, "peer-disconnected", false)
	}

	h.registry.remove(clientID)
	h.broadcast(models.ClientEvent{
		Type:      models.TypeClientLeft,
		ClientID:  client.ID,
		Username:  client.Username,
		Timestamp: now(),
	}, "")
	h.mu.Unlock()

	h.mirror("disconnect", func(ctx context.Context) error {
		return h.presence.ClientDisconnected(ctx, clientID)
	})

	log.Printf("Client %s (%q) disconnected", client.ID, client.Username)
}

// ClientCount reports the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.registry.clients)
}

// CallCount reports the number of pending plus active calls.
func (h *Hub) CallCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.calls.calls)
}

// send marshals a frame and queues it on one connection. Best effort:
// a full buffer or closed connection only logs.
func (h *Hub) send(client *Client, frame any) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("Failed to marshal frame for client %s: %v", client.ID, err)
		return
	}
	if !client.conn.Send(data) {
		log.Printf("Dropping frame for client %s: send buffer full", client.ID)
	}
}

func (h *Hub) sendError(client *Client, err error) {
	h.send(client, models.ErrorFrame{
		Type:      models.TypeError,
		Message:   err.Error(),
		Timestamp: now(),
	})
}

func (h *Hub) broadcast(frame any, excludeID string) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("Failed to marshal broadcast frame: %v", err)
		return
	}
	for id, client := range h.registry.clients {
		if id == excludeID {
			continue
		}
		if !client.conn.Send(data) {
			log.Printf("Dropping broadcast frame for client %s: send buffer full", id)
		}
	}
}

// mirror runs a presence-store update off the hot path. Never called
// with the hub lock held by the goroutine it spawns.
func (h *Hub) mirror(op string, fn func(context.Context) error) {
	if h.presence == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Printf("Presence mirror %s failed: %v", op, err)
		}
	}()
}

func now() time.Time {
	return time.Now().UTC()
}
