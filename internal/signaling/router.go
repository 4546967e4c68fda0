package signaling

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/mossy-p/peercall/internal/models"
)

// HandleFrame dispatches one inbound frame for a connection. Bad
// input earns the sender an error frame and never takes the
// connection (or anyone else's state) down.
func (h *Hub) HandleFrame(clientID string, data []byte) {
	var env models.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("Unparseable frame from client %s: %v", clientID, err)
		h.mu.Lock()
		if client, ok := h.registry.lookup(clientID); ok {
			h.sendError(client, ErrInvalidFrame)
		}
		h.mu.Unlock()
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.registry.lookup(clientID)
	if !ok {
		// Frame raced the disconnect.
		return
	}

	switch env.Type {
	case models.TypeOffer, models.TypeAnswer, models.TypeICECandidate:
		h.relayFrame(client, &env)
	case models.TypeStartCall:
		h.handleStartCall(client, &env)
	case models.TypeAcceptCall:
		h.handleAcceptCall(client, &env)
	case models.TypeRejectCall:
		h.handleRejectCall(client, &env)
	case models.TypeEndCall:
		h.handleEndCall(client, &env)
	case models.TypeChatMessage:
		h.handleChatMessage(client, &env)
	case models.TypeGetChatHistory:
		h.handleGetChatHistory(client, &env)
	case models.TypeToggleVideo:
		h.handleToggleMedia(client, &env, true)
	case models.TypeToggleAudio:
		h.handleToggleMedia(client, &env, false)
	case models.TypeGetClients:
		h.handleGetClients(client)
	case models.TypeUpdateUsername:
		h.handleUpdateUsername(client, &env)
	default:
		log.Printf("Unknown frame type %q from client %s", env.Type, clientID)
		h.sendError(client, ErrInvalidFrame)
	}
}

// relayFrame forwards an offer, answer or ICE candidate to its target
// with the sender identity stamped on. The payload is never
// inspected. A missing target is expected (late candidates after a
// disconnect) and only logged.
func (h *Hub) relayFrame(sender *Client, env *models.Envelope) {
	if env.Target == "" {
		return
	}
	target, ok := h.registry.lookup(env.Target)
	if !ok {
		log.Printf("Relay %s from %s: target %s not connected", env.Type, sender.ID, env.Target)
		return
	}
	h.send(target, models.RelayFrame{
		Type:           env.Type,
		Target:         env.Target,
		Sender:         sender.ID,
		SenderUsername: sender.Username,
		CallID:         env.CallID,
		SDP:            env.SDP,
		Candidate:      env.Candidate,
		Timestamp:      now(),
	})
}

func (h *Hub) handleToggleMedia(client *Client, env *models.Envelope, video bool) {
	peerType := models.TypePeerAudioToggled
	ackType := models.TypeAudioToggled
	if video {
		peerType = models.TypePeerVideoToggled
		ackType = models.TypeVideoToggled
		client.Presence.VideoEnabled = env.Enabled
	} else {
		client.Presence.AudioEnabled = env.Enabled
	}

	if client.Presence.Busy() {
		if call, ok := h.calls.get(client.Presence.CallID); ok {
			if peer, ok := h.registry.lookup(call.otherParticipant(client.ID)); ok {
				h.send(peer, models.PeerMediaToggled{
					Type:      peerType,
					PeerID:    client.ID,
					Enabled:   env.Enabled,
					Timestamp: now(),
				})
			}
		}
	}

	h.send(client, models.MediaToggled{
		Type:      ackType,
		Enabled:   env.Enabled,
		Timestamp: now(),
	})
}

func (h *Hub) handleGetClients(client *Client) {
	h.send(client, models.ClientsList{
		Type:      models.TypeClientsList,
		Clients:   h.registry.listOthers(client.ID),
		Timestamp: now(),
	})
}

func (h *Hub) handleUpdateUsername(client *Client, env *models.Envelope) {
	newUsername := strings.TrimSpace(env.Username)
	if newUsername == "" || newUsername == client.Username {
		return
	}

	oldUsername := client.Username
	if err := h.registry.rename(client.ID, newUsername); err != nil {
		h.sendError(client, err)
		return
	}

	h.broadcast(models.UsernameChanged{
		Type:        models.TypeUsernameChanged,
		ClientID:    client.ID,
		OldUsername: oldUsername,
		NewUsername: newUsername,
		Timestamp:   now(),
	}, "")
	h.send(client, models.UsernameUpdated{
		Type:      models.TypeUsernameUpdated,
		Username:  newUsername,
		Timestamp: now(),
	})

	h.mirror("rename", func(ctx context.Context) error {
		return h.presence.ClientRenamed(ctx, client.ID, newUsername)
	})

	log.Printf("Client %s renamed %q -> %q", client.ID, oldUsername, newUsername)
}
