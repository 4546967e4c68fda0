package signaling

import (
	"log"

	"github.com/google/uuid"

	"github.com/mossy-p/peercall/internal/models"
)

// ChatRelay owns the per-call chat logs. A log exists only while its
// call does: the call manager purges it the moment the call is
// deleted. Guarded by the hub lock.
type ChatRelay struct {
	logs map[string][]models.ChatMessage
}

func newChatRelay() *ChatRelay {
	return &ChatRelay{logs: make(map[string][]models.ChatMessage)}
}

func (r *ChatRelay) append(msg models.ChatMessage) {
	r.logs[msg.CallID] = append(r.logs[msg.CallID], msg)
}

func (r *ChatRelay) history(callID string) []models.ChatMessage {
	return r.logs[callID]
}

func (r *ChatRelay) purge(callID string) {
	delete(r.logs, callID)
}

func (h *Hub) handleChatMessage(sender *Client, env *models.Envelope) {
	callID := env.CallID
	if callID == "" {
		callID = sender.Presence.CallID
	}
	if callID == "" {
		h.sendError(sender, ErrNotInCall)
		return
	}

	// Resolve the recipient through the call table, not the sender's
	// own callId, so nothing is relayed into a call that already
	// ended.
	call, ok := h.calls.get(callID)
	if !ok || !call.hasParticipant(sender.ID) {
		h.sendError(sender, ErrNotInCall)
		return
	}

	kind := env.MessageType
	if kind == "" {
		kind = "text"
	}
	msg := models.ChatMessage{
		ID:             "msg_" + uuid.New().String(),
		CallID:         call.ID,
		SenderID:       sender.ID,
		SenderUsername: sender.Username,
		Message:        env.Message,
		Kind:           kind,
		Timestamp:      now(),
	}
	h.chat.append(msg)

	if peer, ok := h.registry.lookup(call.otherParticipant(sender.ID)); ok {
		h.send(peer, models.ChatMessageFrame{
			Type:      models.TypeChatMessage,
			CallID:    call.ID,
			Message:   msg,
			Timestamp: now(),
		})
	}

	h.send(sender, models.ChatMessageFrame{
		Type:      models.TypeChatMessageSent,
		CallID:    call.ID,
		Message:   msg,
		Timestamp: now(),
	})

	log.Printf("Chat in call %s from %s (%d bytes)", call.ID, sender.Username, len(env.Message))
}

func (h *Hub) handleGetChatHistory(client *Client, env *models.Envelope) {
	messages := h.chat.history(env.CallID)
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	h.send(client, models.ChatHistory{
		Type:      models.TypeChatHistory,
		CallID:    env.CallID,
		Messages:  messages,
		Timestamp: now(),
	})
}
