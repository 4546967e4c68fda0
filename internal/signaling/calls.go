package signaling

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mossy-p/peercall/internal/models"
)

// CallStatus is the lifecycle state of a call. Ended calls are
// deleted from the table, never archived.
type CallStatus string

const (
	CallPending CallStatus = "pending"
	CallActive  CallStatus = "active"
)

// Call is one pending or active two-party session. Participants are
// tracked by id only and re-resolved through the registry at use
// time.
type Call struct {
	ID          string
	InitiatorID string
	TargetID    string
	Status      CallStatus
	CreatedAt   time.Time
	StartedAt   time.Time
}

func (c *Call) hasParticipant(id string) bool {
	return id == c.InitiatorID || id == c.TargetID
}

func (c *Call) otherParticipant(id string) string {
	if id == c.InitiatorID {
		return c.TargetID
	}
	return c.InitiatorID
}

// CallManager owns the call table. Guarded by the hub lock.
type CallManager struct {
	calls map[string]*Call
}

func newCallManager() *CallManager {
	return &CallManager{calls: make(map[string]*Call)}
}

func (m *CallManager) create(initiatorID, targetID string) *Call {
	call := &Call{
		ID:          "call_" + uuid.New().String(),
		InitiatorID: initiatorID,
		TargetID:    targetID,
		Status:      CallPending,
		CreatedAt:   time.Now().UTC(),
	}
	m.calls[call.ID] = call
	return call
}

func (m *CallManager) get(id string) (*Call, bool) {
	call, ok := m.calls[id]
	return call, ok
}

func (m *CallManager) delete(id string) {
	delete(m.calls, id)
}

func (m *CallManager) expiredPending(ttl time.Duration, now time.Time) []*Call {
	var expired []*Call
	for _, call := range m.calls {
		if call.Status == CallPending && now.Sub(call.CreatedAt) >= ttl {
			expired = append(expired, call)
		}
	}
	return expired
}

// Call lifecycle handlers. All run with the hub lock held, so a
// read-then-write on the call table or a client's presence is atomic
// with respect to every other handler.

func (h *Hub) handleStartCall(caller *Client, env *models.Envelope) {
	target, ok := h.registry.lookup(env.Target)
	if !ok {
		h.sendError(caller, ErrTargetNotFound)
		return
	}
	if target.Presence.Busy() {
		h.sendError(caller, ErrTargetBusy)
		return
	}
	if caller.Presence.Busy() {
		h.sendError(caller, ErrCallerBusy)
		return
	}

	call := h.calls.create(caller.ID, target.ID)

	// Only the initiator is tied to the call while it is pending; the
	// target stays idle so it can still reject cleanly or be called
	// again after rejecting.
	caller.Presence.Phase = PhaseCalling
	caller.Presence.CallID = call.ID

	h.send(target, models.IncomingCall{
		Type:           models.TypeIncomingCall,
		CallID:         call.ID,
		CallerID:       caller.ID,
		CallerUsername: caller.Username,
		VideoEnabled:   env.VideoEnabled,
		AudioEnabled:   env.AudioEnabled,
		Timestamp:      now(),
	})
	h.send(caller, models.CallInitiated{
		Type:           models.TypeCallInitiated,
		CallID:         call.ID,
		TargetID:       target.ID,
		TargetUsername: target.Username,
		Timestamp:      now(),
	})

	log.Printf("Call %s initiated: %s -> %s", call.ID, caller.Username, target.Username)
}

func (h *Hub) handleAcceptCall(receiver *Client, env *models.Envelope) {
	call, ok := h.calls.get(env.CallID)
	if !ok || call.TargetID != receiver.ID {
		// Unknown, foreign or already-canceled call id.
		h.sendError(receiver, ErrCallNotFound)
		return
	}
	if receiver.Presence.Busy() {
		h.sendError(receiver, ErrCallerBusy)
		return
	}

	caller, ok := h.registry.lookup(call.InitiatorID)
	if !ok {
		// Stale call: the initiator is gone but the call survived.
		// Tear it down rather than activate it.
		h.calls.delete(call.ID)
		h.chat.purge(call.ID)
		h.sendError(receiver, ErrCallerGone)
		return
	}

	call.Status = CallActive
	call.StartedAt = now()
	receiver.Presence.Phase = PhaseInCall
	receiver.Presence.CallID = call.ID
	caller.Presence.Phase = PhaseInCall

	h.send(caller, models.CallAccepted{
		Type:             models.TypeCallAccepted,
		CallID:           call.ID,
		ReceiverID:       receiver.ID,
		ReceiverUsername: receiver.Username,
		Timestamp:        now(),
	})

	// Both sides learn the call is live in the same step so neither
	// believes it started before the other was told.
	started := models.CallStarted{
		Type:           models.TypeCallStarted,
		CallID:         call.ID,
		CallerID:       caller.ID,
		CallerUsername: caller.Username,
		Timestamp:      now(),
	}
	h.send(receiver, started)
	h.send(caller, started)

	log.Printf("Call %s accepted by %s", call.ID, receiver.Username)
}

func (h *Hub) handleRejectCall(receiver *Client, env *models.Envelope) {
	call, ok := h.calls.get(env.CallID)
	if !ok || call.TargetID != receiver.ID {
		// Rejecting a call that no longer exists is a race with the
		// caller canceling or disconnecting.
		return
	}

	reason := env.Reason
	if reason == "" {
		reason = "User rejected the call"
	}

	h.calls.delete(call.ID)
	h.chat.purge(call.ID)

	caller, ok := h.registry.lookup(call.InitiatorID)
	if !ok {
		return
	}
	if caller.Presence.CallID == call.ID {
		caller.Presence.clearCall()
	}

	h.send(caller, models.CallRejected{
		Type:             models.TypeCallRejected,
		CallID:           call.ID,
		ReceiverID:       receiver.ID,
		ReceiverUsername: receiver.Username,
		Reason:           reason,
		Timestamp:        now(),
	})

	log.Printf("Call %s rejected by %s: %s", call.ID, receiver.Username, reason)
}

func (h *Hub) handleEndCall(actor *Client, env *models.Envelope) {
	callID := env.CallID
	if callID == "" {
		// Fall back to the actor's own recorded call for clients that
		// lost track of the id.
		callID = actor.Presence.CallID
	}
	if callID == "" {
		return
	}
	h.endCallLocked(actor, callID, env.Reason, true)
}

// endCallLocked tears a call down from either an explicit hangup or a
// disconnect. Idempotent: teardown can race between hangup, reject
// and disconnect, so an unknown call id is a silent no-op.
func (h *Hub) endCallLocked(actor *Client, callID, reason string, notifyActor bool) {
	call, ok := h.calls.get(callID)
	if !ok || !call.hasParticipant(actor.ID) {
		return
	}

	otherID := call.otherParticipant(actor.ID)

	h.calls.delete(call.ID)
	h.chat.purge(call.ID)

	for _, participantID := range []string{call.InitiatorID, call.TargetID} {
		if participant, ok := h.registry.lookup(participantID); ok && participant.Presence.CallID == call.ID {
			participant.Presence.clearCall()
		}
	}

	if other, ok := h.registry.lookup(otherID); ok {
		peerReason := reason
		if peerReason == "" {
			peerReason = "call-ended-by-peer"
		}
		h.send(other, models.CallEnded{
			Type:            models.TypeCallEnded,
			CallID:          call.ID,
			Reason:          peerReason,
			EndedBy:         actor.ID,
			EndedByUsername: actor.Username,
			Timestamp:       now(),
		})
	}

	if notifyActor {
		actorReason := reason
		if actorReason == "" {
			actorReason = "call-ended"
		}
		h.send(actor, models.CallEnded{
			Type:      models.TypeCallEnded,
			CallID:    call.ID,
			Reason:    actorReason,
			Timestamp: now(),
		})
	}

	log.Printf("Call %s ended by %s (%s)", call.ID, actor.Username, reason)
}

// sweepPendingCalls expires calls that stayed pending past the TTL.
// Both sides get a call-ended so the caller stops ringing and the
// target drops its incoming-call prompt.
func (h *Hub) sweepPendingCalls(nowTime time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, call := range h.calls.expiredPending(h.pendingTTL, nowTime) {
		h.calls.delete(call.ID)
		h.chat.purge(call.ID)

		ended := models.CallEnded{
			Type:      models.TypeCallEnded,
			CallID:    call.ID,
			Reason:    "call-timeout",
			Timestamp: now(),
		}
		if caller, ok := h.registry.lookup(call.InitiatorID); ok {
			if caller.Presence.CallID == call.ID {
				caller.Presence.clearCall()
			}
			h.send(caller, ended)
		}
		if target, ok := h.registry.lookup(call.TargetID); ok {
			h.send(target, ended)
		}

		log.Printf("Call %s expired after %s unanswered", call.ID, h.pendingTTL)
	}
}
