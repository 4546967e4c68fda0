package signaling

import "time"

// Conn is the outbound half of one client connection. Send must not
// block: it queues the frame and reports whether it was accepted.
// Delivery past that point is best effort.
type Conn interface {
	Send(data []byte) bool
}

// CallPhase is a client's involvement in a call. The initiator of a
// pending call is PhaseCalling; both sides are PhaseInCall once the
// call is accepted. A client in any phase other than PhaseIdle is
// busy and cannot start or accept another call.
type CallPhase int

const (
	PhaseIdle CallPhase = iota
	PhaseCalling
	PhaseInCall
)

// Presence pairs the call phase with the call id so the two cannot
// drift apart: CallID is empty exactly when Phase is PhaseIdle.
type Presence struct {
	Phase        CallPhase
	CallID       string
	VideoEnabled bool
	AudioEnabled bool
}

// Busy reports whether the client is tied to a call, pending or
// active.
func (p Presence) Busy() bool {
	return p.Phase != PhaseIdle
}

func (p *Presence) clearCall() {
	p.Phase = PhaseIdle
	p.CallID = ""
}

// Client is one open connection. Owned by the registry; everything
// else refers to clients by id and re-resolves through the registry
// so a reference can never outlive a disconnect.
type Client struct {
	ID          string
	Username    string
	ConnectedAt time.Time
	Presence    Presence

	conn Conn
}
