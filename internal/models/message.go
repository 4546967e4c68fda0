package models

import "encoding/json"

// Inbound frame types consumed by the signaling core.
const (
	TypeStartCall      = "start-call"
	TypeAcceptCall     = "accept-call"
	TypeRejectCall     = "reject-call"
	TypeEndCall        = "end-call"
	TypeOffer          = "offer"
	TypeAnswer         = "answer"
	TypeICECandidate   = "ice-candidate"
	TypeChatMessage    = "chat-message"
	TypeGetChatHistory = "get-chat-history"
	TypeToggleVideo    = "toggle-video"
	TypeToggleAudio    = "toggle-audio"
	TypeGetClients     = "get-clients"
	TypeUpdateUsername = "update-username"
)

// Outbound frame types produced by the signaling core.
const (
	TypeWelcome          = "welcome"
	TypeClientsList      = "clients-list"
	TypeClientJoined     = "client-joined"
	TypeClientLeft       = "client-left"
	TypeUsernameChanged  = "username-changed"
	TypeUsernameUpdated  = "username-updated"
	TypeIncomingCall     = "incoming-call"
	TypeCallInitiated    = "call-initiated"
	TypeCallAccepted     = "call-accepted"
	TypeCallRejected     = "call-rejected"
	TypeCallStarted      = "call-started"
	TypeCallEnded        = "call-ended"
	TypePeerVideoToggled = "peer-video-toggled"
	TypePeerAudioToggled = "peer-audio-toggled"
	TypeVideoToggled     = "video-toggled"
	TypeAudioToggled     = "audio-toggled"
	TypeChatMessageSent  = "chat-message-sent"
	TypeChatHistory      = "chat-history"
	TypeError            = "error"
)

// Envelope is one inbound frame. Frames are flat JSON objects with a
// type discriminator; fields not relevant to a given type are left at
// their zero value. SDP and Candidate stay raw so offer/answer/ICE
// payloads pass through untouched.
type Envelope struct {
	Type         string          `json:"type"`
	Target       string          `json:"target,omitempty"`
	CallID       string          `json:"callId,omitempty"`
	Reason       string          `json:"reason,omitempty"`
	Message      string          `json:"message,omitempty"`
	MessageType  string          `json:"messageType,omitempty"`
	Username     string          `json:"username,omitempty"`
	Enabled      bool            `json:"enabled,omitempty"`
	VideoEnabled bool            `json:"videoEnabled,omitempty"`
	AudioEnabled bool            `json:"audioEnabled,omitempty"`
	SDP          json.RawMessage `json:"sdp,omitempty"`
	Candidate    json.RawMessage `json:"candidate,omitempty"`
}
