package models

import (
	"encoding/json"
	"time"
)

// Outbound frames. Every frame carries a timestamp; time.Time marshals
// to RFC 3339 which is what browser clients parse.

type Welcome struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// ClientSummary is one roster entry in a clients-list frame.
type ClientSummary struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	IsInCall     bool   `json:"isInCall"`
	VideoEnabled bool   `json:"videoEnabled"`
	AudioEnabled bool   `json:"audioEnabled"`
}

type ClientsList struct {
	Type      string          `json:"type"`
	Clients   []ClientSummary `json:"clients"`
	Timestamp time.Time       `json:"timestamp"`
}

// ClientEvent announces a client joining or leaving.
type ClientEvent struct {
	Type      string    `json:"type"`
	ClientID  string    `json:"clientId"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

type UsernameChanged struct {
	Type        string    `json:"type"`
	ClientID    string    `json:"clientId"`
	OldUsername string    `json:"oldUsername"`
	NewUsername string    `json:"newUsername"`
	Timestamp   time.Time `json:"timestamp"`
}

type UsernameUpdated struct {
	Type      string    `json:"type"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

type IncomingCall struct {
	Type           string    `json:"type"`
	CallID         string    `json:"callId"`
	CallerID       string    `json:"callerId"`
	CallerUsername string    `json:"callerUsername"`
	VideoEnabled   bool      `json:"videoEnabled"`
	AudioEnabled   bool      `json:"audioEnabled"`
	Timestamp      time.Time `json:"timestamp"`
}

type CallInitiated struct {
	Type           string    `json:"type"`
	CallID         string    `json:"callId"`
	TargetID       string    `json:"targetId"`
	TargetUsername string    `json:"targetUsername"`
	Timestamp      time.Time `json:"timestamp"`
}

type CallAccepted struct {
	Type             string    `json:"type"`
	CallID           string    `json:"callId"`
	ReceiverID       string    `json:"receiverId"`
	ReceiverUsername string    `json:"receiverUsername"`
	Timestamp        time.Time `json:"timestamp"`
}

type CallRejected struct {
	Type             string    `json:"type"`
	CallID           string    `json:"callId"`
	ReceiverID       string    `json:"receiverId"`
	ReceiverUsername string    `json:"receiverUsername"`
	Reason           string    `json:"reason"`
	Timestamp        time.Time `json:"timestamp"`
}

// CallStarted is sent to both participants once a call is accepted.
type CallStarted struct {
	Type           string    `json:"type"`
	CallID         string    `json:"callId"`
	CallerID       string    `json:"callerId"`
	CallerUsername string    `json:"callerUsername"`
	Timestamp      time.Time `json:"timestamp"`
}

type CallEnded struct {
	Type            string    `json:"type"`
	CallID          string    `json:"callId"`
	Reason          string    `json:"reason"`
	EndedBy         string    `json:"endedBy,omitempty"`
	EndedByUsername string    `json:"endedByUsername,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// PeerMediaToggled tells the other call participant that the peer
// switched its camera or microphone.
type PeerMediaToggled struct {
	Type      string    `json:"type"`
	PeerID    string    `json:"peerId"`
	Enabled   bool      `json:"enabled"`
	Timestamp time.Time `json:"timestamp"`
}

// MediaToggled acknowledges a toggle to the client that requested it.
type MediaToggled struct {
	Type      string    `json:"type"`
	Enabled   bool      `json:"enabled"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatMessage is one entry in a call's ephemeral chat log. The sender
// username is a snapshot taken at send time so later renames do not
// rewrite history.
type ChatMessage struct {
	ID             string    `json:"id"`
	CallID         string    `json:"callId"`
	SenderID       string    `json:"senderId"`
	SenderUsername string    `json:"senderUsername"`
	Message        string    `json:"message"`
	Kind           string    `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
}

// ChatMessageFrame wraps a chat message for delivery (chat-message to
// the peer, chat-message-sent back to the sender).
type ChatMessageFrame struct {
	Type      string      `json:"type"`
	CallID    string      `json:"callId"`
	Message   ChatMessage `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}

type ChatHistory struct {
	Type      string        `json:"type"`
	CallID    string        `json:"callId"`
	Messages  []ChatMessage `json:"messages"`
	Timestamp time.Time     `json:"timestamp"`
}

// RelayFrame is an offer/answer/ice-candidate forwarded to its target
// with the sender identity stamped on. SDP and candidate bytes are
// never inspected.
type RelayFrame struct {
	Type           string          `json:"type"`
	Target         string          `json:"target"`
	Sender         string          `json:"sender"`
	SenderUsername string          `json:"senderUsername"`
	CallID         string          `json:"callId,omitempty"`
	SDP            json.RawMessage `json:"sdp,omitempty"`
	Candidate      json.RawMessage `json:"candidate,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

type ErrorFrame struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
