package signaling

import "errors"

// Domain errors surfaced to the acting client as error frames. The
// strings are wire-visible, hence the sentence casing.
var (
	ErrTargetNotFound = errors.New("Target user not found")
	ErrTargetBusy     = errors.New("Target user is already in a call")
	ErrCallerBusy     = errors.New("You are already in a call")
	ErrCallNotFound   = errors.New("Call not found or expired")
	ErrCallerGone     = errors.New("Caller not found")
	ErrUsernameTaken  = errors.New("Username already taken")
	ErrNotInCall      = errors.New("Not in a call")
	ErrInvalidFrame   = errors.New("Invalid message format")
)
