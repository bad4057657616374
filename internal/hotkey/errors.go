package hotkey

import "errors"

// Domain errors for the hotkey package.
var (
	// ErrNotRegistered is returned when a press arrives for an action key
	// the manager does not own.
	ErrNotRegistered = errors.New("hotkey: action not registered")

	// ErrRegisterFailed is returned when the host rejects an action
	// registration. The manager guarantees a profile ends up with either
	// both of its actions or neither.
	ErrRegisterFailed = errors.New("hotkey: registration failed")
)
