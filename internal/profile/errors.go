package profile

import "errors"

// Domain errors for the profile package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, profile.ErrDuplicateName) {
//	    // handle duplicate case
//	}
var (
	// ErrNotFound is returned when a profile name or ID does not exist.
	ErrNotFound = errors.New("profile: not found")

	// ErrDuplicateName is returned when creating or renaming a profile to
	// a name that is already in use.
	ErrDuplicateName = errors.New("profile: name already in use")

	// ErrInvalidName is returned when a profile name is empty or whitespace.
	ErrInvalidName = errors.New("profile: invalid name")
)
