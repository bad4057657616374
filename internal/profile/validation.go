package profile

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID creates a new unique identifier for a profile.
// Uses UUID v4 for global uniqueness. Profile identity is this ID, not the
// display name: renames update an attribute and never re-key anything.
func GenerateID() string {
	return uuid.New().String()
}

// ValidateName checks that a profile display name is usable.
// Names are trimmed of surrounding whitespace before the check; an empty or
// whitespace-only name is rejected.
//
// Returns the trimmed name and ErrInvalidName on failure.
func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrInvalidName
	}
	return trimmed, nil
}
