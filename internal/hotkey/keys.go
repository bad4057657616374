package hotkey

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/bccsg/obs/internal/profile"
)

// keyPrefix is the stable prefix of every action key this service owns.
// Host-side tooling can match on it to find cycler-managed actions.
const keyPrefix = "scenecycler_show"

// DeriveSlug converts a profile display name into the slug used inside
// action keys: lowercased, whitespace collapsed to underscores, everything
// outside [a-z0-9_] dropped.
//
// Example: "My Café Profile!" -> "my_caf_profile"
func DeriveSlug(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune('_')
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// KeyFor derives the action key for one (profile name, direction) pair.
// Keys are name-derived, so renaming a profile changes its keys; the
// manager migrates bindings across that change.
//
// Example: KeyFor("My Profile", DirectionNext) -> "scenecycler_show_my_profile_next"
func KeyFor(name string, dir profile.Direction) string {
	return fmt.Sprintf("%s_%s_%s", keyPrefix, DeriveSlug(name), dir)
}

// DescriptionFor builds the human-readable action description shown in the
// host's hotkey settings UI.
func DescriptionFor(name string, dir profile.Direction) string {
	switch dir {
	case profile.DirectionPrev:
		return fmt.Sprintf("Cycle %s backward", name)
	default:
		return fmt.Sprintf("Cycle %s forward", name)
	}
}
