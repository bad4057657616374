package profile

import "time"

// Profile is a named, ordered subset of host scenes defining one cycling
// sequence. Identity is the immutable ID; the display name is mutable and
// unique among live profiles.
type Profile struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`

	// Scenes is the ordered cycle sequence. Scene refs are opaque strings
	// equal to host scene names; validity is membership in the host's
	// current scene set, never cached beyond this list.
	Scenes []string `json:"scenes"`

	// LastSelected is the 1-based committed recall index.
	// Zero means absent (nothing committed yet, or the list is empty).
	LastSelected int `json:"last_selected"`
}

// SceneCount returns the number of scenes in the profile.
func (p *Profile) SceneCount() int {
	return len(p.Scenes)
}

// DeepCopy creates a complete independent copy of the Profile.
// The scene slice is cloned so modifications to the copy do not
// affect the original. This is essential for store isolation.
func (p *Profile) DeepCopy() *Profile {
	if p == nil {
		return nil
	}

	cpy := *p
	if p.Scenes != nil {
		cpy.Scenes = make([]string, len(p.Scenes))
		copy(cpy.Scenes, p.Scenes)
	}
	return &cpy
}

// Direction identifies one of the two independent cycling directions.
type Direction string

const (
	// DirectionNext advances forward through the profile's scene list.
	DirectionNext Direction = "next"

	// DirectionPrev advances backward through the profile's scene list.
	DirectionPrev Direction = "prev"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == DirectionNext || d == DirectionPrev
}

// Directions returns both directions in a stable order.
func Directions() []Direction {
	return []Direction{DirectionNext, DirectionPrev}
}

// TapSession is the transient multi-tap state for one (profile, direction)
// pair. The two directions of a profile hold independent sessions: pressing
// one direction never resets or advances the other's session.
type TapSession struct {
	// Deadline is the instant after which the session is expired.
	Deadline time.Time

	// Active is the 1-based index currently highlighted by the in-progress
	// tap sequence. Zero means no active index (idle).
	Active int
}

// Move indicates the direction of a scene reorder within a profile.
type Move int

const (
	// MoveUp swaps a scene with its predecessor.
	MoveUp Move = -1

	// MoveDown swaps a scene with its successor.
	MoveDown Move = 1
)

// Snapshot is the persistable state of the store: every profile (in display
// order) plus the active profile reference. Tap sessions are transient and
// never part of a snapshot.
type Snapshot struct {
	Profiles []Profile
	ActiveID string
}
