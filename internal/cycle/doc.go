// Package cycle implements the recall-then-advance tap state machine that
// turns repeated hotkey presses into scene selections.
//
// # Behaviour
//
// Each (profile, direction) pair owns an independent tap session. A tap
// when no session is live recalls the profile's committed scene; taps that
// land inside the tap window advance one position per tap, wrapping at the
// list ends. Every accepted tap selects the scene on the host and pushes
// the window deadline out again, so a steady drumbeat of taps keeps one
// sequence alive indefinitely. With selection persistence enabled each tap
// also commits its index as the new recall point; with it disabled
// sessions advance transiently and recall stays anchored at the last
// loaded value.
//
// Recall-first means a cold tap is always safe: it can only re-select what
// the user last chose, never jump somewhere new.
//
// # Time
//
// Advance takes the tap instant explicitly; only the Tap convenience
// wrapper reads the wall clock. Expiry is evaluated lazily by comparing
// instants, so there are no timers to manage and nothing fires when the
// user walks away mid-sequence.
package cycle
