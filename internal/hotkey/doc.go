// Package hotkey manages the per-profile hotkey actions exposed to the
// host application.
//
// Every profile owns exactly two actions, next and prev, whose keys derive
// from the profile's display name (see KeyFor). The Manager keeps the
// host's action set in lockstep with the profile store: create registers a
// pair, delete withdraws it, and rename retires the old pair and registers
// a fresh one because the keys themselves change.
//
// # Binding preservation
//
// The key bindings a user assigns to an action live in an opaque blob the
// host owns. Since a rename replaces the action keys, the Manager captures
// each blob before withdrawing the old actions and loads it into the new
// ones, so renames never cost the user their bindings. Blobs are also
// persisted through a BindingStore so they survive restarts.
//
// # Dispatch
//
// Press events arrive by action key; HandlePress resolves the key to its
// (profile, direction) pair and forwards to the registered PressHandler,
// typically the cycle engine's Tap.
package hotkey
