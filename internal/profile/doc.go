// Package profile manages scene profiles: named, ordered subsets of the
// host's scenes that define cycling sequences.
//
// The Store is the in-memory authority. It holds every profile, the active
// profile reference, and the transient per-direction tap sessions consumed
// by the cycle engine. Profiles are keyed internally by an immutable UUID;
// display names are a mutable, unique attribute, so renaming never re-keys
// anything that references a profile by ID.
//
// # Recall index
//
// Each profile carries an optional 1-based LastSelected index, the scene
// the user last committed in that profile. The store clamps it to the
// current list bounds on every list change and clears it when the list
// empties. It deliberately never snaps to a scene name: after reordering,
// recall lands on whatever scene now occupies the committed position.
//
// # Reconciliation
//
// Scene refs are opaque strings that may go stale when the host's scene
// set changes. Reconcile filters every profile against the present set,
// preserving relative order. It is idempotent, so callers can run it on
// every host notification without tracking deltas.
//
// # Persistence
//
// The Repository persists full Snapshots; the caller decides when (after
// each mutation, at shutdown). Tap sessions are transient and are never
// written.
package profile
