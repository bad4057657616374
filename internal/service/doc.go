// Package service ties the cycling core together: profile mutations flow
// through here so the hotkey lifecycle and persistence stay in step with
// the store.
//
// Each mutating method runs the same shape: apply to the store (the
// authority, which may reject), let the hotkey manager react, then persist
// a snapshot. Persistence failures are logged rather than returned since
// the in-memory mutation has already taken effect.
package service
