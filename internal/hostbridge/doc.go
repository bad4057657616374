// Package hostbridge connects the cycling core to the host application
// over MQTT.
//
// The host runs a thin shim that mirrors two of its surfaces onto the
// broker: the scene catalog (retained present-scene list plus notification
// events) and the hotkey subsystem (press events, binding blobs, and a
// registration/load command channel). This package consumes those topics
// and presents them to the core as plain Go interfaces: SceneCatalog is
// the cycle engine's SceneSelector and the reconciliation trigger, and
// HotkeyHost is the hotkey manager's Host.
//
// Everything here is transport plumbing; no cycling semantics live in this
// package.
package hostbridge
