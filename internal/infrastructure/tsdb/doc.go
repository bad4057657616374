// Package tsdb records scene selection history to InfluxDB.
//
// Every committed tap selection becomes one point in the scene_selection
// measurement, tagged by profile, direction, and whether the tap was a
// recall or an advance. The data answers questions like "which scenes does
// this operator actually cycle to" without touching the tap path: writes
// are batched and asynchronous, and when the server is unreachable points
// are dropped rather than queued unboundedly.
//
// The package is optional end to end. When tsdb.enabled is false, Connect
// returns ErrDisabled and the service runs without a recorder.
package tsdb
