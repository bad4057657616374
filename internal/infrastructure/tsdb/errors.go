package tsdb

import "errors"

// Sentinel errors for selection-history operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, tsdb.ErrDisabled) {
//	    // run without history recording
//	}
var (
	// ErrNotConnected indicates the client is not connected.
	ErrNotConnected = errors.New("tsdb: not connected")

	// ErrConnectionFailed indicates the initial connection attempt failed.
	ErrConnectionFailed = errors.New("tsdb: connection failed")

	// ErrDisabled indicates history recording is disabled in config.
	ErrDisabled = errors.New("tsdb: disabled in configuration")
)
