package tsdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RecordSelection writes one scene selection event.
//
// Implements the cycle engine's Recorder. The write is non-blocking; data
// is batched and sent asynchronously. Drops silently when disconnected.
//
// Tags carry the dimensions worth grouping by (profile, direction, how the
// selection happened); the scene name and position go in fields.
func (c *Client) RecordSelection(profileName, scene string, index int, direction string, recalled bool) {
	if !c.IsConnected() {
		return
	}

	kind := "advance"
	if recalled {
		kind = "recall"
	}

	point := write.NewPoint(
		"scene_selection",
		map[string]string{
			"profile":   profileName,
			"direction": direction,
			"kind":      kind,
		},
		map[string]interface{}{
			"scene": scene,
			"index": index,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
