package hostbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bccsg/obs/internal/infrastructure/mqtt"
)

// sceneListPayload is the retained host scene list.
type sceneListPayload struct {
	Scenes []string `json:"scenes"`
}

// selectPayload is the scene selection command sent to the host.
type selectPayload struct {
	Scene string `json:"scene"`
}

// SceneCatalog mirrors the host's scene list and carries scene selections
// back to it.
//
// The host shim publishes its present scene set retained on the scenes
// topic, so the catalog holds the current list from the moment it
// subscribes and hears every change. Each update is handed to the OnChange
// callback, which the service wires to profile reconciliation.
type SceneCatalog struct {
	broker Broker
	topics mqtt.Topics
	qos    byte

	mu     sync.RWMutex
	scenes []string

	onChange func(scenes []string)
	logger   Logger
}

// NewSceneCatalog creates a catalog over the given broker connection.
func NewSceneCatalog(broker Broker, qos byte) *SceneCatalog {
	return &SceneCatalog{
		broker: broker,
		qos:    qos,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for catalog operations.
func (c *SceneCatalog) SetLogger(logger Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// SetOnChange sets the callback invoked with the full present scene list
// whenever the host reports a change. Must be set before Start.
func (c *SceneCatalog) SetOnChange(fn func(scenes []string)) {
	c.onChange = fn
}

// Start subscribes to the host's scene list and notification events.
func (c *SceneCatalog) Start() error {
	if err := c.broker.Subscribe(c.topics.HostScenes(), c.qos, c.handleScenes); err != nil {
		return fmt.Errorf("subscribing to host scenes: %w", err)
	}
	if err := c.broker.Subscribe(c.topics.AllHostEvents(), c.qos, c.handleEvent); err != nil {
		return fmt.Errorf("subscribing to host events: %w", err)
	}
	return nil
}

// SelectScene asks the host to switch to the named scene. Implements the
// cycle engine's SceneSelector.
func (c *SceneCatalog) SelectScene(_ context.Context, scene string) error {
	payload, err := json.Marshal(selectPayload{Scene: scene})
	if err != nil {
		return fmt.Errorf("encoding select command: %w", err)
	}
	if err := c.broker.Publish(c.topics.CommandSelect(), payload, c.qos, false); err != nil {
		return fmt.Errorf("publishing select command: %w", err)
	}
	return nil
}

// Scenes returns a copy of the host's current scene list.
func (c *SceneCatalog) Scenes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.scenes))
	copy(out, c.scenes)
	return out
}

// handleScenes consumes the retained scene list topic.
func (c *SceneCatalog) handleScenes(_ string, payload []byte) error {
	var list sceneListPayload
	if err := json.Unmarshal(payload, &list); err != nil {
		return fmt.Errorf("decoding scene list: %w", err)
	}

	c.mu.Lock()
	c.scenes = list.Scenes
	c.mu.Unlock()

	c.logger.Debug("host scene list updated", "count", len(list.Scenes))
	if c.onChange != nil {
		c.onChange(c.Scenes())
	}
	return nil
}

// handleEvent consumes host notification events. The retained scenes topic
// is the source of truth for the list itself; events from shims that only
// signal re-fire the change callback against the cached list so a missed
// retained update still reconciles.
func (c *SceneCatalog) handleEvent(topic string, _ []byte) error {
	event := topicSegment(topic, 3)
	c.logger.Debug("host event", "event", event)
	if c.onChange != nil {
		c.onChange(c.Scenes())
	}
	return nil
}
