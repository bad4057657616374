package hostbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bccsg/obs/internal/infrastructure/mqtt"
)

// registerPayload declares one hotkey action to the host.
type registerPayload struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

// HotkeyHost exposes the host application's hotkey subsystem over MQTT,
// implementing the lifecycle manager's Host interface.
//
// Registrations are published retained, so the host shim sees the full
// action set whenever it (re)connects; an empty retained payload clears a
// registration. Binding blobs flow the other way: the shim mirrors each
// action's blob retained on its binding topic, and the bridge caches them
// so Binding reads are local.
type HotkeyHost struct {
	broker Broker
	topics mqtt.Topics
	qos    byte

	mu       sync.RWMutex
	bindings map[string]string // action key -> blob

	onPress         func(ctx context.Context, key string)
	onBindingChange func(ctx context.Context, key, blob string)
	logger          Logger
}

// NewHotkeyHost creates a hotkey bridge over the given broker connection.
func NewHotkeyHost(broker Broker, qos byte) *HotkeyHost {
	return &HotkeyHost{
		broker:   broker,
		qos:      qos,
		bindings: make(map[string]string),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for bridge operations.
func (h *HotkeyHost) SetLogger(logger Logger) {
	if logger != nil {
		h.logger = logger
	}
}

// SetOnPress sets the callback invoked with the action key of each press
// event. Must be set before Start.
func (h *HotkeyHost) SetOnPress(fn func(ctx context.Context, key string)) {
	h.onPress = fn
}

// SetOnBindingChange sets the callback invoked when the host reports a new
// binding blob for an action key. Must be set before Start.
func (h *HotkeyHost) SetOnBindingChange(fn func(ctx context.Context, key, blob string)) {
	h.onBindingChange = fn
}

// Start subscribes to press events and binding blob updates.
func (h *HotkeyHost) Start() error {
	pressPattern := h.topics.HostHotkeyPressed("+")
	if err := h.broker.Subscribe(pressPattern, h.qos, h.handlePress); err != nil {
		return fmt.Errorf("subscribing to press events: %w", err)
	}
	if err := h.broker.Subscribe(h.topics.AllHostBindings(), h.qos, h.handleBinding); err != nil {
		return fmt.Errorf("subscribing to binding updates: %w", err)
	}
	return nil
}

// Register declares an action key to the host.
func (h *HotkeyHost) Register(_ context.Context, key, description string) error {
	payload, err := json.Marshal(registerPayload{Key: key, Description: description})
	if err != nil {
		return fmt.Errorf("encoding registration: %w", err)
	}
	if err := h.broker.PublishRetained(h.topics.HotkeyRegister(key), payload); err != nil {
		return fmt.Errorf("publishing registration for %s: %w", key, err)
	}
	return nil
}

// Unregister withdraws an action key by clearing its retained registration.
func (h *HotkeyHost) Unregister(_ context.Context, key string) error {
	if err := h.broker.PublishRetained(h.topics.HotkeyRegister(key), nil); err != nil {
		return fmt.Errorf("clearing registration for %s: %w", key, err)
	}

	h.mu.Lock()
	delete(h.bindings, key)
	h.mu.Unlock()
	return nil
}

// Binding returns the cached binding blob for an action key.
func (h *HotkeyHost) Binding(_ context.Context, key string) (string, bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	blob, ok := h.bindings[key]
	return blob, ok, nil
}

// LoadBinding asks the host to install a binding blob into an action key.
func (h *HotkeyHost) LoadBinding(_ context.Context, key, blob string) error {
	if err := h.broker.Publish(h.topics.HotkeyLoad(key), []byte(blob), h.qos, false); err != nil {
		return fmt.Errorf("publishing binding load for %s: %w", key, err)
	}

	// The shim will echo the blob back on the binding topic, but update the
	// cache now so a rename that reads it straight back does not race the
	// roundtrip.
	h.mu.Lock()
	h.bindings[key] = blob
	h.mu.Unlock()
	return nil
}

// handlePress consumes press events, extracting the action key from the
// topic. Topic shape: scenecycler/host/hotkey/<key>/pressed.
func (h *HotkeyHost) handlePress(topic string, _ []byte) error {
	key := topicSegment(topic, 3)
	if key == "" {
		return fmt.Errorf("malformed press topic: %s", topic)
	}

	h.logger.Debug("hotkey pressed", "key", key)
	if h.onPress != nil {
		h.onPress(context.Background(), key)
	}
	return nil
}

// handleBinding consumes binding blob updates. Topic shape:
// scenecycler/host/binding/<key>. An empty payload clears the cached blob.
func (h *HotkeyHost) handleBinding(topic string, payload []byte) error {
	key := topicSegment(topic, 3)
	if key == "" {
		return fmt.Errorf("malformed binding topic: %s", topic)
	}

	h.mu.Lock()
	if len(payload) == 0 {
		delete(h.bindings, key)
	} else {
		h.bindings[key] = string(payload)
	}
	h.mu.Unlock()

	if len(payload) > 0 && h.onBindingChange != nil {
		h.onBindingChange(context.Background(), key, string(payload))
	}
	return nil
}
