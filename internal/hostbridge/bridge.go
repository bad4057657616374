package hostbridge

import (
	"strings"

	"github.com/bccsg/obs/internal/infrastructure/mqtt"
)

// Broker is the slice of the MQTT client the bridge needs. Narrowing to an
// interface keeps the bridge testable without a broker.
type Broker interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	PublishRetained(topic string, payload []byte) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Logger interface for bridge logging.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Warn(msg string, args ...any)  {}

// topicSegment extracts the nth slash-separated segment of a topic, or ""
// when the topic is shorter.
func topicSegment(topic string, n int) string {
	parts := strings.Split(topic, "/")
	if n < 0 || n >= len(parts) {
		return ""
	}
	return parts[n]
}
