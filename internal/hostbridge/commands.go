package hostbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bccsg/obs/internal/infrastructure/mqtt"
	"github.com/bccsg/obs/internal/profile"
)

// Profile command actions accepted on the profile command topic.
const (
	actionCreate      = "create"
	actionRename      = "rename"
	actionDelete      = "delete"
	actionAddScene    = "add_scene"
	actionRemoveScene = "remove_scene"
	actionMoveScene   = "move_scene"
	actionSetActive   = "set_active"
)

// profileCommand is the JSON payload of a profile management command.
type profileCommand struct {
	Action  string `json:"action"`
	Name    string `json:"name"`
	NewName string `json:"new_name,omitempty"`
	Scene   string `json:"scene,omitempty"`
	Move    string `json:"move,omitempty"` // "up" or "down"
}

// ProfileService is the slice of the service layer the command listener
// drives.
type ProfileService interface {
	CreateProfile(ctx context.Context, name string) (*profile.Profile, error)
	RenameProfile(ctx context.Context, oldName, newName string) (*profile.Profile, error)
	DeleteProfile(ctx context.Context, name string) error
	AddScene(ctx context.Context, name, scene string) error
	RemoveScene(ctx context.Context, name, scene string) error
	MoveScene(ctx context.Context, name, scene string, move profile.Move) error
	SetActiveProfile(ctx context.Context, name string) error
}

// CommandListener consumes profile management commands published by
// front-ends (the host shim's settings panel, scripts, an operator's
// mosquitto_pub) and applies them through the service layer.
type CommandListener struct {
	broker  Broker
	qos     byte
	service ProfileService
	logger  Logger
}

// NewCommandListener creates a listener over the given broker connection.
func NewCommandListener(broker Broker, qos byte, service ProfileService) *CommandListener {
	return &CommandListener{
		broker:  broker,
		qos:     qos,
		service: service,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for listener operations.
func (l *CommandListener) SetLogger(logger Logger) {
	if logger != nil {
		l.logger = logger
	}
}

// Start subscribes to the profile command topic.
func (l *CommandListener) Start() error {
	var topics mqtt.Topics
	if err := l.broker.Subscribe(topics.CommandProfile(), l.qos, l.handleCommand); err != nil {
		return fmt.Errorf("subscribing to profile commands: %w", err)
	}
	return nil
}

// handleCommand decodes and applies one profile command. Bad commands are
// logged and dropped; a malformed publish must not wedge the subscription.
func (l *CommandListener) handleCommand(_ string, payload []byte) error {
	var cmd profileCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		l.logger.Warn("dropping malformed profile command", "error", err)
		return nil
	}

	ctx := context.Background()
	var err error
	switch cmd.Action {
	case actionCreate:
		_, err = l.service.CreateProfile(ctx, cmd.Name)
	case actionRename:
		_, err = l.service.RenameProfile(ctx, cmd.Name, cmd.NewName)
	case actionDelete:
		err = l.service.DeleteProfile(ctx, cmd.Name)
	case actionAddScene:
		err = l.service.AddScene(ctx, cmd.Name, cmd.Scene)
	case actionRemoveScene:
		err = l.service.RemoveScene(ctx, cmd.Name, cmd.Scene)
	case actionMoveScene:
		move := profile.MoveDown
		if cmd.Move == "up" {
			move = profile.MoveUp
		}
		err = l.service.MoveScene(ctx, cmd.Name, cmd.Scene, move)
	case actionSetActive:
		err = l.service.SetActiveProfile(ctx, cmd.Name)
	default:
		l.logger.Warn("dropping profile command with unknown action",
			"action", cmd.Action)
		return nil
	}

	if err != nil {
		l.logger.Warn("profile command rejected",
			"action", cmd.Action, "name", cmd.Name, "error", err)
	}
	return nil
}
