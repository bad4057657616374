package hotkey

import (
	"context"
	"fmt"
	"sync"

	"github.com/bccsg/obs/internal/profile"
)

// Host is the hotkey surface of the host application: action registration
// and binding blobs. Blobs are opaque to the cycler; only the host can
// interpret them.
type Host interface {
	// Register declares an action key with a display description.
	Register(ctx context.Context, key, description string) error

	// Unregister withdraws an action key. Unregistering an unknown key is
	// not an error.
	Unregister(ctx context.Context, key string) error

	// Binding returns the current binding blob for an action key. The
	// second return value is false when the action has no binding.
	Binding(ctx context.Context, key string) (string, bool, error)

	// LoadBinding installs a binding blob into an action key.
	LoadBinding(ctx context.Context, key, blob string) error
}

// BindingStore persists binding blobs across restarts, keyed by action key
// and direction.
type BindingStore interface {
	Save(ctx context.Context, key string, dir profile.Direction, blob string) error
	Get(ctx context.Context, key string, dir profile.Direction) (string, bool, error)
	Delete(ctx context.Context, key string, dir profile.Direction) error
}

// PressHandler receives dispatched hotkey presses.
type PressHandler func(ctx context.Context, profileID string, dir profile.Direction) error

// Logger interface for manager logging.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Warn(msg string, args ...any)  {}

// action is one registered hotkey: the profile it belongs to and the
// direction it taps.
type action struct {
	profileID string
	direction profile.Direction
}

// Manager owns the hotkey lifecycle: every profile carries exactly two
// actions (next and prev) whose keys derive from the profile's name.
// Profile create/rename/delete events keep the host's action set in step,
// and presses dispatch to the registered handler.
//
// Because keys are name-derived, a rename retires the old pair and
// registers a new one. User key bindings live in opaque blobs attached to
// actions; the manager carries those blobs across the rename so a rename
// never costs the user their bindings.
type Manager struct {
	host     Host
	bindings BindingStore
	onPress  PressHandler

	mu sync.RWMutex
	// actions maps action key -> owner; keys maps profile ID -> direction
	// -> action key. Kept in lockstep under mu.
	actions map[string]action
	keys    map[string]map[profile.Direction]string

	logger Logger
}

// NewManager creates a hotkey lifecycle manager. The binding store may be
// nil, in which case blobs survive renames only while the host keeps them.
func NewManager(host Host, bindings BindingStore, onPress PressHandler) *Manager {
	return &Manager{
		host:     host,
		bindings: bindings,
		onPress:  onPress,
		actions:  make(map[string]action),
		keys:     make(map[string]map[profile.Direction]string),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for manager operations.
func (m *Manager) SetLogger(logger Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Sync registers actions for every given profile. Called at startup with
// the store's full profile list; profiles that already have actions are
// skipped, so Sync is safe to repeat after reconnects.
func (m *Manager) Sync(ctx context.Context, profiles []profile.Profile) error {
	for i := range profiles {
		p := &profiles[i]
		m.mu.RLock()
		_, registered := m.keys[p.ID]
		m.mu.RUnlock()
		if registered {
			continue
		}
		if err := m.OnProfileCreated(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// OnProfileCreated registers the next/prev action pair for a new profile
// and restores any persisted bindings for its keys.
//
// Registration is all-or-nothing: if the second action fails to register,
// the first is withdrawn so the profile never sits with a half pair.
func (m *Manager) OnProfileCreated(ctx context.Context, p *profile.Profile) error {
	registered := make([]string, 0, 2)
	for _, dir := range profile.Directions() {
		key := KeyFor(p.Name, dir)
		if err := m.host.Register(ctx, key, DescriptionFor(p.Name, dir)); err != nil {
			for _, prev := range registered {
				if uerr := m.host.Unregister(ctx, prev); uerr != nil {
					m.logger.Warn("failed to roll back action registration",
						"key", prev, "error", uerr)
				}
			}
			return fmt.Errorf("%w: %s: %v", ErrRegisterFailed, key, err)
		}
		registered = append(registered, key)
	}

	m.mu.Lock()
	m.keys[p.ID] = make(map[profile.Direction]string, 2)
	for i, dir := range profile.Directions() {
		key := registered[i]
		m.actions[key] = action{profileID: p.ID, direction: dir}
		m.keys[p.ID][dir] = key
	}
	m.mu.Unlock()

	m.restoreBindings(ctx, p.ID)

	m.logger.Info("hotkey actions registered",
		"profile", p.Name, "keys", registered)
	return nil
}

// OnProfileRenamed migrates a profile's actions from name-derived keys of
// the old name to those of the new name, preserving binding blobs.
//
// The blob is read from the host before the old actions are withdrawn
// (falling back to the persisted copy), then loaded into the new actions
// and re-persisted under the new keys. The old keys' persisted blobs are
// erased: stale rows under retired keys would otherwise resurrect on a
// later rename back.
func (m *Manager) OnProfileRenamed(ctx context.Context, oldName string, p *profile.Profile) error {
	blobs := make(map[profile.Direction]string)
	for _, dir := range profile.Directions() {
		oldKey := KeyFor(oldName, dir)
		if blob, ok := m.currentBlob(ctx, oldKey, dir); ok {
			blobs[dir] = blob
		}
	}

	m.retire(ctx, p.ID, oldName)
	if err := m.OnProfileCreated(ctx, p); err != nil {
		return err
	}

	for dir, blob := range blobs {
		newKey := KeyFor(p.Name, dir)
		if err := m.host.LoadBinding(ctx, newKey, blob); err != nil {
			m.logger.Warn("failed to carry binding across rename",
				"key", newKey, "error", err)
			continue
		}
		m.persistBlob(ctx, newKey, dir, blob)
	}

	m.logger.Info("hotkey actions migrated",
		"profile", p.Name, "old_name", oldName)
	return nil
}

// OnProfileDeleted withdraws a profile's actions and erases their
// persisted bindings.
func (m *Manager) OnProfileDeleted(ctx context.Context, p *profile.Profile) {
	m.retire(ctx, p.ID, p.Name)
	m.logger.Info("hotkey actions withdrawn", "profile", p.Name)
}

// HandlePress dispatches a press of one action key to the press handler.
func (m *Manager) HandlePress(ctx context.Context, key string) error {
	m.mu.RLock()
	act, ok := m.actions[key]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, key)
	}
	return m.onPress(ctx, act.profileID, act.direction)
}

// BindingChanged persists a binding blob the host reports for one of our
// action keys. Unknown keys are ignored; the host may still be mirroring
// actions we already retired.
func (m *Manager) BindingChanged(ctx context.Context, key, blob string) {
	m.mu.RLock()
	act, ok := m.actions[key]
	m.mu.RUnlock()
	if !ok {
		return
	}
	m.persistBlob(ctx, key, act.direction, blob)
}

// Keys returns the action keys currently registered for a profile.
func (m *Manager) Keys(profileID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dirs, ok := m.keys[profileID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(dirs))
	for _, dir := range profile.Directions() {
		if key, exists := dirs[dir]; exists {
			out = append(out, key)
		}
	}
	return out
}

// ActionCount returns the number of registered actions.
func (m *Manager) ActionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.actions)
}

// retire withdraws the actions registered under a profile's old name and
// erases their persisted bindings.
func (m *Manager) retire(ctx context.Context, profileID, name string) {
	m.mu.Lock()
	delete(m.keys, profileID)
	m.mu.Unlock()

	for _, dir := range profile.Directions() {
		key := KeyFor(name, dir)

		m.mu.Lock()
		delete(m.actions, key)
		m.mu.Unlock()

		if err := m.host.Unregister(ctx, key); err != nil {
			m.logger.Warn("failed to unregister action", "key", key, "error", err)
		}
		if m.bindings != nil {
			if err := m.bindings.Delete(ctx, key, dir); err != nil {
				m.logger.Warn("failed to erase persisted binding",
					"key", key, "error", err)
			}
		}
	}
}

// currentBlob reads an action's binding, preferring the host's live copy
// over the persisted one.
func (m *Manager) currentBlob(ctx context.Context, key string, dir profile.Direction) (string, bool) {
	if blob, ok, err := m.host.Binding(ctx, key); err == nil && ok {
		return blob, true
	} else if err != nil {
		m.logger.Warn("failed to read host binding", "key", key, "error", err)
	}
	if m.bindings == nil {
		return "", false
	}
	blob, ok, err := m.bindings.Get(ctx, key, dir)
	if err != nil {
		m.logger.Warn("failed to read persisted binding", "key", key, "error", err)
		return "", false
	}
	return blob, ok
}

// restoreBindings loads persisted blobs into a profile's freshly
// registered actions.
func (m *Manager) restoreBindings(ctx context.Context, profileID string) {
	if m.bindings == nil {
		return
	}

	m.mu.RLock()
	dirs := make(map[profile.Direction]string, len(m.keys[profileID]))
	for dir, key := range m.keys[profileID] {
		dirs[dir] = key
	}
	m.mu.RUnlock()

	for dir, key := range dirs {
		blob, ok, err := m.bindings.Get(ctx, key, dir)
		if err != nil {
			m.logger.Warn("failed to read persisted binding", "key", key, "error", err)
			continue
		}
		if !ok {
			continue
		}
		if err := m.host.LoadBinding(ctx, key, blob); err != nil {
			m.logger.Warn("failed to load persisted binding", "key", key, "error", err)
		}
	}
}

// persistBlob writes a blob to the binding store, logging failures.
func (m *Manager) persistBlob(ctx context.Context, key string, dir profile.Direction, blob string) {
	if m.bindings == nil {
		return
	}
	if err := m.bindings.Save(ctx, key, dir, blob); err != nil {
		m.logger.Warn("failed to persist binding", "key", key, "error", err)
	}
}
