package profile

import (
	"fmt"
	"sync"
)

// Logger interface for store logging.
// Matches the logging.Logger methods used by this package.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is set.
type noopLogger struct{}

func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Warn(msg string, args ...any)  {}

// sessionKey identifies one tap session. Each (profile, direction) pair
// holds its own session.
type sessionKey struct {
	profileID string
	direction Direction
}

// Store is the in-memory authority for profiles, the active profile
// reference and transient tap sessions. All access is safe for concurrent
// use.
//
// Profiles are keyed by immutable ID internally; the public operations that
// mirror user actions address profiles by display name, which the store
// resolves through a name index. Persistence is layered on top via
// Snapshot/Restore and a Repository.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*Profile   // keyed by ID
	names    map[string]string     // display name -> ID
	order    []string              // IDs in display order
	activeID string
	sessions map[sessionKey]*TapSession

	defaultName string
	logger      Logger
}

// NewStore creates a store seeded with a single empty profile named
// defaultName, which starts active. The store never becomes empty: deleting
// the last profile recreates the default.
func NewStore(defaultName string) *Store {
	s := &Store{
		profiles:    make(map[string]*Profile),
		names:       make(map[string]string),
		sessions:    make(map[sessionKey]*TapSession),
		defaultName: defaultName,
		logger:      noopLogger{},
	}
	s.addLocked(newProfile(defaultName))
	s.activeID = s.order[0]
	return s
}

// SetLogger sets the logger for store operations.
func (s *Store) SetLogger(logger Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if logger != nil {
		s.logger = logger
	}
}

func newProfile(name string) *Profile {
	return &Profile{
		ID:     GenerateID(),
		Name:   name,
		Scenes: []string{},
	}
}

// addLocked inserts p into all indexes. Caller holds the write lock.
func (s *Store) addLocked(p *Profile) {
	s.profiles[p.ID] = p
	s.names[p.Name] = p.ID
	s.order = append(s.order, p.ID)
}

// Create adds a new empty profile with the given display name and makes it
// active. The name is trimmed; creation fails with ErrInvalidName for blank
// names and ErrDuplicateName when the name is already in use.
func (s *Store) Create(name string) (*Profile, error) {
	trimmed, err := ValidateName(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.names[trimmed]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, trimmed)
	}

	p := newProfile(trimmed)
	s.addLocked(p)
	s.activeID = p.ID

	s.logger.Info("profile created", "profile_id", p.ID, "name", p.Name)
	return p.DeepCopy(), nil
}

// Rename changes a profile's display name. Identity (ID) is unchanged, so
// nothing keyed by the profile needs re-keying. Fails with ErrNotFound when
// oldName does not exist and ErrDuplicateName when newName is taken
// (including newName == oldName).
func (s *Store) Rename(oldName, newName string) (*Profile, error) {
	trimmed, err := ValidateName(newName)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.names[oldName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, oldName)
	}
	if _, exists := s.names[trimmed]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, trimmed)
	}

	p := s.profiles[id]
	delete(s.names, p.Name)
	p.Name = trimmed
	s.names[trimmed] = id

	s.logger.Info("profile renamed",
		"profile_id", id, "old_name", oldName, "new_name", trimmed)
	return p.DeepCopy(), nil
}

// Delete removes a profile and its tap sessions. If the deleted profile was
// active, the first remaining profile becomes active; if none remain, a
// fresh default profile is created and made active.
//
// Returns a copy of the deleted profile so callers can release per-profile
// resources keyed by its ID or name.
func (s *Store) Delete(name string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.names[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	p := s.profiles[id]
	deleted := p.DeepCopy()

	delete(s.profiles, id)
	delete(s.names, name)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.clearSessionsLocked(id)

	if len(s.order) == 0 {
		// The store never goes empty.
		def := newProfile(s.defaultName)
		s.addLocked(def)
	}
	if s.activeID == id {
		s.activeID = s.order[0]
	}

	s.logger.Info("profile deleted", "profile_id", id, "name", name)
	return deleted, nil
}

// Get returns a copy of the profile with the given display name.
func (s *Store) Get(name string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.names[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s.profiles[id].DeepCopy(), nil
}

// GetByID returns a copy of the profile with the given ID.
func (s *Store) GetByID(id string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	return p.DeepCopy(), nil
}

// List returns copies of all profiles in display order.
func (s *Store) List() []Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Profile, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.profiles[id].DeepCopy())
	}
	return out
}

// Count returns the number of profiles.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Active returns a copy of the active profile. The store guarantees one
// always exists.
func (s *Store) Active() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles[s.activeID].DeepCopy()
}

// SetActive switches the active profile by display name.
func (s *Store) SetActive(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.names[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	s.activeID = id
	return nil
}

// AddScene appends a scene ref to a profile's cycle list. Adding a scene
// already present is a no-op; the list holds unique refs in user order.
func (s *Store) AddScene(name, scene string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.byNameLocked(name)
	if err != nil {
		return err
	}
	if indexOf(p.Scenes, scene) >= 0 {
		return nil
	}
	p.Scenes = append(p.Scenes, scene)
	s.clampLocked(p)
	return nil
}

// RemoveScene removes the first occurrence of a scene ref from a profile's
// cycle list. Removing an absent ref is a no-op.
func (s *Store) RemoveScene(name, scene string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.byNameLocked(name)
	if err != nil {
		return err
	}
	i := indexOf(p.Scenes, scene)
	if i < 0 {
		return nil
	}
	p.Scenes = append(p.Scenes[:i], p.Scenes[i+1:]...)
	s.clampLocked(p)
	return nil
}

// MoveScene swaps a scene with its neighbor in the given direction.
// Moving past either end of the list is a no-op.
func (s *Store) MoveScene(name, scene string, move Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.byNameLocked(name)
	if err != nil {
		return err
	}
	i := indexOf(p.Scenes, scene)
	if i < 0 {
		return nil
	}
	j := i + int(move)
	if j < 0 || j >= len(p.Scenes) {
		return nil
	}
	p.Scenes[i], p.Scenes[j] = p.Scenes[j], p.Scenes[i]
	return nil
}

// Reconcile filters every profile's scene list against the host's present
// scene set, preserving relative order, and re-clamps recall indexes.
// Running it twice with the same input is a no-op the second time.
//
// Returns the number of profiles whose lists changed.
func (s *Store) Reconcile(present []string) int {
	presentSet := make(map[string]struct{}, len(present))
	for _, name := range present {
		presentSet[name] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for _, id := range s.order {
		p := s.profiles[id]
		kept := p.Scenes[:0]
		for _, scene := range p.Scenes {
			if _, ok := presentSet[scene]; ok {
				kept = append(kept, scene)
			}
		}
		if len(kept) != len(p.Scenes) {
			p.Scenes = kept
			s.clampLocked(p)
			changed++
		}
	}

	if changed > 0 {
		s.logger.Debug("profiles reconciled",
			"present_scenes", len(present), "profiles_changed", changed)
	}
	return changed
}

// CommitSelection records a committed recall index for a profile, clamped
// to the profile's current list bounds. An index outside [1,N] is clamped
// rather than rejected; committing against an empty list clears the index.
func (s *Store) CommitSelection(id string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return fmt.Errorf("%w: id %s", ErrNotFound, id)
	}

	n := len(p.Scenes)
	switch {
	case n == 0:
		p.LastSelected = 0
	case index < 1:
		p.LastSelected = 1
	case index > n:
		p.LastSelected = n
	default:
		p.LastSelected = index
	}
	return nil
}

// Session returns the tap session for a (profile, direction) pair.
// The second return value reports whether a session exists.
func (s *Store) Session(id string, dir Direction) (TapSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionKey{profileID: id, direction: dir}]
	if !ok {
		return TapSession{}, false
	}
	return *sess, true
}

// SetSession stores the tap session for a (profile, direction) pair.
// Sessions are transient: they are never persisted and are dropped when the
// profile is deleted.
func (s *Store) SetSession(id string, dir Direction, sess TapSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cpy := sess
	s.sessions[sessionKey{profileID: id, direction: dir}] = &cpy
}

// ClearSessions drops all tap sessions for a profile.
func (s *Store) ClearSessions(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearSessionsLocked(id)
}

func (s *Store) clearSessionsLocked(id string) {
	for _, dir := range Directions() {
		delete(s.sessions, sessionKey{profileID: id, direction: dir})
	}
}

// Snapshot returns the persistable state: all profiles in display order
// plus the active profile ID. Tap sessions are excluded.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Profiles: make([]Profile, 0, len(s.order)),
		ActiveID: s.activeID,
	}
	for _, id := range s.order {
		snap.Profiles = append(snap.Profiles, *s.profiles[id].DeepCopy())
	}
	return snap
}

// Restore replaces the store's contents with a snapshot, typically loaded
// from the repository at startup. Recall indexes are re-clamped on the way
// in so a snapshot written by an older version cannot violate bounds. An
// empty snapshot restores the initial single-default-profile state. All tap
// sessions are dropped.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles = make(map[string]*Profile)
	s.names = make(map[string]string)
	s.order = nil
	s.sessions = make(map[sessionKey]*TapSession)

	for i := range snap.Profiles {
		p := snap.Profiles[i].DeepCopy()
		if p.ID == "" {
			p.ID = GenerateID()
		}
		if _, dup := s.names[p.Name]; dup {
			// Name collisions cannot happen through the public API; guard
			// against a hand-edited database.
			s.logger.Warn("dropping profile with duplicate name",
				"profile_id", p.ID, "name", p.Name)
			continue
		}
		if p.Scenes == nil {
			p.Scenes = []string{}
		}
		s.clampLocked(p)
		s.addLocked(p)
	}

	if len(s.order) == 0 {
		s.addLocked(newProfile(s.defaultName))
	}

	s.activeID = s.order[0]
	if _, ok := s.profiles[snap.ActiveID]; ok {
		s.activeID = snap.ActiveID
	}

	s.logger.Info("profiles restored",
		"count", len(s.order), "active_id", s.activeID)
}

// byNameLocked resolves a display name to its profile.
// Caller holds the write lock.
func (s *Store) byNameLocked(name string) (*Profile, error) {
	id, ok := s.names[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s.profiles[id], nil
}

// clampLocked re-establishes the recall index bounds after a list change:
// the index stays within [1,N] when present and is cleared when the list is
// empty. An absent index stays absent. Caller holds the write lock.
func (s *Store) clampLocked(p *Profile) {
	n := len(p.Scenes)
	switch {
	case n == 0:
		p.LastSelected = 0
	case p.LastSelected < 0:
		// A corrupted or hand-edited snapshot can carry a negative index;
		// treat it as absent rather than letting it reach scene lookups.
		p.LastSelected = 0
	case p.LastSelected > n:
		p.LastSelected = n
	}
}

func indexOf(scenes []string, scene string) int {
	for i, s := range scenes {
		if s == scene {
			return i
		}
	}
	return -1
}
