package service

import (
	"context"
	"fmt"

	"github.com/bccsg/obs/internal/cycle"
	"github.com/bccsg/obs/internal/hotkey"
	"github.com/bccsg/obs/internal/profile"
)

// Logger interface for service logging.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// Service coordinates the profile store, cycle engine, and hotkey manager.
//
// The store holds state, the engine turns taps into selections, and the
// manager keeps host actions in step; the service is the only component
// that sees all three, so cross-cutting sequences live here: a profile
// mutation flows store → hotkey lifecycle → snapshot save, in that order.
type Service struct {
	store   *profile.Store
	repo    profile.Repository
	engine  *cycle.Engine
	hotkeys *hotkey.Manager
	logger  Logger
}

// New creates a service over the given collaborators. The repository may
// be nil, in which case state lives only in memory (useful in tests).
func New(store *profile.Store, repo profile.Repository, engine *cycle.Engine, hotkeys *hotkey.Manager) *Service {
	return &Service{
		store:   store,
		repo:    repo,
		engine:  engine,
		hotkeys: hotkeys,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for service operations.
func (s *Service) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Start restores persisted state and registers hotkey actions for every
// profile.
func (s *Service) Start(ctx context.Context) error {
	if s.repo != nil {
		snap, err := s.repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("loading profiles: %w", err)
		}
		s.store.Restore(snap)
	}

	if err := s.hotkeys.Sync(ctx, s.store.List()); err != nil {
		return fmt.Errorf("registering hotkey actions: %w", err)
	}

	s.logger.Info("service started", "profiles", s.store.Count())
	return nil
}

// Persist writes the store's snapshot. Implements the engine's Persister.
func (s *Service) Persist(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	return s.repo.Save(ctx, s.store.Snapshot())
}

// save persists after a mutation, logging rather than failing the
// operation: the in-memory change already happened.
func (s *Service) save(ctx context.Context) {
	if err := s.Persist(ctx); err != nil {
		s.logger.Error("failed to persist profiles", "error", err)
	}
}

// CreateProfile creates a profile, registers its hotkey pair, and
// persists. A profile whose actions cannot be registered is still created;
// hotkeys can catch up on the next Sync.
func (s *Service) CreateProfile(ctx context.Context, name string) (*profile.Profile, error) {
	p, err := s.store.Create(name)
	if err != nil {
		return nil, err
	}

	if err := s.hotkeys.OnProfileCreated(ctx, p); err != nil {
		s.logger.Warn("profile created without hotkey actions",
			"profile", p.Name, "error", err)
	}

	s.save(ctx)
	return p, nil
}

// RenameProfile renames a profile, migrates its hotkey actions and binding
// blobs to the new name-derived keys, and persists.
func (s *Service) RenameProfile(ctx context.Context, oldName, newName string) (*profile.Profile, error) {
	p, err := s.store.Rename(oldName, newName)
	if err != nil {
		return nil, err
	}

	if err := s.hotkeys.OnProfileRenamed(ctx, oldName, p); err != nil {
		s.logger.Warn("profile renamed without hotkey actions",
			"profile", p.Name, "error", err)
	}

	s.save(ctx)
	return p, nil
}

// DeleteProfile deletes a profile, withdraws its hotkey actions, and
// persists. If the deletion spawned a replacement default profile, the
// replacement gets its own action pair.
func (s *Service) DeleteProfile(ctx context.Context, name string) error {
	deleted, err := s.store.Delete(name)
	if err != nil {
		return err
	}

	s.hotkeys.OnProfileDeleted(ctx, deleted)

	if err := s.hotkeys.Sync(ctx, s.store.List()); err != nil {
		s.logger.Warn("failed to register replacement profile actions", "error", err)
	}

	s.save(ctx)
	return nil
}

// AddScene appends a scene to a profile's cycle list and persists.
func (s *Service) AddScene(ctx context.Context, name, scene string) error {
	if err := s.store.AddScene(name, scene); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

// RemoveScene removes a scene from a profile's cycle list and persists.
func (s *Service) RemoveScene(ctx context.Context, name, scene string) error {
	if err := s.store.RemoveScene(name, scene); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

// MoveScene reorders a scene within a profile's cycle list and persists.
func (s *Service) MoveScene(ctx context.Context, name, scene string, move profile.Move) error {
	if err := s.store.MoveScene(name, scene, move); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

// SetActiveProfile switches the active profile and persists.
func (s *Service) SetActiveProfile(ctx context.Context, name string) error {
	if err := s.store.SetActive(name); err != nil {
		return err
	}
	s.save(ctx)
	return nil
}

// Reconcile filters every profile against the host's present scene set,
// persisting only when something changed. Wired to the host bridge's
// scene-change callback; safe to call on every notification.
func (s *Service) Reconcile(ctx context.Context, present []string) {
	if changed := s.store.Reconcile(present); changed > 0 {
		s.logger.Info("profiles reconciled with host scenes",
			"profiles_changed", changed)
		s.save(ctx)
	}
}

// HandlePress dispatches a hotkey press by action key. Wired to the host
// bridge's press callback.
func (s *Service) HandlePress(ctx context.Context, key string) {
	if err := s.hotkeys.HandlePress(ctx, key); err != nil {
		s.logger.Warn("press not dispatched", "key", key, "error", err)
	}
}

// HandleBindingChange persists a binding blob reported by the host. Wired
// to the host bridge's binding callback.
func (s *Service) HandleBindingChange(ctx context.Context, key, blob string) {
	s.hotkeys.BindingChanged(ctx, key, blob)
}

// Tap runs one tap through the cycle engine.
func (s *Service) Tap(ctx context.Context, profileID string, dir profile.Direction) (*cycle.Selection, error) {
	return s.engine.Tap(ctx, profileID, dir)
}

// Profiles returns all profiles in display order.
func (s *Service) Profiles() []profile.Profile {
	return s.store.List()
}

// ActiveProfile returns the active profile.
func (s *Service) ActiveProfile() *profile.Profile {
	return s.store.Active()
}
