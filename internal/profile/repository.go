package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// settingActiveProfile is the settings key holding the active profile ID.
const settingActiveProfile = "active_profile"

// Repository defines the interface for profile persistence.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
//
// Persistence is snapshot-shaped: the store is the in-memory authority and
// the repository writes its full state after each mutation. Profile counts
// are small so full rewrites stay cheap and keep the write path trivially
// crash-consistent.
type Repository interface {
	// Save writes the complete snapshot, replacing previous contents.
	Save(ctx context.Context, snap Snapshot) error

	// Load reads the stored snapshot. A fresh database yields an empty
	// snapshot, never an error.
	Load(ctx context.Context) (Snapshot, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection with the schema
// migrated.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save writes the snapshot in a single transaction: existing profile rows
// are replaced, scene rows ride on the profiles FK cascade, and the active
// profile reference is upserted into settings.
func (r *SQLiteRepository) Save(ctx context.Context, snap Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles`); err != nil {
		return fmt.Errorf("clearing profiles: %w", err)
	}

	insertProfile := `
		INSERT INTO profiles (id, name, position, last_selected)
		VALUES (?, ?, ?, ?)`
	insertScene := `
		INSERT INTO profile_scenes (profile_id, position, scene)
		VALUES (?, ?, ?)`

	for pos, p := range snap.Profiles {
		var lastSelected sql.NullInt64
		if p.LastSelected > 0 {
			lastSelected = sql.NullInt64{Int64: int64(p.LastSelected), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, insertProfile,
			p.ID, p.Name, pos, lastSelected); err != nil {
			return fmt.Errorf("inserting profile %s: %w", p.Name, err)
		}
		for i, scene := range p.Scenes {
			if _, err := tx.ExecContext(ctx, insertScene, p.ID, i, scene); err != nil {
				return fmt.Errorf("inserting scene for profile %s: %w", p.Name, err)
			}
		}
	}

	upsertSetting := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.ExecContext(ctx, upsertSetting,
		settingActiveProfile, snap.ActiveID); err != nil {
		return fmt.Errorf("saving active profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot in display order.
func (r *SQLiteRepository) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, last_selected
		FROM profiles
		ORDER BY position`)
	if err != nil {
		return snap, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var (
			p            Profile
			lastSelected sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Name, &lastSelected); err != nil {
			return snap, fmt.Errorf("scanning profile: %w", err)
		}
		if lastSelected.Valid {
			p.LastSelected = int(lastSelected.Int64)
		}
		p.Scenes = []string{}
		index[p.ID] = len(snap.Profiles)
		snap.Profiles = append(snap.Profiles, p)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("iterating profiles: %w", err)
	}

	sceneRows, err := r.db.QueryContext(ctx, `
		SELECT profile_id, scene
		FROM profile_scenes
		ORDER BY profile_id, position`)
	if err != nil {
		return snap, fmt.Errorf("querying profile scenes: %w", err)
	}
	defer sceneRows.Close()

	for sceneRows.Next() {
		var profileID, scene string
		if err := sceneRows.Scan(&profileID, &scene); err != nil {
			return snap, fmt.Errorf("scanning profile scene: %w", err)
		}
		if i, ok := index[profileID]; ok {
			snap.Profiles[i].Scenes = append(snap.Profiles[i].Scenes, scene)
		}
	}
	if err := sceneRows.Err(); err != nil {
		return snap, fmt.Errorf("iterating profile scenes: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`,
		settingActiveProfile).Scan(&snap.ActiveID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return snap, fmt.Errorf("querying active profile: %w", err)
	}

	return snap, nil
}
