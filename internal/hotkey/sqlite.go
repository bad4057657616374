package hotkey

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bccsg/obs/internal/profile"
)

// SQLiteBindingStore implements BindingStore using SQLite.
type SQLiteBindingStore struct {
	db *sql.DB
}

// NewSQLiteBindingStore creates a new SQLite-backed binding store.
// The db parameter should be an open SQLite connection with the schema
// migrated.
func NewSQLiteBindingStore(db *sql.DB) *SQLiteBindingStore {
	return &SQLiteBindingStore{db: db}
}

// Save upserts a binding blob for an action key.
func (s *SQLiteBindingStore) Save(ctx context.Context, key string, dir profile.Direction, blob string) error {
	query := `
		INSERT INTO hotkey_bindings (profile_key, direction, blob)
		VALUES (?, ?, ?)
		ON CONFLICT(profile_key, direction) DO UPDATE SET blob = excluded.blob`

	if _, err := s.db.ExecContext(ctx, query, key, string(dir), blob); err != nil {
		return fmt.Errorf("saving binding for %s: %w", key, err)
	}
	return nil
}

// Get reads the binding blob for an action key. The second return value is
// false when no blob is stored.
func (s *SQLiteBindingStore) Get(ctx context.Context, key string, dir profile.Direction) (string, bool, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT blob FROM hotkey_bindings WHERE profile_key = ? AND direction = ?`,
		key, string(dir)).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying binding for %s: %w", key, err)
	}
	return blob, true, nil
}

// Delete erases the binding blob for an action key. Deleting an absent row
// is not an error.
func (s *SQLiteBindingStore) Delete(ctx context.Context, key string, dir profile.Direction) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM hotkey_bindings WHERE profile_key = ? AND direction = ?`,
		key, string(dir)); err != nil {
		return fmt.Errorf("deleting binding for %s: %w", key, err)
	}
	return nil
}
