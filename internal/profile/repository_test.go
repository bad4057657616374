package profile

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the profile tables.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			position INTEGER NOT NULL DEFAULT 0,
			last_selected INTEGER,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
		CREATE TABLE profile_scenes (
			profile_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			scene TEXT NOT NULL,
			PRIMARY KEY (profile_id, position),
			FOREIGN KEY (profile_id) REFERENCES profiles(id) ON DELETE CASCADE
		) STRICT;
		CREATE TABLE settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		) STRICT;
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestRepository_SaveLoad(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	snap := Snapshot{
		Profiles: []Profile{
			{ID: "p1", Name: "Default", Scenes: []string{}, LastSelected: 0},
			{ID: "p2", Name: "Streaming", Scenes: []string{"A", "B", "C"}, LastSelected: 2},
		},
		ActiveID: "p2",
	}

	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(loaded.Profiles) != 2 {
		t.Fatalf("loaded %d profiles, want 2", len(loaded.Profiles))
	}
	if loaded.ActiveID != "p2" {
		t.Errorf("ActiveID = %q, want p2", loaded.ActiveID)
	}

	// Display order survives the roundtrip.
	if loaded.Profiles[0].Name != "Default" || loaded.Profiles[1].Name != "Streaming" {
		t.Errorf("profile order = %q, %q; want Default, Streaming",
			loaded.Profiles[0].Name, loaded.Profiles[1].Name)
	}

	streaming := loaded.Profiles[1]
	assertScenes(t, streaming.Scenes, []string{"A", "B", "C"})
	if streaming.LastSelected != 2 {
		t.Errorf("LastSelected = %d, want 2", streaming.LastSelected)
	}

	// Absent recall index stays absent.
	if loaded.Profiles[0].LastSelected != 0 {
		t.Errorf("Default.LastSelected = %d, want 0", loaded.Profiles[0].LastSelected)
	}
}

func TestRepository_SaveReplaces(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	first := Snapshot{
		Profiles: []Profile{
			{ID: "p1", Name: "Default", Scenes: []string{"A"}},
			{ID: "p2", Name: "Old", Scenes: []string{"B"}},
		},
		ActiveID: "p1",
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	second := Snapshot{
		Profiles: []Profile{
			{ID: "p1", Name: "Default", Scenes: []string{"A", "C"}},
		},
		ActiveID: "p1",
	}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save() second error = %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Profiles) != 1 {
		t.Fatalf("loaded %d profiles, want 1", len(loaded.Profiles))
	}
	assertScenes(t, loaded.Profiles[0].Scenes, []string{"A", "C"})
}

func TestRepository_LoadEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)

	loaded, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() on fresh database error = %v", err)
	}
	if len(loaded.Profiles) != 0 {
		t.Errorf("loaded %d profiles, want 0", len(loaded.Profiles))
	}
	if loaded.ActiveID != "" {
		t.Errorf("ActiveID = %q, want empty", loaded.ActiveID)
	}
}

func TestRepository_StoreRoundtrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	store := NewStore("Default")
	_, _ = store.Create("Streaming")
	for _, scene := range []string{"A", "B"} {
		_ = store.AddScene("Streaming", scene)
	}
	p, _ := store.Get("Streaming")
	_ = store.CommitSelection(p.ID, 1)

	if err := repo.Save(ctx, store.Snapshot()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	restored := NewStore("Default")
	restored.Restore(loaded)

	got, err := restored.Get("Streaming")
	if err != nil {
		t.Fatalf("Get() after restore error = %v", err)
	}
	if got.ID != p.ID || got.LastSelected != 1 {
		t.Errorf("restored profile = %+v, want ID %s LastSelected 1", got, p.ID)
	}
	if restored.Active().ID != p.ID {
		t.Error("restored active profile mismatch")
	}
}
