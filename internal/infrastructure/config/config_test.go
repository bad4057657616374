package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeConfig writes a temporary config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
service:
  id: "test-cycler"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  broker:
    host: "broker.local"
    port: 1883
    client_id: "test-client"
  qos: 1
cycling:
  tap_window_ms: 450
  persist_last_selected: false
  default_profile: "Main"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.ID != "test-cycler" {
		t.Errorf("Service.ID = %q, want %q", cfg.Service.ID, "test-cycler")
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
	if cfg.Cycling.TapWindowMS != 450 {
		t.Errorf("Cycling.TapWindowMS = %d, want 450", cfg.Cycling.TapWindowMS)
	}
	if cfg.Cycling.PersistLastSelected {
		t.Error("Cycling.PersistLastSelected = true, want false")
	}
	if cfg.Cycling.DefaultProfile != "Main" {
		t.Errorf("Cycling.DefaultProfile = %q, want %q", cfg.Cycling.DefaultProfile, "Main")
	}
	if got := cfg.TapWindow(); got != 450*time.Millisecond {
		t.Errorf("TapWindow() = %v, want 450ms", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	// A minimal file should leave the defaults intact.
	configPath := writeConfig(t, `
database:
  path: "/tmp/test.db"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Cycling.TapWindowMS != defaultTapWindowMS {
		t.Errorf("TapWindowMS = %d, want default %d", cfg.Cycling.TapWindowMS, defaultTapWindowMS)
	}
	if !cfg.Cycling.PersistLastSelected {
		t.Error("PersistLastSelected default should be true")
	}
	if cfg.Cycling.DefaultProfile != DefaultProfileName {
		t.Errorf("DefaultProfile = %q, want %q", cfg.Cycling.DefaultProfile, DefaultProfileName)
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "invalid: [yaml: content")

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "empty database path",
			content: `
database:
  path: ""
`,
		},
		{
			name: "invalid qos",
			content: `
database:
  path: "/tmp/test.db"
mqtt:
  qos: 3
`,
		},
		{
			name: "zero tap window",
			content: `
database:
  path: "/tmp/test.db"
cycling:
  tap_window_ms: 0
`,
		},
		{
			name: "blank default profile",
			content: `
database:
  path: "/tmp/test.db"
cycling:
  tap_window_ms: 600
  default_profile: "   "
`,
		},
		{
			name: "tsdb enabled without url",
			content: `
database:
  path: "/tmp/test.db"
tsdb:
  enabled: true
  token: "tok"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := writeConfig(t, tt.content)
			if _, err := Load(configPath); err == nil {
				t.Error("Load() expected validation error, got nil")
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	configPath := writeConfig(t, `
database:
  path: "/tmp/test.db"
`)

	t.Setenv("SCENECYCLER_DATABASE_PATH", "/override/path.db")
	t.Setenv("SCENECYCLER_MQTT_HOST", "mqtt.override")
	t.Setenv("SCENECYCLER_TAP_WINDOW_MS", "250")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/override/path.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.MQTT.Broker.Host != "mqtt.override" {
		t.Errorf("MQTT.Broker.Host = %q, want env override", cfg.MQTT.Broker.Host)
	}
	if cfg.Cycling.TapWindowMS != 250 {
		t.Errorf("Cycling.TapWindowMS = %d, want 250", cfg.Cycling.TapWindowMS)
	}
}
