package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Scene Cycler.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Cycling  CyclingConfig  `yaml:"cycling"`
	TSDB     TSDBConfig     `yaml:"tsdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig contains service identity information.
type ServiceConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings for the host bridge.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// CyclingConfig contains the multi-tap cycling behaviour settings.
type CyclingConfig struct {
	// TapWindowMS is the maximum gap between presses (milliseconds) for a
	// press to continue the current session rather than start a new one.
	TapWindowMS int `yaml:"tap_window_ms"`

	// PersistLastSelected commits each selection as the profile's recall
	// point. When false, recall keeps returning to the last persisted value
	// while in-memory sessions advance transiently.
	PersistLastSelected bool `yaml:"persist_last_selected"`

	// DefaultProfile is the name used when a profile must be created
	// implicitly because none exist.
	DefaultProfile string `yaml:"default_profile"`
}

// TSDBConfig contains InfluxDB selection-history settings.
type TSDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default cycling behaviour constants.
const (
	// defaultTapWindowMS matches the classic double-tap feel: presses more
	// than 600ms apart start a fresh session.
	defaultTapWindowMS = 600

	// DefaultProfileName is the reserved name for the implicitly created
	// profile when no profiles exist.
	DefaultProfileName = "Default"
)

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SCENECYCLER_SECTION_KEY
// For example: SCENECYCLER_DATABASE_PATH, SCENECYCLER_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			ID:   "scenecycler-001",
			Name: "Scene Cycler",
		},
		Database: DatabaseConfig{
			Path:        "./data/scenecycler.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "scenecycler-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Cycling: CyclingConfig{
			TapWindowMS:         defaultTapWindowMS,
			PersistLastSelected: true,
			DefaultProfile:      DefaultProfileName,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SCENECYCLER_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("SCENECYCLER_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("SCENECYCLER_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SCENECYCLER_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SCENECYCLER_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Cycling
	if v := os.Getenv("SCENECYCLER_TAP_WINDOW_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.Cycling.TapWindowMS = ms
		}
	}

	// TSDB
	if v := os.Getenv("SCENECYCLER_TSDB_TOKEN"); v != "" {
		cfg.TSDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Service validation
	if c.Service.ID == "" {
		errs = append(errs, "service.id is required")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// Cycling validation
	if c.Cycling.TapWindowMS <= 0 {
		errs = append(errs, "cycling.tap_window_ms must be positive")
	}
	if strings.TrimSpace(c.Cycling.DefaultProfile) == "" {
		errs = append(errs, "cycling.default_profile is required")
	}

	// TSDB validation (only when enabled)
	if c.TSDB.Enabled {
		if c.TSDB.URL == "" {
			errs = append(errs, "tsdb.url is required when tsdb is enabled")
		}
		if c.TSDB.Token == "" {
			errs = append(errs, "tsdb.token is required when tsdb is enabled (set SCENECYCLER_TSDB_TOKEN)")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// TapWindow returns the configured tap window as a Duration.
func (c *Config) TapWindow() time.Duration {
	return time.Duration(c.Cycling.TapWindowMS) * time.Millisecond
}
