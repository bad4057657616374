// Scene Cycler - multi-tap scene switching for streaming hosts
//
// This is the main entry point for the Scene Cycler service. It pairs
// with a thin shim inside the host application (the program that owns the
// scenes and hotkeys) over MQTT, and provides:
//   - Named scene profiles with ordered cycle lists
//   - Recall-then-advance multi-tap cycling on a hotkey pair per profile
//   - Binding-preserving hotkey lifecycle across profile renames
//   - Durable profile state in SQLite, optional selection history in InfluxDB
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/bccsg/obs/migrations"

	"github.com/bccsg/obs/internal/cycle"
	"github.com/bccsg/obs/internal/hostbridge"
	"github.com/bccsg/obs/internal/hotkey"
	"github.com/bccsg/obs/internal/infrastructure/config"
	"github.com/bccsg/obs/internal/infrastructure/database"
	"github.com/bccsg/obs/internal/infrastructure/logging"
	"github.com/bccsg/obs/internal/infrastructure/mqtt"
	"github.com/bccsg/obs/internal/infrastructure/tsdb"
	"github.com/bccsg/obs/internal/profile"
	"github.com/bccsg/obs/internal/service"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Scene Cycler",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Connect to MQTT broker (the link to the host application's shim)
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB selection history (optional)
	var recorder *tsdb.Client
	if cfg.TSDB.Enabled {
		recorder, err = tsdb.Connect(cfg.TSDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			recorder.Close()
		}()
		log.Info("InfluxDB connected",
			"url", cfg.TSDB.URL,
			"org", cfg.TSDB.Org,
			"bucket", cfg.TSDB.Bucket,
		)

		recorder.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("selection history disabled")
	}

	// Assemble the cycling core
	svc, err := buildService(cfg, db, mqttClient, recorder, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("starting service: %w", err)
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, recorder); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Persist final state before the deferred Close() chain runs
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := svc.Persist(shutdownCtx); err != nil {
		log.Error("failed to persist final state", "error", err)
	}

	log.Info("Scene Cycler stopped")
	return nil
}

// buildService wires the store, engine, hotkey manager, and host bridge
// into a running service.
func buildService(cfg *config.Config, db *database.DB, mqttClient *mqtt.Client, recorder *tsdb.Client, log *logging.Logger) (*service.Service, error) {
	qos := byte(cfg.MQTT.QoS) // #nosec G115 -- validated to 0..2 by config

	store := profile.NewStore(cfg.Cycling.DefaultProfile)
	store.SetLogger(log)
	repo := profile.NewSQLiteRepository(db.DB)

	catalog := hostbridge.NewSceneCatalog(mqttClient, qos)
	catalog.SetLogger(log)

	hotkeyHost := hostbridge.NewHotkeyHost(mqttClient, qos)
	hotkeyHost.SetLogger(log)

	engine := cycle.NewEngine(store, catalog, cycle.Config{
		TapWindow:         cfg.TapWindow(),
		PersistSelections: cfg.Cycling.PersistLastSelected,
	})
	engine.SetLogger(log)
	if recorder != nil {
		engine.SetRecorder(recorder)
	}

	var svc *service.Service
	bindingStore := hotkey.NewSQLiteBindingStore(db.DB)
	manager := hotkey.NewManager(hotkeyHost, bindingStore,
		func(ctx context.Context, profileID string, dir profile.Direction) error {
			_, err := svc.Tap(ctx, profileID, dir)
			return err
		})
	manager.SetLogger(log)

	svc = service.New(store, repo, engine, manager)
	svc.SetLogger(log)
	engine.SetPersister(svc)

	// Inbound host traffic: scene changes, presses, binding updates
	catalog.SetOnChange(func(scenes []string) {
		svc.Reconcile(context.Background(), scenes)
	})
	hotkeyHost.SetOnPress(svc.HandlePress)
	hotkeyHost.SetOnBindingChange(svc.HandleBindingChange)

	if err := catalog.Start(); err != nil {
		return nil, fmt.Errorf("starting scene catalog: %w", err)
	}
	if err := hotkeyHost.Start(); err != nil {
		return nil, fmt.Errorf("starting hotkey bridge: %w", err)
	}

	commands := hostbridge.NewCommandListener(mqttClient, qos, svc)
	commands.SetLogger(log)
	if err := commands.Start(); err != nil {
		return nil, fmt.Errorf("starting command listener: %w", err)
	}

	return svc, nil
}

// getConfigPath returns the configuration file path.
// Uses SCENECYCLER_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SCENECYCLER_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, recorder *tsdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if recorder != nil {
		if err := recorder.HealthCheck(ctx); err != nil {
			return fmt.Errorf("tsdb: %w", err)
		}
	}

	return nil
}
