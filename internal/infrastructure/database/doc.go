// Package database provides SQLite connection management for Scene Cycler.
//
// This package manages:
//   - Opening the database with WAL mode and busy-timeout pragmas
//   - Embedded schema migrations (applied in version order)
//   - Health checks and graceful shutdown
//
// SQLite is opened with a single-writer connection pool, matching
// SQLite's locking model. All persistence in the service goes through
// this wrapper so pragmas and permissions are applied consistently.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path, WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
