// database.go implements the Database organism that owns the SQLite
// connection lifecycle: open with WAL mode, migrate, and close.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DatabaseConfig holds configuration for the Database.
type DatabaseConfig struct {
	// Path is the database file path
	Path string

	// MigrationsPath locates migrations (file:// URL form)
	// Default: "file://db/migrations"
	MigrationsPath string

	// ConnectionConfig customizes the SQLite connection; nil uses
	// defaults
	ConnectionConfig *ConnectionConfig
}

// DefaultDatabaseConfig returns sensible defaults for the database.
func DefaultDatabaseConfig(path string) DatabaseConfig {
	return DatabaseConfig{
		Path:           path,
		MigrationsPath: "file://db/migrations",
	}
}

// Database owns the SQLite connection used by the repository.
//
// Usage:
//
//	database, err := NewDatabase("edukai.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer database.Close()
type Database struct {
	conn           *sql.DB
	path           string
	migrationsPath string
	mu             sync.RWMutex
}

// NewDatabase opens (creating if needed) the database at path and runs
// pending migrations, using default configuration.
func NewDatabase(path string) (*Database, error) {
	return NewDatabaseWithConfig(DefaultDatabaseConfig(path))
}

// NewDatabaseWithConfig opens the database with custom configuration.
// Parent directories of the database file are created if missing.
func NewDatabaseWithConfig(config DatabaseConfig) (*Database, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("db: database path is required")
	}

	if dir := filepath.Dir(config.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("db: failed to create database directory %s: %w", dir, err)
		}
	}

	connConfig := DefaultConnectionConfig(config.Path)
	if config.ConnectionConfig != nil {
		connConfig = *config.ConnectionConfig
	}

	migrationsPath := config.MigrationsPath
	if migrationsPath == "" {
		migrationsPath = "file://db/migrations"
	}

	// The migrator closes the connection it is handed, so migrations
	// run on a throwaway connection before the long-lived one opens.
	if err := MigrateUpFromPath(config.Path, migrationsPath); err != nil {
		return nil, err
	}

	conn, err := NewSQLiteConnection(connConfig)
	if err != nil {
		return nil, err
	}

	return &Database{
		conn:           conn,
		path:           config.Path,
		migrationsPath: migrationsPath,
	}, nil
}

// DB exposes the underlying connection for repositories.
func (d *Database) DB() *sql.DB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.conn
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.path
}

// Close closes the underlying connection.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}
