// migrate.go runs schema migrations through golang-migrate with the
// file source driver.
package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file" // file:// source driver
)

// MigrationConfig holds configuration for running migrations.
type MigrationConfig struct {
	// MigrationsPath locates the migrations directory, in file:// URL
	// form (e.g. "file://db/migrations")
	MigrationsPath string

	// DatabaseName is golang-migrate's internal tracking name
	DatabaseName string
}

// DefaultMigrationConfig returns sensible migration defaults.
func DefaultMigrationConfig(migrationsPath string) MigrationConfig {
	return MigrationConfig{
		MigrationsPath: migrationsPath,
		DatabaseName:   "main",
	}
}

// newMigrator builds a migrator bound to an open connection.
func newMigrator(conn *sql.DB, config MigrationConfig) (*migrate.Migrate, error) {
	driver, err := sqlite.WithInstance(conn, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("db: failed to create migration driver: %w", err)
	}
	return migrate.NewWithDatabaseInstance(config.MigrationsPath, config.DatabaseName, driver)
}

// MigrateUp applies all pending up migrations. A database already at the
// latest version is not an error.
//
// The migrator takes ownership of the connection and closes it when
// done; open a fresh connection for subsequent work.
func MigrateUp(conn *sql.DB, migrationsPath string) error {
	m, err := newMigrator(conn, DefaultMigrationConfig(migrationsPath))
	if err != nil {
		return fmt.Errorf("db: failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("db: failed to apply migrations: %w", err)
	}
	return nil
}

// MigrateUpFromPath opens a throwaway connection to the given database
// file and applies all pending migrations.
func MigrateUpFromPath(dbPath, migrationsPath string) error {
	conn, err := NewSQLiteConnection(DefaultConnectionConfig(dbPath))
	if err != nil {
		return err
	}
	return MigrateUp(conn, migrationsPath)
}
