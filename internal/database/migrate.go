// migrate.go applies the roster schema using golang-migrate.
//
// Migrations are SQL files in the migrations/ directory. Each migration
// has an "up" (apply) and "down" (rollback) file. The migrate library
// tracks which migrations have been applied in a schema_migrations table.
package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // File source driver
)

// RunMigrations brings the students and validation_runs tables up to date.
// Called at startup before any handler touches the roster.
func (db *DB) RunMigrations(migrationsPath string) error {
	m, err := db.migrator(migrationsPath)
	if err != nil {
		return err
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Println("📦 Roster schema: no new migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Printf("📦 Roster schema: migrated to version %d (dirty: %v)", version, dirty)
	return nil
}

// migrator wires golang-migrate to the pool we already hold instead of
// opening a second connection from the URL.
func (db *DB) migrator(migrationsPath string) (*migrate.Migrate, error) {
	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator for %s: %w", migrationsPath, err)
	}
	return m, nil
}
