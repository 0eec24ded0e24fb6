// Package postgres provides the registry database connection pool and
// schema migration management built on golang-migrate.  Migrations run
// automatically on startup; the standalone functions here back the
// operational paths (rollback, status, recovery) that work from a bare
// connection string.
package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ─────────────────────────────────────────────────────────────────────────────
// RunMigrations — apply all pending migrations
// ─────────────────────────────────────────────────────────────────────────────

// RunMigrations applies every pending migration from migrationsPath (a
// "file://..." URL) against dbURL.  An already up-to-date schema is not an
// error.
func RunMigrations(dbURL string, migrationsPath string) error {
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// RollbackMigration — rollback migrations by specified steps
// ─────────────────────────────────────────────────────────────────────────────

// RollbackMigration reverts the schema by steps migrations.  steps must be
// positive.
func RollbackMigration(dbURL string, migrationsPath string, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be greater than 0, got %d", steps)
	}

	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("no migrations to roll back")
		}
		return fmt.Errorf("failed to rollback %d step(s): %w", steps, err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// MigrationStatus — query current migration state
// ─────────────────────────────────────────────────────────────────────────────

// MigrationStatus reports the applied migration version and whether the
// schema is dirty.  Dirty means a prior migration failed partway and needs
// manual recovery, usually via ForceMigrationVersion.
func MigrationStatus(dbURL string, migrationsPath string) (version uint, dirty bool, err error) {
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}

	return version, dirty, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ResetDatabase — rollback all migrations and re-apply them
// ─────────────────────────────────────────────────────────────────────────────

// ResetDatabase rolls every migration back and re-applies them from scratch.
// It drops all tables, so it is only for development and test databases.
func ResetDatabase(dbURL string, migrationsPath string) error {
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Down(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back all migrations: %w", err)
		}
	}

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to re-apply migrations: %w", err)
		}
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ForceMigrationVersion — manually set migration version (dangerous)
// ─────────────────────────────────────────────────────────────────────────────

// ForceMigrationVersion sets the schema version without running any
// migration.  It exists to clear a dirty state after a failed migration has
// been fixed by hand; used incorrectly it leaves the version out of sync
// with the actual schema.
func ForceMigrationVersion(dbURL string, migrationsPath string, version int) error {
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}

	return nil
}
