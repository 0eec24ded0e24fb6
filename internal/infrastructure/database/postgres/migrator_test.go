//go:build integration

// Integration tests for migration management.  These tests require a live
// PostgreSQL instance reachable via INTEGRATION_TEST_DB_URL.
package postgres_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolCanon/internal/infrastructure/database/postgres"
)

const testMigrationsPath = "file://../../../../migrations"

func getTestDBURL(t *testing.T) string {
	t.Helper()

	dbURL := os.Getenv("INTEGRATION_TEST_DB_URL")
	if dbURL == "" {
		t.Skip("INTEGRATION_TEST_DB_URL not set; skipping integration test")
	}
	return dbURL
}

// ─────────────────────────────────────────────────────────────────────────────
// RunMigrations
// ─────────────────────────────────────────────────────────────────────────────

func TestRunMigrations_AppliesAllMigrations(t *testing.T) {
	dbURL := getTestDBURL(t)

	err := postgres.ResetDatabase(dbURL, testMigrationsPath)
	require.NoError(t, err)

	err = postgres.RunMigrations(dbURL, testMigrationsPath)
	require.NoError(t, err)

	version, dirty, err := postgres.MigrationStatus(dbURL, testMigrationsPath)
	require.NoError(t, err)
	assert.False(t, dirty, "migration state should not be dirty")
	assert.Greater(t, version, uint(0), "version should be greater than 0 after migrations")
}

func TestRunMigrations_NoChangeWhenAlreadyUpToDate(t *testing.T) {
	dbURL := getTestDBURL(t)

	err := postgres.RunMigrations(dbURL, testMigrationsPath)
	require.NoError(t, err)

	err = postgres.RunMigrations(dbURL, testMigrationsPath)
	require.NoError(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// RollbackMigration
// ─────────────────────────────────────────────────────────────────────────────

func TestRollbackMigration_RollsBackSpecifiedSteps(t *testing.T) {
	dbURL := getTestDBURL(t)

	err := postgres.ResetDatabase(dbURL, testMigrationsPath)
	require.NoError(t, err)

	initialVersion, _, err := postgres.MigrationStatus(dbURL, testMigrationsPath)
	require.NoError(t, err)

	err = postgres.RollbackMigration(dbURL, testMigrationsPath, 1)
	require.NoError(t, err)

	newVersion, dirty, err := postgres.MigrationStatus(dbURL, testMigrationsPath)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Less(t, newVersion, initialVersion)
}

func TestRollbackMigration_FailsWhenStepsIsZero(t *testing.T) {
	dbURL := getTestDBURL(t)

	err := postgres.RollbackMigration(dbURL, testMigrationsPath, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps must be greater than 0")
}

// ─────────────────────────────────────────────────────────────────────────────
// MigrationStatus
// ─────────────────────────────────────────────────────────────────────────────

func TestMigrationStatus_ReturnsZeroWhenNoMigrationsApplied(t *testing.T) {
	dbURL := getTestDBURL(t)

	m, err := migrate.New(testMigrationsPath, dbURL)
	require.NoError(t, err)
	defer m.Close()

	_ = m.Down()

	version, dirty, err := postgres.MigrationStatus(dbURL, testMigrationsPath)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(0), version)
}

// ─────────────────────────────────────────────────────────────────────────────
// ResetDatabase
// ─────────────────────────────────────────────────────────────────────────────

func TestResetDatabase_DropsAndRecreatesSchema(t *testing.T) {
	dbURL := getTestDBURL(t)

	err := postgres.RunMigrations(dbURL, testMigrationsPath)
	require.NoError(t, err)

	err = postgres.ResetDatabase(dbURL, testMigrationsPath)
	require.NoError(t, err)

	version, dirty, err := postgres.MigrationStatus(dbURL, testMigrationsPath)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Greater(t, version, uint(0))
}

// ─────────────────────────────────────────────────────────────────────────────
// Schema contents after migration
// ─────────────────────────────────────────────────────────────────────────────

func TestRunMigrations_CreatesRegistryTable(t *testing.T) {
	dbURL := getTestDBURL(t)

	err := postgres.ResetDatabase(dbURL, testMigrationsPath)
	require.NoError(t, err)

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	var exists bool
	err = db.QueryRowContext(ctx, `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_name = 'registry_entries'
	)`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists, "registry_entries should exist after migrations")

	// The unique index on idcode is what makes Register idempotent under
	// concurrency; its absence would silently break the dedup path.
	err = db.QueryRowContext(ctx, `SELECT EXISTS (
		SELECT FROM pg_indexes
		WHERE tablename = 'registry_entries'
		AND indexname = 'registry_entries_idcode_key'
	)`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists, "unique idcode index should exist after migrations")
}
