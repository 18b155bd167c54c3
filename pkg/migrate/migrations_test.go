package migrate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/scrappickup-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := fs.Glob(migrate.Embedded(), "*_"+suffix+".sql")
	require.NoError(t, err)
	require.Len(t, matches, 1, "expected one %s migration", suffix)

	data, err := fs.ReadFile(migrate.Embedded(), matches[0])
	require.NoError(t, err)
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
	require.NoError(t, migrate.ValidateFS(migrate.Embedded()))
}

func TestBillsMigrationKeepsOneBillPerAssignment(t *testing.T) {
	content := readMigration(t, "create_bills")
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS bills",
		"REFERENCES pickup_assignments(id) ON DELETE CASCADE",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_bills_assignment_id ON bills (assignment_id)",
		"DROP TABLE IF EXISTS bills",
	} {
		assert.Contains(t, content, sub)
	}
}

func TestAssignmentsMigrationCarriesBothTimestamps(t *testing.T) {
	content := readMigration(t, "create_pickup_assignments")
	for _, sub := range []string{
		"assigned_at TIMESTAMPTZ NULL",
		`"timestamp" TEXT NULL`,
		"CREATE INDEX IF NOT EXISTS idx_pickup_assignments_status ON pickup_assignments (status)",
	} {
		assert.Contains(t, content, sub)
	}
}

func TestMigrationOrderCreatesAssignmentsBeforeBills(t *testing.T) {
	entries, err := fs.ReadDir(migrate.Embedded(), ".")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assignments, bills := -1, -1
	for i, name := range names {
		switch {
		case strings.HasSuffix(name, "_create_pickup_assignments.sql"):
			assignments = i
		case strings.HasSuffix(name, "_create_bills.sql"):
			bills = i
		}
	}
	require.NotEqual(t, -1, assignments)
	require.NotEqual(t, -1, bills)
	assert.Less(t, assignments, bills)
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add  Vendor-Rating!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_vendor_rating.sql"), path)
	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "!!!")
	assert.Error(t, err)
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	assert.Error(t, migrate.ValidateDir(dir))

	assert.Error(t, migrate.ValidateDir(t.TempDir()))
}

func TestUserProfilePhoneIsUnique(t *testing.T) {
	content := readMigration(t, "unique_user_profile_phone")
	assert.Contains(t, content, "CREATE UNIQUE INDEX IF NOT EXISTS ux_user_profiles_phone ON user_profiles (phone)")
	assert.Contains(t, content, "DROP INDEX IF EXISTS idx_user_profiles_phone")
}
