package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewMemoryDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, conn *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

// TestNewDB_CreatesDirectory verifies that NewDB creates missing parent directories.
func TestNewDB_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "ringside.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err, "NewDB should succeed even with nested non-existent directories")
	defer db.Close()

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	require.True(t, info.IsDir())
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0700), info.Mode().Perm(), "Directory should have 0700 permissions")
	}
	require.Equal(t, dbPath, db.Path())
}

// TestNewDB_RunsMigrations verifies that every table exists and the version is recorded.
func TestNewDB_RunsMigrations(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "ringside.db"))
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"shows", "owners", "dogs", "registrations", "schema_migrations"} {
		require.True(t, tableExists(t, db.conn, table), "table %s should exist", table)
	}
	version, err := db.Version(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint(2), version)
}

// TestNewDB_ReopenIsIdempotent verifies that applied migrations are not run again.
func TestNewDB_ReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ringside.db")

	db1, err := NewDB(dbPath)
	require.NoError(t, err)
	_, err = db1.conn.Exec(`INSERT INTO shows (id, name) VALUES ('s1', 'Spring Classic')`)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, err := NewDB(dbPath)
	require.NoError(t, err, "existing tables must not be created again")
	defer db2.Close()

	var name string
	require.NoError(t, db2.conn.QueryRow(`SELECT name FROM shows WHERE id = 's1'`).Scan(&name))
	require.Equal(t, "Spring Classic", name)
}

// TestNewDB_PreMigrationBackup verifies that an existing database is copied to .bak.
func TestNewDB_PreMigrationBackup(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ringside.db")

	db1, err := NewDB(dbPath)
	require.NoError(t, err)
	_, err = os.Stat(dbPath + ".bak")
	require.True(t, os.IsNotExist(err), "a new database has nothing to back up")
	require.NoError(t, db1.Close())

	db2, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db2.Close()

	info, err := os.Stat(dbPath + ".bak")
	require.NoError(t, err, "Backup file should exist after second NewDB")
	require.Greater(t, info.Size(), int64(0))
}

// TestNewDB_Pragmas verifies WAL mode, foreign keys and the busy timeout.
func TestNewDB_Pragmas(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "ringside.db"))
	require.NoError(t, err)
	defer db.Close()

	var journalMode string
	require.NoError(t, db.conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	require.Equal(t, "wal", journalMode)

	var foreignKeys int
	require.NoError(t, db.conn.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	require.Equal(t, 1, foreignKeys)

	var busyTimeout int
	require.NoError(t, db.conn.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	require.Equal(t, 5000, busyTimeout)
}

// TestNewDB_InvalidPath verifies that NewDB fails when the directory cannot be created.
func TestNewDB_InvalidPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix-specific path test")
	}
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	_, err := NewDB(filepath.Join(blocker, "ringside.db"))
	require.ErrorContains(t, err, "creating database directory")
}

// TestDB_Close verifies that the connection closes cleanly.
func TestDB_Close(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "ringside.db"))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	require.Error(t, db.Connection().Ping(), "Ping should fail after Close")
}

func TestNewMemoryDB(t *testing.T) {
	db := newTestDB(t)

	require.Equal(t, ":memory:", db.Path())
	require.True(t, tableExists(t, db.Connection(), "registrations"))
	require.NotNil(t, db.RegistrationRepository())
}

func TestMigrations_ForeignKeysEnforced(t *testing.T) {
	db := newTestDB(t)

	_, err := db.conn.Exec(
		`INSERT INTO registrations (id, show_id, dog_id, registered_at) VALUES ('r1', 'missing', 'missing', 0)`,
	)
	require.Error(t, err)
}
