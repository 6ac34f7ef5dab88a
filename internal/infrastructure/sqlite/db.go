// Package sqlite stores shows, dogs and registrations in a local SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/ringside/internal/log"
	"github.com/zjrosen/ringside/internal/registration"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)"

// DB is an open database with migrations applied.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens the database at path, creating its directory (mode 0700) and
// the file as needed. An existing file is copied to path+".bak" before
// migrations run.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		if err := backupFile(path, path+".bak"); err != nil {
			return nil, fmt.Errorf("backing up database: %w", err)
		}
		log.Debug(log.CatDB, "Backed up database", "path", path+".bak")
	}

	conn, err := sql.Open("sqlite3", "file:"+filepath.ToSlash(path)+"?"+pragmas)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Info(log.CatDB, "Opened database", "path", path)
	return db, nil
}

// NewMemoryDB opens a private in-memory database with migrations applied.
func NewMemoryDB() (*DB, error) {
	conn, err := sql.Open("sqlite3", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Each connection to :memory: is its own database.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, path: ":memory:"}
	if err := db.migrate(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Connection returns the underlying *sql.DB.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// Path returns the database file, or ":memory:".
func (db *DB) Path() string {
	return db.path
}

// RegistrationRepository returns a repository backed by this database.
func (db *DB) RegistrationRepository() registration.Repository {
	return newRegistrationRepository(db.conn)
}

// Version returns the applied schema version, 0 for an empty database.
func (db *DB) Version(ctx context.Context) (uint, error) {
	var version uint
	err := db.conn.QueryRowContext(ctx, `SELECT version FROM schema_migrations LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// migrate applies embedded migrations newer than the recorded version. Each
// migration runs in its own transaction together with the version bump.
func (db *DB) migrate(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER NOT NULL, dirty INTEGER NOT NULL DEFAULT 0)`,
	); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}
	current, err := db.Version(ctx)
	if err != nil {
		return err
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}
	defer func() { _ = src.Close() }()

	version, err := src.First()
	for err == nil {
		if version > current {
			if err := db.apply(ctx, src, version); err != nil {
				return err
			}
			current = version
		}
		version, err = src.Next(version)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("listing migrations: %w", err)
	}
	return nil
}

func (db *DB) apply(ctx context.Context, src source.Driver, version uint) error {
	r, name, err := src.ReadUp(version)
	if err != nil {
		return fmt.Errorf("reading migration %d: %w", version, err)
	}
	body, err := io.ReadAll(r)
	_ = r.Close()
	if err != nil {
		return fmt.Errorf("reading migration %d: %w", version, err)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration %d: %w", version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("applying migration %d (%s): %w", version, name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations`); err != nil {
		return fmt.Errorf("recording migration %d: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (?, 0)`, version); err != nil {
		return fmt.Errorf("recording migration %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", version, err)
	}
	log.Info(log.CatDB, "Applied migration", "version", version, "name", name)
	return nil
}

func backupFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- path comes from config
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600) // #nosec G304
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
