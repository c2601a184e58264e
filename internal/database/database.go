// Package database provides the SQLite store backing sessions and the
// obfuscated profile blob.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB connection with additional functionality.
type DB struct {
	*sql.DB
}

// New creates a new database connection at the specified path.
// It creates the parent directory if it doesn't exist.
func New(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
	}
	for _, pragma := range pragmas {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &DB{DB: sqlDB}, nil
}

// RunMigrations executes all database migrations. Migrations are
// idempotent and can be run multiple times safely.
func (db *DB) RunMigrations() error {
	migrations := []string{
		migrationSessions,
		migrationBlobs,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

const migrationSessions = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	expires_at TIMESTAMP NOT NULL,
	created_at TIMESTAMP NOT NULL
)`

// blobs is a small named-value store; the profile session blob lives
// here under a fixed name.
const migrationBlobs = `
CREATE TABLE IF NOT EXISTS blobs (
	name TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SetBlob stores or replaces a named blob.
func (db *DB) SetBlob(name, value string) error {
	_, err := db.Exec(`
		INSERT INTO blobs (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, name, value)
	if err != nil {
		return fmt.Errorf("storing blob %q: %w", name, err)
	}
	return nil
}

// GetBlob fetches a named blob. A missing blob returns sql.ErrNoRows.
func (db *DB) GetBlob(name string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM blobs WHERE name = ?`, name).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// DeleteBlob removes a named blob if present.
func (db *DB) DeleteBlob(name string) error {
	_, err := db.Exec(`DELETE FROM blobs WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting blob %q: %w", name, err)
	}
	return nil
}
