package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"docrag/internal/apperrors"
)

// uriEscaper escapes the characters that would end the path part of a
// SQLite file: URI.
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// dsn builds a file: URI for path with the connection parameters.
func dsn(path string) string {
	return "file:" + uriEscaper.Replace(path) + "?_foreign_keys=on&_busy_timeout=5000"
}

// New opens a SQLite database connection at the given path.
// It enables foreign keys and pins the pool to a single connection: the
// pipelines issue synchronous calls against one handle.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			doc_id TEXT NOT NULL,
			chunk_index INTEGER NOT NULL CHECK (chunk_index >= 0),
			text TEXT NOT NULL,
			embedding TEXT NOT NULL,
			start_char INTEGER NOT NULL CHECK (start_char >= 0),
			end_char INTEGER NOT NULL CHECK (end_char >= start_char),
			FOREIGN KEY (doc_id) REFERENCES documents(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_doc_id ON chunks(doc_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// Open creates the parent directory of path if needed, opens the database
// and applies migrations. The caller owns the returned handle.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.IO("create data directory", err)
		}
	}

	db, err := New(path)
	if err != nil {
		return nil, apperrors.Storage(fmt.Sprintf("open %s", path), err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, apperrors.Storage("migrate schema", err)
	}

	return db, nil
}
