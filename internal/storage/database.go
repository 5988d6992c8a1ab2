// Package storage persists the chat audit log in SQLite. The catalog itself is
// never written.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database at path, creating its directory when needed.
func New(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the chat log schema. It is idempotent.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS chat_log (
			id TEXT PRIMARY KEY,
			request_id TEXT NOT NULL,
			session_id TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			intent TEXT NOT NULL,
			tool_name TEXT NOT NULL DEFAULT '',
			tool_args TEXT,
			result_count INTEGER NOT NULL DEFAULT 0,
			confidence REAL NOT NULL DEFAULT 0,
			routed_by TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_log_created_at ON chat_log(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_log_session ON chat_log(session_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate chat log: %w", err)
		}
	}

	return nil
}
