// Package store is the persistent AssetDocument collection: a sqlite-backed
// key-value table keyed by "{trade_symbol}_{provider_id}", a freshness
// predicate gating re-ingestion, and an idempotent upsert that always
// overwrites in place rather than appending history.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the sqlite connection the document store runs on.
type DB struct {
	conn *sql.DB
	path string
}

// Open creates the database directory if needed and opens a WAL-mode sqlite
// connection at path.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("store: ping database: %w", err)
	}
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)

	return &DB{conn: conn, path: path}, nil
}

// Close releases the underlying connection.
func (db *DB) Close() error { return db.conn.Close() }

// Conn exposes the raw *sql.DB for migrations and ad-hoc queries.
func (db *DB) Conn() *sql.DB { return db.conn }

const schemaSQL = `
CREATE TABLE IF NOT EXISTS asset_documents (
	document_id       TEXT PRIMARY KEY,
	trade_symbol      TEXT NOT NULL,
	provider_id       TEXT NOT NULL,
	analysis_datetime TEXT NOT NULL,
	payload           TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_asset_documents_symbol ON asset_documents(trade_symbol);

CREATE TABLE IF NOT EXISTS workflow_checkpoints (
	thread_id  TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	updated_at TEXT NOT NULL
);
`

// Migrate creates the asset_documents and workflow_checkpoints tables if
// they don't already exist.
func (db *DB) Migrate() error {
	_, err := db.conn.Exec(schemaSQL)
	if err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}
