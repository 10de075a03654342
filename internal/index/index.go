// Package index provides the SQLite-backed store for analysis results:
// scanned files, extracted elements, page links, dangling links, and the
// reconstructed journal timeline.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS files (
	path        TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	name_key    TEXT NOT NULL DEFAULT '',
	type        TEXT NOT NULL DEFAULT 'other',
	checksum    TEXT NOT NULL DEFAULT '',
	size        INTEGER NOT NULL DEFAULT 0,
	modified_at DATETIME,
	journal_key TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_files_name_key ON files(name_key);
CREATE INDEX IF NOT EXISTS idx_files_type ON files(type);

CREATE TABLE IF NOT EXISTS elements (
	file_path TEXT NOT NULL,
	category  TEXT NOT NULL,
	name      TEXT NOT NULL,
	value     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_elements_file ON elements(file_path);
CREATE INDEX IF NOT EXISTS idx_elements_name ON elements(category, name);

CREATE TABLE IF NOT EXISTS links (
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	kind   TEXT NOT NULL DEFAULT 'page'
);

CREATE INDEX IF NOT EXISTS idx_links_source ON links(source);
CREATE INDEX IF NOT EXISTS idx_links_target ON links(target);

CREATE TABLE IF NOT EXISTS timeline (
	date   TEXT PRIMARY KEY,
	status TEXT NOT NULL
);
`

// DB wraps a sql.DB with analysis-index operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
