// Package storage is the SQLite history backend. Documents live in a
// key/value records table; season snapshots are mirrored into a flat table
// for ad-hoc SQL.
package storage

import (
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stamped into PRAGMA user_version. Files written by a
// newer schema are refused rather than silently downgraded.
const schemaVersion = 1

// DB is an open pool history database.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the database at path, applies the schema and stamps
// its version. Use ":memory:" for a throwaway database.
func Open(path string) (*DB, error) {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	conn, err := sql.Open("sqlite", "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer per run; a single connection also keeps :memory: databases shared.
	conn.SetMaxOpenConns(1)

	var version int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		conn.Close()
		return nil, fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion {
		conn.Close()
		return nil, fmt.Errorf("%s has schema version %d, this build supports %d", path, version, schemaVersion)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if _, err := conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("stamp schema version: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
