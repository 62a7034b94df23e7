package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory mirror, used by tests and demo runs.
const MemoryPath = ":memory:"

// Mirror writers run on queue workers while CLI reads may run alongside, so
// the file database uses WAL and waits on locks instead of failing.
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// OpenDB opens (creating if needed) the mirror database at path and brings
// its schema up to date.
func OpenDB(path string) (*sql.DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating mirror directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening mirror %s: %w", path, err)
	}
	// Every connection to :memory: gets its own empty database.
	if path == MemoryPath {
		conn.SetMaxOpenConns(1)
	}

	if err := configure(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func configure(conn *sql.DB) error {
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	if err := Migrate(conn); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
