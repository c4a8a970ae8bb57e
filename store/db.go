package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var ddl string

// ErrNotFound is returned when a named schema is not stored.
var ErrNotFound = errors.New("schema not found")

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if _, err := conn.Exec(ddl); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize database %s: %w", path, err)
	}

	return &DB{conn: conn}, nil
}

// Wrap uses an existing connection whose tables are already in place.
func Wrap(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Clear removes every stored schema.
func (db *DB) Clear() error {
	if _, err := db.conn.Exec("DELETE FROM types; DELETE FROM schemas;"); err != nil {
		return fmt.Errorf("failed to clear database: %w", err)
	}

	return nil
}
