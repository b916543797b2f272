// Package sqlstore provides the read-only sample SQLite database: opening
// and seeding, schema introspection, statement validation, and bounded
// query execution.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Config holds the settings for opening a Store.
type Config struct {
	// Path is the SQLite database file, or ":memory:".
	Path string

	// QueryTimeout bounds each Execute call. Zero means no bound.
	QueryTimeout time.Duration

	// MaxRows is appended as a LIMIT to statements that have none.
	// Zero disables the cap.
	MaxRows int
}

// Store wraps the sample database connection pool. It is safe for
// concurrent use; no endpoint mutates the data after seeding.
type Store struct {
	db      *sql.DB
	timeout time.Duration
	maxRows int
}

// Open opens the database at cfg.Path using the mattn/go-sqlite3 driver.
func Open(cfg Config) (*Store, error) {
	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite-specific pragmas
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &Store{
		db:      db,
		timeout: cfg.QueryTimeout,
		maxRows: cfg.MaxRows,
	}, nil
}

// NewWithDB wraps an existing connection pool. Used by tests to inject
// a mock database.
func NewWithDB(db *sql.DB, queryTimeout time.Duration, maxRows int) *Store {
	return &Store{
		db:      db,
		timeout: queryTimeout,
		maxRows: maxRows,
	}
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
