package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
	now  func() time.Time
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db, now: time.Now}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Get reads a slot. ok is false when the slot has never been written.
func (db *DB) Get(key string) (value []byte, ok bool, err error) {
	row := db.conn.QueryRow(`SELECT value FROM slots WHERE key = ?`, key)
	var s string
	if err := row.Scan(&s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return []byte(s), true, nil
}

const upsertSlot = `
	INSERT INTO slots (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Put writes a slot, replacing any previous value.
func (db *DB) Put(key string, value []byte) error {
	return db.put(db.conn, key, value)
}

func (db *DB) put(ex execer, key string, value []byte) error {
	if _, err := ex.Exec(upsertSlot, key, string(value), db.now()); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}
