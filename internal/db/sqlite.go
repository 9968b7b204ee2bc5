package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// schemaSQL is the history schema, embedded at compile time from schema.sql
//
//go:embed schema.sql
var schemaSQL string

// timeFormat stores UTC timestamps with fixed-width millis so they sort as text
const timeFormat = "2006-01-02T15:04:05.000Z"

// DB wraps a SQLite database connection with write serialization
type DB struct {
	conn    *sql.DB
	writeMu sync.Mutex // Serializes all write operations to prevent transaction conflicts
}

// Connect opens a SQLite database with WAL mode enabled.
// The parent directory of dbPath is created if missing.
func Connect(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time: a single connection plus writeMu
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks the database connection
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// EnsureSchema creates tables if they don't exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	if _, err := db.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// hourBucket is the ISO8601 hour an observation belongs to
func hourBucket(t time.Time) string {
	return t.UTC().Truncate(time.Hour).Format(time.RFC3339)
}
