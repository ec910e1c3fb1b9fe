// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache provides the byte key/value store backing the result
// cache. The store is deliberately dumb: opaque payloads keyed by
// string, with a stored-at timestamp. TTL policy lives in the engine.
// Implements: prd006-cache (R1-R3);
//
//	docs/ARCHITECTURE.md § Result Cache.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sitefinder/pkg/types"
)

const dbFile = "cache.db"

// Store is the cache contract: get, put, and prefix delete. Any durable
// or in-memory store satisfying it is acceptable.
type Store interface {
	// Get returns the payload and stored-at time for key, or ok=false
	// when absent.
	Get(key string) (payload []byte, storedAt time.Time, ok bool, err error)

	// Put stores payload under key, overwriting any previous entry.
	// Last writer wins; identical inputs produce equivalent payloads.
	Put(key string, payload []byte, storedAt time.Time) error

	// DeletePrefix removes every entry whose key starts with prefix,
	// leaving unrelated entries untouched.
	DeletePrefix(prefix string) error

	Close() error
}

// SQLiteStore persists cache entries in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the cache database under cfg.Dir,
// creating the schema if it does not exist.
func NewSQLiteStore(cfg types.CacheConfig) (*SQLiteStore, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = ".sitefinder"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		stored_at TEXT NOT NULL
	)`)
	return err
}

// Get returns the entry for key, or ok=false when absent.
func (s *SQLiteStore) Get(key string) ([]byte, time.Time, bool, error) {
	var payload []byte
	var storedAt string

	err := s.db.QueryRow(`SELECT payload, stored_at FROM entries WHERE key = ?`, key).
		Scan(&payload, &storedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("reading cache entry: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, storedAt)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("parsing stored_at: %w", err)
	}
	return payload, ts, true, nil
}

// Put upserts the entry for key.
func (s *SQLiteStore) Put(key string, payload []byte, storedAt time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO entries (key, payload, stored_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, stored_at = excluded.stored_at`,
		key, payload, storedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// DeletePrefix removes all entries under prefix.
func (s *SQLiteStore) DeletePrefix(prefix string) error {
	_, err := s.db.Exec(`DELETE FROM entries WHERE key LIKE ? || '%'`, prefix)
	if err != nil {
		return fmt.Errorf("deleting cache entries: %w", err)
	}
	return nil
}
