// Package storage persists the session triple in a local SQLite
// database so an authenticated session survives process restarts.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"outlay/internal/session"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the durable session.Store. The session lives in a
// single fixed row so that Save and Clear are each one statement and
// the (token, user_id, username) triple can never be written or wiped
// partially.
type SQLiteStore struct {
	db *sql.DB
}

var _ session.Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping state database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the stored credentials, or empty credentials when no
// session has been saved.
func (s *SQLiteStore) Load() (session.Credentials, error) {
	var creds session.Credentials
	row := s.db.QueryRow(`SELECT token, user_id, username FROM session WHERE id = 1`)
	err := row.Scan(&creds.Token, &creds.UserID, &creds.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Credentials{}, nil
	}
	if err != nil {
		return session.Credentials{}, fmt.Errorf("load session: %w", err)
	}
	return creds, nil
}

// Save writes the whole triple in one upsert.
func (s *SQLiteStore) Save(creds session.Credentials) error {
	_, err := s.db.Exec(`
		INSERT INTO session (id, token, user_id, username, saved_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_id = excluded.user_id,
			username = excluded.username,
			saved_at = excluded.saved_at`,
		creds.Token, creds.UserID, creds.Username)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes the stored triple. Clearing an empty store is fine.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
