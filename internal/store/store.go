// Package store persists the OAuth credential in SQLite so a refreshed
// token survives process restarts.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mhoffer1/spotify-release-hub/internal/shared"
	"golang.org/x/oauth2"
)

const credentialSchema = `
CREATE TABLE IF NOT EXISTS credentials (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	access_token TEXT NOT NULL,
	refresh_token TEXT NOT NULL,
	token_type TEXT NOT NULL DEFAULT 'Bearer',
	expiry INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);`

// CredentialStore is a SQLite-backed implementation of the credential store
// the token manager persists through. A single row holds the current
// credential; Save replaces it atomically.
type CredentialStore struct {
	db *sql.DB
}

// New opens (or creates) the credential table on the given database.
func New(db *sql.DB) (*CredentialStore, error) {
	if _, err := db.Exec(credentialSchema); err != nil {
		return nil, fmt.Errorf("failed to initialize credential schema: %w", err)
	}
	return &CredentialStore{db: db}, nil
}

// Open opens the SQLite database described by cfg, applies its pool limits
// and initializes the store on it. cfg.Path can be ":memory:" for tests.
func Open(cfg shared.DatabaseConfig) (*CredentialStore, error) {
	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach credential database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	return New(db)
}

// Save stores the credential, replacing any previous one.
func (s *CredentialStore) Save(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: refusing to persist empty credential", shared.ErrInvalidInput)
	}

	_, err := s.db.Exec(`
		INSERT INTO credentials (id, access_token, refresh_token, token_type, expiry, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			expiry = excluded.expiry,
			updated_at = excluded.updated_at`,
		token.AccessToken, token.RefreshToken, token.TokenType,
		token.Expiry.Unix(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	return nil
}

// Load returns the stored credential, or nil when none has been stored yet.
func (s *CredentialStore) Load() (*oauth2.Token, error) {
	row := s.db.QueryRow(`SELECT access_token, refresh_token, token_type, expiry FROM credentials WHERE id = 1`)

	var token oauth2.Token
	var expiry int64
	err := row.Scan(&token.AccessToken, &token.RefreshToken, &token.TokenType, &expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	token.Expiry = time.Unix(expiry, 0)
	return &token, nil
}

// Close closes the underlying database.
func (s *CredentialStore) Close() error {
	return s.db.Close()
}
