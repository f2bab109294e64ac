package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/prospect"
)

// Compile-time interface verification.
var _ prospect.CredentialStore = (*CredentialStore)(nil)

// credentialKey is the settings row holding the lookup API key.
const credentialKey = "lookup_api_key"

// CredentialStore implements prospect.CredentialStore using SQLite.
type CredentialStore struct {
	db  *DB
	now func() time.Time
}

// NewCredentialStore creates a new CredentialStore.
func NewCredentialStore(db *DB) *CredentialStore {
	return &CredentialStore{db: db, now: time.Now}
}

// Credential returns the stored key.
func (s *CredentialStore) Credential(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, credentialKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && value == "") {
		return "", prospect.Errorf(prospect.ENOCREDENTIAL, "No lookup API key configured. Set one with `prospect key set`.")
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetCredential stores the key, replacing any previous one.
func (s *CredentialStore) SetCredential(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return prospect.Errorf(prospect.EINVALID, "API key required.")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, credentialKey, apiKey, s.now().UTC().Format(time.RFC3339))
	return err
}

// ClearCredential removes the stored key. Clearing an unset key is not an error.
func (s *CredentialStore) ClearCredential(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, credentialKey)
	return err
}

// UpdatedAt returns when the key was last set.
func (s *CredentialStore) UpdatedAt(ctx context.Context) (time.Time, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM settings WHERE key = ?`, credentialKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, prospect.Errorf(prospect.ENOCREDENTIAL, "No lookup API key configured.")
	}
	if err != nil {
		return time.Time{}, err
	}
	return parseRFC3339(value, "updated_at")
}
