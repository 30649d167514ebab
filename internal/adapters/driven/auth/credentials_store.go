// Package auth persists the backend login state. Credentials live in
// the same TOML config file as the rest of the settings, under the
// auth.* keys, so `weave auth login` and `weave settings` share one
// file.
package auth

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
)

// Ensure CredentialsStore implements the interface.
var _ driven.CredentialsStore = (*CredentialsStore)(nil)

// Config keys for credentials storage. Token material is stored as a
// JSON blob per method; the config file is written 0600.
const (
	keyAuthMethod  = "auth.method"
	keyAuthAccount = "auth.account"
	keyAuthOAuth   = "auth.oauth"
	keyAuthPAT     = "auth.pat"
	keyAuthCreated = "auth.created_at"
	keyAuthUpdated = "auth.updated_at"
)

// CredentialsStore stores the single credentials record in the
// application config.
type CredentialsStore struct {
	config driven.ConfigStore
}

// NewCredentialsStore creates a credentials store over the config.
func NewCredentialsStore(config driven.ConfigStore) *CredentialsStore {
	return &CredentialsStore{config: config}
}

// GetCredentials returns the stored credentials.
func (s *CredentialsStore) GetCredentials() (domain.Credentials, error) {
	method := domain.AuthMethod(s.config.GetString(keyAuthMethod))
	if method == "" || method == domain.AuthMethodNone {
		return domain.Credentials{}, domain.ErrAuthRequired
	}

	creds := domain.Credentials{
		Method:            method,
		AccountIdentifier: s.config.GetString(keyAuthAccount),
		CreatedAt:         parseStoredTime(s.config.GetString(keyAuthCreated)),
		UpdatedAt:         parseStoredTime(s.config.GetString(keyAuthUpdated)),
	}

	if raw := s.config.GetString(keyAuthOAuth); raw != "" {
		var oauth domain.OAuthCredentials
		if err := json.Unmarshal([]byte(raw), &oauth); err != nil {
			return domain.Credentials{}, fmt.Errorf("decode oauth credentials: %w", err)
		}
		creds.OAuth = &oauth
	}
	if raw := s.config.GetString(keyAuthPAT); raw != "" {
		var pat domain.PATCredentials
		if err := json.Unmarshal([]byte(raw), &pat); err != nil {
			return domain.Credentials{}, fmt.Errorf("decode pat credentials: %w", err)
		}
		creds.PAT = &pat
	}

	if !creds.IsAuthenticated() {
		if creds.OAuth != nil && creds.OAuth.IsExpired() {
			// Keep the record so status can say who expired.
			return creds, domain.ErrAuthExpired
		}
		return domain.Credentials{}, domain.ErrAuthRequired
	}
	return creds, nil
}

// SaveCredentials stores credentials, replacing any prior record.
func (s *CredentialsStore) SaveCredentials(creds domain.Credentials) error {
	now := time.Now().UTC()
	if creds.CreatedAt.IsZero() {
		creds.CreatedAt = now
	}
	creds.UpdatedAt = now

	var oauthJSON, patJSON string
	if creds.OAuth != nil {
		data, err := json.Marshal(creds.OAuth)
		if err != nil {
			return fmt.Errorf("encode oauth credentials: %w", err)
		}
		oauthJSON = string(data)
	}
	if creds.PAT != nil {
		data, err := json.Marshal(creds.PAT)
		if err != nil {
			return fmt.Errorf("encode pat credentials: %w", err)
		}
		patJSON = string(data)
	}

	values := map[string]any{
		keyAuthMethod:  creds.Method.String(),
		keyAuthAccount: creds.AccountIdentifier,
		keyAuthOAuth:   oauthJSON,
		keyAuthPAT:     patJSON,
		keyAuthCreated: creds.CreatedAt.Format(time.RFC3339),
		keyAuthUpdated: creds.UpdatedAt.Format(time.RFC3339),
	}
	for key, value := range values {
		if err := s.config.Set(key, value); err != nil {
			return fmt.Errorf("store %s: %w", key, err)
		}
	}
	return nil
}

// ClearCredentials removes the stored credentials.
func (s *CredentialsStore) ClearCredentials() error {
	keys := []string{keyAuthMethod, keyAuthAccount, keyAuthOAuth, keyAuthPAT, keyAuthCreated, keyAuthUpdated}
	for _, key := range keys {
		if err := s.config.Set(key, ""); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}

// parseStoredTime reads an RFC 3339 timestamp, zero when absent.
func parseStoredTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
