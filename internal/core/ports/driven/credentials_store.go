package driven

import "github.com/telar-labs/weave-cli/internal/core/domain"

// CredentialsStore persists the backend auth token on this machine.
// There is a single credentials record: one backend, one user.
type CredentialsStore interface {
	// GetCredentials returns the stored credentials.
	// Returns domain.ErrAuthRequired when none are stored.
	GetCredentials() (domain.Credentials, error)

	// SaveCredentials stores credentials, replacing any prior record.
	SaveCredentials(creds domain.Credentials) error

	// ClearCredentials removes the stored credentials.
	ClearCredentials() error
}
