package driven

import (
	"context"

	"github.com/telar-labs/weave-cli/internal/core/domain"
)

// SessionStore persists chat sessions locally.
type SessionStore interface {
	// CreateSession stores a new session.
	CreateSession(ctx context.Context, session domain.Session) error

	// GetSession retrieves a session by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetSession(ctx context.Context, id string) (domain.Session, error)

	// ListSessions returns all sessions, most recently updated first.
	ListSessions(ctx context.Context) ([]domain.Session, error)

	// RenameSession updates a session's title.
	RenameSession(ctx context.Context, id, title string) error

	// TouchSession bumps a session's UpdatedAt to now.
	TouchSession(ctx context.Context, id string) error

	// DeleteSession removes a session and its messages.
	DeleteSession(ctx context.Context, id string) error
}
