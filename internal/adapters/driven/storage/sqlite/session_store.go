package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
)

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// CreateSession stores a new session.
func (s *sessionStore) CreateSession(ctx context.Context, session domain.Session) error {
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = now
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, title, scope, board_id, query_id, datastore_id, model, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.Title, session.Scope.String(),
		nullString(session.BoardID), nullString(session.QueryID), nullString(session.DatastoreID),
		nullString(session.Model), session.CreatedAt, session.UpdatedAt)

	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *sessionStore) GetSession(ctx context.Context, id string) (domain.Session, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, scope, board_id, query_id, datastore_id, model, created_at, updated_at
		FROM sessions WHERE id = ?
	`, id)

	session, err := scanSession(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, fmt.Errorf("scanning session: %w", err)
	}
	return session, nil
}

// ListSessions returns all sessions, most recently updated first.
func (s *sessionStore) ListSessions(ctx context.Context) ([]domain.Session, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, scope, board_id, query_id, datastore_id, model, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		session, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// RenameSession updates a session's title.
func (s *sessionStore) RenameSession(ctx context.Context, id, title string) error {
	result, err := s.store.db.ExecContext(ctx, `
		UPDATE sessions SET title = ?, updated_at = ? WHERE id = ?
	`, title, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("renaming session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("renaming session: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TouchSession bumps a session's UpdatedAt to now.
func (s *sessionStore) TouchSession(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, `
		UPDATE sessions SET updated_at = ? WHERE id = ?
	`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("touching session: %w", err)
	}
	return nil
}

// DeleteSession removes a session and its messages.
func (s *sessionStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// scanSession reads one session row via the given scan function.
func scanSession(scan func(dest ...any) error) (domain.Session, error) {
	var session domain.Session
	var scope string
	var boardID, queryID, datastoreID, model sql.NullString
	var createdAt, updatedAt sql.NullTime

	if err := scan(&session.ID, &session.Title, &scope,
		&boardID, &queryID, &datastoreID, &model, &createdAt, &updatedAt); err != nil {
		return domain.Session{}, err
	}

	session.Scope = domain.ChatScope(scope)
	session.BoardID = boardID.String
	session.QueryID = queryID.String
	session.DatastoreID = datastoreID.String
	session.Model = model.String
	if createdAt.Valid {
		session.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		session.UpdatedAt = updatedAt.Time
	}
	return session, nil
}
