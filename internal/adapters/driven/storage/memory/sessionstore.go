package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	messages *MessageStore
}

// NewSessionStore creates a new in-memory session store. When a
// message store is supplied, deleting a session also drops its
// messages, mirroring the SQLite cascade.
func NewSessionStore(messages *MessageStore) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
		messages: messages,
	}
}

// CreateSession stores a new session.
func (s *SessionStore) CreateSession(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

// GetSession retrieves a session by ID.
func (s *SessionStore) GetSession(_ context.Context, id string) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, domain.ErrNotFound
	}
	return session, nil
}

// ListSessions returns all sessions, most recently updated first.
func (s *SessionStore) ListSessions(_ context.Context) ([]domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]domain.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

// RenameSession updates a session's title.
func (s *SessionStore) RenameSession(_ context.Context, id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	session.Title = title
	session.UpdatedAt = time.Now()
	s.sessions[id] = session
	return nil
}

// TouchSession bumps a session's UpdatedAt to now.
func (s *SessionStore) TouchSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil
	}
	session.UpdatedAt = time.Now()
	s.sessions[id] = session
	return nil
}

// DeleteSession removes a session and its messages.
func (s *SessionStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	if s.messages != nil {
		s.messages.deleteSession(id)
	}
	return nil
}
