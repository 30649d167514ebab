package memory

import (
	"context"
	"sync"

	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
)

// Ensure MessageStore implements the interface.
var _ driven.MessageStore = (*MessageStore)(nil)

// MessageStore is an in-memory implementation of driven.MessageStore.
type MessageStore struct {
	mu       sync.RWMutex
	messages map[string][]domain.Message
}

// NewMessageStore creates a new in-memory message store.
func NewMessageStore() *MessageStore {
	return &MessageStore{
		messages: make(map[string][]domain.Message),
	}
}

// AppendMessage stores one finalised message.
func (s *MessageStore) AppendMessage(_ context.Context, message domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[message.SessionID] = append(s.messages[message.SessionID], message)
	return nil
}

// ListMessages returns a session's messages, oldest first.
func (s *MessageStore) ListMessages(_ context.Context, sessionID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.messages[sessionID]
	messages := make([]domain.Message, len(stored))
	copy(messages, stored)
	return messages, nil
}

// Stats derives summary counts across all stored history. Sessions
// are counted from message ownership; the memory mirror has no
// session table of its own.
func (s *MessageStore) Stats(_ context.Context) (domain.HistoryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.HistoryStats{ByModel: make(map[string]int)}
	stats.Sessions = len(s.messages)
	for _, messages := range s.messages {
		stats.Messages += len(messages)
		for _, message := range messages {
			stats.ToolCalls += len(message.ToolCalls)
		}
	}
	return stats, nil
}

// deleteSession drops a session's messages.
func (s *MessageStore) deleteSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, sessionID)
}
