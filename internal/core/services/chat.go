package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
)

// Ensure ChatManager implements the interface.
var _ driving.ChatService = (*ChatManager)(nil)

// ChatManager creates and resumes chat sessions over the configured
// backend and stores.
type ChatManager struct {
	streamer driven.ChatStreamer
	searcher driven.EntitySearcher
	fetcher  driven.ContentFetcher
	prompts  driven.PromptStore
	sessions driven.SessionStore
	messages driven.MessageStore
	settings driving.SettingsService
}

// NewChatManager creates a new chat manager.
func NewChatManager(
	streamer driven.ChatStreamer,
	searcher driven.EntitySearcher,
	fetcher driven.ContentFetcher,
	prompts driven.PromptStore,
	sessions driven.SessionStore,
	messages driven.MessageStore,
	settings driving.SettingsService,
) *ChatManager {
	return &ChatManager{
		streamer: streamer,
		searcher: searcher,
		fetcher:  fetcher,
		prompts:  prompts,
		sessions: sessions,
		messages: messages,
		settings: settings,
	}
}

// CreateSession starts a new session with the given scope.
func (m *ChatManager) CreateSession(ctx context.Context, scope domain.ChatScope, boardID, queryID, datastoreID string) (driving.ChatSession, error) {
	if !scope.IsValid() {
		return nil, fmt.Errorf("%w: unknown scope %q", domain.ErrInvalidInput, scope)
	}
	switch {
	case scope == domain.ScopeBoard && boardID == "":
		return nil, fmt.Errorf("%w: board scope needs a board ID", domain.ErrInvalidInput)
	case scope == domain.ScopeQuery && queryID == "":
		return nil, fmt.Errorf("%w: query scope needs a query ID", domain.ErrInvalidInput)
	case scope == domain.ScopeDatastore && datastoreID == "":
		return nil, fmt.Errorf("%w: datastore scope needs a datastore ID", domain.ErrInvalidInput)
	}

	now := time.Now()
	session := domain.Session{
		ID:          uuid.NewString(),
		Title:       defaultSessionTitle,
		Scope:       scope,
		BoardID:     boardID,
		QueryID:     queryID,
		DatastoreID: datastoreID,
		Model:       m.chatModel(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := m.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return newChatSession(m.sessionDeps(), session, nil, ""), nil
}

// ResumeSession reopens a stored session with its transcript. The
// editable document is restored from the transcript's last code
// change, when there is one.
func (m *ChatManager) ResumeSession(ctx context.Context, id string) (driving.ChatSession, error) {
	session, err := m.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	transcript, err := m.messages.ListMessages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	var code string
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].CodeDelta != nil {
			code = transcript[i].CodeDelta.NewCode
			break
		}
	}

	return newChatSession(m.sessionDeps(), session, transcript, code), nil
}

// ListSessions returns stored sessions, most recent first.
func (m *ChatManager) ListSessions(ctx context.Context) ([]domain.Session, error) {
	sessions, err := m.sessions.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes a session and its messages.
func (m *ChatManager) DeleteSession(ctx context.Context, id string) error {
	if err := m.sessions.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Stats derives summary counts from the local history.
func (m *ChatManager) Stats(ctx context.Context) (domain.HistoryStats, error) {
	stats, err := m.messages.Stats(ctx)
	if err != nil {
		return domain.HistoryStats{}, fmt.Errorf("history stats: %w", err)
	}
	return stats, nil
}

// sessionDeps bundles the ports live sessions need.
func (m *ChatManager) sessionDeps() sessionDeps {
	return sessionDeps{
		streamer:     m.streamer,
		searcher:     m.searcher,
		fetcher:      m.fetcher,
		prompts:      m.prompts,
		sessions:     m.sessions,
		messages:     m.messages,
		historyLimit: m.historyLimit(),
	}
}

// chatModel reads the configured default model, falling back to the
// built-in default when settings are unavailable.
func (m *ChatManager) chatModel() string {
	if m.settings == nil {
		return domain.DefaultChatModel
	}
	settings, err := m.settings.Get()
	if err != nil || settings.Chat.Model == "" {
		return domain.DefaultChatModel
	}
	return settings.Chat.Model
}

// historyLimit reads the configured history window.
func (m *ChatManager) historyLimit() int {
	if m.settings == nil {
		return domain.DefaultAppSettings().Chat.HistoryLimit
	}
	settings, err := m.settings.Get()
	if err != nil {
		return domain.DefaultAppSettings().Chat.HistoryLimit
	}
	return settings.Chat.HistoryLimit
}
