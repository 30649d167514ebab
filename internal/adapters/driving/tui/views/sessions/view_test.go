package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telar-labs/weave-cli/internal/adapters/driving/tui/messages"
	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
)

// --- Mocks ---

type mockChat struct {
	sessions []domain.Session
	listErr  error
	deleted  []string
}

func (m *mockChat) CreateSession(ctx context.Context, scope domain.ChatScope, boardID, queryID, datastoreID string) (driving.ChatSession, error) {
	return nil, errors.New("not used")
}

func (m *mockChat) ResumeSession(ctx context.Context, id string) (driving.ChatSession, error) {
	return nil, errors.New("not used")
}

func (m *mockChat) ListSessions(ctx context.Context) ([]domain.Session, error) {
	return m.sessions, m.listErr
}

func (m *mockChat) DeleteSession(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockChat) Stats(ctx context.Context) (domain.HistoryStats, error) {
	return domain.HistoryStats{}, nil
}

func sampleSessions() []domain.Session {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []domain.Session{
		{ID: "s1", Title: "revenue by region", Scope: domain.ScopeBoard, BoardID: "b1", UpdatedAt: now},
		{ID: "s2", Title: "", Scope: domain.ScopeQuery, QueryID: "q7", UpdatedAt: now.Add(-time.Hour)},
	}
}

func loadedView(t *testing.T, chat *mockChat) *View {
	t.Helper()
	v := NewView(nil, nil, chat)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	return v
}

// --- Tests ---

func TestView_Init_LoadsSessions(t *testing.T) {
	v := loadedView(t, &mockChat{sessions: sampleSessions()})

	assert.Len(t, v.sessions, 2)
	assert.False(t, v.loading)
}

func TestView_Init_LoadError(t *testing.T) {
	v := loadedView(t, &mockChat{listErr: errors.New("db locked")})

	assert.Contains(t, v.View(), "db locked")
}

func TestView_CursorMovement(t *testing.T) {
	v := loadedView(t, &mockChat{sessions: sampleSessions()})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "s2", v.Selected().ID)

	// Clamped at the end.
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "s2", v.Selected().ID)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "s1", v.Selected().ID)
}

func TestView_Enter_PicksSelected(t *testing.T) {
	v := loadedView(t, &mockChat{sessions: sampleSessions()})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	picked, ok := cmd().(messages.SessionPicked)
	require.True(t, ok)
	assert.Equal(t, "s1", picked.ID)
}

func TestView_Enter_EmptyListIsNoop(t *testing.T) {
	v := loadedView(t, &mockChat{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_New_PicksFreshSession(t *testing.T) {
	v := loadedView(t, &mockChat{sessions: sampleSessions()})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	require.NotNil(t, cmd)

	picked, ok := cmd().(messages.SessionPicked)
	require.True(t, ok)
	assert.Empty(t, picked.ID)
}

func TestView_Delete_RemovesAndReloads(t *testing.T) {
	chat := &mockChat{sessions: sampleSessions()}
	v := loadedView(t, chat)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.NotNil(t, cmd)

	deleted, ok := cmd().(messages.SessionDeleted)
	require.True(t, ok)
	assert.NoError(t, deleted.Err)
	assert.Equal(t, []string{"s1"}, chat.deleted)

	chat.sessions = chat.sessions[1:]
	v, reload := v.Update(deleted)
	require.NotNil(t, reload)
	v, _ = v.Update(reload())
	assert.Len(t, v.sessions, 1)
}

func TestView_View_RendersRows(t *testing.T) {
	v := loadedView(t, &mockChat{sessions: sampleSessions()})

	out := v.View()

	assert.Contains(t, out, "revenue by region")
	assert.Contains(t, out, "board:b1")
	assert.Contains(t, out, "query:q7")
	assert.Contains(t, out, "(untitled)")
}

func TestView_View_Empty(t *testing.T) {
	v := loadedView(t, &mockChat{})

	assert.Contains(t, v.View(), "no sessions yet")
}
