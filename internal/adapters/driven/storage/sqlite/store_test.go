package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telar-labs/weave-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testSession(id string) domain.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.Session{
		ID:        id,
		Title:     "New chat",
		Scope:     domain.ScopeQuery,
		QueryID:   "q1",
		Model:     "gemini-2.0-flash",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// --- Store lifecycle ---

func TestNewStore_CreatesDatabase(t *testing.T) {
	store := newTestStore(t)

	assert.NotEmpty(t, store.Path())
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	store1, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store1.Close())

	// Re-opening runs migrate again against the same file.
	store2, err := NewStore(dir)
	require.NoError(t, err)
	assert.NoError(t, store2.Close())
}

// --- Sessions ---

func TestSessionStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	sessions := store.SessionStore()
	ctx := context.Background()

	require.NoError(t, sessions.CreateSession(ctx, testSession("s1")))

	got, err := sessions.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "New chat", got.Title)
	assert.Equal(t, domain.ScopeQuery, got.Scope)
	assert.Equal(t, "q1", got.QueryID)
	assert.Empty(t, got.BoardID)
}

func TestSessionStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SessionStore().GetSession(context.Background(), "absent")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_ListOrdersByUpdatedAt(t *testing.T) {
	store := newTestStore(t)
	sessions := store.SessionStore()
	ctx := context.Background()

	older := testSession("old")
	older.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, sessions.CreateSession(ctx, older))
	require.NoError(t, sessions.CreateSession(ctx, testSession("new")))

	list, err := sessions.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
}

func TestSessionStore_Rename(t *testing.T) {
	store := newTestStore(t)
	sessions := store.SessionStore()
	ctx := context.Background()

	require.NoError(t, sessions.CreateSession(ctx, testSession("s1")))
	require.NoError(t, sessions.RenameSession(ctx, "s1", "Quarterly revenue"))

	got, err := sessions.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly revenue", got.Title)
}

func TestSessionStore_RenameMissing(t *testing.T) {
	store := newTestStore(t)

	err := store.SessionStore().RenameSession(context.Background(), "absent", "x")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_DeleteCascadesToMessages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sessions := store.SessionStore()
	messages := store.MessageStore()

	require.NoError(t, sessions.CreateSession(ctx, testSession("s1")))
	require.NoError(t, messages.AppendMessage(ctx, domain.Message{
		ID: "m1", SessionID: "s1", Role: domain.RoleUser, Content: "hi",
	}))

	require.NoError(t, sessions.DeleteSession(ctx, "s1"))

	list, err := messages.ListMessages(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

// --- Messages ---

func TestMessageStore_RoundTripsOptionalFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SessionStore().CreateSession(ctx, testSession("s1")))
	messages := store.MessageStore()

	message := domain.Message{
		ID:        "m1",
		SessionID: "s1",
		Role:      domain.RoleAssistant,
		Content:   "done",
		Thinking:  "considered three joins",
		CodeDelta: &domain.CodeDelta{OldCode: "SELECT 1", NewCode: "SELECT 2"},
		ToolCalls: []domain.ToolCall{
			{Tool: "run_query", Status: domain.ToolCallFinished},
			{Tool: "get_code", Status: domain.ToolCallFailed, Error: "timeout"},
		},
		TestResult: &domain.TestResult{Success: true, RowCount: 4},
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, messages.AppendMessage(ctx, message))

	list, err := messages.ListMessages(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, "considered three joins", got.Thinking)
	require.NotNil(t, got.CodeDelta)
	assert.Equal(t, "SELECT 2", got.CodeDelta.NewCode)
	require.Len(t, got.ToolCalls, 2)
	assert.Equal(t, domain.ToolCallFailed, got.ToolCalls[1].Status)
	require.NotNil(t, got.TestResult)
	assert.Equal(t, 4, got.TestResult.RowCount)
	assert.Nil(t, got.NeedsUserInput)
}

func TestMessageStore_ListOrdersOldestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SessionStore().CreateSession(ctx, testSession("s1")))
	messages := store.MessageStore()

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, messages.AppendMessage(ctx, domain.Message{
		ID: "m2", SessionID: "s1", Role: domain.RoleAssistant, Content: "second", CreatedAt: base.Add(time.Second),
	}))
	require.NoError(t, messages.AppendMessage(ctx, domain.Message{
		ID: "m1", SessionID: "s1", Role: domain.RoleUser, Content: "first", CreatedAt: base,
	}))

	list, err := messages.ListMessages(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Content)
	assert.Equal(t, "second", list[1].Content)
}

// --- Stats ---

func TestMessageStore_Stats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sessions := store.SessionStore()
	messages := store.MessageStore()

	s1 := testSession("s1")
	require.NoError(t, sessions.CreateSession(ctx, s1))
	s2 := testSession("s2")
	s2.Model = ""
	require.NoError(t, sessions.CreateSession(ctx, s2))

	require.NoError(t, messages.AppendMessage(ctx, domain.Message{
		ID: "m1", SessionID: "s1", Role: domain.RoleUser, Content: "hi",
	}))
	require.NoError(t, messages.AppendMessage(ctx, domain.Message{
		ID: "m2", SessionID: "s1", Role: domain.RoleAssistant, Content: "done",
		ToolCalls: []domain.ToolCall{
			{Tool: "run_query", Status: domain.ToolCallFinished},
			{Tool: "run_query", Status: domain.ToolCallFinished},
		},
	}))

	stats, err := messages.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Sessions)
	assert.Equal(t, 2, stats.Messages)
	assert.Equal(t, 2, stats.ToolCalls)
	assert.Equal(t, 1, stats.ByModel["gemini-2.0-flash"])
	assert.Equal(t, 1, stats.ByModel["(default)"])
}
