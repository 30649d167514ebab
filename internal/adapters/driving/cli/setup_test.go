package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/telar-labs/weave-cli/internal/adapters/driven/storage/memory"
	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
	"github.com/telar-labs/weave-cli/internal/core/services"
)

// --- Mocks ---

// fakeDirectory serves a fixed backend catalog.
type fakeDirectory struct {
	boards     []domain.Board
	queries    []domain.Query
	datastores []domain.Datastore
	saved      []domain.Query
}

func (f *fakeDirectory) ListBoards(context.Context) ([]domain.Board, error) {
	return f.boards, nil
}

func (f *fakeDirectory) ListQueries(_ context.Context, boardID string) ([]domain.Query, error) {
	if boardID == "" {
		return f.queries, nil
	}
	var out []domain.Query
	for _, q := range f.queries {
		if q.BoardID == boardID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeDirectory) GetQuery(_ context.Context, id string) (domain.Query, error) {
	for _, q := range f.queries {
		if q.ID == id {
			return q, nil
		}
	}
	return domain.Query{}, domain.ErrNotFound
}

func (f *fakeDirectory) SaveQuery(_ context.Context, query domain.Query) (domain.Query, error) {
	f.saved = append(f.saved, query)
	return query, nil
}

func (f *fakeDirectory) ListDatastores(context.Context) ([]domain.Datastore, error) {
	return f.datastores, nil
}

// fakeAuth is a canned auth service.
type fakeAuth struct {
	creds     domain.Credentials
	profile   *domain.UserProfile
	statusErr error
	loggedOut bool
}

func (f *fakeAuth) LoginWithToken(_ context.Context, token string) (domain.UserProfile, error) {
	if token == "" {
		return domain.UserProfile{}, domain.ErrInvalidInput
	}
	return domain.UserProfile{Email: "dev@example.com"}, nil
}

func (f *fakeAuth) BeginGoogleLogin(context.Context) (*driving.OAuthFlowState, error) {
	return nil, domain.ErrBackendUnavailable
}

func (f *fakeAuth) CompleteGoogleLogin(context.Context, *driving.OAuthFlowState, string) (domain.UserProfile, error) {
	return domain.UserProfile{}, domain.ErrBackendUnavailable
}

func (f *fakeAuth) Logout(context.Context) error {
	f.loggedOut = true
	return nil
}

func (f *fakeAuth) Status(context.Context) (domain.Credentials, *domain.UserProfile, error) {
	return f.creds, f.profile, f.statusErr
}

// fakeChat only serves Stats; the TUI paths are not executed in tests.
type fakeChat struct {
	stats domain.HistoryStats
}

func (f *fakeChat) CreateSession(context.Context, domain.ChatScope, string, string, string) (driving.ChatSession, error) {
	return nil, domain.ErrBackendUnavailable
}

func (f *fakeChat) ResumeSession(context.Context, string) (driving.ChatSession, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeChat) ListSessions(context.Context) ([]domain.Session, error) {
	return nil, nil
}

func (f *fakeChat) DeleteSession(context.Context, string) error { return nil }

func (f *fakeChat) Stats(context.Context) (domain.HistoryStats, error) {
	return f.stats, nil
}

// --- Test wiring ---

// setupTestServices wires mock-backed services into the package vars
// and returns a cleanup that clears them again.
func setupTestServices() func() {
	dir := &fakeDirectory{
		boards: []domain.Board{
			{ID: "b1", Name: "Revenue", Description: "Monthly numbers"},
		},
		queries: []domain.Query{
			{
				ID:        "q1",
				BoardID:   "b1",
				Name:      "totals",
				Code:      "# @query: select count(*) from orders\n",
				UpdatedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
			},
		},
		datastores: []domain.Datastore{
			{ID: "d1", Name: "warehouse", Type: "postgres"},
		},
	}

	sync := services.NewSyncEngine()
	settings := services.NewSettingsService(memory.NewConfigStore())

	syncService = sync
	settingsService = settings
	editorService = services.NewEditorService(sync, dir, settings)
	directory = dir
	authService = &fakeAuth{}
	chatService = &fakeChat{}

	return func() {
		chatService = nil
		syncService = nil
		editorService = nil
		settingsService = nil
		authService = nil
		directory = nil
		queryTester = nil
		entitySearcher = nil
		sourceWatcher = nil
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// writeTestFile puts an annotated source file in a temp dir.
func writeTestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dash.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
