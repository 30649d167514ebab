package mcp

import (
	"context"
	"strings"

	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
	"github.com/telar-labs/weave-cli/internal/core/services"
)

// --- Mocks ---

// mockSearcher returns canned entity search results.
type mockSearcher struct {
	result domain.EntitySearchResult
	err    error
	query  string
	scope  string
}

func (m *mockSearcher) Search(_ context.Context, query, scopeID string) (domain.EntitySearchResult, error) {
	m.query = query
	m.scope = scopeID
	return m.result, m.err
}

// mockDirectory serves a fixed query catalog.
type mockDirectory struct {
	queries []domain.Query
	err     error
}

func (m *mockDirectory) ListBoards(context.Context) ([]domain.Board, error) {
	return nil, nil
}

func (m *mockDirectory) ListQueries(_ context.Context, boardID string) ([]domain.Query, error) {
	if m.err != nil {
		return nil, m.err
	}
	if boardID == "" {
		return m.queries, nil
	}
	var out []domain.Query
	for _, q := range m.queries {
		if q.BoardID == boardID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *mockDirectory) GetQuery(_ context.Context, id string) (domain.Query, error) {
	if m.err != nil {
		return domain.Query{}, m.err
	}
	for _, q := range m.queries {
		if q.ID == id {
			return q, nil
		}
	}
	return domain.Query{}, domain.ErrNotFound
}

func (m *mockDirectory) SaveQuery(_ context.Context, query domain.Query) (domain.Query, error) {
	return query, nil
}

func (m *mockDirectory) ListDatastores(context.Context) ([]domain.Datastore, error) {
	return nil, nil
}

// mockEditor serves local files from a map.
type mockEditor struct {
	files map[string]string
}

func (m *mockEditor) OpenFile(path string) (*driving.SourceFileView, error) {
	source, ok := m.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	engine := services.NewSyncEngine()
	fragments := engine.Locate(source)
	return &driving.SourceFileView{
		Path:      path,
		Source:    source,
		Fragments: fragments,
		Composite: engine.Combine(fragments),
	}, nil
}

func (m *mockEditor) SaveComposite(string, string) error { return nil }

func (m *mockEditor) FormatComposite(string) (string, error) { return "", nil }

func (m *mockEditor) Pull(context.Context, string, string) error { return nil }

func (m *mockEditor) Push(context.Context, string, string) (domain.Query, error) {
	return domain.Query{}, nil
}

// testPorts builds fully wired ports with the real sync engine.
func testPorts() *Ports {
	return &Ports{
		Sync: services.NewSyncEngine(),
		Editor: &mockEditor{files: map[string]string{
			"dash.py": strings.Join([]string{
				"import os",
				"# @query: select count(*) from orders",
				"print('hi')",
				"",
			}, "\n"),
		}},
		Searcher: &mockSearcher{result: domain.EntitySearchResult{
			Boards:  []domain.EntityRef{{ID: "b1", Name: "Revenue"}},
			Queries: []domain.EntityRef{{ID: "q1", Name: "monthly totals"}},
		}},
		Directory: &mockDirectory{queries: []domain.Query{
			{ID: "q1", Name: "monthly totals", BoardID: "b1", Code: "# @query: select 1\n"},
		}},
	}
}
