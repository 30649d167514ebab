package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
)

// Ensure EntitySearch implements the interfaces.
var (
	_ driven.EntitySearcher = (*EntitySearch)(nil)
	_ driven.ContentFetcher = (*EntitySearch)(nil)
)

// EntitySearch backs @mention completion and context building with
// the backend's search and content endpoints.
type EntitySearch struct {
	client *Client
}

// searchResponse is the backend's entity search shape.
type searchResponse struct {
	Boards []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"boards"`
	Queries []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"queries"`
}

// contentResponse is the backend's entity content shape.
type contentResponse struct {
	Content     string `json:"content"`
	Description string `json:"description"`
}

// NewEntitySearch creates a new entity search adapter.
func NewEntitySearch(client *Client) *EntitySearch {
	return &EntitySearch{client: client}
}

// Search returns boards and queries matching the free-text query.
// scopeID optionally narrows query hits to one board.
func (s *EntitySearch) Search(ctx context.Context, query string, scopeID string) (domain.EntitySearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	if scopeID != "" {
		params.Set("board_id", scopeID)
	}

	var resp searchResponse
	if err := s.client.doJSON(ctx, http.MethodGet, "/api/search", params, nil, &resp); err != nil {
		return domain.EntitySearchResult{}, fmt.Errorf("entity search: %w", err)
	}

	result := domain.EntitySearchResult{
		Boards:  make([]domain.EntityRef, len(resp.Boards)),
		Queries: make([]domain.EntityRef, len(resp.Queries)),
	}
	for i, b := range resp.Boards {
		result.Boards[i] = domain.EntityRef{ID: b.ID, Name: b.Name}
	}
	for i, q := range resp.Queries {
		result.Queries[i] = domain.EntityRef{ID: q.ID, Name: q.Name}
	}
	return result, nil
}

// FetchContent returns a mentioned entity's body and description.
func (s *EntitySearch) FetchContent(ctx context.Context, entityType domain.MentionType, id string) (domain.EntityContent, error) {
	var collection string
	switch entityType {
	case domain.MentionBoard:
		collection = "boards"
	case domain.MentionQuery:
		collection = "queries"
	default:
		return domain.EntityContent{}, fmt.Errorf("%w: unknown entity type %q", domain.ErrInvalidInput, entityType)
	}

	path := fmt.Sprintf("/api/%s/%s/content", collection, url.PathEscape(id))

	var resp contentResponse
	if err := s.client.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return domain.EntityContent{}, fmt.Errorf("fetch %s %s: %w", entityType, id, err)
	}

	return domain.EntityContent{
		Content:     resp.Content,
		Description: resp.Description,
	}, nil
}
