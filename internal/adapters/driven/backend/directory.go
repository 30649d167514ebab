package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
)

// Ensure Directory implements the interfaces.
var (
	_ driven.BackendDirectory = (*Directory)(nil)
	_ driven.QueryTester      = (*Directory)(nil)
)

// Directory lists and edits boards, queries and datastores through
// the backend REST API, and asks it to test-execute queries.
type Directory struct {
	client *Client
}

// boardRecord is the backend's board shape.
type boardRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UpdatedAt   string `json:"updated_at"`
}

// queryRecord is the backend's query shape.
type queryRecord struct {
	ID          string `json:"id"`
	BoardID     string `json:"board_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Code        string `json:"code"`
	UpdatedAt   string `json:"updated_at"`
}

// datastoreRecord is the backend's datastore shape. Connection config
// never crosses the wire.
type datastoreRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// testRequest asks the backend to test-execute a document.
type testRequest struct {
	Code      string `json:"code"`
	LimitRows int    `json:"limit_rows,omitempty"`
}

// testResponse is the backend's test execution outcome.
type testResponse struct {
	Success    bool             `json:"success"`
	RowCount   int              `json:"row_count"`
	Columns    []string         `json:"columns"`
	SampleRows []map[string]any `json:"sample_rows"`
	Error      string           `json:"error"`
	Message    string           `json:"message"`
}

// NewDirectory creates a new backend directory adapter.
func NewDirectory(client *Client) *Directory {
	return &Directory{client: client}
}

// ListBoards returns all boards visible to the user.
func (d *Directory) ListBoards(ctx context.Context) ([]domain.Board, error) {
	var records []boardRecord
	if err := d.client.doJSON(ctx, http.MethodGet, "/api/boards", nil, nil, &records); err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	boards := make([]domain.Board, len(records))
	for i, r := range records {
		boards[i] = domain.Board{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			UpdatedAt:   parseTime(r.UpdatedAt),
		}
	}
	return boards, nil
}

// ListQueries returns a board's queries; empty boardID lists all.
func (d *Directory) ListQueries(ctx context.Context, boardID string) ([]domain.Query, error) {
	query := url.Values{}
	if boardID != "" {
		query.Set("board_id", boardID)
	}

	var records []queryRecord
	if err := d.client.doJSON(ctx, http.MethodGet, "/api/queries", query, nil, &records); err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}

	queries := make([]domain.Query, len(records))
	for i, r := range records {
		queries[i] = toQuery(r)
	}
	return queries, nil
}

// GetQuery returns one query including its annotated source.
func (d *Directory) GetQuery(ctx context.Context, id string) (domain.Query, error) {
	var record queryRecord
	if err := d.client.doJSON(ctx, http.MethodGet, "/api/queries/"+url.PathEscape(id), nil, nil, &record); err != nil {
		return domain.Query{}, fmt.Errorf("get query %s: %w", id, err)
	}
	return toQuery(record), nil
}

// SaveQuery creates or updates a query and returns the stored version.
func (d *Directory) SaveQuery(ctx context.Context, query domain.Query) (domain.Query, error) {
	body := queryRecord{
		ID:          query.ID,
		BoardID:     query.BoardID,
		Name:        query.Name,
		Description: query.Description,
		Code:        query.Code,
	}

	var record queryRecord
	var err error
	if query.ID == "" {
		err = d.client.doJSON(ctx, http.MethodPost, "/api/queries", nil, body, &record)
	} else {
		err = d.client.doJSON(ctx, http.MethodPut, "/api/queries/"+url.PathEscape(query.ID), nil, body, &record)
	}
	if err != nil {
		return domain.Query{}, fmt.Errorf("save query: %w", err)
	}
	return toQuery(record), nil
}

// ListDatastores returns the configured datastores.
func (d *Directory) ListDatastores(ctx context.Context) ([]domain.Datastore, error) {
	var records []datastoreRecord
	if err := d.client.doJSON(ctx, http.MethodGet, "/api/datastores", nil, nil, &records); err != nil {
		return nil, fmt.Errorf("list datastores: %w", err)
	}

	stores := make([]domain.Datastore, len(records))
	for i, r := range records {
		stores[i] = domain.Datastore{ID: r.ID, Name: r.Name, Type: r.Type}
	}
	return stores, nil
}

// TestQuery runs the document server-side and returns the outcome.
// A failed test is data, not an error; the error return covers
// transport and auth problems only.
func (d *Directory) TestQuery(ctx context.Context, code string, limitRows int) (domain.TestResult, error) {
	body := testRequest{Code: code, LimitRows: limitRows}

	var resp testResponse
	if err := d.client.doJSON(ctx, http.MethodPost, "/api/queries/test", nil, body, &resp); err != nil {
		return domain.TestResult{}, fmt.Errorf("test query: %w", err)
	}

	return domain.TestResult{
		Success:    resp.Success,
		RowCount:   resp.RowCount,
		Columns:    resp.Columns,
		SampleRows: resp.SampleRows,
		Error:      resp.Error,
		Message:    resp.Message,
	}, nil
}

// toQuery converts a wire record to the domain type.
func toQuery(r queryRecord) domain.Query {
	return domain.Query{
		ID:          r.ID,
		BoardID:     r.BoardID,
		Name:        r.Name,
		Description: r.Description,
		Code:        r.Code,
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
}

// parseTime reads the backend's RFC 3339 timestamps, tolerating a
// missing or malformed value as the zero time.
func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		if unix, uerr := strconv.ParseInt(value, 10, 64); uerr == nil {
			return time.Unix(unix, 0)
		}
		return time.Time{}
	}
	return t
}
