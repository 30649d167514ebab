package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for weave resources.
	uriScheme = "weave://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing backend queries.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "queries",
		Name:        "queries",
		Description: "List of the dashboard backend's saved queries",
		MIMEType:    "application/json",
	}, s.handleQueriesResource)

	// Template for one query's annotated source.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "queries/{queryId}",
		Name:        "query-source",
		Description: "Annotated source of a specific query",
		MIMEType:    "text/plain",
	}, s.handleQuerySourceResource)

	// Template for a local annotated file's SQL composite.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "files/{+path}",
		Name:        "file-composite",
		Description: "SQL composite of a local annotated source file",
		MIMEType:    "text/plain",
	}, s.handleFileCompositeResource)
}

// handleQueriesResource returns a list of backend queries.
func (s *Server) handleQueriesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Directory == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	queries, err := s.ports.Directory.ListQueries(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing queries: %w", err)
	}

	// Build simplified query list.
	type queryInfo struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		BoardID string `json:"board_id,omitempty"`
	}

	infos := make([]queryInfo, len(queries))
	for i := range queries {
		infos[i] = queryInfo{
			ID:      queries[i].ID,
			Name:    queries[i].Name,
			BoardID: queries[i].BoardID,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling queries: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleQuerySourceResource returns the annotated source of one query.
func (s *Server) handleQuerySourceResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Directory == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	queryID := extractQueryID(req.Params.URI)
	if queryID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	query, err := s.ports.Directory.GetQuery(ctx, queryID)
	if err != nil {
		return nil, fmt.Errorf("getting query: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     query.Code,
		}},
	}, nil
}

// handleFileCompositeResource returns the SQL composite of a local
// annotated file.
func (s *Server) handleFileCompositeResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Editor == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	path := extractFilePath(req.Params.URI)
	if path == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	view, err := s.ports.Editor.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     view.Composite,
		}},
	}, nil
}

// extractQueryID extracts the query ID from a URI like weave://queries/{queryId}.
func extractQueryID(uri string) string {
	const prefix = uriScheme + "queries/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}

// extractFilePath extracts the file path from a URI like
// weave://files/{path}. Paths are taken as-is, so absolute paths keep
// their leading segment and relative paths resolve against the server
// working directory.
func extractFilePath(uri string) string {
	const prefix = uriScheme + "files/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
