package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/telar-labs/weave-cli/internal/core/domain"
)

// LocateInput is the input schema for the locate_fragments tool.
type LocateInput struct {
	Source string `json:"source" jsonschema:"the annotated source document to scan for SQL fragments"`
}

// FragmentOutput represents one extracted fragment.
type FragmentOutput struct {
	Line  int    `json:"line"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// LocateOutput is the output schema for the locate_fragments tool.
type LocateOutput struct {
	Fragments []FragmentOutput `json:"fragments"`
	Count     int              `json:"count"`
}

// CombineInput is the input schema for the combine_fragments tool.
type CombineInput struct {
	Source string `json:"source" jsonschema:"the annotated source document whose fragments are combined"`
}

// CombineOutput is the output schema for the combine_fragments tool.
type CombineOutput struct {
	Composite string `json:"composite"`
	Count     int    `json:"count"`
}

// FormatInput is the input schema for the format_sql tool.
type FormatInput struct {
	SQL string `json:"sql" jsonschema:"the SQL text to format"`
}

// FormatOutput is the output schema for the format_sql tool.
type FormatOutput struct {
	Formatted string `json:"formatted"`
}

// SpliceInput is the input schema for the splice_fragments tool.
type SpliceInput struct {
	Source string `json:"source" jsonschema:"the original annotated source document"`
	Edited string `json:"edited" jsonschema:"the edited SQL composite to splice back"`
}

// SpliceOutput is the output schema for the splice_fragments tool.
type SpliceOutput struct {
	Source string `json:"source"`
}

// SearchInput is the input schema for the search_entities tool.
type SearchInput struct {
	Query   string `json:"query" jsonschema:"free text to match against board and query names"`
	BoardID string `json:"board_id,omitempty" jsonschema:"optionally narrow query matches to one board"`
}

// EntityOutput represents a single matched entity.
type EntityOutput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// SearchOutput is the output schema for the search_entities tool.
type SearchOutput struct {
	Entities []EntityOutput `json:"entities"`
	Count    int            `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "locate_fragments",
		Description: "Extract the SQL fragments of an annotated source document",
	}, s.handleLocate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "combine_fragments",
		Description: "Combine a document's SQL fragments into one editable composite",
	}, s.handleCombine)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "format_sql",
		Description: "Normalise SQL keyword casing and clause layout",
	}, s.handleFormat)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "splice_fragments",
		Description: "Splice an edited SQL composite back into its annotated source document",
	}, s.handleSplice)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_entities",
		Description: "Find dashboard boards and queries matching free text",
	}, s.handleSearch)
}

// handleLocate handles the locate_fragments tool invocation.
func (s *Server) handleLocate(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input LocateInput,
) (*mcp.CallToolResult, LocateOutput, error) {
	fragments := s.ports.Sync.Locate(input.Source)

	output := LocateOutput{
		Fragments: make([]FragmentOutput, len(fragments)),
		Count:     len(fragments),
	}
	for i, fragment := range fragments {
		output.Fragments[i] = FragmentOutput{
			Line:  fragment.Line,
			Label: fragment.Label,
			Text:  fragment.Text,
		}
	}
	return nil, output, nil
}

// handleCombine handles the combine_fragments tool invocation.
func (s *Server) handleCombine(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input CombineInput,
) (*mcp.CallToolResult, CombineOutput, error) {
	fragments := s.ports.Sync.Locate(input.Source)

	return nil, CombineOutput{
		Composite: s.ports.Sync.Combine(fragments),
		Count:     len(fragments),
	}, nil
}

// handleFormat handles the format_sql tool invocation.
func (s *Server) handleFormat(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input FormatInput,
) (*mcp.CallToolResult, FormatOutput, error) {
	return nil, FormatOutput{Formatted: s.ports.Sync.Format(input.SQL)}, nil
}

// handleSplice handles the splice_fragments tool invocation.
func (s *Server) handleSplice(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SpliceInput,
) (*mcp.CallToolResult, SpliceOutput, error) {
	fragments := s.ports.Sync.Locate(input.Source)

	return nil, SpliceOutput{
		Source: s.ports.Sync.Split(input.Source, fragments, input.Edited),
	}, nil
}

// handleSearch handles the search_entities tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if s.ports.Searcher == nil {
		return nil, SearchOutput{}, errors.New("entity search is not configured")
	}

	result, err := s.ports.Searcher.Search(ctx, input.Query, input.BoardID)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{}
	for _, board := range result.Boards {
		output.Entities = append(output.Entities, EntityOutput{
			ID:   board.ID,
			Name: board.Name,
			Kind: string(domain.MentionBoard),
		})
	}
	for _, query := range result.Queries {
		output.Entities = append(output.Entities, EntityOutput{
			ID:   query.ID,
			Name: query.Name,
			Kind: string(domain.MentionQuery),
		})
	}
	output.Count = len(output.Entities)
	return nil, output, nil
}
