package mcp

import (
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
)

// Ports aggregates the port interfaces the MCP server exposes.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Sync provides the locate/combine/format/splice transforms.
	Sync driving.SyncService

	// Editor opens local annotated files for the file resource.
	// Optional; without it the file resource is not registered.
	Editor driving.EditorService

	// Searcher finds boards and queries for the search tool.
	// Optional; without it search_entities returns an error.
	Searcher driven.EntitySearcher

	// Directory lists backend queries for resources. Optional.
	Directory driven.BackendDirectory
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Sync == nil {
		return ErrMissingSyncService
	}
	// Editor, Searcher and Directory are optional
	return nil
}
