// Package mcp provides an MCP (Model Context Protocol) server adapter
// for weave. It exposes the fragment sync engine and the backend's
// entity directory to AI assistants.
package mcp

import "errors"

// ErrMissingSyncService is returned when the sync service is not provided.
var ErrMissingSyncService = errors.New("mcp: sync service is required")
