// Package tui provides the interactive terminal user interface for
// weave: the chat view, the fragment editor and the session list.
// It is a driving adapter; all behaviour lives behind the core ports.
package tui

import (
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces the TUI needs. This is
// the single injection point for wiring.
type Ports struct {
	// Chat creates and resumes chat sessions.
	Chat driving.ChatService

	// Sync provides the pure locate/combine/format/split transforms.
	Sync driving.SyncService

	// Editor drives the file editing workflow.
	Editor driving.EditorService

	// Settings reads application settings.
	Settings driving.SettingsService

	// Tester test-executes queries server-side. Optional; without it
	// the /test command reports that testing is unavailable.
	Tester driven.QueryTester

	// Watcher reports external changes to the open file. Optional;
	// without it the editor never reloads.
	Watcher driven.SourceWatcher
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Sync == nil {
		return ErrMissingSyncService
	}
	if p.Editor == nil {
		return ErrMissingEditorService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
