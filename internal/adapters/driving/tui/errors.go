package tui

import "errors"

// Errors returned when required ports are missing at startup.
var (
	ErrMissingChatService     = errors.New("tui: chat service is required")
	ErrMissingSyncService     = errors.New("tui: sync service is required")
	ErrMissingEditorService   = errors.New("tui: editor service is required")
	ErrMissingSettingsService = errors.New("tui: settings service is required")
)
