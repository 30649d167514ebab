// Package messages defines Bubbletea message types for the TUI.
// Messages represent events flowing through the Elm architecture.
package messages

import (
	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the conversation view.
	ViewChat ViewType = iota
	// ViewEditor is the fragment editor view.
	ViewEditor
	// ViewSessions is the stored session list.
	ViewSessions
	// ViewHelp is the keybinding help view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewEditor:
		return "editor"
	case ViewSessions:
		return "sessions"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// SessionUpdated carries one applied stream event's snapshot.
type SessionUpdated struct {
	Update driving.SessionUpdate
}

// SubmitFailed reports a rejected chat submission.
type SubmitFailed struct {
	Err error
}

// SessionsLoaded carries the stored session list.
type SessionsLoaded struct {
	Sessions []domain.Session
	Err      error
}

// SessionPicked asks the app to resume a stored session.
type SessionPicked struct {
	ID string
}

// SessionDeleted reports the outcome of a session delete.
type SessionDeleted struct {
	ID  string
	Err error
}

// CompletionReady carries inline completion state for the input.
type CompletionReady struct {
	Completion *domain.Completion
	Err        error
}

// FileChanged is sent when the open file changes on disk.
type FileChanged struct{}

// FileReloaded carries a re-read of the open file.
type FileReloaded struct {
	View *driving.SourceFileView
	Err  error
}

// FileSaved reports the outcome of splicing the composite back.
type FileSaved struct {
	Err error
}

// TestFinished carries a backend test-execution outcome.
type TestFinished struct {
	Result domain.TestResult
	Err    error
}

// StatusFlash shows a transient message in the status bar.
type StatusFlash struct {
	Text string
}
