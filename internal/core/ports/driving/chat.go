package driving

import (
	"context"

	"github.com/telar-labs/weave-cli/internal/core/domain"
)

// ChatService creates and resumes chat sessions.
type ChatService interface {
	// CreateSession starts a new session with the given scope.
	// Scope IDs that don't apply may be empty.
	CreateSession(ctx context.Context, scope domain.ChatScope, boardID, queryID, datastoreID string) (ChatSession, error)

	// ResumeSession reopens a stored session with its transcript.
	ResumeSession(ctx context.Context, id string) (ChatSession, error)

	// ListSessions returns stored sessions, most recent first.
	ListSessions(ctx context.Context) ([]domain.Session, error)

	// DeleteSession removes a session and its messages.
	DeleteSession(ctx context.Context, id string) error

	// Stats derives summary counts from the local history.
	Stats(ctx context.Context) (domain.HistoryStats, error)
}

// ChatSession is one live conversation. It owns the mention lookup
// table, the streaming reducer and the editable document for its turn.
//
// Methods are safe for concurrent use; Updates delivers immutable
// snapshots so renderers never touch shared state.
type ChatSession interface {
	// Session returns the session record.
	Session() domain.Session

	// State returns the current turn lifecycle state.
	State() domain.SessionState

	// Messages returns the transcript including any streaming
	// message, as snapshots.
	Messages() []domain.Message

	// Code returns the current editable document.
	Code() string

	// SetCode replaces the editable document between turns.
	SetCode(code string)

	// SetModel switches the model for subsequent turns.
	SetModel(model string)

	// Submit resolves mentions in text, builds the request and starts
	// consuming the response stream. Returns domain.ErrStreamInFlight
	// while a turn is active and domain.ErrSessionClosed after Close.
	Submit(ctx context.Context, text string) error

	// Updates delivers a snapshot after every applied stream event.
	// The channel is never closed while the session is open; receive
	// with select.
	Updates() <-chan SessionUpdate

	// Complete evaluates inline completion for the input at cursor.
	// Returns nil when no trigger is open at the cursor.
	Complete(ctx context.Context, input string, cursor int) (*domain.Completion, error)

	// Accept splices the chosen candidate into the input and, for
	// mentions, registers the entity in the session lookup table.
	// Returns the new input and cursor position.
	Accept(input string, cursor int, candidate domain.Candidate) (string, int)

	// ResolveMentions extracts @name tokens from submitted text and
	// resolves them against the session lookup table. Unregistered
	// tokens are silently dropped.
	ResolveMentions(text string) []domain.Mention

	// Cancel aborts the in-flight stream, if any. Events arriving
	// after cancellation are discarded.
	Cancel()

	// Close tears the session down. All later events and submissions
	// become no-ops.
	Close()
}

// SessionUpdate is an immutable snapshot emitted after each applied
// stream event, carrying everything a renderer needs.
type SessionUpdate struct {
	// Message is the message the event mutated, post-mutation.
	Message domain.Message

	// State is the session state after the event.
	State domain.SessionState

	// Code is the editable document after the event.
	Code string

	// Done is true when this update ends the turn.
	Done bool
}
