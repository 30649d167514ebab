package domain

import "time"

// SessionState is the lifecycle of a chat session's current turn.
type SessionState string

// Available session states.
const (
	// SessionIdle means no request is in flight.
	SessionIdle SessionState = "idle"

	// SessionStreaming means a response stream is being consumed.
	SessionStreaming SessionState = "streaming"

	// SessionFinalized means the last turn ended with a final event
	// or an implicit completion.
	SessionFinalized SessionState = "finalized"

	// SessionErrored means the last turn ended with an error event or
	// a transport failure.
	SessionErrored SessionState = "errored"
)

// IsValid returns true if the state is recognised.
func (s SessionState) IsValid() bool {
	switch s {
	case SessionIdle, SessionStreaming, SessionFinalized, SessionErrored:
		return true
	default:
		return false
	}
}

// CanSubmit returns true if a new request may start in this state.
func (s SessionState) CanSubmit() bool {
	return s != SessionStreaming
}

// String returns the string representation.
func (s SessionState) String() string {
	return string(s)
}

// Session is one persisted conversation with the AI backend.
type Session struct {
	// ID is the unique identifier (UUID).
	ID string

	// Title is the display title, derived from the first prompt.
	Title string

	// Scope selects the backend's prompt and tool catalog.
	Scope ChatScope

	// BoardID is the working board for board-scoped sessions.
	BoardID string

	// QueryID is the working query for query-scoped sessions.
	QueryID string

	// DatastoreID is the working datastore, when bound.
	DatastoreID string

	// Model is the model identifier, empty for the backend default.
	Model string

	// CreatedAt is when the session was created.
	CreatedAt time.Time

	// UpdatedAt is when the session last changed.
	UpdatedAt time.Time
}

// HistoryStats summarises the local chat history for `weave stats`.
// Token accounting stays server-side; these are derived counts only.
type HistoryStats struct {
	// Sessions is the number of stored sessions.
	Sessions int

	// Messages is the number of stored messages.
	Messages int

	// ToolCalls is the number of tool invocations across messages.
	ToolCalls int

	// ByModel counts sessions per model identifier.
	ByModel map[string]int
}
