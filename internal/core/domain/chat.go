package domain

// ChatScope identifies what a chat session is working on. The backend
// selects its system prompt and tool catalog from the scope.
type ChatScope string

// Available chat scopes.
const (
	// ScopeBoard works on a whole board.
	ScopeBoard ChatScope = "board"

	// ScopeQuery works on a single query.
	ScopeQuery ChatScope = "query"

	// ScopeDatastore explores a datastore's schema and data.
	ScopeDatastore ChatScope = "datastore"

	// ScopeGeneral is an unscoped conversation.
	ScopeGeneral ChatScope = "general"
)

// IsValid returns true if the scope is recognised.
func (s ChatScope) IsValid() bool {
	switch s {
	case ScopeBoard, ScopeQuery, ScopeDatastore, ScopeGeneral:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s ChatScope) String() string {
	return string(s)
}

// Description returns a human-readable description of the scope.
func (s ChatScope) Description() string {
	switch s {
	case ScopeBoard:
		return "Board (edit widgets and layout)"
	case ScopeQuery:
		return "Query (edit embedded SQL)"
	case ScopeDatastore:
		return "Datastore (explore schema and data)"
	case ScopeGeneral:
		return "General (no working context)"
	default:
		return unknownDescription
	}
}

// AllChatScopes returns all available chat scopes.
func AllChatScopes() []ChatScope {
	return []ChatScope{ScopeBoard, ScopeQuery, ScopeDatastore, ScopeGeneral}
}

// ChatRequest is one outbound turn sent to the AI backend.
type ChatRequest struct {
	// Prompt is the user's text after mention context was appended.
	Prompt string

	// Code is the current editable document, empty when none is open.
	Code string

	// History is the prior conversation, oldest first.
	History []HistoryEntry

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
}

// Mention is one resolved @name occurrence in submitted text.
type Mention struct {
	// Entity is the resolved board or query.
	Entity MentionEntity

	// Token is the literal @name as typed.
	Token string
}
