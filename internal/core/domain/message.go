package domain

import "time"

// Role identifies the author of a chat message.
type Role string

// Available message roles.
const (
	// RoleUser is a message authored by the human.
	RoleUser Role = "user"

	// RoleAssistant is a message authored by the AI backend.
	RoleAssistant Role = "assistant"

	// RoleSystem is an instruction message, only ever part of an
	// outbound request history, never displayed.
	RoleSystem Role = "system"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// ToolCallStatus tracks the lifecycle of a single tool invocation.
type ToolCallStatus string

// Available tool call statuses.
const (
	// ToolCallStarted means the backend announced the call and no
	// result has arrived yet.
	ToolCallStarted ToolCallStatus = "started"

	// ToolCallFinished means the call completed successfully.
	ToolCallFinished ToolCallStatus = "finished"

	// ToolCallFailed means the call completed with an error.
	ToolCallFailed ToolCallStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s ToolCallStatus) IsValid() bool {
	switch s {
	case ToolCallStarted, ToolCallFinished, ToolCallFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the call can no longer change state.
func (s ToolCallStatus) IsTerminal() bool {
	return s == ToolCallFinished || s == ToolCallFailed
}

// String returns the string representation.
func (s ToolCallStatus) String() string {
	return string(s)
}

// ToolCall is one backend-initiated tool invocation tracked inside a
// streaming message. Identity is positional: the pair (Tool, ordinal
// among calls with the same Tool) — the wire protocol carries no
// server-issued call ID.
type ToolCall struct {
	// Tool is the tool name as announced by the backend.
	Tool string

	// Status is the current lifecycle state.
	Status ToolCallStatus

	// Args are the invocation arguments, decoded wire JSON.
	Args map[string]any

	// Result is the tool output for finished calls, decoded wire JSON.
	Result map[string]any

	// Error is the failure text for failed calls.
	Error string
}

// CodeDelta records a proposed replacement of the editable document.
type CodeDelta struct {
	// OldCode is the document before the change.
	OldCode string

	// NewCode is the document after the change.
	NewCode string
}

// TestResult is the outcome of the backend test-executing a query.
// Mirrors the wire shape: a success carries counts and sample rows,
// a failure carries the error text.
type TestResult struct {
	// Success reports whether the test execution succeeded.
	Success bool

	// RowCount is the number of rows the query produced.
	RowCount int

	// Columns are the result column names.
	Columns []string

	// SampleRows are the first few result rows.
	SampleRows []map[string]any

	// Error is the failure text when Success is false.
	Error string

	// Message is the human-readable summary.
	Message string
}

// UserInputRequest signals that the backend paused mid-task and needs
// a human decision before continuing. It does not end the stream.
type UserInputRequest struct {
	// Code is the work-in-progress document, when one exists.
	Code string

	// Error is the blocking error the backend could not resolve.
	Error string

	// Message is the question or explanation for the user.
	Message string

	// TestPassed reports whether the last test execution succeeded.
	TestPassed bool
}

// Message is one chat message. It is mutable only while IsStreaming is
// true; once finalised it becomes part of immutable history.
type Message struct {
	// ID is the unique identifier (UUID).
	ID string

	// SessionID links to the chat session this message belongs to.
	SessionID string

	// Role identifies the author.
	Role Role

	// Content is the display text. While streaming it tracks the
	// accumulated progress; after finalisation it is the summary.
	Content string

	// Thinking is the backend's latest reasoning snapshot, empty when
	// none was streamed. Each thinking event overwrites it.
	Thinking string

	// CodeDelta is the proposed document change, nil when none.
	CodeDelta *CodeDelta

	// NeedsUserInput is the pending human decision, nil when none.
	NeedsUserInput *UserInputRequest

	// ToolCalls are the tool invocations in announcement order.
	ToolCalls []ToolCall

	// TestResult is the latest test execution outcome, nil when none.
	TestResult *TestResult

	// IsStreaming is true while events may still mutate the message.
	IsStreaming bool

	// CreatedAt is when the message was created.
	CreatedAt time.Time
}

// FinishedToolCalls returns how many tool calls reached a terminal state.
func (m *Message) FinishedToolCalls() int {
	n := 0
	for _, tc := range m.ToolCalls {
		if tc.Status.IsTerminal() {
			n++
		}
	}
	return n
}

// HistoryEntry is the minimal role/content pair sent to the backend as
// conversation history with an outbound request.
type HistoryEntry struct {
	// Role identifies the author.
	Role Role `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}
