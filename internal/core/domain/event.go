package domain

// EventType tags a StreamEvent on the wire.
type EventType string

// Available stream event types.
const (
	// EventThinking carries a reasoning snapshot; each one replaces
	// the previous.
	EventThinking EventType = "thinking"

	// EventToolCall announces a started tool invocation.
	EventToolCall EventType = "tool_call"

	// EventToolResult carries the outcome of a tool invocation.
	EventToolResult EventType = "tool_result"

	// EventProgress carries one line of progress narration.
	EventProgress EventType = "progress"

	// EventCodeDelta proposes a replacement of the editable document.
	EventCodeDelta EventType = "code_delta"

	// EventTestResult carries a query test execution outcome.
	EventTestResult EventType = "test_result"

	// EventNeedsUserInput asks for a human decision mid-stream.
	EventNeedsUserInput EventType = "needs_user_input"

	// EventFinal closes the stream with the summary message.
	EventFinal EventType = "final"

	// EventError closes the stream with a failure.
	EventError EventType = "error"
)

// IsValid returns true if the event type is recognised.
func (t EventType) IsValid() bool {
	switch t {
	case EventThinking, EventToolCall, EventToolResult, EventProgress,
		EventCodeDelta, EventTestResult, EventNeedsUserInput,
		EventFinal, EventError:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the event ends the stream.
func (t EventType) IsTerminal() bool {
	return t == EventFinal || t == EventError
}

// String returns the string representation.
func (t EventType) String() string {
	return string(t)
}

// StreamEvent is one typed event from a live AI response stream.
//
// The union is closed: only the event structs in this file implement
// it. Consumers switch exhaustively over the concrete types; an
// unknown type reaching a switch is a programming error, not a wire
// condition (decoders drop unknown wire types before they get here).
type StreamEvent interface {
	// Type returns the wire tag for this event.
	Type() EventType

	streamEvent()
}

// ThinkingEvent is a reasoning snapshot. Overwrites any previous one.
type ThinkingEvent struct {
	// Content is the reasoning text.
	Content string
}

// ToolCallEvent announces a tool invocation in the started state.
type ToolCallEvent struct {
	// Tool is the tool name.
	Tool string

	// Args are the invocation arguments, decoded wire JSON.
	Args map[string]any
}

// ToolResultEvent reports the outcome of a tool invocation. The wire
// carries no call ID, only the tool name; matching against pending
// calls is positional (see the session reducer).
type ToolResultEvent struct {
	// Tool is the tool name.
	Tool string

	// Failed is true when the invocation errored.
	Failed bool

	// Result is the tool output, decoded wire JSON.
	Result map[string]any

	// Error is the failure text when Failed is true.
	Error string
}

// ProgressEvent is one line of progress narration.
type ProgressEvent struct {
	// Content is the narration line.
	Content string
}

// CodeDeltaEvent proposes a replacement of the editable document.
type CodeDeltaEvent struct {
	// OldCode is the document before the change.
	OldCode string

	// NewCode is the document after the change.
	NewCode string
}

// TestResultEvent carries a query test execution outcome.
type TestResultEvent struct {
	// Result is the outcome, stored on the message verbatim.
	Result TestResult
}

// NeedsUserInputEvent asks for a human decision. The stream continues.
type NeedsUserInputEvent struct {
	// Request is the pending decision.
	Request UserInputRequest
}

// FinalEvent closes the stream successfully.
type FinalEvent struct {
	// Code is the finished document, empty when the turn changed
	// nothing.
	Code string

	// Message is the summary text shown to the user.
	Message string
}

// ErrorEvent closes the stream with a failure.
type ErrorEvent struct {
	// Content is the human-readable failure text.
	Content string
}

// Type implementations.

// Type returns EventThinking.
func (ThinkingEvent) Type() EventType { return EventThinking }

// Type returns EventToolCall.
func (ToolCallEvent) Type() EventType { return EventToolCall }

// Type returns EventToolResult.
func (ToolResultEvent) Type() EventType { return EventToolResult }

// Type returns EventProgress.
func (ProgressEvent) Type() EventType { return EventProgress }

// Type returns EventCodeDelta.
func (CodeDeltaEvent) Type() EventType { return EventCodeDelta }

// Type returns EventTestResult.
func (TestResultEvent) Type() EventType { return EventTestResult }

// Type returns EventNeedsUserInput.
func (NeedsUserInputEvent) Type() EventType { return EventNeedsUserInput }

// Type returns EventFinal.
func (FinalEvent) Type() EventType { return EventFinal }

// Type returns EventError.
func (ErrorEvent) Type() EventType { return EventError }

func (ThinkingEvent) streamEvent()       {}
func (ToolCallEvent) streamEvent()       {}
func (ToolResultEvent) streamEvent()     {}
func (ProgressEvent) streamEvent()       {}
func (CodeDeltaEvent) streamEvent()      {}
func (TestResultEvent) streamEvent()     {}
func (NeedsUserInputEvent) streamEvent() {}
func (FinalEvent) streamEvent()          {}
func (ErrorEvent) streamEvent()          {}
