package chatstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/telar-labs/weave-cli/internal/core/domain"
)

// SSE framing constants.
const (
	// DataPrefix introduces an event line in the SSE stream.
	DataPrefix = "data: "
)

// ErrSkipLine marks a wire line that carries no event: malformed
// JSON, an unknown type, or SSE noise. Transports skip these lines
// and keep reading; nothing about them is fatal.
var ErrSkipLine = errors.New("skip line")

// envelope is the common wire shape: a type tag plus the union of all
// per-type payload fields. Decoding picks the fields the type uses.
type envelope struct {
	Type    string         `json:"type"`
	Content string         `json:"content"`
	Tool    string         `json:"tool"`
	Status  string         `json:"status"`
	Args    map[string]any `json:"args"`
	Result  map[string]any `json:"result"`
	Error   string         `json:"error"`
	OldCode string         `json:"old_code"`
	NewCode string         `json:"new_code"`
	Code    string         `json:"code"`
	Message string         `json:"message"`

	// test_result fields, decoded in place.
	Success    bool             `json:"success"`
	RowCount   int              `json:"row_count"`
	Columns    []string         `json:"columns"`
	SampleRows []map[string]any `json:"sample_rows"`
	TestPassed bool             `json:"test_passed"`
}

// DecodeLine decodes one SSE line into a typed event. Lines without
// the data prefix and lines that fail to decode return ErrSkipLine.
func DecodeLine(line string) (domain.StreamEvent, error) {
	line = strings.TrimRight(line, "\r")
	if !strings.HasPrefix(line, DataPrefix) {
		return nil, ErrSkipLine
	}
	return DecodeEvent([]byte(strings.TrimPrefix(line, DataPrefix)))
}

// DecodeEvent decodes one JSON event object into a typed event.
// Malformed JSON and unknown types return ErrSkipLine; the stream
// contract says both are dropped, not fatal.
func DecodeEvent(data []byte) (domain.StreamEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSkipLine, err)
	}

	switch domain.EventType(env.Type) {
	case domain.EventThinking:
		return domain.ThinkingEvent{Content: env.Content}, nil

	case domain.EventToolCall:
		return domain.ToolCallEvent{Tool: env.Tool, Args: env.Args}, nil

	case domain.EventToolResult:
		return domain.ToolResultEvent{
			Tool:   env.Tool,
			Failed: env.Status == "error",
			Result: env.Result,
			Error:  env.Error,
		}, nil

	case domain.EventProgress:
		return domain.ProgressEvent{Content: env.Content}, nil

	case domain.EventCodeDelta:
		return domain.CodeDeltaEvent{OldCode: env.OldCode, NewCode: env.NewCode}, nil

	case domain.EventTestResult:
		return domain.TestResultEvent{Result: domain.TestResult{
			Success:    env.Success,
			RowCount:   env.RowCount,
			Columns:    env.Columns,
			SampleRows: env.SampleRows,
			Error:      env.Error,
			Message:    env.Message,
		}}, nil

	case domain.EventNeedsUserInput:
		return domain.NeedsUserInputEvent{Request: domain.UserInputRequest{
			Code:       env.Code,
			Error:      env.Error,
			Message:    env.Message,
			TestPassed: env.TestPassed,
		}}, nil

	case domain.EventFinal:
		return domain.FinalEvent{Code: env.Code, Message: env.Message}, nil

	case domain.EventError:
		return domain.ErrorEvent{Content: env.Content}, nil

	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrSkipLine, env.Type)
	}
}
