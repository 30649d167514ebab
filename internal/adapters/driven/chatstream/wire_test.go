package chatstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telar-labs/weave-cli/internal/core/domain"
)

// --- Line framing ---

func TestDecodeLine_RequiresDataPrefix(t *testing.T) {
	_, err := DecodeLine(`{"type":"thinking","content":"x"}`)

	assert.ErrorIs(t, err, ErrSkipLine)
}

func TestDecodeLine_StripsCarriageReturn(t *testing.T) {
	event, err := DecodeLine("data: {\"type\":\"progress\",\"content\":\"step 1\"}\r")

	require.NoError(t, err)
	assert.Equal(t, domain.ProgressEvent{Content: "step 1"}, event)
}

func TestDecodeLine_MalformedJSONIsSkipped(t *testing.T) {
	_, err := DecodeLine("data: {not json")

	assert.ErrorIs(t, err, ErrSkipLine)
}

func TestDecodeLine_UnknownTypeIsSkipped(t *testing.T) {
	_, err := DecodeLine(`data: {"type":"heartbeat"}`)

	assert.ErrorIs(t, err, ErrSkipLine)
}

// --- Event payloads ---

func TestDecodeEvent_ToolCall(t *testing.T) {
	event, err := DecodeEvent([]byte(`{"type":"tool_call","tool":"run_query","status":"started","args":{"limit":10}}`))

	require.NoError(t, err)
	call, ok := event.(domain.ToolCallEvent)
	require.True(t, ok)
	assert.Equal(t, "run_query", call.Tool)
	assert.Equal(t, float64(10), call.Args["limit"])
}

func TestDecodeEvent_ToolResult_ErrorStatusMeansFailed(t *testing.T) {
	event, err := DecodeEvent([]byte(`{"type":"tool_result","tool":"run_query","status":"error","error":"timeout"}`))

	require.NoError(t, err)
	result, ok := event.(domain.ToolResultEvent)
	require.True(t, ok)
	assert.True(t, result.Failed)
	assert.Equal(t, "timeout", result.Error)
}

func TestDecodeEvent_ToolResult_SuccessStatus(t *testing.T) {
	event, err := DecodeEvent([]byte(`{"type":"tool_result","tool":"get_code","status":"success","result":{"code":"SELECT 1"}}`))

	require.NoError(t, err)
	result := event.(domain.ToolResultEvent)
	assert.False(t, result.Failed)
	assert.Equal(t, "SELECT 1", result.Result["code"])
}

func TestDecodeEvent_CodeDelta(t *testing.T) {
	event, err := DecodeEvent([]byte(`{"type":"code_delta","old_code":"SELECT 1","new_code":"SELECT 2"}`))

	require.NoError(t, err)
	assert.Equal(t, domain.CodeDeltaEvent{OldCode: "SELECT 1", NewCode: "SELECT 2"}, event)
}

func TestDecodeEvent_TestResult(t *testing.T) {
	event, err := DecodeEvent([]byte(`{"type":"test_result","success":true,"row_count":4,"columns":["total"],"sample_rows":[{"total":9}]}`))

	require.NoError(t, err)
	result := event.(domain.TestResultEvent)
	assert.True(t, result.Result.Success)
	assert.Equal(t, 4, result.Result.RowCount)
	assert.Equal(t, []string{"total"}, result.Result.Columns)
}

func TestDecodeEvent_NeedsUserInput(t *testing.T) {
	event, err := DecodeEvent([]byte(`{"type":"needs_user_input","code":"SELECT 1","error":"ambiguous column","message":"Which table?","test_passed":false}`))

	require.NoError(t, err)
	input := event.(domain.NeedsUserInputEvent)
	assert.Equal(t, "Which table?", input.Request.Message)
	assert.Equal(t, "ambiguous column", input.Request.Error)
}

func TestDecodeEvent_FinalAndError(t *testing.T) {
	final, err := DecodeEvent([]byte(`{"type":"final","code":"SELECT 2","message":"done"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.FinalEvent{Code: "SELECT 2", Message: "done"}, final)

	failure, err := DecodeEvent([]byte(`{"type":"error","content":"model overloaded"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.ErrorEvent{Content: "model overloaded"}, failure)
}
