package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
)

// messageStore implements driven.MessageStore.
type messageStore struct {
	store *Store
}

var _ driven.MessageStore = (*messageStore)(nil)

// AppendMessage stores one finalised message.
func (s *messageStore) AppendMessage(ctx context.Context, message domain.Message) error {
	codeDelta, err := marshalNullable(message.CodeDelta)
	if err != nil {
		return fmt.Errorf("marshalling code delta: %w", err)
	}
	needsInput, err := marshalNullable(message.NeedsUserInput)
	if err != nil {
		return fmt.Errorf("marshalling needs_user_input: %w", err)
	}
	testResult, err := marshalNullable(message.TestResult)
	if err != nil {
		return fmt.Errorf("marshalling test result: %w", err)
	}

	var toolCalls any
	if len(message.ToolCalls) > 0 {
		data, err := json.Marshal(message.ToolCalls)
		if err != nil {
			return fmt.Errorf("marshalling tool calls: %w", err)
		}
		toolCalls = string(data)
	}

	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO messages (id, session_id, role, content, thinking, code_delta, needs_user_input, tool_calls, test_result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, message.ID, message.SessionID, message.Role.String(), message.Content,
		nullString(message.Thinking), codeDelta, needsInput, toolCalls, testResult,
		message.CreatedAt)

	if err != nil {
		return fmt.Errorf("appending message: %w", err)
	}
	return nil
}

// ListMessages returns a session's messages, oldest first.
func (s *messageStore) ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, thinking, code_delta, needs_user_input, tool_calls, test_result, created_at
		FROM messages WHERE session_id = ? ORDER BY created_at, id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

// Stats derives summary counts across all stored history.
func (s *messageStore) Stats(ctx context.Context) (domain.HistoryStats, error) {
	stats := domain.HistoryStats{ByModel: make(map[string]int)}

	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions")
	if err := row.Scan(&stats.Sessions); err != nil {
		return domain.HistoryStats{}, fmt.Errorf("counting sessions: %w", err)
	}

	row = s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages")
	if err := row.Scan(&stats.Messages); err != nil {
		return domain.HistoryStats{}, fmt.Errorf("counting messages: %w", err)
	}

	// Tool calls live inside message JSON; count them by decoding.
	rows, err := s.store.db.QueryContext(ctx, "SELECT tool_calls FROM messages WHERE tool_calls IS NOT NULL")
	if err != nil {
		return domain.HistoryStats{}, fmt.Errorf("querying tool calls: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return domain.HistoryStats{}, fmt.Errorf("scanning tool calls: %w", err)
		}
		var calls []domain.ToolCall
		if err := json.Unmarshal([]byte(raw), &calls); err != nil {
			continue // Tolerate rows written by other versions.
		}
		stats.ToolCalls += len(calls)
	}
	if err := rows.Err(); err != nil {
		return domain.HistoryStats{}, err
	}

	modelRows, err := s.store.db.QueryContext(ctx, `
		SELECT COALESCE(model, ''), COUNT(*) FROM sessions GROUP BY model
	`)
	if err != nil {
		return domain.HistoryStats{}, fmt.Errorf("querying models: %w", err)
	}
	defer modelRows.Close()

	for modelRows.Next() {
		var model string
		var count int
		if err := modelRows.Scan(&model, &count); err != nil {
			return domain.HistoryStats{}, fmt.Errorf("scanning models: %w", err)
		}
		if model == "" {
			model = "(default)"
		}
		stats.ByModel[model] = count
	}
	return stats, modelRows.Err()
}

// scanMessage reads one message row.
func scanMessage(rows *sql.Rows) (domain.Message, error) {
	var message domain.Message
	var role string
	var thinking, codeDelta, needsInput, toolCalls, testResult sql.NullString
	var createdAt sql.NullTime

	if err := rows.Scan(&message.ID, &message.SessionID, &role, &message.Content,
		&thinking, &codeDelta, &needsInput, &toolCalls, &testResult, &createdAt); err != nil {
		return domain.Message{}, fmt.Errorf("scanning message: %w", err)
	}

	message.Role = domain.Role(role)
	message.Thinking = thinking.String
	if createdAt.Valid {
		message.CreatedAt = createdAt.Time
	}

	if codeDelta.Valid && codeDelta.String != jsonNull {
		var delta domain.CodeDelta
		if err := json.Unmarshal([]byte(codeDelta.String), &delta); err != nil {
			return domain.Message{}, fmt.Errorf("unmarshalling code delta: %w", err)
		}
		message.CodeDelta = &delta
	}
	if needsInput.Valid && needsInput.String != jsonNull {
		var request domain.UserInputRequest
		if err := json.Unmarshal([]byte(needsInput.String), &request); err != nil {
			return domain.Message{}, fmt.Errorf("unmarshalling needs_user_input: %w", err)
		}
		message.NeedsUserInput = &request
	}
	if toolCalls.Valid && toolCalls.String != jsonNull {
		if err := json.Unmarshal([]byte(toolCalls.String), &message.ToolCalls); err != nil {
			return domain.Message{}, fmt.Errorf("unmarshalling tool calls: %w", err)
		}
	}
	if testResult.Valid && testResult.String != jsonNull {
		var result domain.TestResult
		if err := json.Unmarshal([]byte(testResult.String), &result); err != nil {
			return domain.Message{}, fmt.Errorf("unmarshalling test result: %w", err)
		}
		message.TestResult = &result
	}

	return message, nil
}

// marshalNullable marshals a pointer value, mapping nil to NULL.
func marshalNullable(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == jsonNull {
		return nil, nil
	}
	return string(data), nil
}
