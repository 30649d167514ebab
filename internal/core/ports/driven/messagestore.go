package driven

import (
	"context"

	"github.com/telar-labs/weave-cli/internal/core/domain"
)

// MessageStore persists chat messages locally.
//
// Appends are fire-and-forget at the service layer: a failed append is
// logged and the conversation continues. The interface still returns
// the error so implementations stay honest and tests can assert on it.
type MessageStore interface {
	// AppendMessage stores one finalised message.
	AppendMessage(ctx context.Context, message domain.Message) error

	// ListMessages returns a session's messages, oldest first.
	ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Stats derives summary counts across all stored history.
	Stats(ctx context.Context) (domain.HistoryStats, error)
}
