package driven

import (
	"context"

	"github.com/telar-labs/weave-cli/internal/core/domain"
)

// ChatStreamer sends one chat turn to the AI backend and streams the
// typed response events back.
//
// The returned channel is closed when the stream ends, whether or not
// a terminal event was seen; consumers must treat close-without-final
// as implicit completion. Transport failures mid-stream surface as an
// ErrorEvent followed by close, never as a panic or a stuck channel.
// Cancelling ctx aborts the stream and closes the channel.
type ChatStreamer interface {
	// Stream sends the request and returns the event channel.
	// An error here means the request could not be started at all.
	Stream(ctx context.Context, req domain.ChatRequest) (<-chan domain.StreamEvent, error)
}
