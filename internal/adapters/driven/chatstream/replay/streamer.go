// Package replay streams recorded chat events from a JSONL file, one
// JSON event object per line. Useful for demos and for exercising the
// chat pipeline without a backend.
package replay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/telar-labs/weave-cli/internal/adapters/driven/chatstream"
	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
	"github.com/telar-labs/weave-cli/internal/logger"
)

// Ensure Streamer implements the interface.
var _ driven.ChatStreamer = (*Streamer)(nil)

// Streamer replays a recorded event log for every request.
type Streamer struct {
	path  string
	delay time.Duration
}

// NewStreamer creates a replay streamer reading from path. A non-zero
// delay paces the events to mimic a live stream.
func NewStreamer(path string, delay time.Duration) *Streamer {
	return &Streamer{path: path, delay: delay}
}

// Stream replays the recorded events. The request is ignored beyond
// validation; the recording decides what comes back.
func (s *Streamer) Stream(ctx context.Context, req domain.ChatRequest) (<-chan domain.StreamEvent, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}

	events := make(chan domain.StreamEvent)
	go func() {
		defer close(events)
		defer file.Close()

		scanner := bufio.NewScanner(file)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			event, err := chatstream.DecodeEvent(line)
			if err != nil {
				if !errors.Is(err, chatstream.ErrSkipLine) {
					logger.Debug("replay: decode: %v", err)
				}
				continue
			}

			if s.delay > 0 {
				select {
				case <-time.After(s.delay):
				case <-ctx.Done():
					return
				}
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}

			if event.Type().IsTerminal() {
				return
			}
		}
	}()
	return events, nil
}
