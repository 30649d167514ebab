// Package backend streams chat responses from the dashboard backend
// over SSE.
package backend

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/telar-labs/weave-cli/internal/adapters/driven/chatstream"
	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
	"github.com/telar-labs/weave-cli/internal/logger"
)

// Ensure Streamer implements the interface.
var _ driven.ChatStreamer = (*Streamer)(nil)

// Default configuration values.
const (
	// DefaultStreamTimeout bounds one whole response stream. Tool
	// loops can run for minutes, so this is generous.
	DefaultStreamTimeout = 10 * time.Minute

	// maxLineSize caps one SSE line. Code payloads can be large.
	maxLineSize = 1024 * 1024
)

// Config holds configuration for the SSE streamer.
type Config struct {
	// BaseURL is the backend root, without trailing slash (required).
	BaseURL string

	// Credentials supplies the bearer token per request (required).
	Credentials driven.CredentialsStore

	// Timeout bounds one whole stream (default: 10m).
	Timeout time.Duration
}

// Streamer sends a chat turn to the backend and decodes the SSE
// response into typed events.
type Streamer struct {
	client  *http.Client
	baseURL string
	creds   driven.CredentialsStore
}

// chatRequestBody is the backend's chat endpoint request shape.
type chatRequestBody struct {
	Prompt      string                `json:"prompt"`
	Code        string                `json:"code,omitempty"`
	History     []domain.HistoryEntry `json:"history,omitempty"`
	Scope       string                `json:"scope"`
	BoardID     string                `json:"board_id,omitempty"`
	QueryID     string                `json:"query_id,omitempty"`
	DatastoreID string                `json:"datastore_id,omitempty"`
	Model       string                `json:"model,omitempty"`
}

// NewStreamer creates a new SSE streamer.
func NewStreamer(cfg Config) (*Streamer, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("chatstream: base URL is required")
	}
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("chatstream: credentials store is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultStreamTimeout
	}

	return &Streamer{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		creds:   cfg.Credentials,
	}, nil
}

// Stream sends the request and returns the event channel. The channel
// closes when the stream ends; a transport failure mid-stream surfaces
// as a final ErrorEvent before close.
func (s *Streamer) Stream(ctx context.Context, req domain.ChatRequest) (<-chan domain.StreamEvent, error) {
	creds, err := s.creds.GetCredentials()
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	token := creds.AccessToken()
	if token == "" {
		return nil, domain.ErrAuthRequired
	}

	body := chatRequestBody{
		Prompt:      req.Prompt,
		Code:        req.Code,
		History:     req.History,
		Scope:       req.Scope.String(),
		BoardID:     req.BoardID,
		QueryID:     req.QueryID,
		DatastoreID: req.DatastoreID,
		Model:       req.Model,
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/ai/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: %s", domain.ErrAuthInvalid, strings.TrimSpace(string(data)))
		}
		return nil, fmt.Errorf("chat request rejected (status %d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	events := make(chan domain.StreamEvent)
	go s.consume(ctx, resp.Body, events)
	return events, nil
}

// consume reads SSE lines until the stream ends, decoding each into a
// typed event. Malformed lines are skipped. The body is closed and the
// channel closed on the way out, whatever ended the stream.
func (s *Streamer) consume(ctx context.Context, body io.ReadCloser, events chan<- domain.StreamEvent) {
	defer close(events)
	defer body.Close()

	// Closing the body from a watcher goroutine unblocks the scanner
	// when ctx is cancelled mid-read.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			body.Close()
		case <-done:
		}
	}()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		event, err := chatstream.DecodeLine(scanner.Text())
		if err != nil {
			if !errors.Is(err, chatstream.ErrSkipLine) {
				logger.Debug("chatstream: decode: %v", err)
			}
			continue
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

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		// The reducer turns this into a readable terminal message.
		select {
		case events <- domain.ErrorEvent{Content: fmt.Sprintf("stream interrupted: %v", err)}:
		case <-ctx.Done():
		}
	}
}
