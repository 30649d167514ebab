package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
	"github.com/telar-labs/weave-cli/internal/logger"
	"github.com/telar-labs/weave-cli/internal/textutil"
)

// Ensure chatSession implements the interface.
var _ driving.ChatSession = (*chatSession)(nil)

const (
	// defaultSessionTitle is used until the first prompt names the
	// session.
	defaultSessionTitle = "New session"

	// sessionTitleLimit caps derived titles.
	sessionTitleLimit = 50

	// persistTimeout bounds fire-and-forget store writes.
	persistTimeout = 5 * time.Second

	// updateBuffer sizes the snapshot channel. A slow renderer drops
	// intermediate snapshots; every snapshot carries the full state,
	// so the next one catches it up.
	updateBuffer = 64
)

// sessionDeps groups the driven ports a live session needs.
type sessionDeps struct {
	streamer     driven.ChatStreamer
	searcher     driven.EntitySearcher
	fetcher      driven.ContentFetcher
	prompts      driven.PromptStore
	sessions     driven.SessionStore
	messages     driven.MessageStore
	historyLimit int
}

// chatSession is one live conversation. It folds the response event
// stream into the tail message of its transcript and owns the mention
// lookup table for its lifetime.
//
// The reducer runs on the stream goroutine; renderers call the
// accessor methods from theirs. A generation counter per turn makes
// events from a cancelled or superseded turn no-ops instead of
// corrupting the transcript.
type chatSession struct {
	deps sessionDeps

	mu         sync.Mutex
	session    domain.Session
	state      domain.SessionState
	transcript []domain.Message
	code       string
	mentions   map[string]domain.MentionEntity

	// Per-turn reducer state, reset on every Submit.
	progress    []string
	pendingCode string
	hasPending  bool
	turn        int
	cancel      context.CancelFunc
	closed      bool

	updates chan driving.SessionUpdate
}

// newChatSession builds a session handle over an existing transcript.
func newChatSession(deps sessionDeps, session domain.Session, transcript []domain.Message, code string) *chatSession {
	return &chatSession{
		deps:       deps,
		session:    session,
		state:      domain.SessionIdle,
		transcript: transcript,
		code:       code,
		mentions:   make(map[string]domain.MentionEntity),
		updates:    make(chan driving.SessionUpdate, updateBuffer),
	}
}

// Session returns the session record.
func (s *chatSession) Session() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// State returns the current turn lifecycle state.
func (s *chatSession) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns the transcript as snapshots.
func (s *chatSession) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Message, len(s.transcript))
	for i, msg := range s.transcript {
		out[i] = snapshotMessage(msg)
	}
	return out
}

// Code returns the current editable document.
func (s *chatSession) Code() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}

// SetCode replaces the editable document.
func (s *chatSession) SetCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = code
}

// SetModel switches the model for subsequent turns.
func (s *chatSession) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Model = model
}

// Updates delivers a snapshot after every applied stream event.
func (s *chatSession) Updates() <-chan driving.SessionUpdate {
	return s.updates
}

// Submit resolves mentions, records the user message and starts
// consuming the response stream.
func (s *chatSession) Submit(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if !s.state.CanSubmit() {
		s.mu.Unlock()
		return fmt.Errorf("%w: session %s", domain.ErrStreamInFlight, s.session.ID)
	}

	mentions := s.resolveLocked(text)
	history := s.historyLocked()

	userMsg := domain.Message{
		ID:        uuid.NewString(),
		SessionID: s.session.ID,
		Role:      domain.RoleUser,
		Content:   text,
		CreatedAt: time.Now(),
	}
	s.transcript = append(s.transcript, userMsg)

	renamed := false
	if s.session.Title == "" || s.session.Title == defaultSessionTitle {
		if title := textutil.DeriveTitle(text, sessionTitleLimit); title != "" {
			s.session.Title = title
			renamed = true
		}
	}
	title := s.session.Title

	s.transcript = append(s.transcript, domain.Message{
		ID:          uuid.NewString(),
		SessionID:   s.session.ID,
		Role:        domain.RoleAssistant,
		IsStreaming: true,
		CreatedAt:   time.Now(),
	})
	s.state = domain.SessionStreaming
	s.progress = nil
	s.pendingCode = ""
	s.hasPending = false
	s.turn++
	turn := s.turn

	streamCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	req := domain.ChatRequest{
		Prompt:      text,
		Code:        s.code,
		History:     history,
		Scope:       s.session.Scope,
		BoardID:     s.session.BoardID,
		QueryID:     s.session.QueryID,
		DatastoreID: s.session.DatastoreID,
		Model:       s.session.Model,
	}
	s.mu.Unlock()

	s.persist(userMsg)
	if renamed {
		s.rename(title)
	}

	go s.run(streamCtx, turn, req, mentions)
	return nil
}

// Cancel aborts the in-flight stream, if any. The transport closes the
// event channel on abort, which seals the turn with whatever was
// accumulated.
func (s *chatSession) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Close tears the session down. Later events and submissions are
// no-ops.
func (s *chatSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// run drives one turn: builds the final prompt, opens the stream and
// folds every event into the tail message.
func (s *chatSession) run(ctx context.Context, turn int, req domain.ChatRequest, mentions []domain.Mention) {
	req.Prompt = s.withMentionContext(ctx, req.Prompt, mentions)

	events, err := s.deps.streamer.Stream(ctx, req)
	if err != nil {
		// A request that never started still ends the turn as a
		// readable error message, not a stuck spinner.
		s.apply(turn, domain.ErrorEvent{Content: err.Error()})
		return
	}

	for event := range events {
		s.apply(turn, event)
	}
	s.finish(turn)
}

// apply folds one stream event into the active message and emits a
// snapshot. Events for a finished, cancelled or superseded turn are
// discarded.
func (s *chatSession) apply(turn int, event domain.StreamEvent) {
	s.mu.Lock()
	if s.closed || turn != s.turn || s.state != domain.SessionStreaming {
		s.mu.Unlock()
		return
	}

	// While streaming, the active message is the transcript tail.
	msg := &s.transcript[len(s.transcript)-1]
	done := false

	switch ev := event.(type) {
	case domain.ThinkingEvent:
		msg.Thinking = ev.Content

	case domain.ToolCallEvent:
		msg.ToolCalls = append(msg.ToolCalls, domain.ToolCall{
			Tool:   ev.Tool,
			Status: domain.ToolCallStarted,
			Args:   ev.Args,
		})

	case domain.ToolResultEvent:
		settleToolCall(msg, ev)

	case domain.ProgressEvent:
		s.progress = append(s.progress, ev.Content)
		msg.Content = strings.Join(s.progress, "\n")

	case domain.CodeDeltaEvent:
		msg.CodeDelta = &domain.CodeDelta{OldCode: ev.OldCode, NewCode: ev.NewCode}
		s.pendingCode = ev.NewCode
		s.hasPending = true

	case domain.TestResultEvent:
		result := ev.Result
		msg.TestResult = &result

	case domain.NeedsUserInputEvent:
		request := ev.Request
		msg.NeedsUserInput = &request

	case domain.FinalEvent:
		msg.Content = ev.Message
		if msg.Content == "" {
			msg.Content = strings.Join(s.progress, "\n")
		}
		switch {
		case ev.Code != "":
			s.code = ev.Code
		case s.hasPending:
			s.code = s.pendingCode
		}
		s.sealLocked(msg, domain.SessionFinalized)
		done = true

	case domain.ErrorEvent:
		msg.Content = "Error: " + ev.Content
		s.sealLocked(msg, domain.SessionErrored)
		done = true
	}

	update := driving.SessionUpdate{
		Message: snapshotMessage(*msg),
		State:   s.state,
		Code:    s.code,
		Done:    done,
	}
	s.mu.Unlock()

	s.emit(update)
}

// finish seals the turn when the stream closed without a terminal
// event. Whatever was accumulated stands as the message; the pending
// code replacement is not applied, only a final event confirms it.
func (s *chatSession) finish(turn int) {
	s.mu.Lock()
	if s.closed || turn != s.turn || s.state != domain.SessionStreaming {
		s.mu.Unlock()
		return
	}

	msg := &s.transcript[len(s.transcript)-1]
	if msg.Content == "" {
		msg.Content = strings.Join(s.progress, "\n")
	}
	s.sealLocked(msg, domain.SessionFinalized)

	update := driving.SessionUpdate{
		Message: snapshotMessage(*msg),
		State:   s.state,
		Code:    s.code,
		Done:    true,
	}
	s.mu.Unlock()

	s.emit(update)
}

// sealLocked ends the turn: the message stops streaming, the state
// moves to its terminal value and the result is persisted. Callers
// hold the lock.
func (s *chatSession) sealLocked(msg *domain.Message, state domain.SessionState) {
	msg.IsStreaming = false
	s.state = state
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.persist(snapshotMessage(*msg))
	s.touch()
}

// withMentionContext appends fetched entity bodies to the prompt. A
// fetch failure drops that entity's context and the turn proceeds.
func (s *chatSession) withMentionContext(ctx context.Context, prompt string, mentions []domain.Mention) string {
	if len(mentions) == 0 {
		return prompt
	}

	template, err := s.deps.prompts.Load(driven.PromptMentionContext)
	if err != nil {
		logger.Debug("Mention context template unavailable: %v", err)
		template = "%s:\n%s"
	}

	var blocks []string
	seen := make(map[string]bool)
	for _, mention := range mentions {
		if seen[mention.Entity.ID] {
			continue
		}
		seen[mention.Entity.ID] = true

		content, err := s.deps.fetcher.FetchContent(ctx, mention.Entity.Type, mention.Entity.ID)
		if err != nil {
			logger.Debug("Failed to fetch %s %s: %v", mention.Entity.Type, mention.Entity.ID, err)
			continue
		}
		blocks = append(blocks, fmt.Sprintf(template, mention.Entity.Name, content.Content))
	}
	if len(blocks) == 0 {
		return prompt
	}
	return prompt + "\n\n" + strings.Join(blocks, "\n\n")
}

// historyLocked maps the transcript to wire history entries, most
// recent historyLimit entries only. Callers hold the lock.
func (s *chatSession) historyLocked() []domain.HistoryEntry {
	var history []domain.HistoryEntry
	for _, msg := range s.transcript {
		if msg.Content == "" {
			continue
		}
		history = append(history, domain.HistoryEntry{Role: msg.Role, Content: msg.Content})
	}
	if limit := s.deps.historyLimit; limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history
}

// persist stores a message without blocking the reducer. Failure is
// logged, never surfaced; the conversation carries on.
func (s *chatSession) persist(message domain.Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.deps.messages.AppendMessage(ctx, message); err != nil {
			logger.Debug("Failed to persist message %s: %v", message.ID, err)
		}
	}()
}

// touch bumps the stored session's UpdatedAt without blocking.
func (s *chatSession) touch() {
	id := s.session.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.deps.sessions.TouchSession(ctx, id); err != nil {
			logger.Debug("Failed to touch session %s: %v", id, err)
		}
	}()
}

// rename stores the derived session title without blocking.
func (s *chatSession) rename(title string) {
	id := s.session.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.deps.sessions.RenameSession(ctx, id, title); err != nil {
			logger.Debug("Failed to rename session %s: %v", id, err)
		}
	}()
}

// emit hands a snapshot to the renderer. A full buffer evicts the
// oldest snapshot to make room: every snapshot carries the complete
// state, so a slow renderer loses staleness, never the turn-ending
// update.
func (s *chatSession) emit(update driving.SessionUpdate) {
	for {
		select {
		case s.updates <- update:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

// settleToolCall matches a result to the most recently started call
// with the same tool name. The wire carries no call ID, so matching is
// positional and newest-first; a result with no open call becomes its
// own terminal entry rather than being dropped.
func settleToolCall(msg *domain.Message, ev domain.ToolResultEvent) {
	status := domain.ToolCallFinished
	if ev.Failed {
		status = domain.ToolCallFailed
	}

	for i := len(msg.ToolCalls) - 1; i >= 0; i-- {
		call := &msg.ToolCalls[i]
		if call.Tool == ev.Tool && call.Status == domain.ToolCallStarted {
			call.Status = status
			call.Result = ev.Result
			call.Error = ev.Error
			return
		}
	}

	msg.ToolCalls = append(msg.ToolCalls, domain.ToolCall{
		Tool:   ev.Tool,
		Status: status,
		Result: ev.Result,
		Error:  ev.Error,
	})
}

// snapshotMessage copies the mutable parts of a message so renderers
// and stores never observe later reducer writes.
func snapshotMessage(msg domain.Message) domain.Message {
	if len(msg.ToolCalls) > 0 {
		msg.ToolCalls = append([]domain.ToolCall(nil), msg.ToolCalls...)
	}
	if msg.CodeDelta != nil {
		delta := *msg.CodeDelta
		msg.CodeDelta = &delta
	}
	if msg.TestResult != nil {
		result := *msg.TestResult
		msg.TestResult = &result
	}
	if msg.NeedsUserInput != nil {
		request := *msg.NeedsUserInput
		msg.NeedsUserInput = &request
	}
	return msg
}
