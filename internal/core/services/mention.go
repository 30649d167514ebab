package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/telar-labs/weave-cli/internal/core/domain"
)

// mentionCandidateCap limits completion candidates per entity kind.
const mentionCandidateCap = 5

// mentionTokenRe matches @word tokens in submitted text. Entity names
// containing characters outside \w can be registered but never
// resolve; resolution is a plain word scan, not a parser.
var mentionTokenRe = regexp.MustCompile(`@(\w+)`)

// Complete evaluates inline completion for the input at cursor. A nil
// result means no trigger is open there.
func (s *chatSession) Complete(ctx context.Context, input string, cursor int) (*domain.Completion, error) {
	pos, kind, query, ok := scanTrigger(input, cursor)
	if !ok {
		return nil, nil
	}

	completion := &domain.Completion{Kind: kind, TriggerPos: pos, Query: query}

	if kind == domain.TriggerCommand {
		prefix := strings.ToLower(query)
		for _, command := range domain.AllSlashCommands() {
			if strings.HasPrefix(command.Name, prefix) {
				completion.Candidates = append(completion.Candidates, domain.Candidate{
					Kind:    domain.TriggerCommand,
					Command: command.Name,
					Detail:  command.Description,
				})
			}
		}
		return completion, nil
	}

	s.mu.Lock()
	scopeID := s.session.BoardID
	s.mu.Unlock()

	result, err := s.deps.searcher.Search(ctx, query, scopeID)
	if err != nil {
		return nil, fmt.Errorf("search entities: %w", err)
	}

	for _, ref := range capRefs(result.Boards) {
		completion.Candidates = append(completion.Candidates, mentionCandidate(domain.MentionBoard, ref))
	}
	for _, ref := range capRefs(result.Queries) {
		completion.Candidates = append(completion.Candidates, mentionCandidate(domain.MentionQuery, ref))
	}
	return completion, nil
}

// Accept splices the chosen candidate over the open trigger span and,
// for mentions, registers the entity under its display name. The last
// registration for a name wins.
func (s *chatSession) Accept(input string, cursor int, candidate domain.Candidate) (string, int) {
	pos, _, _, ok := scanTrigger(input, cursor)
	if !ok {
		return input, cursor
	}

	var token string
	if candidate.Kind == domain.TriggerCommand {
		token = "/" + candidate.Command + " "
	} else {
		token = "@" + candidate.Entity.Name
		s.mu.Lock()
		s.mentions[candidate.Entity.Name] = candidate.Entity
		s.mu.Unlock()
	}

	spliced := input[:pos] + token + input[cursor:]
	return spliced, pos + len(token)
}

// ResolveMentions extracts @word tokens from submitted text and
// resolves them against the session lookup table. Tokens with no
// registered entity are dropped without error; free-form @ usage must
// not break submission.
func (s *chatSession) ResolveMentions(text string) []domain.Mention {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveLocked(text)
}

// resolveLocked is ResolveMentions for callers already holding the
// lock.
func (s *chatSession) resolveLocked(text string) []domain.Mention {
	var mentions []domain.Mention
	for _, match := range mentionTokenRe.FindAllStringSubmatch(text, -1) {
		entity, ok := s.mentions[match[1]]
		if !ok {
			continue
		}
		mentions = append(mentions, domain.Mention{Entity: entity, Token: match[0]})
	}
	return mentions
}

// scanTrigger walks left from the cursor looking for the nearest open
// trigger. Whitespace between a trigger and the cursor closes it; a
// backslash-escaped trigger is skipped and the scan continues left.
// The nearest trigger to the cursor wins regardless of kind.
func scanTrigger(input string, cursor int) (pos int, kind domain.TriggerKind, query string, ok bool) {
	if cursor > len(input) {
		cursor = len(input)
	}
	if cursor < 0 {
		cursor = 0
	}

	for i := cursor - 1; i >= 0; i-- {
		switch input[i] {
		case ' ', '\t', '\n':
			return 0, "", "", false
		case '@', '/':
			if i > 0 && input[i-1] == '\\' {
				continue
			}
			kind = domain.TriggerMention
			if input[i] == '/' {
				kind = domain.TriggerCommand
			}
			return i, kind, input[i+1 : cursor], true
		}
	}
	return 0, "", "", false
}

// capRefs truncates a search result list to the per-kind candidate cap.
func capRefs(refs []domain.EntityRef) []domain.EntityRef {
	if len(refs) > mentionCandidateCap {
		return refs[:mentionCandidateCap]
	}
	return refs
}

// mentionCandidate shapes one search hit as a completion candidate.
func mentionCandidate(entityType domain.MentionType, ref domain.EntityRef) domain.Candidate {
	return domain.Candidate{
		Kind: domain.TriggerMention,
		Entity: domain.MentionEntity{
			Type: entityType,
			ID:   ref.ID,
			Name: ref.Name,
		},
	}
}
