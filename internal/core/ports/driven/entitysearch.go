package driven

import (
	"context"

	"github.com/telar-labs/weave-cli/internal/core/domain"
)

// EntitySearcher finds boards and queries matching free text, backing
// @mention completion. Matching is the backend's concern; callers only
// rely on results being grouped by kind.
type EntitySearcher interface {
	// Search returns entities matching query. scopeID optionally
	// narrows query hits to one board; empty means unscoped.
	Search(ctx context.Context, query string, scopeID string) (domain.EntitySearchResult, error)
}

// ContentFetcher retrieves the body of a mentioned entity so its code
// can be appended to an outbound prompt as context.
type ContentFetcher interface {
	// FetchContent returns the entity body and optional description.
	FetchContent(ctx context.Context, entityType domain.MentionType, id string) (domain.EntityContent, error)
}
